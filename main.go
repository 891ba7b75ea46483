package main

import (
	"context"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Uni298/Outdraw/ai"
	"github.com/Uni298/Outdraw/catalog"
	"github.com/Uni298/Outdraw/config"
	"github.com/Uni298/Outdraw/game"
	"github.com/Uni298/Outdraw/storage"
	"github.com/Uni298/Outdraw/ws"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.PostgresURL != "" {
		repo, err := storage.NewPostgresRepo(context.Background(), cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		defer repo.Close()

		names, err := repo.LoadCategories(context.Background())
		if err != nil {
			return nil, err
		}
		return catalog.New(names)
	}
	return catalog.LoadFile(cfg.CategoriesFile)
}

func main() {
	godotenv.Load()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Both the catalog and the classifier are hard dependencies of every
	// room's judging: refuse to start without them.
	cat, err := loadCatalog(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load category catalog")
	}
	log.Info().Int("categories", cat.Len()).Msg("catalog loaded")

	classifier := ai.NewHTTPClient(cfg.ClassifierURL, cfg.ClassifierTimeout, log.Logger)
	if err := classifier.Healthcheck(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("classifier unavailable")
	}
	log.Info().Str("url", cfg.ClassifierURL).Msg("classifier ready")

	manager := game.NewManager(cat, classifier,
		game.WithClassifierTimeout(cfg.ClassifierTimeout),
		game.WithLogger(log.Logger),
	)

	hub := ws.NewHub(manager, log.Logger)
	manager.SetOnChange(hub.BroadcastState)

	checkOrigin := func(req *http.Request) bool {
		origin := req.Header.Get("Origin")
		return origin == "" || slices.Contains(cfg.AllowedOrigins, origin)
	}
	wsHandler := ws.NewHandler(hub, manager, checkOrigin, log.Logger)

	r := CreateServer(cfg.AllowedOrigins)
	r.GET("/ws", wsHandler.ServeWS)

	log.Info().Str("addr", cfg.Addr).Msg("server listening")
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
