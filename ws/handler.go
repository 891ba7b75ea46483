package ws

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Uni298/Outdraw/game"
)

var errRateLimited = errors.New("rate-limited")

// Handler upgrades connections and translates JSON action frames into
// manager operations.
type Handler struct {
	hub      *Hub
	manager  *game.Manager
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewHandler(hub *Hub, manager *game.Manager, checkOrigin func(*http.Request) bool, log zerolog.Logger) *Handler {
	return &Handler{
		hub:     hub,
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
		log: log,
	}
}

func (h *Handler) ServeWS(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	c := newClient(uuid.NewString(), conn)
	h.log.Info().Str("player", c.playerID).Msg("client connected")

	go c.writePump()
	h.readPump(c)
}

func (h *Handler) readPump(c *client) {
	defer func() {
		h.disconnect(c)
		c.conn.Close()
		close(c.send)
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		if !c.limiter.Allow() {
			c.trySend(errorEvent(errRateLimited))
			continue
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.trySend(errorEvent(errors.New("invalid-frame")))
			continue
		}

		if err := h.dispatch(c, env); err != nil {
			c.trySend(errorEvent(err))
		}
	}
}

// disconnect performs the implicit leave when the socket drops.
func (h *Handler) disconnect(c *client) {
	h.log.Info().Str("player", c.playerID).Msg("client disconnected")
	roomID, ok := h.manager.RoomIDByPlayer(c.playerID)
	if !ok {
		return
	}
	h.hub.unregister(c)
	if err := h.manager.LeaveRoom(roomID, c.playerID); err == nil {
		h.hub.BroadcastState(roomID)
	}
}

// dispatch maps one inbound frame to a manager operation. Domain rejections
// come back as errors and reach only the requesting client; successful
// mutations are followed by a room-wide snapshot broadcast.
func (h *Handler) dispatch(c *client, env Envelope) error {
	switch env.Type {
	case "create-room":
		var d createRoomData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return err
		}
		roomID := h.manager.CreateRoom(c.playerID, d.PlayerName)
		h.hub.register(roomID, c)
		c.trySend(event("room-created", map[string]string{"roomId": roomID, "playerId": c.playerID}))

	case "join-room":
		var d joinRoomData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return err
		}
		if err := h.manager.JoinRoom(d.RoomID, c.playerID, d.PlayerName); err != nil {
			return err
		}
		h.hub.register(d.RoomID, c)
		c.trySend(event("room-joined", map[string]string{"roomId": d.RoomID, "playerId": c.playerID}))

	case "leave-room":
		roomID := c.roomID
		h.hub.unregister(c)
		if err := h.manager.LeaveRoom(roomID, c.playerID); err != nil {
			return err
		}
		h.hub.BroadcastState(roomID)
		return nil

	case "update-settings":
		var patch game.SettingsPatch
		if err := json.Unmarshal(env.Data, &patch); err != nil {
			return err
		}
		if err := h.manager.UpdateSettings(c.roomID, c.playerID, patch); err != nil {
			return err
		}

	case "start-game":
		if err := h.manager.StartGame(c.roomID, c.playerID); err != nil {
			return err
		}

	case "select-category":
		var d selectCategoryData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return err
		}
		if err := h.manager.SelectCategory(c.roomID, c.playerID, d.Category); err != nil {
			return err
		}

	case "add-stroke":
		var d strokeData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return err
		}
		if err := h.manager.AddStroke(c.roomID, c.playerID, d.Stroke); err != nil {
			return err
		}
		h.hub.broadcast(c.roomID, event("stroke-added", d))
		return nil // strokes are high frequency, skip the full snapshot

	case "clear-canvas":
		if err := h.manager.ClearDrawing(c.roomID, c.playerID); err != nil {
			return err
		}
		h.hub.broadcast(c.roomID, event("canvas-cleared", nil))

	case "end-drawing":
		if err := h.manager.EndDrawing(c.roomID, c.playerID); err != nil {
			return err
		}

	case "submit-guess":
		var d guessData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return err
		}
		if err := h.manager.SubmitGuess(c.roomID, c.playerID, d.Guess); err != nil {
			return err
		}
		h.hub.broadcast(c.roomID, event("player-guessed", map[string]string{"playerId": c.playerID}))

	case "next-round":
		if err := h.manager.NextRound(c.roomID, c.playerID); err != nil {
			return err
		}

	case "pause-game":
		if err := h.manager.Pause(c.roomID, c.playerID); err != nil {
			return err
		}

	case "resume-game":
		if err := h.manager.Resume(c.roomID, c.playerID); err != nil {
			return err
		}

	case "abort-game":
		if err := h.manager.Abort(c.roomID, c.playerID); err != nil {
			return err
		}

	case "return-to-lobby":
		if err := h.manager.ReturnToLobby(c.roomID, c.playerID); err != nil {
			return err
		}

	case "end-game":
		if err := h.manager.EndGame(c.roomID, c.playerID); err != nil {
			return err
		}

	case "chat-message":
		// Broadcast-only; chat never touches round state.
		var d chatData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return err
		}
		h.hub.broadcast(c.roomID, event("chat-message", map[string]string{
			"playerId": c.playerID,
			"message":  d.Message,
		}))
		return nil

	case "reaction":
		var d reactionData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return err
		}
		h.hub.broadcast(c.roomID, event("reaction", map[string]string{
			"playerId": c.playerID,
			"emoji":    d.Emoji,
		}))
		return nil

	default:
		return errors.New("unknown-message-type")
	}

	h.hub.BroadcastState(c.roomID)
	return nil
}
