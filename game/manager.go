package game

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Uni298/Outdraw/catalog"
)

const defaultClassifierTimeout = 15 * time.Second

// Manager owns the room registry and serializes every operation against a
// room's state. It is the only writer of room data: player actions and
// timer fires both go through it.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	catalog           *catalog.Catalog
	classifier        Classifier
	clock             Clock
	rng               Rand
	classifierTimeout time.Duration
	log               zerolog.Logger

	// onChange is invoked (outside any lock) after a mutation the caller
	// did not trigger directly, i.e. timer-driven transitions, so the
	// transport can push fresh snapshots.
	onChange func(roomID string)
}

type Option func(*Manager)

func WithClock(c Clock) Option {
	return func(m *Manager) { m.clock = c }
}

func WithRand(r Rand) Option {
	return func(m *Manager) { m.rng = r }
}

func WithClassifierTimeout(d time.Duration) Option {
	return func(m *Manager) { m.classifierTimeout = d }
}

func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

func NewManager(cat *catalog.Catalog, classifier Classifier, opts ...Option) *Manager {
	m := &Manager{
		rooms:             make(map[string]*Room),
		catalog:           cat,
		classifier:        classifier,
		clock:             NewClock(),
		rng:               newLockedRand(rand.NewSource(time.Now().UnixNano())),
		classifierTimeout: defaultClassifierTimeout,
		log:               zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) SetOnChange(fn func(roomID string)) {
	m.onChange = fn
}

func (m *Manager) notify(roomID string) {
	if m.onChange != nil {
		m.onChange(roomID)
	}
}

// lockedRand makes a *rand.Rand safe for use from concurrently processed
// rooms.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newLockedRand(src rand.Source) *lockedRand {
	return &lockedRand{r: rand.New(src)}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

// newRoomCode derives a short opaque code from a UUID, uppercased for easy
// sharing. Caller must hold m.mu and re-check for collisions.
func newRoomCode() string {
	return strings.ToUpper(uuid.NewString()[:6])
}

// CreateRoom registers a new room with the creator as sole player and host,
// and returns the room code.
func (m *Manager) CreateRoom(playerID, playerName string) string {
	host := &Player{ID: playerID, Name: playerName, IsHost: true}

	room := &Room{
		hostID:   playerID,
		players:  []*Player{host},
		settings: DefaultSettings(),
		phase:    PhaseLobby,
		guesses:  make(map[string]string),
	}

	m.mu.Lock()
	code := newRoomCode()
	for _, taken := m.rooms[code]; taken; _, taken = m.rooms[code] {
		code = newRoomCode()
	}
	room.id = code
	m.rooms[code] = room
	m.mu.Unlock()

	m.log.Info().Str("room", code).Str("host", playerName).Msg("room created")
	return code
}

func (m *Manager) room(roomID string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// withRoom runs fn with the room's lock held. fn must not block on other
// rooms or the registry.
func (m *Manager) withRoom(roomID string, fn func(r *Room) error) error {
	r, err := m.room(roomID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r)
}

// JoinRoom adds a player. Mid-game joins are allowed; the newcomer is a
// full participant immediately and counts toward the everyone-has-guessed
// check.
func (m *Manager) JoinRoom(roomID, playerID, playerName string) error {
	return m.withRoom(roomID, func(r *Room) error {
		if len(r.players) >= r.settings.MaxPlayers {
			return ErrRoomFull
		}
		r.players = append(r.players, &Player{ID: playerID, Name: playerName})
		m.log.Info().Str("room", roomID).Str("player", playerName).Msg("player joined")
		return nil
	})
}

// LeaveRoom removes a player, reassigning the host role if needed and
// destroying the room once empty. A departing drawer mid-round forces the
// drawing phase to end so the room is never stuck waiting on them.
func (m *Manager) LeaveRoom(roomID, playerID string) error {
	r, err := m.room(roomID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if !r.removePlayer(playerID) {
		r.mu.Unlock()
		return ErrPlayerNotFound
	}

	if len(r.players) == 0 {
		cancelTimer(r)
		r.mu.Unlock()
		m.mu.Lock()
		delete(m.rooms, roomID)
		m.mu.Unlock()
		m.log.Info().Str("room", roomID).Msg("room deleted (empty)")
		return nil
	}

	if r.hostID == playerID {
		next := r.players[0]
		next.IsHost = true
		r.hostID = next.ID
		m.log.Info().Str("room", roomID).Str("host", next.Name).Msg("host reassigned")
	}

	if r.currentDrawer == playerID &&
		(r.phase == PhaseDrawing || r.phase == PhaseCategorySelection) {
		m.log.Info().Str("room", roomID).Msg("drawer left, ending phase early")
		m.endDrawingLocked(r)
	}
	r.mu.Unlock()
	return nil
}

// RoomIDByPlayer resolves the room a connection belongs to, for implicit
// leave on disconnect. Rooms are locked one at a time outside the registry
// lock to keep the lock order consistent with LeaveRoom.
func (m *Manager) RoomIDByPlayer(playerID string) (string, bool) {
	m.mu.RLock()
	rooms := make(map[string]*Room, len(m.rooms))
	for id, r := range m.rooms {
		rooms[id] = r
	}
	m.mu.RUnlock()

	for id, r := range rooms {
		r.mu.Lock()
		found := r.player(playerID) != nil
		r.mu.Unlock()
		if found {
			return id, true
		}
	}
	return "", false
}

func (m *Manager) UpdateSettings(roomID, playerID string, patch SettingsPatch) error {
	return m.withRoom(roomID, func(r *Room) error {
		if r.hostID != playerID {
			return ErrNotHost
		}
		r.settings.apply(patch, m.catalog.Len())
		return nil
	})
}

func (m *Manager) StartGame(roomID, playerID string) error {
	return m.withRoom(roomID, func(r *Room) error {
		if r.hostID != playerID {
			return ErrNotHost
		}
		if r.phase != PhaseLobby {
			return ErrWrongPhase
		}
		m.startGameLocked(r)
		return nil
	})
}

func (m *Manager) SelectCategory(roomID, playerID, category string) error {
	return m.withRoom(roomID, func(r *Room) error {
		if r.phase != PhaseCategorySelection {
			return ErrWrongPhase
		}
		if r.currentDrawer != playerID {
			return ErrNotDrawer
		}
		return m.selectCategoryLocked(r, category)
	})
}

func (m *Manager) AddStroke(roomID, playerID string, stroke Stroke) error {
	return m.withRoom(roomID, func(r *Room) error {
		if r.phase != PhaseDrawing {
			return ErrWrongPhase
		}
		if r.currentDrawer != playerID {
			return ErrNotDrawer
		}
		r.currentDrawing = append(r.currentDrawing, stroke)
		return nil
	})
}

func (m *Manager) ClearDrawing(roomID, playerID string) error {
	return m.withRoom(roomID, func(r *Room) error {
		if !r.settings.AllowClearCanvas {
			return ErrClearDisabled
		}
		if r.currentDrawer != playerID {
			return ErrNotDrawer
		}
		r.currentDrawing = nil
		return nil
	})
}

func (m *Manager) EndDrawing(roomID, playerID string) error {
	return m.withRoom(roomID, func(r *Room) error {
		if r.phase != PhaseDrawing {
			return ErrWrongPhase
		}
		if r.currentDrawer != playerID {
			return ErrNotDrawer
		}
		m.endDrawingLocked(r)
		return nil
	})
}

// SubmitGuess records a normalized guess, overwriting any earlier one from
// the same player. Once every eligible player has guessed, the guessing
// phase ends immediately instead of waiting for the timer.
func (m *Manager) SubmitGuess(roomID, playerID, text string) error {
	return m.withRoom(roomID, func(r *Room) error {
		if r.phase != PhaseGuessing {
			return ErrWrongPhase
		}
		if playerID == r.currentDrawer {
			return ErrDrawerCannotGuess
		}
		if r.player(playerID) == nil {
			return ErrPlayerNotFound
		}

		r.guesses[playerID] = normalizeGuess(text)

		if len(r.guesses) >= len(r.players)-1 {
			m.log.Debug().Str("room", roomID).Msg("all players guessed, ending round early")
			m.endGuessingLocked(r)
		}
		return nil
	})
}

func (m *Manager) NextRound(roomID, playerID string) error {
	return m.withRoom(roomID, func(r *Room) error {
		if r.hostID != playerID {
			return ErrNotHost
		}
		if r.phase != PhaseResults {
			return ErrWrongPhase
		}
		m.nextRoundLocked(r)
		return nil
	})
}

// Abort cancels the running game and returns the room to the lobby,
// preserving scores.
func (m *Manager) Abort(roomID, playerID string) error {
	return m.withRoom(roomID, func(r *Room) error {
		if r.hostID != playerID {
			return ErrNotHost
		}
		m.resetToLobbyLocked(r, false)
		return nil
	})
}

// ReturnToLobby behaves like Abort; it exists as a separate inbound action.
func (m *Manager) ReturnToLobby(roomID, playerID string) error {
	return m.Abort(roomID, playerID)
}

// EndGame returns the room to the lobby and additionally zeroes every
// player's score and the AI score.
func (m *Manager) EndGame(roomID, playerID string) error {
	return m.withRoom(roomID, func(r *Room) error {
		if r.hostID != playerID {
			return ErrNotHost
		}
		m.resetToLobbyLocked(r, true)
		return nil
	})
}
