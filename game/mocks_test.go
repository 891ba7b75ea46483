package game

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Uni298/Outdraw/ai"
	"github.com/Uni298/Outdraw/catalog"
)

// --- Classifier ---

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Predict(ctx context.Context, req ai.Request) (ai.Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ai.Result), args.Error(1)
}

// --- Clock ---

// fakeClock drives timers deterministically. Advance moves time forward and
// fires due callbacks in schedule order, outside the clock's own lock so
// callbacks may schedule new timers.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	when    time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) TimerHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, when: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasLive := !t.stopped && !t.fired
	t.stopped = true
	return wasLive
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.when.After(target) {
				continue
			}
			if next == nil || t.when.Before(next.when) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		if next.when.After(c.now) {
			c.now = next.when
		}
		next.fired = true
		c.mu.Unlock()

		next.fn()
	}
}

// pendingTimers counts timers that are scheduled but neither stopped nor
// fired yet.
func (c *fakeClock) pendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// --- Fixtures ---

var testCategories = []string{
	"cat", "dog", "tree", "sun", "moon",
	"house", "car", "fish", "star", "boat",
	"apple", "chair",
}

type fixture struct {
	manager    *Manager
	clock      *fakeClock
	classifier *MockClassifier
	roomID     string
	hostID     string
	playerIDs  []string
}

// newFixture builds a manager over a fixed catalog with a fake clock, a
// seeded generator and the given players (the first one is the host).
func newFixture(t *testing.T, playerNames ...string) *fixture {
	t.Helper()
	require.NotEmpty(t, playerNames)

	cat, err := catalog.New(testCategories)
	require.NoError(t, err)

	clock := newFakeClock()
	classifier := &MockClassifier{}

	m := NewManager(cat, classifier,
		WithClock(clock),
		WithRand(rand.New(rand.NewSource(7))),
	)

	f := &fixture{
		manager:    m,
		clock:      clock,
		classifier: classifier,
	}

	for i, name := range playerNames {
		id := "player-" + name
		if i == 0 {
			f.roomID = m.CreateRoom(id, name)
			f.hostID = id
		} else {
			require.NoError(t, m.JoinRoom(f.roomID, id, name))
		}
		f.playerIDs = append(f.playerIDs, id)
	}
	return f
}

func (f *fixture) snapshot(t *testing.T) RoomState {
	t.Helper()
	state, err := f.manager.Snapshot(f.roomID)
	require.NoError(t, err)
	return state
}

func (f *fixture) drawerID(t *testing.T) string {
	t.Helper()
	drawer := f.snapshot(t).CurrentDrawer
	require.NotEmpty(t, drawer)
	return drawer
}

// guesserIDs returns every player except the current drawer.
func (f *fixture) guesserIDs(t *testing.T) []string {
	t.Helper()
	drawer := f.drawerID(t)
	var out []string
	for _, id := range f.playerIDs {
		if id != drawer {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// startRound drives the room from the lobby into the drawing phase with the
// first offered category selected.
func (f *fixture) startRound(t *testing.T) string {
	t.Helper()
	require.NoError(t, f.manager.StartGame(f.roomID, f.hostID))
	state := f.snapshot(t)
	require.Equal(t, PhaseCategorySelection, state.GameState)
	require.NotEmpty(t, state.CategoryChoices)

	category := state.CategoryChoices[0]
	require.NoError(t, f.manager.SelectCategory(f.roomID, state.CurrentDrawer, category))
	return category
}

func aiResult(names ...string) ai.Result {
	preds := make([]ai.Prediction, len(names))
	for i, name := range names {
		preds[i] = ai.Prediction{
			Rank:        i + 1,
			Name:        name,
			Score:       10 - float64(i),
			Probability: 0.5 / float64(len(names)),
		}
	}
	return ai.Result{
		Predictions: preds,
		Confidence:  ai.Confidence{BestScore: 10, RelativeGap: 1, Percent: 72.5, IsConfident: true},
	}
}
