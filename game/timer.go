package game

import "time"

// Timer and pause/resume subsystem. A room has at most one live timer.
// Every schedule bumps the generation counter; a fire whose generation or
// expected phase no longer matches the room is a stale trigger and must be
// a silent no-op, since Stop cannot prevent a callback already in flight.

// scheduleTimer cancels any pending timer and schedules the end-of-phase
// callback. Requires the room lock.
func (m *Manager) scheduleTimer(r *Room, phase Phase, d time.Duration) {
	cancelTimer(r)
	r.timerGen++
	gen := r.timerGen
	roomID := r.id
	r.timer = m.clock.AfterFunc(d, func() {
		m.handlePhaseTimeout(roomID, phase, gen)
	})
}

func cancelTimer(r *Room) {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// handlePhaseTimeout re-fetches the room by id and re-validates state at
// fire time; it never trusts closure-captured state beyond the identifiers.
func (m *Manager) handlePhaseTimeout(roomID string, expected Phase, gen uint64) {
	r, err := m.room(roomID)
	if err != nil {
		return
	}

	r.mu.Lock()
	if r.timerGen != gen || r.phase != expected || r.paused {
		// Raced with an early trigger, a newer timer, or a pause. Expected
		// under concurrent triggers, so not an error.
		r.mu.Unlock()
		m.log.Debug().Str("room", roomID).Str("expected", string(expected)).Msg("stale timer fire ignored")
		return
	}

	switch expected {
	case PhaseDrawing:
		m.endDrawingLocked(r)
	case PhaseGuessing:
		m.endGuessingLocked(r)
	}
	r.mu.Unlock()

	m.notify(roomID)
}

// phaseDuration returns the configured duration of the current phase, or 0
// for phases without a clock.
func phaseDuration(r *Room) time.Duration {
	switch r.phase {
	case PhaseDrawing:
		return time.Duration(r.settings.DrawingTimeSeconds) * time.Second
	case PhaseGuessing:
		return time.Duration(r.settings.GuessingTimeSeconds) * time.Second
	default:
		return 0
	}
}

// remainingLocked answers "how long until the phase ends" for snapshots.
func (m *Manager) remainingLocked(r *Room) time.Duration {
	if r.paused {
		return r.remaining
	}
	d := phaseDuration(r)
	if d == 0 {
		return 0
	}
	left := d - m.clock.Now().Sub(r.phaseStart)
	if left < 0 {
		return 0
	}
	return left
}

// Pause captures the remaining time of the active timed phase and cancels
// the live timer. No phase transition occurs.
func (m *Manager) Pause(roomID, playerID string) error {
	return m.withRoom(roomID, func(r *Room) error {
		if r.hostID != playerID {
			return ErrNotHost
		}
		if r.paused {
			return ErrAlreadyPaused
		}
		if phaseDuration(r) == 0 {
			return ErrWrongPhase
		}

		r.remaining = m.remainingLocked(r)
		cancelTimer(r)
		r.paused = true

		m.log.Info().
			Str("room", roomID).
			Dur("remaining", r.remaining).
			Msg("game paused")
		return nil
	})
}

// Resume rewrites the phase-start instant so elapsed time immediately
// equals duration minus the captured remainder; every other remaining-time
// computation then stays consistent with no paused special case. If no time
// is left, the end-of-phase transition fires right away.
func (m *Manager) Resume(roomID, playerID string) error {
	return m.withRoom(roomID, func(r *Room) error {
		if r.hostID != playerID {
			return ErrNotHost
		}
		if !r.paused {
			return ErrNotPaused
		}

		r.paused = false
		d := phaseDuration(r)
		r.phaseStart = m.clock.Now().Add(-(d - r.remaining))

		if r.remaining <= 0 {
			switch r.phase {
			case PhaseDrawing:
				m.endDrawingLocked(r)
			case PhaseGuessing:
				m.endGuessingLocked(r)
			}
			r.remaining = 0
			return nil
		}

		m.scheduleTimer(r, r.phase, r.remaining)
		r.remaining = 0
		m.log.Info().Str("room", roomID).Msg("game resumed")
		return nil
	})
}
