package game

import "errors"

// Domain rejections. Reported to the requesting actor and never mutate
// room state.
var (
	ErrRoomNotFound      = errors.New("room-not-found")
	ErrRoomFull          = errors.New("room-full")
	ErrPlayerNotFound    = errors.New("player-not-found")
	ErrNotHost           = errors.New("not-host")
	ErrNotDrawer         = errors.New("not-drawer")
	ErrWrongPhase        = errors.New("wrong-phase")
	ErrDrawerCannotGuess = errors.New("drawer-cannot-guess")
	ErrClearDisabled     = errors.New("clear-canvas-disabled")
	ErrUnknownCategory   = errors.New("unknown-category")
	ErrAlreadyPaused     = errors.New("already-paused")
	ErrNotPaused         = errors.New("not-paused")
)
