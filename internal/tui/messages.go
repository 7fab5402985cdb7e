package tui

import "time"

// frameMsg is one display refresh; its timestamp drives the playback clock.
type frameMsg time.Time

// savedMsg reports the outcome of an asynchronous save.
type savedMsg struct {
	err error
}

// ErrorMsg signals a fatal error; the editor should quit.
type ErrorMsg struct {
	Err error
}
