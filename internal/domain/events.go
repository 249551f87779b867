package domain

import "time"

// EventEntry is one line of the session's bounded, append-only log.
type EventEntry struct {
	At   time.Time
	Text string
}
