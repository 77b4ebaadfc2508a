package service

import "time"

// Clock abstracts "now" so SLA timing is deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the wall-clock implementation.
func SystemClock() Clock { return systemClock{} }
