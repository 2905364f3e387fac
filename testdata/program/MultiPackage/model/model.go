package model

import "time"

//clonegen:derive
type Event struct {
	At    time.Time
	Every time.Duration
	Tags  []string
}

//clonegen:derive
type Box[T any] struct{ V T }
