package service

import (
	"sync"

	"github.com/google/uuid"
)

// PlayerLocks serializes mutating engine actions per player. Actions for
// different players never share a lock; two concurrent requests from the
// same player (double-submitted search, search racing an attack) are
// forced into sequence so read-modify-write loops cannot interleave.
type PlayerLocks struct {
	locks sync.Map // uuid.UUID -> *sync.Mutex
}

// NewPlayerLocks creates an empty lock registry.
func NewPlayerLocks() *PlayerLocks {
	return &PlayerLocks{}
}

// Lock acquires the player's mutex, creating it on first use. The
// returned function releases it.
func (p *PlayerLocks) Lock(userID uuid.UUID) func() {
	v, _ := p.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
