package service

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPlayerLocksSerializeSameUser(t *testing.T) {
	locks := NewPlayerLocks()
	userID := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(userID)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestPlayerLocksIndependentPerUser(t *testing.T) {
	locks := NewPlayerLocks()
	first := locks.Lock(uuid.New())
	defer first()

	// A different player's lock is acquirable while the first is held.
	done := make(chan struct{})
	go func() {
		unlock := locks.Lock(uuid.New())
		unlock()
		close(done)
	}()
	<-done
}
