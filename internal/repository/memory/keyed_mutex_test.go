package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	const turns = 200

	km := NewKeyedMutex()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("user-a")
			defer km.Unlock("user-a")
			// Unsynchronized read-modify-write: only safe if the keyed
			// mutex actually provides mutual exclusion.
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, turns, counter)
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := NewKeyedMutex()

	km.Lock("user-a")

	// A different key must not block behind user-a's turn.
	done := make(chan struct{})
	go func() {
		km.Lock("user-b")
		km.Unlock("user-b")
		close(done)
	}()

	<-done
	km.Unlock("user-a")
}

func TestKeyedMutex_EntriesReleasedWhenIdle(t *testing.T) {
	km := NewKeyedMutex()

	km.Lock("user-a")
	km.Unlock("user-a")

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.locks)
}

func TestSessionStore_GetOrCreate(t *testing.T) {
	store := NewSessionStore()

	first, err := store.GetOrCreate(context.Background(), "user-a", "+91-111")
	assert.NoError(t, err)

	again, err := store.GetOrCreate(context.Background(), "user-a", "")
	assert.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, "+91-111", again.Contact)
	assert.Equal(t, 1, store.Count(context.Background()))

	other, err := store.GetOrCreate(context.Background(), "user-b", "+91-222")
	assert.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, store.Count(context.Background()))
}
