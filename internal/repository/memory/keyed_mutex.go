package memory

import "sync"

// keyLock is one per-key mutex plus a reference count so the entry can be
// dropped once nobody holds or waits on it.
type keyLock struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex serializes work per string key. The conversation service locks
// the user identity for the whole inbound turn, so a user's messages are
// processed one at a time even when the transport delivers them
// concurrently or out of order.
//
// Unlike a plain map of mutexes, entries are reference counted and removed
// when idle, so the map does not grow with every identity ever seen.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*keyLock),
	}
}

// Lock blocks until the key is exclusively held by the caller.
func (km *KeyedMutex) Lock(key string) {
	km.mu.Lock()
	entry, exists := km.locks[key]
	if !exists {
		entry = &keyLock{}
		km.locks[key] = entry
	}
	entry.refs++
	km.mu.Unlock()

	entry.mu.Lock()
}

// Unlock releases the key. It must pair with a prior Lock on the same key.
func (km *KeyedMutex) Unlock(key string) {
	km.mu.Lock()
	entry, exists := km.locks[key]
	if exists {
		entry.refs--
		if entry.refs == 0 {
			delete(km.locks, key)
		}
	}
	km.mu.Unlock()

	if exists {
		entry.mu.Unlock()
	}
}
