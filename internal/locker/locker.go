// Package locker provides per-key mutual exclusion. The upload lifecycle
// uses it to serialize record read-modify-write sequences per video.
package locker

import "sync"

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex hands out one mutex per key. Idle mutexes are dropped from the
// map once the last holder releases them.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*keyLock
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[int64]*keyLock),
	}
}

// Lock blocks until the mutex for key is held and returns the release
// function. The caller must invoke it exactly once.
func (k *KeyedMutex) Lock(key int64) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
