package locks

import "sync"

// KeyedMutex provides mutual exclusion scoped to a string key.
//
// The delivery service uses it to serialize validate-then-persist sequences
// per (vehicle, date): without it, two concurrent creations could both read
// a capacity-safe snapshot and jointly exceed the vehicle limit.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock blocks until the key is free and returns the matching unlock func.
// Locks for distinct keys are independent.
func (k *KeyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
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
