package usecase

import "sync"

// keyedMutex serializes local store + ledger mutations per entity id. Two
// writes racing on the same id still resolve last-writer-wins, but each
// store+ledger pair mutates atomically with respect to the other writer.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*keyedLockEntry
}

type keyedLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[int64]*keyedLockEntry)}
}

// Lock acquires the mutex for id, creating it on first use.
func (k *keyedMutex) Lock(id int64) {
	k.mu.Lock()
	entry, ok := k.locks[id]
	if !ok {
		entry = &keyedLockEntry{}
		k.locks[id] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
}

// Unlock releases the mutex for id and frees it once no one is waiting.
func (k *keyedMutex) Unlock(id int64) {
	k.mu.Lock()
	entry := k.locks[id]
	entry.refs--
	if entry.refs == 0 {
		delete(k.locks, id)
	}
	k.mu.Unlock()

	entry.mu.Unlock()
}
