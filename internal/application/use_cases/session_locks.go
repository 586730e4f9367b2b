package use_cases

import (
	"hash/fnv"
	"sync"
)

const sessionLockStripes = 64

// sessionLocks serializes use case operations per session. Guarded
// transitions and the submission re-entrancy flag assume one operation
// touches a session at a time; the HTTP server gives no such
// guarantee, so the use cases take a striped lock keyed by session id.
type sessionLocks struct {
	stripes [sessionLockStripes]sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{}
}

func (l *sessionLocks) lock(key string) func() {
	h := fnv.New32a()
	h.Write([]byte(key))
	stripe := &l.stripes[h.Sum32()%sessionLockStripes]
	stripe.Lock()
	return stripe.Unlock
}
