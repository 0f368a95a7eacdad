package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates predictable build IDs: "build-0001", "build-0002", ...
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu  sync.Mutex
	seq int
}

// Generate returns the next ID.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("build-%04d", g.seq)
}

// Reset restarts the sequence. The next call to Generate returns "build-0001".
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
