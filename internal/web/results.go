package web

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// resultTTL bounds how long a batch summary waits for the redirect that
// displays it.
const resultTTL = 10 * time.Minute

// resultStore holds batch summaries between the POST that produces them and
// the page that shows them. A summary of many files can exceed the 4KB a
// browser keeps per cookie, so the session only carries its id.
type resultStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]storedResult
	now     func() time.Time
}

type storedResult struct {
	text    string
	expires time.Time
}

func newResultStore(ttl time.Duration) *resultStore {
	return &resultStore{
		ttl:     ttl,
		entries: make(map[string]storedResult),
		now:     time.Now,
	}
}

// put stores text and returns the id to fetch it with. Expired entries are
// dropped on the way.
func (rs *resultStore) put(text string) string {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	now := rs.now()
	for id, e := range rs.entries {
		if now.After(e.expires) {
			delete(rs.entries, id)
		}
	}

	id := uuid.NewString()
	rs.entries[id] = storedResult{text: text, expires: now.Add(rs.ttl)}
	return id
}

// take removes and returns the text stored under id.
func (rs *resultStore) take(id string) (string, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	e, ok := rs.entries[id]
	if !ok {
		return "", false
	}
	delete(rs.entries, id)
	if rs.now().After(e.expires) {
		return "", false
	}
	return e.text, true
}

func (rs *resultStore) size() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.entries)
}
