package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResultStore_TakeOnce(t *testing.T) {
	rs := newResultStore(time.Minute)

	id := rs.put("✅ a.csv: 1 records uploaded to table \"a\"")
	text, ok := rs.take(id)
	assert.True(t, ok)
	assert.Equal(t, "✅ a.csv: 1 records uploaded to table \"a\"", text)

	_, ok = rs.take(id)
	assert.False(t, ok)

	_, ok = rs.take("unknown")
	assert.False(t, ok)
}

func TestResultStore_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rs := newResultStore(time.Minute)
	rs.now = func() time.Time { return now }

	stale := rs.put("old")
	kept := rs.put("kept")

	now = now.Add(2 * time.Minute)
	_, ok := rs.take(stale)
	assert.False(t, ok, "expired results are not returned")

	// put sweeps the remaining expired entry.
	fresh := rs.put("new")
	assert.Equal(t, 1, rs.size())
	_, ok = rs.take(kept)
	assert.False(t, ok)

	text, ok := rs.take(fresh)
	assert.True(t, ok)
	assert.Equal(t, "new", text)
}
