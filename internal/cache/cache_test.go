package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vitidata/internal/models"
)

func result(n int) models.AcquisitionResult {
	data := make([]models.Record, n)
	for i := range data {
		data[i] = models.Record{"Produto": "Tinto"}
	}

	return models.AcquisitionResult{Data: data, Source: models.SourceWebScraping}
}

func TestKeyIsDeterministic(t *testing.T) {
	c := New(60, "vitidata")

	assert.Equal(t, "vitidata:imports:wine:2020", c.Key("imports", "wine", 2020))
	assert.Equal(t, c.Key("imports", "wine", 2020), c.Key("imports", "wine", 2020))
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache

	assert.NotEmpty(t, c.Key("production", "", 0))

	_, ok := c.Get("anything")
	assert.False(t, ok)

	c.Set("anything", result(1), 0)
	assert.Equal(t, 0, c.InvalidateTag("production"))
	assert.Equal(t, Stats{}, c.GetStats())
}

func TestSetAndGet(t *testing.T) {
	c := New(60, "vitidata")
	key := c.Key("production", "wine", 2020)

	c.Set(key, result(3), 0, "production")

	got, ok := c.Get(key)
	assert.True(t, ok)
	assert.Len(t, got.Data, 3)
}

func TestExpiry(t *testing.T) {
	c := New(60, "vitidata")
	key := c.Key("production", "", 0)

	c.Set(key, result(1), time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestInvalidateTag(t *testing.T) {
	c := New(60, "vitidata")

	c.Set(c.Key("production", "", 0), result(1), 0, "production", "acquisition")
	c.Set(c.Key("production", "wine", 2020), result(1), 0, "production", "acquisition")
	c.Set(c.Key("imports", "", 0), result(1), 0, "imports", "acquisition")

	assert.Equal(t, 2, c.InvalidateTag("production"))

	_, ok := c.Get(c.Key("imports", "", 0))
	assert.True(t, ok)

	assert.Equal(t, 1, c.InvalidateTag("acquisition"))
}

func TestInvalidatePrefix(t *testing.T) {
	c := New(60, "vitidata")

	c.Set(c.Key("production", "", 0), result(1), 0)
	c.Set(c.Key("production", "wine", 2020), result(1), 0)
	c.Set(c.Key("exports", "", 0), result(1), 0)

	assert.Equal(t, 2, c.InvalidatePrefix("vitidata:production"))
	assert.Equal(t, 1, c.GetStats().Entries)
}

func TestStatsCounters(t *testing.T) {
	c := New(60, "vitidata")
	key := c.Key("production", "", 0)

	_, _ = c.Get(key) // miss
	c.Set(key, result(1), 0)
	_, _ = c.Get(key) // hit

	stats := c.GetStats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}
