package tmpl

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"
)

// cacheLimit bounds the number of parsed templates kept by one extractor.
// The cache is emptied when the limit is reached.
const cacheLimit = 1024

// cache stores parse results keyed by registry fingerprint, options, template
// name and source.
type cache struct {
	entries sync.Map
	size    atomic.Int64
}

type cacheEntry struct {
	once sync.Once
	tmpl *Template
	err  error
}

func newCache() *cache { return &cache{} }

func cacheKey(fingerprint uint64, associated bool, name, source string) uint64 {
	return fingerprint ^ xxh3.HashString(
		strconv.FormatBool(associated)+"\x00"+name+"\x00"+source,
	)
}

// load returns the cached result for key, computing it with parse on the
// first request. Concurrent requests for the same key share one parse.
func (c *cache) load(
	key uint64,
	parse func() (*Template, error),
) (*Template, bool, error) {
	entry := new(cacheEntry)

	value, hit := c.entries.LoadOrStore(key, entry)
	if !hit && c.size.Add(1) > cacheLimit {
		c.entries.Clear()
		c.size.Store(0)
	}

	//nolint:forcetypeassert
	entry = value.(*cacheEntry)
	entry.once.Do(func() { entry.tmpl, entry.err = parse() })

	return entry.tmpl, hit, entry.err
}

// count returns the number of cached entries.
func (c *cache) count() int {
	n := 0

	c.entries.Range(func(any, any) bool {
		n++

		return true
	})

	return n
}
