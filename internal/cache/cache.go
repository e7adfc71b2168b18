// Package cache implements the tiered read path used for listing and
// seller-profile fetches: bounded memory, then a persisted file store,
// then the loader. Stale entries are never deleted on expiry; they are
// the fallback when the loader fails.
package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	applog "github.com/markodapap-sketch/odapap-sub001/internal/log"
)

type Entry struct {
	Data      []byte `json:"data"`
	Timestamp int64  `json:"timestamp"` // epoch millis
}

func (e Entry) Fresh(ttl time.Duration, now time.Time) bool {
	return now.UnixMilli()-e.Timestamp < ttl.Milliseconds()
}

// LoaderFunc fetches the authoritative value on a cache miss.
type LoaderFunc func(ctx context.Context) ([]byte, error)

type Tiered struct {
	mem  *lruStore
	disk *FileStore
	sf   singleflight.Group
	now  func() time.Time
}

func NewTiered(capacity int, disk *FileStore) *Tiered {
	return &Tiered{mem: newLRUStore(capacity), disk: disk, now: time.Now}
}

// Get re-validates the TTL on every read, at every tier. A fresh hit
// in the persisted tier is promoted to memory. When the loader fails
// and a stale value exists in either tier, the stale value is returned
// with no error; callers cannot tell a stale hit from a fresh one.
func (c *Tiered) Get(ctx context.Context, key string, ttl time.Duration, load LoaderFunc) ([]byte, error) {
	now := c.now()

	memEnt, memOK := c.mem.Get(key)
	if memOK && memEnt.Fresh(ttl, now) {
		return memEnt.Data, nil
	}

	diskEnt, diskOK := c.disk.Get(key)
	if diskOK && diskEnt.Fresh(ttl, now) {
		c.mem.Put(key, diskEnt)
		return diskEnt.Data, nil
	}

	data, err, _ := c.sf.Do(key, func() (any, error) {
		b, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, b)
		return b, nil
	})
	if err == nil {
		return data.([]byte), nil
	}

	// Loader failed: serve the most recent stale value if any tier has one.
	if memOK || diskOK {
		applog.Event("cache.stale_serve", map[string]any{"key": key, "err": err.Error()})
	}
	switch {
	case memOK && diskOK:
		if diskEnt.Timestamp > memEnt.Timestamp {
			return diskEnt.Data, nil
		}
		return memEnt.Data, nil
	case memOK:
		return memEnt.Data, nil
	case diskOK:
		return diskEnt.Data, nil
	}
	return nil, err
}

// Set writes through both tiers, stamping the entry with the current time.
func (c *Tiered) Set(key string, data []byte) {
	e := Entry{Data: data, Timestamp: c.now().UnixMilli()}
	c.mem.Put(key, e)
	c.disk.Put(key, e)
}

func (c *Tiered) Remove(key string) {
	c.mem.Delete(key)
	c.disk.Delete(key)
}
