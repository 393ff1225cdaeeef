package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/emberhollow/delvegen/internal/room"
)

const (
	// SchemaVersion gates persisted blobs: a mismatch invalidates the cache.
	SchemaVersion = 1

	// DefaultTTL is how long a persisted blob stays valid.
	DefaultTTL = 24 * time.Hour

	// DefaultRetention is how many rooms the persistent cache keeps.
	DefaultRetention = 5

	cacheKey = "delvegen_rooms"
)

// ErrNotInitialized is returned when the cache is used before Initialize or
// after Reset.
var ErrNotInitialized = errors.New("cache: not initialized with a story seed")

// CachedRoomData is the persisted blob: one record per session holding every
// retained room. Version and seed mismatches and stale timestamps all read
// as a miss.
type CachedRoomData struct {
	Version   int                   `yaml:"version"`
	StorySeed int64                 `yaml:"story_seed"`
	Rooms     map[string]*room.Room `yaml:"rooms"`
	Timestamp time.Time             `yaml:"timestamp"`
}

// PersistentRoomCache stores fully assembled rooms across restarts, scoped
// to one story seed. Retention keeps only the highest-numbered room IDs;
// quota failures clear the cache and retry once before degrading to
// in-memory-only operation.
type PersistentRoomCache struct {
	store     Store
	retention int
	ttl       time.Duration
	log       *slog.Logger

	mu   sync.Mutex
	seed int64
	init bool
}

// NewPersistent creates a cache over the given store. Zero retention or TTL
// select the defaults.
func NewPersistent(store Store, retention int, ttl time.Duration, log *slog.Logger) *PersistentRoomCache {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &PersistentRoomCache{
		store:     store,
		retention: retention,
		ttl:       ttl,
		log:       log,
	}
}

// Initialize binds the cache to a story seed. All reads and writes are
// scoped to it until Reset.
func (c *PersistentRoomCache) Initialize(storySeed int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seed = storySeed
	c.init = true
}

// GetRoom returns the cached room with the given ID, or nil on any miss
// (absent, version mismatch, seed mismatch, or expired).
func (c *PersistentRoomCache) GetRoom(id string) *room.Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	data := c.load()
	if data == nil {
		return nil
	}
	return data.Rooms[id]
}

// GetCachedRooms returns all valid cached rooms keyed by ID. The map is
// empty (never nil) on a miss.
func (c *PersistentRoomCache) GetCachedRooms() map[string]*room.Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	data := c.load()
	if data == nil {
		return map[string]*room.Room{}
	}
	return data.Rooms
}

// SaveRoom merges one room into the persisted blob, refreshes the timestamp,
// and enforces retention. Quota failures clear the cache and retry with just
// this room; a second failure is logged and swallowed.
func (c *PersistentRoomCache) SaveRoom(r *room.Room) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.init {
		return ErrNotInitialized
	}

	data := c.load()
	if data == nil {
		data = &CachedRoomData{
			Version:   SchemaVersion,
			StorySeed: c.seed,
			Rooms:     map[string]*room.Room{},
		}
	}
	data.Rooms[r.ID] = r
	data.Timestamp = time.Now().UTC()
	c.trim(data)

	return c.persist(data, r)
}

// SaveRooms persists a batch, keeping only the last retention-count entries
// of the slice so the blob never starts over cap.
func (c *PersistentRoomCache) SaveRooms(rooms []*room.Room) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.init {
		return ErrNotInitialized
	}
	if len(rooms) == 0 {
		return nil
	}
	if len(rooms) > c.retention {
		rooms = rooms[len(rooms)-c.retention:]
	}

	data := &CachedRoomData{
		Version:   SchemaVersion,
		StorySeed: c.seed,
		Rooms:     make(map[string]*room.Room, len(rooms)),
		Timestamp: time.Now().UTC(),
	}
	for _, r := range rooms {
		data.Rooms[r.ID] = r
	}

	return c.persist(data, rooms[len(rooms)-1])
}

// Clear removes all persisted data. The seed binding survives.
func (c *PersistentRoomCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clearLocked()
}

// Reset removes all persisted data and unbinds the seed; Initialize must be
// called again before further use.
func (c *PersistentRoomCache) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.init = false
	c.seed = 0
	return c.clearLocked()
}

func (c *PersistentRoomCache) clearLocked() error {
	if err := c.store.Remove(cacheKey); err != nil {
		return fmt.Errorf("failed to clear room cache: %w", err)
	}
	return nil
}

// load reads and validates the persisted blob under the lock. Any
// invalidation condition reads as nil.
func (c *PersistentRoomCache) load() *CachedRoomData {
	if !c.init {
		return nil
	}
	raw, err := c.store.Get(cacheKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.log.Warn("room cache read failed", "error", err)
		}
		return nil
	}
	var data CachedRoomData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		c.log.Warn("room cache blob corrupt, discarding", "error", err)
		return nil
	}
	if data.Version != SchemaVersion || data.StorySeed != c.seed {
		return nil
	}
	if time.Since(data.Timestamp) > c.ttl {
		return nil
	}
	if data.Rooms == nil {
		data.Rooms = map[string]*room.Room{}
	}
	return &data
}

// trim enforces retention: rooms are ordered by the numeric suffix of their
// ID and everything below the retention-count highest is evicted. IDs with
// no numeric suffix sort lowest and go first.
func (c *PersistentRoomCache) trim(data *CachedRoomData) {
	if len(data.Rooms) <= c.retention {
		return
	}
	ids := make([]string, 0, len(data.Rooms))
	for id := range data.Rooms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ni, nj := idSuffix(ids[i]), idSuffix(ids[j])
		if ni != nj {
			return ni < nj
		}
		return ids[i] < ids[j]
	})
	for _, id := range ids[:len(ids)-c.retention] {
		delete(data.Rooms, id)
	}
}

// persist writes the blob. On quota failure it clears everything and retries
// once with only the room just saved; a second failure degrades to
// in-memory-only operation.
func (c *PersistentRoomCache) persist(data *CachedRoomData, just *room.Room) error {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode room cache: %w", err)
	}
	err = c.store.Set(cacheKey, raw)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		c.log.Warn("room cache write failed", "error", err)
		return nil
	}

	c.log.Warn("room cache over quota, clearing and retrying", "room", just.ID)
	if cerr := c.clearLocked(); cerr != nil {
		c.log.Warn("room cache clear failed during quota recovery", "error", cerr)
	}

	retry := &CachedRoomData{
		Version:   SchemaVersion,
		StorySeed: c.seed,
		Rooms:     map[string]*room.Room{just.ID: just},
		Timestamp: time.Now().UTC(),
	}
	raw, err = yaml.Marshal(retry)
	if err != nil {
		return fmt.Errorf("failed to encode room cache: %w", err)
	}
	if err := c.store.Set(cacheKey, raw); err != nil {
		c.log.Warn("room cache retry write failed, room stays in-memory only", "room", just.ID, "error", err)
	}
	return nil
}

// idSuffix parses the numeric suffix after the last underscore of a room ID.
// Returns -1 when there is none.
func idSuffix(id string) int {
	i := strings.LastIndexByte(id, '_')
	if i < 0 || i == len(id)-1 {
		return -1
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return -1
	}
	return n
}
