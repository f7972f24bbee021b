// Package store persists the first page of each feed so views paint
// instantly on startup while the network round-trip is still in flight.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mvickers/tubetui/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketVideos        = []byte("videos")
	bucketHistory       = []byte("history")
	bucketPlaylists     = []byte("playlists")
	bucketPosts         = []byte("posts")
	bucketSubscriptions = []byte("subscriptions")
)

// FeedCache implements the local first-page cache using BoltDB.
// It is a stale-while-revalidate seed, never the source of truth: every view
// refreshes from the network immediately after painting cached rows.
type FeedCache struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewFeedCache opens (or creates) the cache database under baseCacheDir,
// scoped per server so switching backends never mixes feeds. An empty
// baseCacheDir gives a memory-only cache.
func NewFeedCache(baseCacheDir, serverURL string) (*FeedCache, error) {
	if baseCacheDir == "" {
		return &FeedCache{cache: make(map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "tubetui.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketVideos, bucketHistory, bucketPlaylists, bucketPosts, bucketSubscriptions} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &FeedCache{db: db, cache: make(map[string][]byte)}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *FeedCache) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *FeedCache) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *FeedCache) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *FeedCache) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// === Videos (home feed, keyed by query/channel identity) ===

func (s *FeedCache) GetVideos(key string) ([]*domain.Video, bool) {
	var videos []*domain.Video
	ok := s.get(bucketVideos, key, &videos)
	return videos, ok
}

func (s *FeedCache) SaveVideos(key string, videos []*domain.Video) error {
	return s.set(bucketVideos, key, videos)
}

// === History ===

func (s *FeedCache) GetHistory() ([]*domain.HistoryEntry, bool) {
	var entries []*domain.HistoryEntry
	ok := s.get(bucketHistory, "list", &entries)
	return entries, ok
}

func (s *FeedCache) SaveHistory(entries []*domain.HistoryEntry) error {
	return s.set(bucketHistory, "list", entries)
}

func (s *FeedCache) ClearHistory() {
	s.delete(bucketHistory, "list")
}

// === Playlists ===

func (s *FeedCache) GetPlaylists() ([]*domain.Playlist, bool) {
	var playlists []*domain.Playlist
	ok := s.get(bucketPlaylists, "list", &playlists)
	return playlists, ok
}

func (s *FeedCache) SavePlaylists(playlists []*domain.Playlist) error {
	return s.set(bucketPlaylists, "list", playlists)
}

// === Posts ===

func (s *FeedCache) GetPosts(key string) ([]*domain.Post, bool) {
	var posts []*domain.Post
	ok := s.get(bucketPosts, key, &posts)
	return posts, ok
}

func (s *FeedCache) SavePosts(key string, posts []*domain.Post) error {
	return s.set(bucketPosts, key, posts)
}

// === Subscriptions ===

func (s *FeedCache) GetSubscriptions() ([]*domain.Channel, bool) {
	var channels []*domain.Channel
	ok := s.get(bucketSubscriptions, "list", &channels)
	return channels, ok
}

func (s *FeedCache) SaveSubscriptions(channels []*domain.Channel) error {
	return s.set(bucketSubscriptions, "list", channels)
}

// Wipe drops every cached feed. Called on logout and session expiry so the
// next account never sees the previous user's data.
func (s *FeedCache) Wipe() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketVideos, bucketHistory, bucketPlaylists, bucketPosts, bucketSubscriptions} {
			if err := tx.DeleteBucket(bucket); err != nil {
				return err
			}
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}
