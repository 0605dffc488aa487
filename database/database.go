package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

var guildsBucket = []byte("guilds")

// BoltStore - Guild settings kept in a bolt db, one JSON doc per guild
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt - Open (or create) the bolt db at path
func OpenBolt(path string) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 10 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(guildsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

// Get - Get settings for a guild
func (s *BoltStore) Get(gid string) (gc GuildConfig, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(guildsBucket)
		if b == nil {
			return fmt.Errorf("bucket not found")
		}
		// Decode settings
		v := b.Get([]byte(gid))
		if v == nil {
			return ErrNotConfigured
		}
		return json.Unmarshal(v, &gc)
	})
	gc.GuildID = gid
	return gc, err
}

// Put - Update guild settings in DB
func (s *BoltStore) Put(gc GuildConfig) error {
	if err := Validate(gc); err != nil {
		return err
	}
	if gc.UpdatedAt.IsZero() {
		gc.UpdatedAt = time.Now()
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(guildsBucket)
		if err != nil {
			return err
		}
		// Encode settings and update db
		bts, err := json.Marshal(gc)
		if err != nil {
			return err
		}
		return b.Put([]byte(gc.GuildID), bts)
	})
}

// List - All configured guilds, ordered by ID
func (s *BoltStore) List() ([]GuildConfig, error) {
	var out []GuildConfig
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(guildsBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var gc GuildConfig
			if err := json.Unmarshal(v, &gc); err != nil {
				return fmt.Errorf("decode guild %s: %w", k, err)
			}
			gc.GuildID = string(k)
			out = append(out, gc)
			return nil
		})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].GuildID < out[j].GuildID })
	return out, err
}

// Close - Close DB connection
func (s *BoltStore) Close() error {
	return s.db.Close()
}
