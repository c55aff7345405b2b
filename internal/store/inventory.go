// Package store persists inventory batches between runs and reads raw
// inventory dumps from disk.
package store

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"github.com/golang/snappy"

	"harshagw/fleetsearch/internal/vehicle"
)

// ChunkSize is the number of records per compressed chunk.
const ChunkSize = 512

var (
	bucketSnapshots = []byte("snapshots")
	bucketMeta      = []byte("meta")
	keyEpoch        = []byte("epoch")
	keyInfo         = []byte("info")
)

// ErrNoSnapshot is returned when the store holds no snapshot.
var ErrNoSnapshot = errors.New("no inventory snapshot")

// Snapshot describes one saved load cycle.
type Snapshot struct {
	Epoch   uint64    `json:"epoch"`
	Count   int       `json:"count"`
	Chunks  int       `json:"chunks"`
	Bytes   int       `json:"bytes"`
	SavedAt time.Time `json:"savedAt"`
}

// Inventory stores every saved batch of raw records under its own epoch.
// Each batch is split into snappy-compressed JSON chunks.
type Inventory struct {
	db *bolt.DB
}

// Open opens or creates the inventory store in dir.
func Open(dir string) (*Inventory, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	dbPath := filepath.Join(dir, "inventory.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketSnapshots, bucketMeta} {
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

	return &Inventory{db: db}, nil
}

func (s *Inventory) Close() error {
	return s.db.Close()
}

func epochKey(epoch uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, epoch)
	return buf
}

func chunkKey(i int) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(i))
	return buf
}

// Save stores raws as a new snapshot and returns its description.
func (s *Inventory) Save(raws []vehicle.RawVehicle) (Snapshot, error) {
	snap := Snapshot{Count: len(raws), SavedAt: time.Now().UTC()}

	err := s.db.Update(func(tx *bolt.Tx) error {
		epoch, err := incrementEpoch(tx)
		if err != nil {
			return err
		}
		snap.Epoch = epoch

		b, err := tx.Bucket(bucketSnapshots).CreateBucket(epochKey(epoch))
		if err != nil {
			return err
		}

		for start := 0; start < len(raws); start += ChunkSize {
			end := min(start+ChunkSize, len(raws))
			data, err := json.Marshal(raws[start:end])
			if err != nil {
				return fmt.Errorf("encode chunk %d: %w", snap.Chunks, err)
			}
			compressed := snappy.Encode(nil, data)
			if err := b.Put(chunkKey(snap.Chunks), compressed); err != nil {
				return err
			}
			snap.Chunks++
			snap.Bytes += len(compressed)
		}

		info, err := json.Marshal(snap)
		if err != nil {
			return err
		}
		return b.Put(keyInfo, info)
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return snap, nil
}

func incrementEpoch(tx *bolt.Tx) (uint64, error) {
	b := tx.Bucket(bucketMeta)
	var epoch uint64
	if data := b.Get(keyEpoch); data != nil {
		epoch = binary.BigEndian.Uint64(data)
	}
	epoch++
	return epoch, b.Put(keyEpoch, epochKey(epoch))
}

// Load returns the records and description of the latest snapshot.
func (s *Inventory) Load() ([]vehicle.RawVehicle, Snapshot, error) {
	var (
		raws []vehicle.RawVehicle
		snap Snapshot
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		k, _ := tx.Bucket(bucketSnapshots).Cursor().Last()
		if k == nil {
			return ErrNoSnapshot
		}
		var err error
		raws, snap, err = readSnapshot(tx, k)
		return err
	})
	return raws, snap, err
}

// LoadEpoch returns the records of one snapshot.
func (s *Inventory) LoadEpoch(epoch uint64) ([]vehicle.RawVehicle, Snapshot, error) {
	var (
		raws []vehicle.RawVehicle
		snap Snapshot
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		raws, snap, err = readSnapshot(tx, epochKey(epoch))
		return err
	})
	return raws, snap, err
}

func readSnapshot(tx *bolt.Tx, key []byte) ([]vehicle.RawVehicle, Snapshot, error) {
	b := tx.Bucket(bucketSnapshots).Bucket(key)
	if b == nil {
		return nil, Snapshot{}, ErrNoSnapshot
	}

	var snap Snapshot
	if err := json.Unmarshal(b.Get(keyInfo), &snap); err != nil {
		return nil, Snapshot{}, fmt.Errorf("failed to read snapshot info: %w", err)
	}

	raws := make([]vehicle.RawVehicle, 0, snap.Count)
	for i := 0; i < snap.Chunks; i++ {
		compressed := b.Get(chunkKey(i))
		if compressed == nil {
			return nil, Snapshot{}, fmt.Errorf("snapshot %d: missing chunk %d", snap.Epoch, i)
		}
		data, err := snappy.Decode(nil, compressed)
		if err != nil {
			return nil, Snapshot{}, fmt.Errorf("snapshot %d: failed to decompress chunk %d: %w", snap.Epoch, i, err)
		}
		var chunk []vehicle.RawVehicle
		if err := json.NewDecoder(bytes.NewReader(data)).Decode(&chunk); err != nil {
			return nil, Snapshot{}, fmt.Errorf("snapshot %d: failed to decode chunk %d: %w", snap.Epoch, i, err)
		}
		raws = append(raws, chunk...)
	}
	return raws, snap, nil
}

// Snapshots lists the stored snapshots, oldest first.
func (s *Inventory) Snapshots() ([]Snapshot, error) {
	var out []Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).ForEach(func(k, v []byte) error {
			b := tx.Bucket(bucketSnapshots).Bucket(k)
			if b == nil {
				return nil
			}
			var snap Snapshot
			if err := json.Unmarshal(b.Get(keyInfo), &snap); err != nil {
				return fmt.Errorf("failed to read snapshot info: %w", err)
			}
			out = append(out, snap)
			return nil
		})
	})
	return out, err
}

// Epoch returns the epoch of the latest save, 0 if nothing was saved.
func (s *Inventory) Epoch() (uint64, error) {
	var epoch uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket(bucketMeta).Get(keyEpoch); data != nil {
			epoch = binary.BigEndian.Uint64(data)
		}
		return nil
	})
	return epoch, err
}

// Prune deletes all but the newest keep snapshots and returns how many were
// removed.
func (s *Inventory) Prune(keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSnapshots)
		var keys [][]byte
		if err := b.ForEach(func(k, v []byte) error {
			keys = append(keys, append([]byte(nil), k...))
			return nil
		}); err != nil {
			return err
		}
		for len(keys) > keep {
			if err := b.DeleteBucket(keys[0]); err != nil {
				return err
			}
			keys = keys[1:]
			removed++
		}
		return nil
	})
	return removed, err
}
