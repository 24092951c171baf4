// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/counterprogram/state"
)

var _ state.Database = (*Database)(nil)

type Config struct {
	CacheSize                int64 `json:"cacheSize"`
	BytesPerSync             int   `json:"bytesPerSync"`
	WALBytesPerSync          int   `json:"walBytesPerSync"`
	L0CompactionThreshold    int   `json:"l0CompactionThreshold"`
	L0StopWritesThreshold    int   `json:"l0StopWritesThreshold"`
	MaxOpenFiles             int   `json:"maxOpenFiles"`
	ConcurrentCompactions    int   `json:"concurrentCompactions"`
	Sync                     bool  `json:"sync"`
	InMemory                 bool  `json:"inMemory"`
	DisableMetricsCollection bool  `json:"disableMetricsCollection"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:             64 * 1024 * 1024,
		BytesPerSync:          1024 * 1024,
		WALBytesPerSync:       1024 * 1024,
		L0CompactionThreshold: 4,
		L0StopWritesThreshold: 12,
		MaxOpenFiles:          4_096,
		ConcurrentCompactions: 1,
		Sync:                  true,
	}
}

// Database persists account buffers in pebble. It is safe for concurrent
// use.
type Database struct {
	db      *pebble.DB
	metrics *metrics
	wo      *pebble.WriteOptions

	closing chan struct{}
	closed  sync.Once
	wg      sync.WaitGroup

	lock     sync.RWMutex
	isClosed bool
}

func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	// These default settings are based on https://github.com/ethereum/go-ethereum/blob/master/ethdb/pebble/pebble.go
	d := &Database{closing: make(chan struct{})}
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(cfg.CacheSize),
		BytesPerSync:                cfg.BytesPerSync,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		L0CompactionThreshold:       cfg.L0CompactionThreshold,
		L0StopWritesThreshold:       cfg.L0StopWritesThreshold,
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.ConcurrentCompactions },
		DisableAutomaticCompactions: false,
	}
	defer opts.Cache.Unref()
	if cfg.InMemory {
		opts.FS = vfs.NewMem()
	}
	opts.Experimental.ReadSamplingMultiplier = -1 // explicitly disable seek compaction
	opts.EnsureDefaults()
	opts.EventListener = &pebble.EventListener{
		CompactionBegin: d.onCompactionBegin,
		CompactionEnd:   d.onCompactionEnd,
		WriteStallBegin: d.onWriteStallBegin,
		WriteStallEnd:   d.onWriteStallEnd,
	}
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d.metrics = metrics
	db, err := pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	d.db = db
	if cfg.Sync {
		d.wo = pebble.Sync
	} else {
		d.wo = pebble.NoSync
	}
	if !cfg.DisableMetricsCollection {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.collectMetrics()
		}()
	}
	return d, registry, nil
}

func (d *Database) Close() error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.isClosed {
		return database.ErrClosed
	}
	d.isClosed = true
	d.closed.Do(func() { close(d.closing) })
	d.wg.Wait()
	return d.db.Close()
}

func (d *Database) Has(key []byte) (bool, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.isClosed {
		return false, database.ErrClosed
	}
	_, closer, err := d.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, closer.Close()
}

func (d *Database) Get(key []byte) ([]byte, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.isClosed {
		return nil, database.ErrClosed
	}
	start := time.Now()
	data, closer, err := d.db.Get(key)
	d.metrics.getLatency.Observe(float64(time.Since(start)))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	ret := make([]byte, len(data))
	copy(ret, data)
	return ret, closer.Close()
}

func (d *Database) Put(key []byte, value []byte) error {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.isClosed {
		return database.ErrClosed
	}
	d.metrics.writes.Inc()
	return d.db.Set(key, value, d.wo)
}

func (d *Database) Delete(key []byte) error {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.isClosed {
		return database.ErrClosed
	}
	d.metrics.writes.Inc()
	return d.db.Delete(key, d.wo)
}

func (d *Database) NewBatch() database.Batch {
	return &batch{d: d, b: d.db.NewBatch()}
}

type op struct {
	key    []byte
	value  []byte
	delete bool
}

type batch struct {
	d    *Database
	b    *pebble.Batch
	ops  []op
	size int
}

func (b *batch) Put(key []byte, value []byte) error {
	b.ops = append(b.ops, op{key: key, value: value})
	b.size += len(key) + len(value)
	return b.b.Set(key, value, nil)
}

func (b *batch) Delete(key []byte) error {
	b.ops = append(b.ops, op{key: key, delete: true})
	b.size += len(key)
	return b.b.Delete(key, nil)
}

func (b *batch) Size() int {
	return b.size
}

func (b *batch) Write() error {
	b.d.lock.RLock()
	defer b.d.lock.RUnlock()

	if b.d.isClosed {
		return database.ErrClosed
	}
	b.d.metrics.batchWrites.Inc()
	return b.b.Commit(b.d.wo)
}

func (b *batch) Reset() {
	b.b.Reset()
	b.ops = b.ops[:0]
	b.size = 0
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	for _, op := range b.ops {
		if op.delete {
			if err := w.Delete(op.key); err != nil {
				return err
			}
			continue
		}
		if err := w.Put(op.key, op.value); err != nil {
			return err
		}
	}
	return nil
}

func (b *batch) Inner() database.Batch {
	return b
}
