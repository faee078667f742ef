package records

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
)

// lockRetry is how often a unit polls for the file lock held by another process
const lockRetry = 10 * time.Millisecond

// collections maps kind -> key -> raw JSON value
type collections map[string]map[string]json.RawMessage

// FileBackend stores all records in one JSON file. Each atomic unit reloads
// the file, stages its writes in a changeset, and commits with a temp-file rename.
// Units are serialized by a mutex within the process and by an advisory lock
// on <name>.json.lock across processes.
type FileBackend struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
	data collections
}

// NewFileBackend creates a file backend storing <dataDir>/<name>.json
func NewFileBackend(dataDir, name string) (*FileBackend, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	b := &FileBackend{
		path: filepath.Join(dataDir, name+".json"),
		data: make(collections),
	}
	b.lock = flock.New(b.path + ".lock")

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.load(); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", b.path, err)
	}
	return b, nil
}

// load reads the records file; a missing file is an empty store
func (b *FileBackend) load() error {
	raw, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		b.data = make(collections)
		return nil
	}
	if err != nil {
		return err
	}

	data := make(collections)
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}
	b.data = data
	return nil
}

// save writes the records file through a temp file and atomic rename
func (b *FileBackend) save(data collections) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := b.path + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, b.path)
}

// Atomic implements Backend
func (b *FileBackend) Atomic(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	locked, err := b.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", b.path, err)
	}
	if !locked {
		return fmt.Errorf("failed to lock %s", b.path)
	}
	defer b.lock.Unlock()

	if err := b.load(); err != nil {
		return fmt.Errorf("failed to load %s: %w", b.path, err)
	}

	tx := &fileTx{base: b.data, changes: newChangeset()}
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.changes.HasChanges() {
		return nil
	}

	next := tx.changes.apply(b.data)
	if err := b.save(next); err != nil {
		return fmt.Errorf("failed to save %s: %w", b.path, err)
	}
	b.data = next
	return nil
}

// Close implements Backend
func (b *FileBackend) Close() error {
	return b.lock.Close()
}

// changeset stages writes of one atomic unit
type changeset struct {
	puts    map[string]map[string]json.RawMessage
	deletes map[string]map[string]struct{}
}

func newChangeset() *changeset {
	return &changeset{
		puts:    make(map[string]map[string]json.RawMessage),
		deletes: make(map[string]map[string]struct{}),
	}
}

func (c *changeset) HasChanges() bool {
	return c.Count() > 0
}

func (c *changeset) Count() int {
	n := 0
	for _, m := range c.puts {
		n += len(m)
	}
	for _, m := range c.deletes {
		n += len(m)
	}
	return n
}

func (c *changeset) put(kind, key string, data json.RawMessage) {
	if c.puts[kind] == nil {
		c.puts[kind] = make(map[string]json.RawMessage)
	}
	c.puts[kind][key] = data
	delete(c.deletes[kind], key)
}

func (c *changeset) del(kind, key string) {
	if c.deletes[kind] == nil {
		c.deletes[kind] = make(map[string]struct{})
	}
	c.deletes[kind][key] = struct{}{}
	delete(c.puts[kind], key)
}

// apply returns a copy of base with the changes applied. base is not modified.
func (c *changeset) apply(base collections) collections {
	next := make(collections, len(base))
	for kind, records := range base {
		next[kind] = maps.Clone(records)
	}
	for kind, records := range c.puts {
		if next[kind] == nil {
			next[kind] = make(map[string]json.RawMessage)
		}
		maps.Copy(next[kind], records)
	}
	for kind, keys := range c.deletes {
		for key := range keys {
			delete(next[kind], key)
		}
	}
	return next
}

// fileTx reads through the changeset to the committed data
type fileTx struct {
	base    collections
	changes *changeset
}

func (t *fileTx) lookup(kind, key string) (json.RawMessage, bool) {
	if _, deleted := t.changes.deletes[kind][key]; deleted {
		return nil, false
	}
	if data, ok := t.changes.puts[kind][key]; ok {
		return data, true
	}
	data, ok := t.base[kind][key]
	return data, ok
}

func (t *fileTx) Get(kind, key string) ([]byte, error) {
	data, ok := t.lookup(kind, key)
	if !ok {
		return nil, domain.RecordNotFoundErr{Kind: kind, Key: key}
	}
	return slices.Clone(data), nil
}

func (t *fileTx) Put(kind, key string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("record %s/%s is not valid JSON", kind, key)
	}
	t.changes.put(kind, key, slices.Clone(data))
	return nil
}

func (t *fileTx) Delete(kind, key string) error {
	if _, ok := t.lookup(kind, key); !ok {
		return domain.RecordNotFoundErr{Kind: kind, Key: key}
	}
	t.changes.del(kind, key)
	return nil
}

func (t *fileTx) Scan(kind string) ([]Record, error) {
	keys := make(map[string]struct{})
	for key := range t.base[kind] {
		keys[key] = struct{}{}
	}
	for key := range t.changes.puts[kind] {
		keys[key] = struct{}{}
	}

	sorted := slices.Sorted(maps.Keys(keys))
	out := make([]Record, 0, len(sorted))
	for _, key := range sorted {
		if data, ok := t.lookup(kind, key); ok {
			out = append(out, Record{Key: key, Data: slices.Clone(data)})
		}
	}
	return out, nil
}
