// Package catalog keeps scan results on disk so they can be listed and
// inspected after the scan that produced them.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/eflrscan/pkg/scan"
	"github.com/ssargent/eflrscan/pkg/storage"
)

var (
	ErrNotFound  = errors.New("scan not found")
	ErrInvalidID = errors.New("invalid scan id")
)

const (
	nsResults   storage.Namespace = 'r'
	nsSummaries storage.Namespace = 's'
)

// Summary describes a stored scan without its frames
type Summary struct {
	ID        string     `json:"id" yaml:"id"`
	Source    string     `json:"source" yaml:"source"`
	Size      int64      `json:"size" yaml:"size"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
	Objects   []string   `json:"objects" yaml:"objects"`
	Stats     scan.Stats `json:"stats" yaml:"stats"`
}

// Entry is a stored scan
type Entry struct {
	Summary
	Result *scan.Result `json:"result" yaml:"result"`
}

// Catalog stores scan results in pebble. Results are JSON compressed with
// zstd, summaries are plain JSON so listing never touches the results.
type Catalog struct {
	store  *storage.DefaultStorage
	logger log.Logger
}

// Open opens or creates a catalog in dir
func Open(dir string, logger log.Logger) (*Catalog, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	store, err := storage.NewDefaultStorage(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return &Catalog{store: store, logger: logger}, nil
}

// Save stores res and returns its summary
func (c *Catalog) Save(source string, size int64, res *scan.Result) (*Summary, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	packed := compress(data)

	id, err := c.store.Create(nsResults, packed)
	if err != nil {
		return nil, fmt.Errorf("failed to store result: %w", err)
	}

	sum := &Summary{
		ID:        id.String(),
		Source:    source,
		Size:      size,
		CreatedAt: id.Time().UTC(),
		Objects:   objectNames(res),
		Stats:     res.Stats,
	}
	meta, err := json.Marshal(sum)
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := c.store.Update(nsSummaries, id, meta); err != nil {
		return nil, fmt.Errorf("failed to store summary: %w", err)
	}

	level.Info(c.logger).Log("msg", "saved scan", "id", sum.ID, "source", source,
		"json_bytes", len(data), "stored_bytes", len(packed))
	return sum, nil
}

// Get loads one stored scan
func (c *Catalog) Get(id string) (*Entry, error) {
	kid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	meta, err := c.read(nsSummaries, kid)
	if err != nil {
		return nil, err
	}
	packed, err := c.read(nsResults, kid)
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(meta, &entry.Summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary %s: %w", id, err)
	}
	data, err := decompress(packed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress result %s: %w", id, err)
	}
	entry.Result = &scan.Result{}
	if err := json.Unmarshal(data, entry.Result); err != nil {
		return nil, fmt.Errorf("failed to decode result %s: %w", id, err)
	}
	return &entry, nil
}

// List returns the summaries of all stored scans, oldest first
func (c *Catalog) List() ([]Summary, error) {
	out := []Summary{}
	err := c.store.Each(nsSummaries, func(id ksuid.KSUID, data []byte) error {
		var sum Summary
		if err := json.Unmarshal(data, &sum); err != nil {
			return fmt.Errorf("failed to decode summary %s: %w", id, err)
		}
		out = append(out, sum)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a stored scan
func (c *Catalog) Delete(id string) error {
	kid, err := parseID(id)
	if err != nil {
		return err
	}
	if _, err := c.read(nsSummaries, kid); err != nil {
		return err
	}
	if err := c.store.Delete(nsResults, kid); err != nil {
		return fmt.Errorf("failed to delete result %s: %w", id, err)
	}
	if err := c.store.Delete(nsSummaries, kid); err != nil {
		return fmt.Errorf("failed to delete summary %s: %w", id, err)
	}
	level.Info(c.logger).Log("msg", "deleted scan", "id", id)
	return nil
}

// Close closes the underlying database
func (c *Catalog) Close() error {
	return c.store.Close()
}

func (c *Catalog) read(ns storage.Namespace, id ksuid.KSUID) ([]byte, error) {
	data, err := c.store.Read(ns, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", id, err)
	}
	return data, nil
}

func parseID(id string) (ksuid.KSUID, error) {
	kid, err := ksuid.Parse(id)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return kid, nil
}

func objectNames(res *scan.Result) []string {
	names := make([]string, 0, len(res.Objects))
	for name := range res.Objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
