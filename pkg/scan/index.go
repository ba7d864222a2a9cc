package scan

import (
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/ssargent/eflrscan/pkg/eflr"
)

// Index maps object name to record key to frame
type Index map[string]map[string]eflr.Frame

// Frame returns the frame stored under object and key
func (ix Index) Frame(object, key string) (eflr.Frame, bool) {
	kinds, ok := ix[object]
	if !ok {
		return eflr.Frame{}, false
	}
	f, ok := kinds[key]
	return f, ok
}

// OrphanPolicy decides what happens to records decoded before any FILE-HEADER
type OrphanPolicy string

const (
	// OrphanDefer holds orphans until the first FILE-HEADER names an object
	OrphanDefer OrphanPolicy = "defer"
	// OrphanDrop discards orphans as soon as they are decoded
	OrphanDrop OrphanPolicy = "drop"
)

// ParseOrphanPolicy validates a policy name, the empty string selects OrphanDefer
func ParseOrphanPolicy(s string) (OrphanPolicy, error) {
	switch OrphanPolicy(s) {
	case "", OrphanDefer:
		return OrphanDefer, nil
	case OrphanDrop:
		return OrphanDrop, nil
	}
	return "", fmt.Errorf("unknown orphan policy %q", s)
}

// Orphan is a decoded record that never found an owning object
type Orphan struct {
	Kind  string     `json:"kind" yaml:"kind"`
	Frame eflr.Frame `json:"frame" yaml:"frame"`
}

type orphan struct {
	kind  eflr.Kind
	frame eflr.Frame
}

// indexer places decoded frames into the Index. CHANNEL and PARAMETER
// counters are global to the scan, they are never reset by a new object.
type indexer struct {
	objects  Index
	current  string
	named    bool
	counters map[eflr.Kind]int
	deferred []orphan
	policy   OrphanPolicy
	logger   log.Logger
}

func newIndexer(policy OrphanPolicy, logger log.Logger) *indexer {
	return &indexer{
		objects:  make(Index),
		counters: make(map[eflr.Kind]int),
		policy:   policy,
		logger:   logger,
	}
}

func (ix *indexer) add(kind eflr.Kind, frame eflr.Frame) {
	if kind == eflr.KindFileHeader {
		ix.openObject(frame)
		return
	}

	if !ix.named {
		if ix.policy == OrphanDrop {
			level.Warn(ix.logger).Log("msg", "dropping record decoded before any file header", "kind", kind)
			return
		}
		level.Debug(ix.logger).Log("msg", "deferring record decoded before any file header", "kind", kind)
		ix.deferred = append(ix.deferred, orphan{kind: kind, frame: frame})
		return
	}

	ix.place(kind, frame)
}

func (ix *indexer) openObject(frame eflr.Frame) {
	name, ok := frame.ObjectName()
	if !ok {
		level.Warn(ix.logger).Log("msg", "file header has no ID value, using empty object name")
	}

	ix.objects[name] = map[string]eflr.Frame{eflr.KindFileHeader.Key(): frame}
	ix.current = name
	ix.named = true

	for _, o := range ix.deferred {
		ix.place(o.kind, o.frame)
	}
	ix.deferred = nil
}

func (ix *indexer) place(kind eflr.Kind, frame eflr.Frame) {
	kinds := ix.objects[ix.current]
	key := kind.Key()

	if kind.Numbered() {
		if _, exists := kinds[key]; exists {
			key = fmt.Sprintf("%s_%d", key, ix.counters[kind])
		}
		ix.counters[kind]++
	}

	kinds[key] = frame
}

// orphans returns whatever is still deferred at the end of a scan
func (ix *indexer) orphans() []Orphan {
	if len(ix.deferred) == 0 {
		return nil
	}
	out := make([]Orphan, len(ix.deferred))
	for i, o := range ix.deferred {
		out[i] = Orphan{Kind: o.kind.Key(), Frame: o.frame}
	}
	return out
}
