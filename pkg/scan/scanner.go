package scan

import (
	"errors"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/ssargent/eflrscan/pkg/eflr"
	"github.com/ssargent/eflrscan/pkg/source"
)

// ScannerConfig holds configuration for a Scanner
type ScannerConfig struct {
	Logger       log.Logger
	Metrics      *Metrics
	Location     *time.Location // DTIME rendering, nil means time.Local
	OrphanPolicy OrphanPolicy
}

// Stats counts what a scan saw
type Stats struct {
	BytesScanned      int64 `json:"bytes_scanned" yaml:"bytes_scanned"`
	BytesSkipped      int64 `json:"bytes_skipped" yaml:"bytes_skipped"`
	Segments          int   `json:"segments" yaml:"segments"`
	Continuations     int   `json:"continuations" yaml:"continuations"`
	EncryptedSegments int   `json:"encrypted_segments" yaml:"encrypted_segments"`
	Records           int   `json:"records" yaml:"records"`
	Decoded           int   `json:"decoded" yaml:"decoded"`
	Unhandled         int   `json:"unhandled" yaml:"unhandled"`
	SchemaFailures    int   `json:"schema_failures" yaml:"schema_failures"`
	RowFailures       int   `json:"row_failures" yaml:"row_failures"`
}

// Result is the outcome of one scan
type Result struct {
	Objects    Index            `json:"objects" yaml:"objects"`
	Stats      Stats            `json:"stats" yaml:"stats"`
	Violations []*ProtocolError `json:"violations,omitempty" yaml:"violations,omitempty"`
	Orphans    []Orphan         `json:"orphans,omitempty" yaml:"orphans,omitempty"`
}

// Scanner walks a byte source looking for EFLR segments. A Scanner may be
// reused; each Scan call starts from offset zero with fresh state.
type Scanner struct {
	src     source.Source
	logger  log.Logger
	metrics *Metrics
	decoder *eflr.Decoder
	policy  OrphanPolicy
}

// NewScanner creates a Scanner over src
func NewScanner(src source.Source, config ScannerConfig) *Scanner {
	logger := config.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	policy := config.OrphanPolicy
	if policy == "" {
		policy = OrphanDefer
	}
	return &Scanner{
		src:     src,
		logger:  logger,
		metrics: config.Metrics,
		decoder: eflr.NewDecoder(config.Location),
		policy:  policy,
	}
}

// Scan runs a scanner with default configuration
func Scan(src source.Source) *Result {
	return NewScanner(src, ScannerConfig{}).Scan()
}

// pendingRecord is a logical record waiting for continuation segments
type pendingRecord struct {
	offset   int64
	setType  string
	kind     eflr.Kind
	body     []byte
	segments int
}

type scanState struct {
	*Scanner
	result  *Result
	index   *indexer
	pending *pendingRecord
}

// Scan walks the whole source. It never fails: noise is skipped one byte at
// a time and the scan ends when the attribute byte of a candidate header
// lies past the end of the source.
func (s *Scanner) Scan() *Result {
	start := time.Now()
	st := &scanState{
		Scanner: s,
		result:  &Result{},
		index:   newIndexer(s.policy, s.logger),
	}

	var pos int64
	for {
		b, err := s.src.ByteAt(pos + idxAttr)
		if err != nil {
			if !errors.Is(err, source.ErrEndOfData) {
				level.Error(s.logger).Log("msg", "reading source", "offset", pos, "err", err)
			}
			break
		}

		adv := st.step(pos, Attributes(b))
		if adv == 1 {
			st.result.Stats.BytesSkipped++
		}
		pos += adv
	}

	if st.pending != nil {
		level.Warn(s.logger).Log("msg", "source ended with an incomplete record",
			"set_type", st.pending.setType, "offset", st.pending.offset, "segments", st.pending.segments)
	}

	st.result.Objects = st.index.objects
	st.result.Orphans = st.index.orphans()
	if n := len(st.result.Orphans); n > 0 {
		level.Warn(s.logger).Log("msg", "records never attached to a file header", "count", n)
	}

	total := pos
	if total > s.src.Len() {
		total = s.src.Len()
	}
	st.result.Stats.BytesScanned = total
	st.observe(time.Since(start))

	level.Info(s.logger).Log("msg", "scan complete",
		"bytes", total,
		"objects", len(st.result.Objects),
		"records", st.result.Stats.Records,
		"skipped", st.result.Stats.BytesSkipped,
		"violations", len(st.result.Violations))

	return st.result
}

func (st *scanState) observe(elapsed time.Duration) {
	m := st.metrics
	if m == nil {
		return
	}
	m.Scans.Inc()
	m.BytesScanned.Add(float64(st.result.Stats.BytesScanned))
	m.BytesSkipped.Add(float64(st.result.Stats.BytesSkipped))
	m.ScanDuration.Observe(elapsed.Seconds())
}

// step examines the candidate header at pos and returns how far to advance
func (st *scanState) step(pos int64, attrs Attributes) int64 {
	switch {
	case attrs.IsFirst():
		seg, ok := st.matchFirst(pos, attrs)
		if !ok {
			return 1
		}
		if st.pending != nil {
			st.violation(seg)
			return 1
		}
		st.acceptFirst(seg)
		return int64(seg.Length)

	case attrs.IsContinuation():
		if st.pending == nil {
			return 1
		}
		seg, ok := st.matchContinuation(pos, attrs)
		if !ok {
			return 1
		}
		st.acceptContinuation(seg)
		return int64(seg.Length)

	case attrs.IsEFLR() && (attrs.IsEncrypted() || attrs.HasEncryptionPacket()):
		if _, ok := st.matchFirst(pos, attrs); ok {
			st.result.Stats.EncryptedSegments++
			level.Debug(st.logger).Log("msg", "skipping encrypted segment", "offset", pos, "attrs", attrs)
		}
		return 1
	}
	return 1
}

// matchFirst validates a first-segment header at pos. Any read past the end
// of the source rejects the candidate.
func (st *scanState) matchFirst(pos int64, attrs Attributes) (Segment, bool) {
	code, err := st.src.ByteAt(pos + idxType)
	if err != nil {
		return Segment{}, false
	}
	typ, ok := eflr.Lookup(code)
	if !ok {
		return Segment{}, false
	}

	nameLen, err := st.src.ByteAt(pos + idxNameLen)
	if err != nil || nameLen == 0 {
		return Segment{}, false
	}
	bodyStart := pos + idxName + int64(nameLen)
	name, err := st.src.Slice(pos+idxName, bodyStart)
	if err != nil {
		return Segment{}, false
	}
	setType := string(name)
	if !typ.Permits(setType) {
		return Segment{}, false
	}

	declared, err := readLength(st.src, pos)
	if err != nil {
		return Segment{}, false
	}
	usable, ok := UsableLength(st.src, pos, declared, attrs)
	if !ok || pos+usable < bodyStart {
		return Segment{}, false
	}
	payload, err := st.src.Slice(bodyStart, pos+usable)
	if err != nil {
		return Segment{}, false
	}

	return Segment{
		Offset:   pos,
		Length:   declared,
		Attrs:    attrs,
		Type:     code,
		SetType:  setType,
		Usable:   usable,
		Payload:  payload,
		Continue: attrs.HasSuccessor(),
	}, true
}

func (st *scanState) matchContinuation(pos int64, attrs Attributes) (Segment, bool) {
	declared, err := readLength(st.src, pos)
	if err != nil {
		return Segment{}, false
	}
	usable, ok := UsableLength(st.src, pos, declared, attrs)
	if !ok {
		return Segment{}, false
	}
	code, err := st.src.ByteAt(pos + idxType)
	if err != nil {
		return Segment{}, false
	}
	payload, err := st.src.Slice(pos+headerBytes, pos+usable)
	if err != nil {
		return Segment{}, false
	}

	return Segment{
		Offset:   pos,
		Length:   declared,
		Attrs:    attrs,
		Type:     code,
		Usable:   usable,
		Payload:  payload,
		Continue: attrs.HasSuccessor(),
	}, true
}

// violation records a first segment found while a record is pending. The
// segment is rejected and the pending record stays open.
func (st *scanState) violation(seg Segment) {
	p := st.pending
	verr := &ProtocolError{
		Offset:        seg.Offset,
		SetType:       seg.SetType,
		PendingOffset: p.offset,
		PendingSet:    p.setType,
		PendingBytes:  len(p.body),
	}
	level.Error(st.logger).Log("msg", "protocol violation", "err", verr)
	st.result.Violations = append(st.result.Violations, verr)
	if st.metrics != nil {
		st.metrics.Violations.Inc()
	}
}

func (st *scanState) acceptFirst(seg Segment) {
	st.result.Stats.Segments++
	if st.metrics != nil {
		st.metrics.Segments.WithLabelValues(PositionFirst).Inc()
	}
	level.Debug(st.logger).Log("msg", "segment", "offset", seg.Offset, "length", seg.Length,
		"attrs", seg.Attrs, "type", seg.Type, "set_type", seg.SetType, "usable", seg.Usable)

	kind := eflr.KindOf(seg.SetType)
	if !seg.Continue {
		st.dispatch(seg.Offset, seg.SetType, kind, seg.Payload)
		return
	}
	st.pending = &pendingRecord{
		offset:   seg.Offset,
		setType:  seg.SetType,
		kind:     kind,
		body:     append([]byte(nil), seg.Payload...),
		segments: 1,
	}
}

func (st *scanState) acceptContinuation(seg Segment) {
	p := st.pending
	p.body = append(p.body, seg.Payload...)
	p.segments++

	st.result.Stats.Segments++
	st.result.Stats.Continuations++
	if st.metrics != nil {
		st.metrics.Segments.WithLabelValues(PositionContinuation).Inc()
	}
	level.Debug(st.logger).Log("msg", "continuation", "offset", seg.Offset, "length", seg.Length,
		"attrs", seg.Attrs, "set_type", p.setType, "usable", seg.Usable)

	if seg.Continue {
		return
	}
	st.pending = nil
	st.dispatch(p.offset, p.setType, p.kind, p.body)
}

// dispatch decodes one complete logical record and files its frame
func (st *scanState) dispatch(offset int64, setType string, kind eflr.Kind, body []byte) {
	st.result.Stats.Records++

	switch kind {
	case eflr.KindFileHeader, eflr.KindChannel, eflr.KindFrame, eflr.KindOrigin, eflr.KindParameter:
		rec, err := st.decoder.Decode(body)
		if err != nil {
			st.result.Stats.SchemaFailures++
			st.countRecord(kind, OutcomeSchemaFailure)
			level.Warn(st.logger).Log("msg", "dropping record", "set_type", setType, "offset", offset, "err", err)
			return
		}
		if rec.RowErr != nil {
			st.result.Stats.RowFailures++
			level.Warn(st.logger).Log("msg", "row decode stopped", "set_type", setType, "offset", offset,
				"rows", len(rec.Frame.Data), "err", rec.RowErr)
		}
		st.result.Stats.Decoded++
		st.countRecord(kind, OutcomeDecoded)
		st.index.add(kind, rec.Frame)

	case eflr.KindUnhandled:
		st.result.Stats.Unhandled++
		st.countRecord(kind, OutcomeUnhandled)
		level.Debug(st.logger).Log("msg", "no decoder for set type", "set_type", setType, "offset", offset, "bytes", len(body))
	}
}

func (st *scanState) countRecord(kind eflr.Kind, outcome string) {
	if st.metrics == nil {
		return
	}
	st.metrics.Records.WithLabelValues(kind.String(), outcome).Inc()
}
