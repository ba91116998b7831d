// Package history keeps an append-only log of verification results.
//
// Entries are stored newest-first: the key embeds an inverted timestamp
// so a plain prefix scan already yields reverse-chronological order and
// pagination never has to sort.
package history

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/deeptruth/deeptruth/pkg/kv"
	"github.com/deeptruth/deeptruth/pkg/verify"
)

// ErrUnknownEntry is returned when an entry id is not in the log.
var ErrUnknownEntry = errors.New("history: unknown entry")

// Entry is one recorded verification.
type Entry struct {
	ID                  string        `msgpack:"id"`
	Timestamp           time.Time     `msgpack:"timestamp"`
	Filename            string        `msgpack:"filename"`
	DeepfakeProbability float64       `msgpack:"deepfake_probability"`
	IsDeepfake          bool          `msgpack:"is_deepfake"`
	Similarity          float64       `msgpack:"similarity"`
	VoiceprintMatch     bool          `msgpack:"voiceprint_match"`
	MatchedName         string        `msgpack:"matched_name"`
	RiskLevel           string        `msgpack:"risk_level"`
	AnalysisMode        string        `msgpack:"analysis_mode"`
	Duration            time.Duration `msgpack:"duration"`
}

// FromResult converts a pipeline result into a log entry. The id and
// timestamp are assigned by Append.
func FromResult(filename string, res *verify.Result) *Entry {
	e := &Entry{
		Filename:            filename,
		DeepfakeProbability: res.DeepfakeProbability,
		IsDeepfake:          res.IsDeepfake,
		VoiceprintMatch:     res.VoiceprintMatch,
		RiskLevel:           res.Risk.Level.String(),
		AnalysisMode:        string(res.AnalysisMode),
		Duration:            res.Duration,
	}
	if res.Match != nil {
		e.Similarity = res.Match.Similarity
		e.MatchedName = res.Match.MatchedName
	}
	return e
}

// Stats summarizes the whole log.
type Stats struct {
	Total          int
	Deepfakes      int
	ByRiskLevel    map[string]int
	AvgProbability float64
	VoiceprintHits int
}

// Key layout:
//
//	history:{inverted-nanos}:{id} → msgpack-encoded Entry
//	history-id:{id}              → entry key, for O(1) lookup by id
//
// The inverted timestamp (MaxInt64 minus UnixNano, zero-padded) makes
// lexicographic key order equal reverse-chronological order.
const (
	entryPrefix = "history:"
	indexPrefix = "history-id:"
)

// Log is the verification history over a kv store.
type Log struct {
	kv kv.Store
}

// NewLog creates a history log over the given kv backend.
func NewLog(store kv.Store) *Log {
	return &Log{kv: store}
}

// Append records an entry, assigning its id and timestamp, and returns
// the stored copy.
func (l *Log) Append(ctx context.Context, e *Entry) (*Entry, error) {
	stored := *e
	stored.ID = uuid.NewString()[:8]
	stored.Timestamp = time.Now()

	key := entryKey(stored.Timestamp, stored.ID)
	data, err := msgpack.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("history: encode entry: %w", err)
	}
	if err := l.kv.Set(ctx, key, data); err != nil {
		return nil, fmt.Errorf("history: store entry: %w", err)
	}
	if err := l.kv.Set(ctx, indexPrefix+stored.ID, []byte(key)); err != nil {
		return nil, fmt.Errorf("history: index entry: %w", err)
	}
	return &stored, nil
}

// List returns entries newest first. A limit of 0 means no limit;
// offset skips the newest entries for pagination.
func (l *Log) List(ctx context.Context, limit, offset int) ([]*Entry, error) {
	entries, err := l.kv.List(ctx, entryPrefix)
	if err != nil {
		return nil, fmt.Errorf("history: list entries: %w", err)
	}
	if offset >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]*Entry, 0, len(entries))
	for _, kvEntry := range entries {
		var e Entry
		if err := msgpack.Unmarshal(kvEntry.Value, &e); err != nil {
			return nil, fmt.Errorf("history: decode entry %q: %w", kvEntry.Key, err)
		}
		out = append(out, &e)
	}
	return out, nil
}

// Get returns one entry by id.
func (l *Log) Get(ctx context.Context, id string) (*Entry, error) {
	key, err := l.kv.Get(ctx, indexPrefix+id)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrUnknownEntry
	}
	if err != nil {
		return nil, fmt.Errorf("history: resolve entry %q: %w", id, err)
	}
	data, err := l.kv.Get(ctx, string(key))
	if err != nil {
		return nil, fmt.Errorf("history: load entry %q: %w", id, err)
	}
	var e Entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("history: decode entry %q: %w", id, err)
	}
	return &e, nil
}

// Stats walks the whole log and aggregates it.
func (l *Log) Stats(ctx context.Context) (*Stats, error) {
	entries, err := l.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	s := &Stats{ByRiskLevel: make(map[string]int)}
	var probSum float64
	for _, e := range entries {
		s.Total++
		if e.IsDeepfake {
			s.Deepfakes++
		}
		if e.VoiceprintMatch {
			s.VoiceprintHits++
		}
		s.ByRiskLevel[e.RiskLevel]++
		probSum += e.DeepfakeProbability
	}
	if s.Total > 0 {
		s.AvgProbability = probSum / float64(s.Total)
	}
	return s, nil
}

func entryKey(ts time.Time, id string) string {
	inverted := math.MaxInt64 - ts.UnixNano()
	return fmt.Sprintf("%s%020d:%s", entryPrefix, inverted, id)
}
