package voiceprint

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/deeptruth/deeptruth/pkg/kv"
)

// Key layout:
//
//	voiceprint:{id} → msgpack-encoded Record
const keyPrefix = "voiceprint:"

// Snapshot writes every enrolled record to the store, replacing any
// previous snapshot. The registry itself stays authoritative; the
// snapshot only lets a process pick up its voiceprints after restart.
func (r *Registry) Snapshot(ctx context.Context, store kv.Store) error {
	records := r.List()

	// Drop records that no longer exist.
	existing, err := store.List(ctx, keyPrefix)
	if err != nil {
		return fmt.Errorf("voiceprint: list snapshot: %w", err)
	}
	current := make(map[string]bool, len(records))
	for _, record := range records {
		current[record.ID] = true
	}
	for _, entry := range existing {
		id := strings.TrimPrefix(entry.Key, keyPrefix)
		if !current[id] {
			if err := store.Delete(ctx, entry.Key); err != nil {
				return fmt.Errorf("voiceprint: delete stale record %q: %w", id, err)
			}
		}
	}

	for _, record := range records {
		data, err := msgpack.Marshal(record)
		if err != nil {
			return fmt.Errorf("voiceprint: encode record %q: %w", record.ID, err)
		}
		if err := store.Set(ctx, keyPrefix+record.ID, data); err != nil {
			return fmt.Errorf("voiceprint: store record %q: %w", record.ID, err)
		}
	}
	return nil
}

// Restore replaces the registry contents with the stored snapshot.
// Records are re-inserted oldest enrollment first, so iteration order
// (and the Match tie-break) survives the restart.
func (r *Registry) Restore(ctx context.Context, store kv.Store) error {
	entries, err := store.List(ctx, keyPrefix)
	if err != nil {
		return fmt.Errorf("voiceprint: list snapshot: %w", err)
	}

	records := make([]*Record, 0, len(entries))
	for _, entry := range entries {
		var record Record
		if err := msgpack.Unmarshal(entry.Value, &record); err != nil {
			return fmt.Errorf("voiceprint: decode record %q: %w", entry.Key, err)
		}
		records = append(records, &record)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RegisteredAt.Before(records[j].RegisteredAt)
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]*Record, len(records))
	r.order = r.order[:0]
	for _, record := range records {
		r.records[record.ID] = record
		r.order = append(r.order, record.ID)
	}
	return nil
}
