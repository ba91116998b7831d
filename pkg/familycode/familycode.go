// Package familycode manages shared challenge questions a family can
// use to verify a caller when voice analysis alone is not conclusive.
//
// Answers are never stored in the clear: only a digest of the
// normalized answer is persisted, so a leaked store does not leak the
// secrets. Normalization makes verification forgiving about case and
// spacing while keeping the comparison exact.
package familycode

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/deeptruth/deeptruth/pkg/kv"
)

// ErrUnknownCode is returned when a challenge id is not registered.
var ErrUnknownCode = errors.New("familycode: unknown challenge")

// Challenge is one registered question. AnswerHash is the hex sha256 of
// the normalized answer; the plain answer is never kept.
type Challenge struct {
	ID         string    `msgpack:"id"`
	Name       string    `msgpack:"name"`
	Question   string    `msgpack:"question"`
	AnswerHash string    `msgpack:"answer_hash"`
	CreatedAt  time.Time `msgpack:"created_at"`
}

// Key layout:
//
//	familycode:{id} → msgpack-encoded Challenge
const keyPrefix = "familycode:"

// Store persists challenges in a kv store.
type Store struct {
	kv kv.Store
}

// NewStore creates a challenge store over the given kv backend.
func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// Register creates a challenge for a family member and returns it. The
// returned Challenge carries only the answer digest.
func (s *Store) Register(ctx context.Context, name, question, answer string) (*Challenge, error) {
	if strings.TrimSpace(question) == "" {
		return nil, errors.New("familycode: question is required")
	}
	if normalize(answer) == "" {
		return nil, errors.New("familycode: answer is required")
	}

	c := &Challenge{
		ID:         uuid.NewString()[:8],
		Name:       name,
		Question:   question,
		AnswerHash: hashAnswer(answer),
		CreatedAt:  time.Now(),
	}
	data, err := msgpack.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("familycode: encode challenge: %w", err)
	}
	if err := s.kv.Set(ctx, keyPrefix+c.ID, data); err != nil {
		return nil, fmt.Errorf("familycode: store challenge: %w", err)
	}
	return c, nil
}

// Verify reports whether the given answer matches the challenge.
// Comparison is over the normalized answer, so case and extra spacing
// do not matter.
func (s *Store) Verify(ctx context.Context, id, answer string) (bool, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return c.AnswerHash == hashAnswer(answer), nil
}

// Get returns one challenge by id.
func (s *Store) Get(ctx context.Context, id string) (*Challenge, error) {
	data, err := s.kv.Get(ctx, keyPrefix+id)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrUnknownCode
	}
	if err != nil {
		return nil, fmt.Errorf("familycode: load challenge: %w", err)
	}
	var c Challenge
	if err := msgpack.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("familycode: decode challenge %q: %w", id, err)
	}
	return &c, nil
}

// List returns every registered challenge with the answer digest
// blanked, oldest first.
func (s *Store) List(ctx context.Context) ([]*Challenge, error) {
	entries, err := s.kv.List(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("familycode: list challenges: %w", err)
	}
	out := make([]*Challenge, 0, len(entries))
	for _, entry := range entries {
		var c Challenge
		if err := msgpack.Unmarshal(entry.Value, &c); err != nil {
			return nil, fmt.Errorf("familycode: decode challenge %q: %w", entry.Key, err)
		}
		c.AnswerHash = ""
		out = append(out, &c)
	}
	sortByCreation(out)
	return out, nil
}

// Delete removes a challenge. Returns ErrUnknownCode if it does not
// exist.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, keyPrefix+id); err != nil {
		return fmt.Errorf("familycode: delete challenge %q: %w", id, err)
	}
	return nil
}

func sortByCreation(cs []*Challenge) {
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].CreatedAt.Before(cs[j].CreatedAt)
	})
}

// normalize lowercases the answer and collapses all whitespace runs to
// single spaces.
func normalize(answer string) string {
	return strings.Join(strings.Fields(strings.ToLower(answer)), " ")
}

func hashAnswer(answer string) string {
	sum := sha256.Sum256([]byte(normalize(answer)))
	return hex.EncodeToString(sum[:])
}
