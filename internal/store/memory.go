package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore serves a dataset held in memory, typically loaded from CSV.
type MemoryStore struct {
	mu    sync.RWMutex
	cands []Candidate
}

func NewMemoryStore(cands []Candidate) *MemoryStore {
	s := &MemoryStore{}
	_, _ = s.ImportCandidates(context.Background(), cands)
	return s
}

func (s *MemoryStore) ListCandidates(_ context.Context, filter CandidateFilter) ([]Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var want map[string]bool
	if len(filter.Codes) > 0 {
		want = make(map[string]bool, len(filter.Codes))
		for _, c := range filter.Codes {
			want[c] = true
		}
	}

	var out []Candidate
	skipped := 0
	for _, c := range s.cands {
		if want != nil && !want[c.Code] {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, c.Clone())
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) GetCandidate(_ context.Context, code string) (*Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := sort.Search(len(s.cands), func(i int) bool { return s.cands[i].Code >= code })
	if i < len(s.cands) && s.cands[i].Code == code {
		c := s.cands[i].Clone()
		return &c, nil
	}
	return nil, nil
}

// ImportCandidates replaces entries with the same code and keeps the table
// sorted by code.
func (s *MemoryStore) ImportCandidates(_ context.Context, cands []Candidate) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byCode := make(map[string]Candidate, len(s.cands)+len(cands))
	for _, c := range s.cands {
		byCode[c.Code] = c
	}
	for _, c := range cands {
		byCode[c.Code] = c.Clone()
	}

	merged := make([]Candidate, 0, len(byCode))
	for _, c := range byCode {
		merged = append(merged, c)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Code < merged[j].Code })
	s.cands = merged
	return len(cands), nil
}

// Replace swaps in a whole new dataset. Candidates absent from cands are
// gone afterwards.
func (s *MemoryStore) Replace(cands []Candidate) int {
	next := CloneAll(cands)
	sort.Slice(next, func(i, j int) bool { return next[i].Code < next[j].Code })

	s.mu.Lock()
	s.cands = next
	s.mu.Unlock()
	return len(next)
}

func (s *MemoryStore) Close() error { return nil }
