package rules

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory rule store for tests and demo mode.
type MemoryStore struct {
	mu    sync.RWMutex
	rules map[string]*Rule // by ID
}

// NewMemoryStore creates a new in-memory rule store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rules: make(map[string]*Rule)}
}

func (m *MemoryStore) Create(_ context.Context, r *Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.rules {
		if existing.Code == r.Code {
			return ErrCodeTaken
		}
	}

	cp := *r
	m.rules[r.ID] = &cp
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rules[id]
	if !ok {
		return nil, ErrRuleNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryStore) List(_ context.Context) ([]*Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(*Rule) bool { return true }), nil
}

func (m *MemoryStore) ListEnabled(_ context.Context) ([]*Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(r *Rule) bool { return r.Enabled }), nil
}

func (m *MemoryStore) collect(keep func(*Rule) bool) []*Rule {
	var result []*Rule
	for _, r := range m.rules {
		if keep(r) {
			cp := *r
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Code < result[j].Code
	})
	return result
}

func (m *MemoryStore) Update(_ context.Context, r *Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rules[r.ID]; !ok {
		return ErrRuleNotFound
	}
	for _, existing := range m.rules {
		if existing.ID != r.ID && existing.Code == r.Code {
			return ErrCodeTaken
		}
	}

	cp := *r
	m.rules[r.ID] = &cp
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rules[id]; !ok {
		return ErrRuleNotFound
	}
	delete(m.rules, id)
	return nil
}

var _ Store = (*MemoryStore)(nil)
