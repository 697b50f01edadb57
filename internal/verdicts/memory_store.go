package verdicts

import (
	"context"
	"sort"
	"sync"

	"github.com/skarkon/crowsnest/internal/analysis"
)

const defaultLimit = 50

// MemoryStore is an in-memory verdict store for tests and demo mode.
type MemoryStore struct {
	mu       sync.RWMutex
	verdicts map[string]*analysis.Verdict // by ID
}

// NewMemoryStore creates a new in-memory verdict store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{verdicts: make(map[string]*analysis.Verdict)}
}

func (m *MemoryStore) Record(_ context.Context, v *analysis.Verdict) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := cloneVerdict(v)
	m.verdicts[v.ID] = cp
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*analysis.Verdict, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.verdicts[id]
	if !ok {
		return nil, ErrVerdictNotFound
	}
	return cloneVerdict(v), nil
}

func (m *MemoryStore) ListByCharacter(_ context.Context, characterID int64, limit int) ([]*analysis.Verdict, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(limit, func(v *analysis.Verdict) bool {
		return v.CharacterID == characterID
	}), nil
}

func (m *MemoryStore) ListRecent(_ context.Context, limit int) ([]*analysis.Verdict, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(limit, func(*analysis.Verdict) bool { return true }), nil
}

func (m *MemoryStore) collect(limit int, keep func(*analysis.Verdict) bool) []*analysis.Verdict {
	if limit <= 0 {
		limit = defaultLimit
	}
	var result []*analysis.Verdict
	for _, v := range m.verdicts {
		if keep(v) {
			result = append(result, cloneVerdict(v))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EvaluatedAt.After(result[j].EvaluatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

func cloneVerdict(v *analysis.Verdict) *analysis.Verdict {
	cp := *v
	cp.Flags = append([]analysis.Flag(nil), v.Flags...)
	cp.Recommendations = append([]string(nil), v.Recommendations...)
	cp.EvaluatorsRun = append([]string(nil), v.EvaluatorsRun...)
	cp.Errors = append([]string(nil), v.Errors...)
	return &cp
}

var _ Store = (*MemoryStore)(nil)
