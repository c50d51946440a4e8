package memory

import (
	"context"
	"sync"

	domainrules "ratedesk/internal/domain/rules"
)

// RuleStore is the in-memory rule repository. Writes take the exclusive
// lock; reads hand out detached snapshots so a fold in flight can never
// observe a half-written mutation (copy-on-read, not copy-on-write:
// rule sets are low hundreds of records and reads dominate).
type RuleStore struct {
	mu    sync.RWMutex
	items map[domainrules.RuleID]*domainrules.Rule
	order []domainrules.RuleID
}

func NewRuleStore() *RuleStore {
	return &RuleStore{items: make(map[domainrules.RuleID]*domainrules.Rule)}
}

func (s *RuleStore) ByID(ctx context.Context, id domainrules.RuleID) (*domainrules.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rule, ok := s.items[id]
	if !ok {
		return nil, domainrules.ErrRuleNotFound
	}
	return rule.Snapshot(), nil
}

// List returns the rule set in insertion order. Ordering here is only a
// determinism aid for ties; the matcher owns the real ordering.
func (s *RuleStore) List(ctx context.Context) ([]*domainrules.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domainrules.Rule, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id].Snapshot())
	}
	return out, nil
}

func (s *RuleStore) Save(ctx context.Context, rule *domainrules.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[rule.ID]; !ok {
		s.order = append(s.order, rule.ID)
	}
	s.items[rule.ID] = rule.Snapshot()
	return nil
}

func (s *RuleStore) Delete(ctx context.Context, id domainrules.RuleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return nil
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

var _ domainrules.Repository = (*RuleStore)(nil)
