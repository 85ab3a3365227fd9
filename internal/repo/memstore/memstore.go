// Package memstore is an in-memory Store implementation: the reference
// and test double, and the default when no Redis address is configured.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"github.com/cargostow/stowage/internal/repo"
)

// Store is a concurrent, in-memory implementation of repo.Store.
// Reads take a shared lock; writes take an exclusive one.
type Store struct {
	mu sync.RWMutex

	containers map[string]repo.ContainerRecord
	items      map[string]*cargo.Item
	logs       []repo.LogEntry
}

func New() *Store {
	return &Store{
		containers: make(map[string]repo.ContainerRecord),
		items:      make(map[string]*cargo.Item),
	}
}

// SeedContainer registers container metadata directly, bypassing the
// Store interface. Containers are created once at process start (§3
// Lifecycle) and never go through the mutating API.
func (s *Store) SeedContainer(rec repo.ContainerRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.containers[rec.ContainerID] = rec
}

func (s *Store) GetContainers(ctx context.Context) ([]repo.ContainerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.containers))
	for id := range s.containers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]repo.ContainerRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.containers[id])
	}
	return out, nil
}

func (s *Store) GetItems(ctx context.Context) ([]*cargo.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*cargo.Item, 0, len(ids))
	for _, id := range ids {
		cp := *s.items[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) UpsertItem(ctx context.Context, item *cargo.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *item
	s.items[item.ItemID] = &cp
	return nil
}

func (s *Store) UpdateItem(ctx context.Context, itemID string, patch repo.ItemPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemID]
	if !ok {
		return cargo.ErrNotFound
	}
	if patch.Status != nil {
		item.Status = *patch.Status
	}
	if patch.ContainerID != nil {
		item.ContainerID = *patch.ContainerID
	}
	if patch.Position != nil {
		pos := *patch.Position
		item.Position = &pos
	}
	if patch.RemainingUses != nil {
		item.RemainingUses = *patch.RemainingUses
	}
	if patch.WasteReason != nil {
		item.WasteReason = *patch.WasteReason
	}
	return nil
}

func (s *Store) MarkWaste(ctx context.Context, itemID string, reason cargo.WasteReason) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemID]
	if !ok {
		return cargo.ErrNotFound
	}
	item.Status = cargo.StatusWaste
	item.WasteReason = reason
	return nil
}

func (s *Store) GetWaste(ctx context.Context) ([]*cargo.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*cargo.Item
	for _, item := range s.items {
		if item.Status == cargo.StatusWaste {
			cp := *item
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (s *Store) AppendLog(ctx context.Context, entry repo.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	return nil
}

func (s *Store) ReadLogs(ctx context.Context, filter repo.LogFilter) ([]repo.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]repo.LogEntry, 0, len(s.logs))
	for _, e := range s.logs {
		if filter.ActionType != "" && e.ActionType != filter.ActionType {
			continue
		}
		if filter.Since != nil && e.Timestamp.Before(*filter.Since) {
			continue
		}
		if filter.Until != nil && e.Timestamp.After(*filter.Until) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
