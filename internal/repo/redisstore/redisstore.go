// Package redisstore is the production Store implementation: Redis holds
// the durable documents, keyed per §6's layout (three logical collections
// keyed by containerId, itemId, and an auto-id for logs).
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"github.com/cargostow/stowage/internal/repo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	containerKeyPrefix = "stowage:container:"
	containerIDsKey    = "stowage:containers"
	itemKeyPrefix      = "stowage:item:"
	itemIDsKey         = "stowage:items"
	logKey             = "stowage:log"
)

func containerKey(id string) string { return containerKeyPrefix + id }
func itemKey(id string) string      { return itemKeyPrefix + id }

// Store is a Redis-backed repo.Store. Document writes (UpsertContainer,
// UpsertItem) are a single TxPipeline: the document plus its id-set
// membership go in one round trip, matching the teacher's per-entity
// repository shape. AppendLog issues INCR and RPUSH as separate calls.
type Store struct {
	rdb *redis.Client
	log *zap.Logger
}

func New(rdb *redis.Client, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{rdb: rdb, log: log.Named("redisstore")}
}

func (s *Store) GetContainers(ctx context.Context) ([]repo.ContainerRecord, error) {
	ids, err := s.rdb.SMembers(ctx, containerIDsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers: %w", cargo.ErrUnavailable)
	}
	sort.Strings(ids)

	out := make([]repo.ContainerRecord, 0, len(ids))
	for _, id := range ids {
		raw, err := s.rdb.Get(ctx, containerKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", id, cargo.ErrUnavailable)
		}
		var rec repo.ContainerRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode container %s: %w", id, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// UpsertContainer persists container metadata. Containers are created
// once at process start (§3 Lifecycle) and never deleted by the core.
func (s *Store) UpsertContainer(ctx context.Context, rec repo.ContainerRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, containerKey(rec.ContainerID), payload, 0)
	pipe.SAdd(ctx, containerIDsKey, rec.ContainerID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("exec: %w", cargo.ErrUnavailable)
	}
	return nil
}

func (s *Store) GetItems(ctx context.Context) ([]*cargo.Item, error) {
	ids, err := s.rdb.SMembers(ctx, itemIDsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers: %w", cargo.ErrUnavailable)
	}
	sort.Strings(ids)

	out := make([]*cargo.Item, 0, len(ids))
	for _, id := range ids {
		item, err := s.getItem(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Store) getItem(ctx context.Context, id string) (*cargo.Item, error) {
	raw, err := s.rdb.Get(ctx, itemKey(id)).Result()
	if err == redis.Nil {
		return nil, cargo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, cargo.ErrUnavailable)
	}
	var item cargo.Item
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, fmt.Errorf("decode item %s: %w", id, err)
	}
	return &item, nil
}

func (s *Store) UpsertItem(ctx context.Context, item *cargo.Item) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, itemKey(item.ItemID), payload, 0)
	pipe.SAdd(ctx, itemIDsKey, item.ItemID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("exec: %w", cargo.ErrUnavailable)
	}
	return nil
}

func (s *Store) UpdateItem(ctx context.Context, itemID string, patch repo.ItemPatch) error {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return err
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
	return s.UpsertItem(ctx, item)
}

func (s *Store) MarkWaste(ctx context.Context, itemID string, reason cargo.WasteReason) error {
	waste := cargo.StatusWaste
	return s.UpdateItem(ctx, itemID, repo.ItemPatch{Status: &waste, WasteReason: &reason})
}

func (s *Store) GetWaste(ctx context.Context) ([]*cargo.Item, error) {
	items, err := s.GetItems(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*cargo.Item, 0)
	for _, item := range items {
		if item.Status == cargo.StatusWaste {
			out = append(out, item)
		}
	}
	return out, nil
}

// logRecord is the wire shape appended to the Redis list: a JSON-encoded
// repo.LogEntry plus a monotonic sequence number. ReadLogs returns entries
// in list (append) order and does not sort by Seq.
type logRecord struct {
	Seq   int64          `json:"seq"`
	Entry repo.LogEntry `json:"entry"`
}

func (s *Store) AppendLog(ctx context.Context, entry repo.LogEntry) error {
	seq, err := s.rdb.Incr(ctx, logKey+":seq").Result()
	if err != nil {
		return fmt.Errorf("incr: %w", cargo.ErrUnavailable)
	}
	payload, err := json.Marshal(logRecord{Seq: seq, Entry: entry})
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := s.rdb.RPush(ctx, logKey, payload).Err(); err != nil {
		return fmt.Errorf("rpush: %w", cargo.ErrUnavailable)
	}
	return nil
}

func (s *Store) ReadLogs(ctx context.Context, filter repo.LogFilter) ([]repo.LogEntry, error) {
	raws, err := s.rdb.LRange(ctx, logKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange: %w", cargo.ErrUnavailable)
	}

	out := make([]repo.LogEntry, 0, len(raws))
	for _, raw := range raws {
		var rec logRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode log entry: %w", err)
		}
		e := rec.Entry
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
