package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"go-life-planner/internal/model"
)

// MemoryDB keeps the archive and every live collection in process. Units of
// work are serialized by one mutex and rolled back by restoring a copy of the
// state taken when the transaction began.
type MemoryDB struct {
	mu    sync.Mutex
	state memoryState
}

type entityKey struct {
	ownerID string
	id      string
}

type memoryEntity struct {
	raw       []byte
	createdAt time.Time
}

type memoryState struct {
	recycle  map[string]model.RecycleItem
	entities map[string]map[entityKey]memoryEntity
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{state: memoryState{
		recycle:  map[string]model.RecycleItem{},
		entities: map[string]map[entityKey]memoryEntity{},
	}}
}

func (s memoryState) clone() memoryState {
	out := memoryState{
		recycle:  make(map[string]model.RecycleItem, len(s.recycle)),
		entities: make(map[string]map[entityKey]memoryEntity, len(s.entities)),
	}
	for id, item := range s.recycle {
		out.recycle[id] = item
	}
	for collection, rows := range s.entities {
		copied := make(map[entityKey]memoryEntity, len(rows))
		for key, row := range rows {
			copied[key] = row
		}
		out.entities[collection] = copied
	}
	return out
}

func (m *MemoryDB) Stores() Stores {
	return m.stores(false)
}

func (m *MemoryDB) RunInTx(ctx context.Context, fn func(stores Stores) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	if err := fn(m.stores(true)); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

func (m *MemoryDB) stores(inTx bool) Stores {
	return Stores{
		Recycle:  &memoryRecycleStore{db: m, inTx: inTx},
		Entities: &memoryEntityStore{db: m, inTx: inTx},
	}
}

// with runs fn against the state, taking the lock unless the caller is
// already inside RunInTx.
func (m *MemoryDB) with(inTx bool, fn func(state *memoryState) error) error {
	if !inTx {
		m.mu.Lock()
		defer m.mu.Unlock()
	}
	return fn(&m.state)
}

type memoryRecycleStore struct {
	db   *MemoryDB
	inTx bool
}

func (s *memoryRecycleStore) Create(_ context.Context, item model.RecycleItem) error {
	if err := checkStorable(item.Data); err != nil {
		return fmt.Errorf("%w: snapshot of %s %q %v", model.ErrValidation, item.Type, item.EntityID, err)
	}

	return s.db.with(s.inTx, func(state *memoryState) error {
		if _, exists := state.recycle[item.ID]; exists {
			return fmt.Errorf("%w: recycle item %s already exists", model.ErrConflict, item.ID)
		}
		for _, existing := range state.recycle {
			if existing.OwnerID == item.OwnerID && existing.Type == item.Type && existing.EntityID == item.EntityID {
				return fmt.Errorf("%w: %s %q is already in the recycle bin", model.ErrConflict, item.Type, item.EntityID)
			}
		}
		item.Data = append(json.RawMessage(nil), item.Data...)
		state.recycle[item.ID] = item
		return nil
	})
}

func (s *memoryRecycleStore) FindByID(_ context.Context, ownerID string, id string) (model.RecycleItem, error) {
	var found model.RecycleItem
	err := s.db.with(s.inTx, func(state *memoryState) error {
		item, ok := state.recycle[id]
		if !ok || item.OwnerID != ownerID {
			return fmt.Errorf("%w: %s", model.ErrRecycleItemNotFound, id)
		}
		found = item
		found.Data = append(json.RawMessage(nil), item.Data...)
		return nil
	})
	return found, err
}

func (s *memoryRecycleStore) FindForUpdate(ctx context.Context, ownerID string, id string) (model.RecycleItem, error) {
	return s.FindByID(ctx, ownerID, id)
}

func (s *memoryRecycleStore) List(_ context.Context, ownerID string, kind model.Kind) ([]model.RecycleItem, error) {
	items := make([]model.RecycleItem, 0)
	err := s.db.with(s.inTx, func(state *memoryState) error {
		for _, item := range state.recycle {
			if item.OwnerID != ownerID {
				continue
			}
			if kind != "" && item.Type != kind {
				continue
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (s *memoryRecycleStore) Delete(_ context.Context, ownerID string, id string) error {
	return s.db.with(s.inTx, func(state *memoryState) error {
		item, ok := state.recycle[id]
		if !ok || item.OwnerID != ownerID {
			return fmt.Errorf("%w: %s", model.ErrRecycleItemNotFound, id)
		}
		delete(state.recycle, id)
		return nil
	})
}

func (s *memoryRecycleStore) DeleteAll(_ context.Context, ownerID string) (int64, error) {
	var count int64
	err := s.db.with(s.inTx, func(state *memoryState) error {
		for id, item := range state.recycle {
			if item.OwnerID == ownerID {
				delete(state.recycle, id)
				count++
			}
		}
		return nil
	})
	return count, err
}

func (s *memoryRecycleStore) DeleteOlderThan(_ context.Context, ownerID string, cutoff time.Time) (int64, error) {
	var count int64
	err := s.db.with(s.inTx, func(state *memoryState) error {
		for id, item := range state.recycle {
			if ownerID != "" && item.OwnerID != ownerID {
				continue
			}
			if item.CreatedAt.Before(cutoff) {
				delete(state.recycle, id)
				count++
			}
		}
		return nil
	})
	return count, err
}

type memoryEntityStore struct {
	db   *MemoryDB
	inTx bool
}

func (s *memoryEntityStore) Get(_ context.Context, collection string, ownerID string, id string) (model.Document, error) {
	var doc model.Document
	err := s.db.with(s.inTx, func(state *memoryState) error {
		if _, err := tableName(collection); err != nil {
			return err
		}
		row, ok := state.entities[collection][entityKey{ownerID: ownerID, id: id}]
		if !ok {
			return fmt.Errorf("%w: %s %s", model.ErrEntityNotFound, collection, id)
		}
		decoded, err := model.DecodeDocument(row.raw)
		if err != nil {
			return err
		}
		doc = decoded
		return nil
	})
	return doc, err
}

func (s *memoryEntityStore) GetForUpdate(ctx context.Context, collection string, ownerID string, id string) (model.Document, error) {
	return s.Get(ctx, collection, ownerID, id)
}

func (s *memoryEntityStore) Exists(_ context.Context, collection string, ownerID string, id string) (bool, error) {
	var exists bool
	err := s.db.with(s.inTx, func(state *memoryState) error {
		if _, err := tableName(collection); err != nil {
			return err
		}
		_, exists = state.entities[collection][entityKey{ownerID: ownerID, id: id}]
		return nil
	})
	return exists, err
}

func (s *memoryEntityStore) List(_ context.Context, collection string, ownerID string) ([]model.Document, error) {
	type listed struct {
		id        string
		createdAt time.Time
		raw       []byte
	}

	rows := make([]listed, 0)
	err := s.db.with(s.inTx, func(state *memoryState) error {
		if _, err := tableName(collection); err != nil {
			return err
		}
		for key, row := range state.entities[collection] {
			if key.ownerID == ownerID {
				rows = append(rows, listed{id: key.id, createdAt: row.createdAt, raw: row.raw})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].createdAt.Equal(rows[j].createdAt) {
			return rows[i].createdAt.After(rows[j].createdAt)
		}
		return rows[i].id < rows[j].id
	})

	docs := make([]model.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := model.DecodeDocument(row.raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *memoryEntityStore) Insert(_ context.Context, collection string, ownerID string, doc model.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode %s entity: %v", model.ErrValidation, collection, err)
	}
	if err := checkStorable(raw); err != nil {
		return fmt.Errorf("%w: %s %q %v", model.ErrValidation, collection, doc.ID(), err)
	}

	return s.db.with(s.inTx, func(state *memoryState) error {
		if _, err := tableName(collection); err != nil {
			return err
		}
		key := entityKey{ownerID: ownerID, id: doc.ID()}
		if _, exists := state.entities[collection][key]; exists {
			return fmt.Errorf("%w: %s %q already exists", model.ErrConflict, collection, doc.ID())
		}
		if state.entities[collection] == nil {
			state.entities[collection] = map[entityKey]memoryEntity{}
		}
		state.entities[collection][key] = memoryEntity{raw: raw, createdAt: time.Now().UTC()}
		return nil
	})
}

func (s *memoryEntityStore) Delete(_ context.Context, collection string, ownerID string, id string) error {
	return s.db.with(s.inTx, func(state *memoryState) error {
		if _, err := tableName(collection); err != nil {
			return err
		}
		key := entityKey{ownerID: ownerID, id: id}
		if _, exists := state.entities[collection][key]; !exists {
			return fmt.Errorf("%w: %s %s", model.ErrEntityNotFound, collection, id)
		}
		delete(state.entities[collection], key)
		return nil
	})
}

// checkStorable rejects the JSON text Postgres JSONB refuses, so both
// backends accept the same snapshots.
func checkStorable(raw []byte) error {
	if !utf8.Valid(raw) {
		return fmt.Errorf("contains invalid UTF-8")
	}

	backslashes := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' {
			backslashes++
			continue
		}
		if raw[i] == 'u' && backslashes%2 == 1 && bytes.HasPrefix(raw[i+1:], []byte("0000")) {
			return fmt.Errorf("contains a \\u0000 escape")
		}
		backslashes = 0
	}
	return nil
}
