package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-life-planner/internal/metrics"
	"go-life-planner/internal/model"
	"go-life-planner/internal/registry"
	"go-life-planner/internal/repository"
)

const rootLocation = "root"

// ArchiveInput describes an entity about to be deleted. Snapshot is the full
// entity record; it is serialized verbatim into the archive.
type ArchiveInput struct {
	OwnerID          string
	Type             model.Kind
	EntityID         string
	Snapshot         any
	ParentID         string
	ParentType       model.Kind
	OriginalLocation string
}

type RecycleService struct {
	uow     repository.UnitOfWork
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

func NewRecycleService(uow repository.UnitOfWork, m *metrics.Metrics) *RecycleService {
	return &RecycleService{
		uow:     uow,
		metrics: m,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Archive writes a RecycleItem for a live entity. It never touches the live
// store; callers delete the entity only after Archive succeeds.
func (s *RecycleService) Archive(ctx context.Context, in ArchiveInput) (model.RecycleItem, error) {
	defer s.metrics.ObserveOperation("archive", time.Now())

	item, err := s.archive(ctx, s.uow.Stores().Recycle, in)
	if err != nil {
		return model.RecycleItem{}, err
	}

	s.recordArchived(item)
	return item, nil
}

func (s *RecycleService) archive(ctx context.Context, store repository.RecycleStore, in ArchiveInput) (model.RecycleItem, error) {
	item, err := s.buildItem(in)
	if err != nil {
		return model.RecycleItem{}, err
	}

	if err := store.Create(ctx, item); err != nil {
		return model.RecycleItem{}, err
	}

	return item, nil
}

func (s *RecycleService) recordArchived(item model.RecycleItem) {
	s.metrics.IncrementArchived(item.Type.String())
	slog.Info("entity archived",
		"recycle_id", item.ID,
		"owner_id", item.OwnerID,
		"type", item.Type,
		"entity_id", item.EntityID,
		"parent_id", item.ParentID,
	)
}

func (s *RecycleService) buildItem(in ArchiveInput) (model.RecycleItem, error) {
	if strings.TrimSpace(in.OwnerID) == "" {
		return model.RecycleItem{}, fmt.Errorf("%w: owner is required", model.ErrInvalidInput)
	}

	def, err := registry.Lookup(in.Type)
	if err != nil {
		return model.RecycleItem{}, err
	}

	raw, err := json.Marshal(in.Snapshot)
	if err != nil {
		return model.RecycleItem{}, fmt.Errorf("%w: snapshot of %s is not representable: %v", model.ErrValidation, def.Kind, err)
	}

	doc, err := model.DecodeDocument(raw)
	if err != nil {
		return model.RecycleItem{}, err
	}
	if err := def.Validate(doc); err != nil {
		return model.RecycleItem{}, err
	}

	entityID := strings.TrimSpace(in.EntityID)
	if entityID == "" {
		entityID = doc.ID()
	}
	if doc.ID() != entityID {
		return model.RecycleItem{}, fmt.Errorf("%w: snapshot id %q does not match entity id %q", model.ErrValidation, doc.ID(), entityID)
	}

	parentID := strings.TrimSpace(in.ParentID)
	parentType := in.ParentType
	switch {
	case parentID == "" && parentType == "":
		if p := def.ParentOf(doc); p != "" {
			parentID = p
			parentType = def.ParentKind
		}
	case parentID == "" || parentType == "":
		return model.RecycleItem{}, fmt.Errorf("%w: parentId and parentType must be given together", model.ErrValidation)
	default:
		if _, err := registry.Lookup(parentType); err != nil {
			return model.RecycleItem{}, err
		}
	}

	location := strings.TrimSpace(in.OriginalLocation)
	if location == "" {
		location = describeLocation(parentType, parentID)
	}

	return model.RecycleItem{
		ID:               s.newID(),
		OwnerID:          in.OwnerID,
		Type:             def.Kind,
		EntityID:         entityID,
		Data:             raw,
		ParentID:         parentID,
		ParentType:       parentType,
		OriginalLocation: location,
		CreatedAt:        s.timestamp(),
	}, nil
}

// Restore puts an archived entity back into its live collection. A missing
// parent clears the link instead of failing, and a live id collision gets a
// fresh id instead of overwriting. The archive record is removed in the same
// transaction as the insert.
func (s *RecycleService) Restore(ctx context.Context, ownerID string, id string) (model.RestoreResult, error) {
	defer s.metrics.ObserveOperation("restore", time.Now())

	var result model.RestoreResult
	err := s.uow.RunInTx(ctx, func(stores repository.Stores) error {
		restored, err := s.restore(ctx, stores, ownerID, id)
		if err != nil {
			return err
		}
		result = restored
		return nil
	})
	if err != nil {
		return model.RestoreResult{}, err
	}

	s.metrics.IncrementRestored(result.Type.String(), restoreOutcome(result))
	attrs := []any{
		"recycle_id", id,
		"owner_id", ownerID,
		"type", result.Type,
		"entity_id", result.EntityID,
	}
	if result.ParentCleared || result.IDReassigned {
		attrs = append(attrs,
			"orphaned", result.Orphaned,
			"parent_cleared", result.ParentCleared,
			"original_entity_id", result.OriginalEntityID,
		)
		slog.Warn("entity restored with adjustments", attrs...)
	} else {
		slog.Info("entity restored", attrs...)
	}

	return result, nil
}

func (s *RecycleService) restore(ctx context.Context, stores repository.Stores, ownerID string, id string) (model.RestoreResult, error) {
	item, err := stores.Recycle.FindForUpdate(ctx, ownerID, id)
	if err != nil {
		return model.RestoreResult{}, err
	}

	def, err := registry.Lookup(item.Type)
	if err != nil {
		return model.RestoreResult{}, err
	}

	doc, err := model.DecodeDocument(item.Data)
	if err != nil {
		return model.RestoreResult{}, err
	}
	if err := def.Validate(doc); err != nil {
		return model.RestoreResult{}, err
	}

	result := model.RestoreResult{
		Type:             item.Type,
		EntityID:         item.EntityID,
		OriginalEntityID: item.EntityID,
		Warnings:         []model.Warning{},
	}

	if item.HasParent() {
		parentDef, err := registry.Lookup(item.ParentType)
		if err != nil {
			return model.RestoreResult{}, err
		}

		exists, err := stores.Entities.Exists(ctx, parentDef.Collection, ownerID, item.ParentID)
		if err != nil {
			return model.RestoreResult{}, err
		}

		if !exists {
			result.ParentCleared = true
			result.Orphaned = def.ParentRequired
			if def.HasParent() && def.ParentKind == item.ParentType && def.ParentOf(doc) == item.ParentID {
				doc[def.ParentField] = nil
			}
		}
	}

	taken, err := stores.Entities.Exists(ctx, def.Collection, ownerID, item.EntityID)
	if err != nil {
		return model.RestoreResult{}, err
	}
	if taken {
		result.EntityID = s.newID()
		result.IDReassigned = true
		doc["id"] = result.EntityID
		result.Warnings = append(result.Warnings, model.Warning{
			Code:    "CONFLICT",
			Message: fmt.Sprintf("a live %s with id %q already exists; restored as %q", def.Kind, item.EntityID, result.EntityID),
		})
	}

	if err := stores.Entities.Insert(ctx, def.Collection, ownerID, doc); err != nil {
		return model.RestoreResult{}, err
	}

	if err := stores.Recycle.Delete(ctx, ownerID, item.ID); err != nil {
		return model.RestoreResult{}, err
	}

	result.Entity = doc
	return result, nil
}

func (s *RecycleService) Get(ctx context.Context, ownerID string, id string) (model.RecycleItem, error) {
	return s.uow.Stores().Recycle.FindByID(ctx, ownerID, id)
}

// List returns the owner's archive, most recently deleted first. An empty
// kind lists every type.
func (s *RecycleService) List(ctx context.Context, ownerID string, kind model.Kind) ([]model.RecycleItem, error) {
	if kind != "" {
		if _, err := registry.Lookup(kind); err != nil {
			return nil, err
		}
	}
	return s.uow.Stores().Recycle.List(ctx, ownerID, kind)
}

// Delete permanently removes one archive record.
func (s *RecycleService) Delete(ctx context.Context, ownerID string, id string) error {
	defer s.metrics.ObserveOperation("delete", time.Now())

	if err := s.uow.Stores().Recycle.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	s.metrics.AddPurged(metrics.ReasonSingle, 1)
	slog.Info("recycle item purged", "recycle_id", id, "owner_id", ownerID)
	return nil
}

// Clear permanently removes every archive record of the owner. Clearing an
// empty bin succeeds with zero removed.
func (s *RecycleService) Clear(ctx context.Context, ownerID string) (int64, error) {
	defer s.metrics.ObserveOperation("clear", time.Now())

	count, err := s.uow.Stores().Recycle.DeleteAll(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	s.metrics.AddPurged(metrics.ReasonClear, count)
	slog.Info("recycle bin cleared", "owner_id", ownerID, "deleted_count", count)
	return count, nil
}

// PurgeOlderThan removes archive records older than age. An empty ownerID
// purges across all owners and is meant for the external retention sweep.
func (s *RecycleService) PurgeOlderThan(ctx context.Context, ownerID string, age time.Duration) (int64, error) {
	defer s.metrics.ObserveOperation("purge", time.Now())

	if age <= 0 {
		return 0, fmt.Errorf("%w: retention age must be positive", model.ErrInvalidInput)
	}

	cutoff := s.timestamp().Add(-age)
	count, err := s.uow.Stores().Recycle.DeleteOlderThan(ctx, ownerID, cutoff)
	if err != nil {
		return 0, err
	}

	s.metrics.AddPurged(metrics.ReasonExpiry, count)
	slog.Info("expired recycle items purged", "owner_id", ownerID, "cutoff", cutoff, "deleted_count", count)
	return count, nil
}

// timestamp is truncated to the precision Postgres keeps.
func (s *RecycleService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func describeLocation(parentType model.Kind, parentID string) string {
	if parentID == "" {
		return rootLocation
	}
	return string(parentType) + "/" + parentID
}

func restoreOutcome(result model.RestoreResult) string {
	switch {
	case result.Orphaned:
		return metrics.OutcomeOrphaned
	case result.ParentCleared:
		return metrics.OutcomeParentLost
	case result.IDReassigned:
		return metrics.OutcomeIDReassigned
	default:
		return metrics.OutcomeClean
	}
}

// IsNotFound reports whether err means the archive record or live entity is
// absent for the caller.
func IsNotFound(err error) bool {
	return errors.Is(err, model.ErrRecycleItemNotFound) || errors.Is(err, model.ErrEntityNotFound)
}
