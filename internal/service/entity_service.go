package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-life-planner/internal/model"
	"go-life-planner/internal/registry"
	"go-life-planner/internal/repository"
)

// EntityService owns the live collections. Deleting through it archives the
// entity first, in the same transaction.
type EntityService struct {
	uow     repository.UnitOfWork
	recycle *RecycleService
	now     func() time.Time
}

func NewEntityService(uow repository.UnitOfWork, recycle *RecycleService) *EntityService {
	return &EntityService{uow: uow, recycle: recycle, now: time.Now}
}

// Create stores doc in the kind's live collection. A missing id is generated.
func (s *EntityService) Create(ctx context.Context, ownerID string, kind model.Kind, doc model.Document) (model.Document, error) {
	def, err := registry.Lookup(kind)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: entity body is required", model.ErrValidation)
	}

	created := doc.Clone()
	if strings.TrimSpace(created.ID()) == "" {
		created["id"] = uuid.NewString()
	}

	stamp := s.now().UTC().Format(time.RFC3339Nano)
	if _, ok := created["createdAt"]; !ok {
		created["createdAt"] = stamp
	}
	created["updatedAt"] = stamp

	raw, err := json.Marshal(created)
	if err != nil {
		return nil, fmt.Errorf("%w: %s entity is not representable: %v", model.ErrValidation, def.Kind, err)
	}
	if created, err = model.DecodeDocument(raw); err != nil {
		return nil, err
	}

	if err := def.Validate(created); err != nil {
		return nil, err
	}

	if err := s.uow.Stores().Entities.Insert(ctx, def.Collection, ownerID, created); err != nil {
		return nil, err
	}

	slog.Info("entity created", "owner_id", ownerID, "type", def.Kind, "entity_id", created.ID())
	return created, nil
}

func (s *EntityService) Get(ctx context.Context, ownerID string, kind model.Kind, id string) (model.Document, error) {
	def, err := registry.Lookup(kind)
	if err != nil {
		return nil, err
	}
	return s.uow.Stores().Entities.Get(ctx, def.Collection, ownerID, id)
}

func (s *EntityService) List(ctx context.Context, ownerID string, kind model.Kind) ([]model.Document, error) {
	def, err := registry.Lookup(kind)
	if err != nil {
		return nil, err
	}
	return s.uow.Stores().Entities.List(ctx, def.Collection, ownerID)
}

// Delete archives the live entity and then removes it. If archiving fails the
// entity stays live.
func (s *EntityService) Delete(ctx context.Context, ownerID string, kind model.Kind, id string, location string) (model.RecycleItem, error) {
	def, err := registry.Lookup(kind)
	if err != nil {
		return model.RecycleItem{}, err
	}

	var item model.RecycleItem
	err = s.uow.RunInTx(ctx, func(stores repository.Stores) error {
		doc, err := stores.Entities.GetForUpdate(ctx, def.Collection, ownerID, id)
		if err != nil {
			return err
		}

		archived, err := s.recycle.archive(ctx, stores.Recycle, ArchiveInput{
			OwnerID:          ownerID,
			Type:             def.Kind,
			EntityID:         id,
			Snapshot:         doc,
			OriginalLocation: location,
		})
		if err != nil {
			return err
		}

		if err := stores.Entities.Delete(ctx, def.Collection, ownerID, id); err != nil {
			return err
		}

		item = archived
		return nil
	})
	if err != nil {
		return model.RecycleItem{}, err
	}

	s.recycle.recordArchived(item)
	return item, nil
}
