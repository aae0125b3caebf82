package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"go-life-planner/internal/model"
)

const recycleColumns = `id, owner_id, type, entity_id, data, parent_id, parent_type, original_location, created_at`

type RecycleRepository struct {
	db DBTX
}

func NewRecycleRepository(db DBTX) *RecycleRepository {
	return &RecycleRepository{db: db}
}

func (r *RecycleRepository) Create(ctx context.Context, item model.RecycleItem) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO recycle_items (`+recycleColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		item.ID, item.OwnerID, string(item.Type), item.EntityID, []byte(item.Data),
		nullable(item.ParentID), nullable(string(item.ParentType)), nullable(item.OriginalLocation),
		item.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s %q is already in the recycle bin", model.ErrConflict, item.Type, item.EntityID)
	}
	if isUnstorableText(err) {
		return fmt.Errorf("%w: snapshot of %s %q contains text that cannot be stored: %v", model.ErrValidation, item.Type, item.EntityID, err)
	}
	if err != nil {
		return fmt.Errorf("create recycle item: %w", err)
	}
	return nil
}

func (r *RecycleRepository) FindByID(ctx context.Context, ownerID string, id string) (model.RecycleItem, error) {
	return r.findOne(ctx,
		`SELECT `+recycleColumns+` FROM recycle_items WHERE id = $1 AND owner_id = $2`, id, ownerID)
}

func (r *RecycleRepository) FindForUpdate(ctx context.Context, ownerID string, id string) (model.RecycleItem, error) {
	return r.findOne(ctx,
		`SELECT `+recycleColumns+` FROM recycle_items WHERE id = $1 AND owner_id = $2 FOR UPDATE`, id, ownerID)
}

func (r *RecycleRepository) findOne(ctx context.Context, query string, id string, ownerID string) (model.RecycleItem, error) {
	item, err := scanRecycleItem(r.db.QueryRow(ctx, query, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.RecycleItem{}, fmt.Errorf("%w: %s", model.ErrRecycleItemNotFound, id)
	}
	if err != nil {
		return model.RecycleItem{}, fmt.Errorf("find recycle item: %w", err)
	}
	return item, nil
}

func (r *RecycleRepository) List(ctx context.Context, ownerID string, kind model.Kind) ([]model.RecycleItem, error) {
	query := `SELECT ` + recycleColumns + ` FROM recycle_items WHERE owner_id = $1`
	args := []any{ownerID}
	if kind != "" {
		query += ` AND type = $2`
		args = append(args, string(kind))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recycle items: %w", err)
	}
	defer rows.Close()

	items := make([]model.RecycleItem, 0)
	for rows.Next() {
		item, err := scanRecycleItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recycle item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *RecycleRepository) Delete(ctx context.Context, ownerID string, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM recycle_items WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete recycle item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", model.ErrRecycleItemNotFound, id)
	}
	return nil
}

func (r *RecycleRepository) DeleteAll(ctx context.Context, ownerID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM recycle_items WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("clear recycle bin: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *RecycleRepository) DeleteOlderThan(ctx context.Context, ownerID string, cutoff time.Time) (int64, error) {
	query := `DELETE FROM recycle_items WHERE created_at < $1`
	args := []any{cutoff}
	if ownerID != "" {
		query += ` AND owner_id = $2`
		args = append(args, ownerID)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge expired recycle items: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanRecycleItem(row pgx.Row) (model.RecycleItem, error) {
	var item model.RecycleItem
	var kind string
	var data []byte
	var parentID, parentType, location *string

	if err := row.Scan(&item.ID, &item.OwnerID, &kind, &item.EntityID, &data,
		&parentID, &parentType, &location, &item.CreatedAt); err != nil {
		return model.RecycleItem{}, err
	}

	item.Type = model.Kind(kind)
	item.Data = data
	item.ParentID = deref(parentID)
	item.ParentType = model.Kind(deref(parentType))
	item.OriginalLocation = deref(location)
	item.CreatedAt = item.CreatedAt.UTC()
	return item, nil
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
