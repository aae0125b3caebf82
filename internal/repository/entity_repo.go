package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"go-life-planner/internal/model"
)

type EntityRepository struct {
	db DBTX
}

func NewEntityRepository(db DBTX) *EntityRepository {
	return &EntityRepository{db: db}
}

func (r *EntityRepository) Get(ctx context.Context, collection string, ownerID string, id string) (model.Document, error) {
	return r.get(ctx, collection, ownerID, id, "")
}

func (r *EntityRepository) GetForUpdate(ctx context.Context, collection string, ownerID string, id string) (model.Document, error) {
	return r.get(ctx, collection, ownerID, id, " FOR UPDATE")
}

func (r *EntityRepository) get(ctx context.Context, collection string, ownerID string, id string, lock string) (model.Document, error) {
	table, err := tableName(collection)
	if err != nil {
		return nil, err
	}

	var raw []byte
	err = r.db.QueryRow(ctx,
		`SELECT data FROM `+table+` WHERE owner_id = $1 AND id = $2`+lock, ownerID, id).
		Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %s", model.ErrEntityNotFound, collection, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s entity: %w", collection, err)
	}
	return model.DecodeDocument(raw)
}

func (r *EntityRepository) Exists(ctx context.Context, collection string, ownerID string, id string) (bool, error) {
	table, err := tableName(collection)
	if err != nil {
		return false, err
	}

	var exists bool
	err = r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM `+table+` WHERE owner_id = $1 AND id = $2)`, ownerID, id).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check %s entity exists: %w", collection, err)
	}
	return exists, nil
}

func (r *EntityRepository) List(ctx context.Context, collection string, ownerID string) ([]model.Document, error) {
	table, err := tableName(collection)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT data FROM `+table+` WHERE owner_id = $1 ORDER BY created_at DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list %s entities: %w", collection, err)
	}
	defer rows.Close()

	docs := make([]model.Document, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s entity: %w", collection, err)
		}
		doc, err := model.DecodeDocument(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *EntityRepository) Insert(ctx context.Context, collection string, ownerID string, doc model.Document) error {
	table, err := tableName(collection)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode %s entity: %v", model.ErrValidation, collection, err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO `+table+` (owner_id, id, data) VALUES ($1, $2, $3)`, ownerID, doc.ID(), raw)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s %q already exists", model.ErrConflict, collection, doc.ID())
	}
	if isUnstorableText(err) {
		return fmt.Errorf("%w: %s %q contains text that cannot be stored: %v", model.ErrValidation, collection, doc.ID(), err)
	}
	if err != nil {
		return fmt.Errorf("insert %s entity: %w", collection, err)
	}
	return nil
}

func (r *EntityRepository) Delete(ctx context.Context, collection string, ownerID string, id string) error {
	table, err := tableName(collection)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM `+table+` WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete %s entity: %w", collection, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", model.ErrEntityNotFound, collection, id)
	}
	return nil
}
