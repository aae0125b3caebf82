package model

import (
	"encoding/json"
	"time"
)

// RecycleItem is the archived snapshot of a deleted entity. It is written once
// and only ever removed, either by a restore or by a purge.
type RecycleItem struct {
	ID               string          `json:"id"`
	OwnerID          string          `json:"ownerId"`
	Type             Kind            `json:"type"`
	EntityID         string          `json:"entityId"`
	Data             json.RawMessage `json:"data"`
	ParentID         string          `json:"parentId,omitempty"`
	ParentType       Kind            `json:"parentType,omitempty"`
	OriginalLocation string          `json:"originalLocation,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

func (i RecycleItem) HasParent() bool {
	return i.ParentID != "" && i.ParentType != ""
}

type RecycleListData struct {
	Items []RecycleItem `json:"items"`
}

type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RestoreResult describes the entity that went back into its live store and
// how it differs from the archived snapshot.
type RestoreResult struct {
	Entity           Document  `json:"entity"`
	Type             Kind      `json:"type"`
	EntityID         string    `json:"entityId"`
	OriginalEntityID string    `json:"originalEntityId"`
	Orphaned         bool      `json:"orphaned"`
	ParentCleared    bool      `json:"parentCleared"`
	IDReassigned     bool      `json:"idReassigned"`
	Warnings         []Warning `json:"warnings"`
}

type ClearResult struct {
	DeletedCount int64 `json:"deletedCount"`
}
