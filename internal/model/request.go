package model

import "encoding/json"

type ArchiveRequest struct {
	Type             string          `json:"type"`
	EntityID         string          `json:"entityId"`
	Data             json.RawMessage `json:"data"`
	ParentID         string          `json:"parentId,omitempty"`
	ParentType       string          `json:"parentType,omitempty"`
	OriginalLocation string          `json:"originalLocation,omitempty"`
}

type EntityListData struct {
	Type  Kind       `json:"type"`
	Items []Document `json:"items"`
}
