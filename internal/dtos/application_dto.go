package dtos

import (
	"encoding/json"

	"github.com/justsurfingit/job-portal/internal/models"
)

type StatusUpdateRequest struct {
	Status *string `json:"status" binding:"required"`
}

// UpdateResult mirrors the acknowledgment returned for a single-document update.
// Upserts never happen; the fields are kept for clients that read them.
type UpdateResult struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedCount int64   `json:"upsertedCount"`
	UpsertedID    *string `json:"upsertedId"`
}

// ApplicationView is an application plus display fields copied from its job.
type ApplicationView struct {
	Application models.Application
	Job         models.Document
}

func (v ApplicationView) MarshalJSON() ([]byte, error) {
	doc := v.Application.Document()
	for k, val := range v.Job {
		doc[k] = val
	}
	return json.Marshal(doc)
}
