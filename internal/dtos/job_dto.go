package dtos

import (
	"encoding/json"

	"github.com/justsurfingit/job-portal/internal/models"
)

// InsertResult mirrors the acknowledgment returned for a single insert.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// JobWithCount is a job enriched with the number of applications it received.
type JobWithCount struct {
	Job              models.Job
	ApplicationCount int64
}

func (j JobWithCount) MarshalJSON() ([]byte, error) {
	doc := j.Job.Document()
	doc["application_count"] = j.ApplicationCount
	return json.Marshal(doc)
}
