package repository

import (
	"context"

	"github.com/justsurfingit/job-portal/internal/models"
)

// JobFilter selects jobs. A zero value matches every job.
type JobFilter struct {
	HREmail string
}

// ApplicationFilter selects applications. Empty fields are not applied.
type ApplicationFilter struct {
	Email string
	JobID string
}

type UpdateCounts struct {
	Matched  int64
	Modified int64
}

// JobRepository owns the jobs collection. Lookups of an absent job return an
// apperrors.KindNotFound error; ids that cannot exist in the backend return
// apperrors.KindInvalidID.
type JobRepository interface {
	Insert(ctx context.Context, job *models.Job) (string, error)
	List(ctx context.Context, filter JobFilter) ([]models.Job, error)
	FindByID(ctx context.Context, id string) (*models.Job, error)
	// FindByIDs returns the jobs that exist, keyed by id. Unknown or malformed
	// ids are simply missing from the result.
	FindByIDs(ctx context.Context, ids []string) (map[string]models.Job, error)
}

// ApplicationRepository owns the applications collection.
type ApplicationRepository interface {
	Insert(ctx context.Context, app *models.Application) (string, error)
	List(ctx context.Context, filter ApplicationFilter) ([]models.Application, error)
	// CountByJobIDs returns the number of applications per job id with a single
	// grouped query. Jobs without applications are absent from the map.
	CountByJobIDs(ctx context.Context, jobIDs []string) (map[string]int64, error)
	UpdateStatus(ctx context.Context, id, status string) (UpdateCounts, error)
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
