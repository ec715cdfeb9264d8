package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/repository"
)

type JobService struct {
	Jobs         repository.JobRepository
	Applications repository.ApplicationRepository
	Logger       *zap.Logger
}

func NewJobService(jobs repository.JobRepository, apps repository.ApplicationRepository, logger *zap.Logger) *JobService {
	return &JobService{
		Jobs:         jobs,
		Applications: apps,
		Logger:       logger,
	}
}

// CreateJob stores the posted document as is.
func (s *JobService) CreateJob(ctx context.Context, doc models.Document) (*dtos.InsertResult, error) {
	job, err := models.NewJob(doc)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error(), err)
	}
	id, err := s.Jobs.Insert(ctx, job)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("job created", zap.String("job_id", id), zap.String("hr_email", job.HREmail))
	return &dtos.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// ListJobs returns every job, or only the ones posted by ownerEmail when it is set.
func (s *JobService) ListJobs(ctx context.Context, ownerEmail string) ([]models.Job, error) {
	return s.Jobs.List(ctx, repository.JobFilter{HREmail: ownerEmail})
}

// ListJobsWithApplicationCounts returns the owner's jobs with the number of
// applications each one received. Counts come from one grouped query rather
// than one count per job.
func (s *JobService) ListJobsWithApplicationCounts(ctx context.Context, ownerEmail string) ([]dtos.JobWithCount, error) {
	if ownerEmail == "" {
		return nil, apperrors.InvalidInput("owner email is required", nil)
	}

	jobs, err := s.Jobs.List(ctx, repository.JobFilter{HREmail: ownerEmail})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(jobs))
	for _, job := range jobs {
		ids = append(ids, job.ID)
	}
	counts, err := s.Applications.CountByJobIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.JobWithCount, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, dtos.JobWithCount{Job: job, ApplicationCount: counts[job.ID]})
	}
	return out, nil
}

// GetJob returns the job or an apperrors.KindNotFound error.
func (s *JobService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	return s.Jobs.FindByID(ctx, id)
}
