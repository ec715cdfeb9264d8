package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/repository"
)

type ApplicationService struct {
	Applications repository.ApplicationRepository
	Jobs         repository.JobRepository
	Logger       *zap.Logger
}

func NewApplicationService(apps repository.ApplicationRepository, jobs repository.JobRepository, logger *zap.Logger) *ApplicationService {
	return &ApplicationService{
		Applications: apps,
		Jobs:         jobs,
		Logger:       logger,
	}
}

func (s *ApplicationService) CreateApplication(ctx context.Context, doc models.Document) (*dtos.InsertResult, error) {
	app, err := models.NewApplication(doc)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error(), err)
	}
	id, err := s.Applications.Insert(ctx, app)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("application created", zap.String("application_id", id), zap.String("job_id", app.JobID))
	return &dtos.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (s *ApplicationService) ListApplications(ctx context.Context) ([]models.Application, error) {
	return s.Applications.List(ctx, repository.ApplicationFilter{})
}

// ListApplicationsByJob does not check who owns the job.
func (s *ApplicationService) ListApplicationsByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	if jobID == "" {
		return nil, apperrors.InvalidInput("job id is required", nil)
	}
	return s.Applications.List(ctx, repository.ApplicationFilter{JobID: jobID})
}

// ListApplicationsForUser returns the applicant's applications with the
// company, title and logo of the job each one references. The referenced
// jobs are fetched in one batch. If any job is missing the whole call fails
// with a dangling_reference error; no partial list is returned.
func (s *ApplicationService) ListApplicationsForUser(ctx context.Context, email string) ([]dtos.ApplicationView, error) {
	if email == "" {
		return nil, apperrors.InvalidInput("email is required", nil)
	}

	apps, err := s.Applications.List(ctx, repository.ApplicationFilter{Email: email})
	if err != nil {
		return nil, err
	}

	jobIDs := make([]string, 0, len(apps))
	for _, app := range apps {
		jobIDs = append(jobIDs, app.JobID)
	}
	jobs, err := s.Jobs.FindByIDs(ctx, jobIDs)
	if err != nil {
		return nil, err
	}

	views := make([]dtos.ApplicationView, 0, len(apps))
	for _, app := range apps {
		job, ok := jobs[app.JobID]
		if !ok {
			s.Logger.Warn("application references a missing job",
				zap.String("application_id", app.ID),
				zap.String("job_id", app.JobID))
			return nil, apperrors.DanglingReference("application references a missing job", nil).
				WithDetail("applicationId", app.ID).
				WithDetail("jobId", app.JobID)
		}

		display := make(models.Document, len(models.JobDisplayFields))
		for _, key := range models.JobDisplayFields {
			if v, ok := job.Fields[key]; ok {
				display[key] = v
			}
		}
		views = append(views, dtos.ApplicationView{Application: app, Job: display})
	}
	return views, nil
}

// UpdateApplicationStatus sets status unconditionally. Neither the value nor
// the caller is checked.
func (s *ApplicationService) UpdateApplicationStatus(ctx context.Context, id, status string) (*dtos.UpdateResult, error) {
	counts, err := s.Applications.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("application status updated",
		zap.String("application_id", id),
		zap.String("status", status),
		zap.Int64("matched", counts.Matched),
		zap.Int64("modified", counts.Modified))
	return &dtos.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  counts.Matched,
		ModifiedCount: counts.Modified,
	}, nil
}
