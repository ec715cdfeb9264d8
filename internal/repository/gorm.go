package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/models"
)

type GormJobRepository struct {
	DB *gorm.DB
}

func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{DB: db}
}

func (r *GormJobRepository) Insert(ctx context.Context, job *models.Job) (string, error) {
	if err := r.DB.WithContext(ctx).Create(job).Error; err != nil {
		return "", apperrors.Internal("insert job", err)
	}
	return job.ID, nil
}

func (r *GormJobRepository) List(ctx context.Context, filter JobFilter) ([]models.Job, error) {
	q := r.DB.WithContext(ctx)
	if filter.HREmail != "" {
		q = q.Where("hr_email = ?", filter.HREmail)
	}

	jobs := []models.Job{}
	if err := q.Find(&jobs).Error; err != nil {
		return nil, apperrors.Internal("list jobs", err)
	}
	return jobs, nil
}

func (r *GormJobRepository) FindByID(ctx context.Context, id string) (*models.Job, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.InvalidID(id, err)
	}

	var job models.Job
	err := r.DB.WithContext(ctx).First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("job not found").WithDetail("id", id)
	}
	if err != nil {
		return nil, apperrors.Internal("find job", err)
	}
	return &job, nil
}

func (r *GormJobRepository) FindByIDs(ctx context.Context, ids []string) (map[string]models.Job, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range uniqueIDs(ids) {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}

	out := make(map[string]models.Job, len(valid))
	if len(valid) == 0 {
		return out, nil
	}

	var jobs []models.Job
	if err := r.DB.WithContext(ctx).Where("id IN ?", valid).Find(&jobs).Error; err != nil {
		return nil, apperrors.Internal("find jobs", err)
	}
	for _, job := range jobs {
		out[job.ID] = job
	}
	return out, nil
}

type GormApplicationRepository struct {
	DB *gorm.DB
}

func NewGormApplicationRepository(db *gorm.DB) *GormApplicationRepository {
	return &GormApplicationRepository{DB: db}
}

func (r *GormApplicationRepository) Insert(ctx context.Context, app *models.Application) (string, error) {
	if err := r.DB.WithContext(ctx).Create(app).Error; err != nil {
		return "", apperrors.Internal("insert application", err)
	}
	return app.ID, nil
}

func (r *GormApplicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]models.Application, error) {
	q := r.DB.WithContext(ctx)
	if filter.Email != "" {
		q = q.Where("email = ?", filter.Email)
	}
	if filter.JobID != "" {
		q = q.Where("job_id = ?", filter.JobID)
	}

	apps := []models.Application{}
	if err := q.Find(&apps).Error; err != nil {
		return nil, apperrors.Internal("list applications", err)
	}
	return apps, nil
}

func (r *GormApplicationRepository) CountByJobIDs(ctx context.Context, jobIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(jobIDs))
	ids := uniqueIDs(jobIDs)
	if len(ids) == 0 {
		return out, nil
	}

	var rows []struct {
		JobID string
		Count int64
	}
	err := r.DB.WithContext(ctx).
		Model(&models.Application{}).
		Select("job_id, COUNT(*) AS count").
		Where("job_id IN ?", ids).
		Group("job_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Internal("count applications", err)
	}
	for _, row := range rows {
		out[row.JobID] = row.Count
	}
	return out, nil
}

func (r *GormApplicationRepository) UpdateStatus(ctx context.Context, id, status string) (UpdateCounts, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UpdateCounts{}, apperrors.InvalidID(id, err)
	}

	db := r.DB.WithContext(ctx)
	res := db.Model(&models.Application{}).
		Where("id = ?", id).
		Where("status IS NULL OR status <> ?", status).
		Update("status", status)
	if res.Error != nil {
		return UpdateCounts{}, apperrors.Internal("update application status", res.Error)
	}
	if res.RowsAffected > 0 {
		return UpdateCounts{Matched: res.RowsAffected, Modified: res.RowsAffected}, nil
	}

	// Nothing changed: either the id is unknown or the status already matches.
	var matched int64
	if err := db.Model(&models.Application{}).Where("id = ?", id).Count(&matched).Error; err != nil {
		return UpdateCounts{}, apperrors.Internal("update application status", err)
	}
	return UpdateCounts{Matched: matched}, nil
}
