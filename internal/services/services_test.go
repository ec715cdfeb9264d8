package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/repository"
)

type fixture struct {
	jobs *JobService
	apps *ApplicationService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := database.Connect(context.Background(), database.SQLOptions{
		Driver:       database.DriverSQLite,
		DSN:          ":memory:",
		MaxOpenConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	jobRepo := repository.NewGormJobRepository(db)
	appRepo := repository.NewGormApplicationRepository(db)
	return fixture{
		jobs: NewJobService(jobRepo, appRepo, zap.NewNop()),
		apps: NewApplicationService(appRepo, jobRepo, zap.NewNop()),
	}
}

func (f fixture) createJob(t *testing.T, doc models.Document) string {
	t.Helper()
	res, err := f.jobs.CreateJob(context.Background(), doc)
	require.NoError(t, err)
	require.True(t, res.Acknowledged)
	return res.InsertedID
}

func (f fixture) apply(t *testing.T, doc models.Document) string {
	t.Helper()
	res, err := f.apps.CreateApplication(context.Background(), doc)
	require.NoError(t, err)
	return res.InsertedID
}

func toMap(t *testing.T, v any) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestCreateJob_GetJobRoundTrip(t *testing.T) {
	f := newFixture(t)
	payload := models.Document{
		"hr_email":     "a@x.com",
		"title":        "Engineer",
		"company":      "Acme",
		"company_logo": "https://acme.test/logo.png",
		"salaryRange":  map[string]any{"min": 100.0, "max": 150.0},
	}

	id := f.createJob(t, payload)
	job, err := f.jobs.GetJob(context.Background(), id)
	require.NoError(t, err)

	want := payload.Clone()
	want["_id"] = id
	assert.Equal(t, map[string]any(want), toMap(t, job))
}

func TestCreateJob_InvalidOwnerType(t *testing.T) {
	f := newFixture(t)

	_, err := f.jobs.CreateJob(context.Background(), models.Document{"hr_email": 1.0})
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))
}

func TestGetJob_Absent(t *testing.T) {
	f := newFixture(t)

	_, err := f.jobs.GetJob(context.Background(), "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestListJobs_OwnerFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine := f.createJob(t, models.Document{"hr_email": "a@x.com"})
	theirs := f.createJob(t, models.Document{"hr_email": "b@x.com"})

	jobs, err := f.jobs.ListJobs(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, mine, jobs[0].ID)

	jobs, err = f.jobs.ListJobs(ctx, "")
	require.NoError(t, err)
	var ids []string
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	assert.ElementsMatch(t, []string{mine, theirs}, ids)
}

func TestListJobsWithApplicationCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	busy := f.createJob(t, models.Document{"hr_email": "a@x.com", "title": "Busy"})
	quiet := f.createJob(t, models.Document{"hr_email": "a@x.com", "title": "Quiet"})
	other := f.createJob(t, models.Document{"hr_email": "b@x.com", "title": "Other"})

	for i := 0; i < 3; i++ {
		f.apply(t, models.Document{"jobId": busy, "email": "x@y.com"})
	}
	f.apply(t, models.Document{"jobId": other, "email": "x@y.com"})

	got, err := f.jobs.ListJobsWithApplicationCounts(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, got, 2)

	counts := map[string]int64{}
	for _, j := range got {
		counts[j.Job.ID] = j.ApplicationCount
	}
	assert.Equal(t, map[string]int64{busy: 3, quiet: 0}, counts)

	asJSON := toMap(t, got[0])
	assert.Contains(t, asJSON, "application_count")
}

func TestListJobsWithApplicationCounts_NoJobs(t *testing.T) {
	f := newFixture(t)

	got, err := f.jobs.ListJobsWithApplicationCounts(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = f.jobs.ListJobsWithApplicationCounts(context.Background(), "")
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))
}

func TestListApplicationsForUser_Enriches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	jobID := f.createJob(t, models.Document{
		"hr_email":     "a@x.com",
		"title":        "Engineer",
		"company":      "Acme",
		"company_logo": "https://acme.test/logo.png",
		"location":     "Remote",
	})
	appID := f.apply(t, models.Document{"jobId": jobID, "email": "me@x.com", "status": "pending"})
	f.apply(t, models.Document{"jobId": jobID, "email": "someone@x.com"})

	views, err := f.apps.ListApplicationsForUser(ctx, "me@x.com")
	require.NoError(t, err)
	require.Len(t, views, 1)

	assert.Equal(t, map[string]any{
		"_id":          appID,
		"jobId":        jobID,
		"email":        "me@x.com",
		"status":       "pending",
		"company":      "Acme",
		"title":        "Engineer",
		"company_logo": "https://acme.test/logo.png",
	}, toMap(t, views[0]))
}

func TestListApplicationsForUser_MissingDisplayFieldsStayAbsent(t *testing.T) {
	f := newFixture(t)

	jobID := f.createJob(t, models.Document{"hr_email": "a@x.com", "title": "Engineer"})
	f.apply(t, models.Document{"jobId": jobID, "email": "me@x.com"})

	views, err := f.apps.ListApplicationsForUser(context.Background(), "me@x.com")
	require.NoError(t, err)
	require.Len(t, views, 1)

	got := toMap(t, views[0])
	assert.Equal(t, "Engineer", got["title"])
	assert.NotContains(t, got, "company")
	assert.NotContains(t, got, "company_logo")
}

func TestListApplicationsForUser_DanglingReference(t *testing.T) {
	f := newFixture(t)

	jobID := f.createJob(t, models.Document{"hr_email": "a@x.com", "title": "Engineer"})
	f.apply(t, models.Document{"jobId": jobID, "email": "me@x.com"})
	orphan := f.apply(t, models.Document{"jobId": "1b4e28ba-2fa1-11d2-883f-0016d3cca427", "email": "me@x.com"})

	views, err := f.apps.ListApplicationsForUser(context.Background(), "me@x.com")
	assert.Nil(t, views)
	require.True(t, apperrors.Is(err, apperrors.KindDanglingReference))

	appErr := apperrors.As(err)
	assert.Equal(t, orphan, appErr.Details["applicationId"])
	assert.Equal(t, "1b4e28ba-2fa1-11d2-883f-0016d3cca427", appErr.Details["jobId"])
}

func TestListApplicationsByJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.apply(t, models.Document{"jobId": "j1", "email": "a@x.com"})
	f.apply(t, models.Document{"jobId": "j1", "email": "b@x.com"})
	f.apply(t, models.Document{"jobId": "j2", "email": "a@x.com"})

	apps, err := f.apps.ListApplicationsByJob(ctx, "j1")
	require.NoError(t, err)
	assert.Len(t, apps, 2)

	all, err := f.apps.ListApplications(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateApplicationStatus_OnlyStatusChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.apply(t, models.Document{"jobId": "j1", "email": "me@x.com", "status": "pending", "phone": "555"})

	res, err := f.apps.UpdateApplicationStatus(ctx, id, "accepted")
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)
	assert.EqualValues(t, 1, res.MatchedCount)
	assert.EqualValues(t, 1, res.ModifiedCount)

	all, err := f.apps.ListApplications(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, map[string]any{
		"_id":    id,
		"jobId":  "j1",
		"email":  "me@x.com",
		"status": "accepted",
		"phone":  "555",
	}, toMap(t, all[0]))
}
