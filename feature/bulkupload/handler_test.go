package bulkupload_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"bulk-ingest/core/database"
	"bulk-ingest/core/schema"
	"bulk-ingest/core/storage/mocks"
	"bulk-ingest/feature/bulkupload"
	"bulk-ingest/feature/bulkupload/jobs"
	"bulk-ingest/feature/bulkupload/models"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const validFeed = `<mrss><channel><item><type>1</type><name>clip</name></item></channel></mrss>`

func setupApp(t *testing.T) (*fiber.App, *jobs.Repository, *mocks.Client) {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	repo := jobs.NewRepository(db)
	require.NoError(t, repo.Migrate())

	s, err := schema.Default()
	require.NoError(t, err)

	mockClient := new(mocks.Client)
	svc := bulkupload.NewService(repo, jobs.NewSource(mockClient, "feeds"), s,
		bulkupload.Defaults{MaxRecordsPerRun: 50}, zap.NewNop())

	app := fiber.New()
	feature := bulkupload.NewFeature(svc)
	assert.Equal(t, "bulkupload", feature.Name())
	assert.True(t, feature.IsEnabled())
	require.NoError(t, feature.Load(app))
	return app, repo, mockClient
}

func decode(t *testing.T, body io.Reader, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(v))
}

func TestHandleValidate(t *testing.T) {
	app, _, _ := setupApp(t)

	req := httptest.NewRequest("POST", "/bulkupload/validate", strings.NewReader(validFeed))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var ok struct {
		Valid bool `json:"valid"`
	}
	decode(t, resp.Body, &ok)
	assert.True(t, ok.Valid)

	req = httptest.NewRequest("POST", "/bulkupload/validate", strings.NewReader(`<mrss><channel><item><bogus/></item></channel></mrss>`))
	resp, err = app.Test(req)
	require.NoError(t, err)

	var bad struct {
		Valid      bool               `json:"valid"`
		Violations []schema.Violation `json:"violations"`
	}
	decode(t, resp.Body, &bad)
	assert.False(t, bad.Valid)
	require.NotEmpty(t, bad.Violations)
	assert.Equal(t, 1, bad.Violations[0].Line)
}

func TestHandleCreateJob(t *testing.T) {
	app, repo, mockClient := setupApp(t)
	mockClient.On("PutObject", mock.Anything, "feeds", mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "feeds/") && strings.HasSuffix(key, ".xml")
	}), mock.Anything, int64(len(validFeed)), mock.Anything).Return(minio.UploadInfo{}, nil)

	req := httptest.NewRequest("POST", "/bulkupload/jobs?partner_id=12&ingestion_profile_id=3", strings.NewReader(validFeed))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var job models.Job
	decode(t, resp.Body, &job)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, 12, job.PartnerID)
	assert.Equal(t, 50, job.MaxRecordsPerRun)
	require.NotNil(t, job.IngestionProfileID)
	assert.Equal(t, 3, *job.IngestionProfileID)
	assert.Equal(t, "s3://feeds/feeds/"+job.ID+".xml", job.Source)

	stored, err := repo.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, stored.Status)

	resp, err = app.Test(httptest.NewRequest("GET", "/bulkupload/jobs/"+job.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/bulkupload/jobs/"+job.ID+"/abort", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	aborted, err := repo.AbortRequested(context.Background(), job.ID)
	require.NoError(t, err)
	assert.True(t, aborted)
	mockClient.AssertExpectations(t)
}

func TestHandleCreateJob_Invalid(t *testing.T) {
	app, _, mockClient := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/bulkupload/jobs", strings.NewReader(`<mrss>`)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/bulkupload/jobs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	mockClient.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleGetResults(t *testing.T) {
	app, repo, _ := setupApp(t)
	ctx := context.Background()

	job := &models.Job{PartnerID: 1, Source: "/tmp/feed.xml"}
	require.NoError(t, repo.CreateJob(ctx, job))
	job.StartIndex = 2
	require.NoError(t, repo.RecordInvocation(ctx, job, []*models.UploadResult{
		{JobID: job.ID, LineIndex: 1, Action: "add", EntryID: "0_a"},
		{JobID: job.ID, LineIndex: 2, Action: "add", Status: -2, ErrorDescription: "Missing entry id element"},
	}))

	resp, err := app.Test(httptest.NewRequest("GET", "/bulkupload/jobs/"+job.ID+"/results", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		JobID   string                `json:"job_id"`
		Results []models.UploadResult `json:"results"`
	}
	decode(t, resp.Body, &body)
	assert.Equal(t, job.ID, body.JobID)
	require.Len(t, body.Results, 2)
	assert.Equal(t, "0_a", body.Results[0].EntryID)
	assert.True(t, body.Results[1].Failed())
}

func TestHandleUnknownJob(t *testing.T) {
	app, _, _ := setupApp(t)

	paths := []struct{ method, path string }{
		{"GET", "/bulkupload/jobs/missing"},
		{"GET", "/bulkupload/jobs/missing/results"},
		{"POST", "/bulkupload/jobs/missing/abort"},
	}
	for _, p := range paths {
		resp, err := app.Test(httptest.NewRequest(p.method, p.path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, p.path)
	}
}
