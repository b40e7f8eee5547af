package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/idcard-api/internal/models"
	"github.com/campushq/idcard-api/internal/service"
	"github.com/campushq/idcard-api/pkg/export"
	"github.com/campushq/idcard-api/pkg/storage"
)

type fakeRequestStore struct {
	requests map[string]*models.StudentRequest
	rejected map[string]*string
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{
		requests: make(map[string]*models.StudentRequest),
		rejected: make(map[string]*string),
	}
}

func (f *fakeRequestStore) GetByID(ctx context.Context, id string) (*models.StudentRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return req, nil
}

func (f *fakeRequestStore) ListPending(ctx context.Context) ([]models.StudentRequest, error) {
	var pending []models.StudentRequest
	for _, req := range f.requests {
		if req.Status == models.StatusPending {
			pending = append(pending, *req)
		}
	}
	return pending, nil
}

func (f *fakeRequestStore) List(ctx context.Context, status *models.RequestStatus) ([]models.StudentRequest, error) {
	var requests []models.StudentRequest
	for _, req := range f.requests {
		if status == nil || req.Status == *status {
			requests = append(requests, *req)
		}
	}
	return requests, nil
}

func (f *fakeRequestStore) MarkRejected(ctx context.Context, id string, reason *string, ts time.Time) error {
	if _, ok := f.requests[id]; !ok {
		return sql.ErrNoRows
	}
	f.rejected[id] = reason
	return nil
}

type fakeArchiveStore struct {
	archived []*models.ApprovedApplication
}

func (f *fakeArchiveStore) Archive(ctx context.Context, app *models.ApprovedApplication) error {
	f.archived = append(f.archived, app)
	return nil
}

func (f *fakeArchiveStore) Recent(ctx context.Context, limit int) ([]models.ApprovedApplication, error) {
	return nil, nil
}

type fakeApprovedLister struct {
	apps []models.ApprovedApplication
}

func (f *fakeApprovedLister) List(ctx context.Context) ([]models.ApprovedApplication, error) {
	return f.apps, nil
}

func newAdminFixture(t *testing.T) (*AdminHandler, *fakeRequestStore, *fakeArchiveStore) {
	t.Helper()
	requests := newFakeRequestStore()
	archive := &fakeArchiveStore{}
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	cacheSvc := service.NewCacheService(nil, nil, 0, zap.NewNop(), false)
	archiveSvc := service.NewArchiveService(&fakeApprovedLister{apps: []models.ApprovedApplication{
		{ID: "a1", StudentID: "S-100", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.edu", Program: "Mathematics", ApprovedAt: time.Now()},
	}}, cacheSvc, export.NewCSVExporter(), export.NewPDFExporter(), zap.NewNop())
	reviewSvc := service.NewReviewService(requests, archive, signer, archiveSvc, zap.NewNop(), service.ReviewConfig{})

	return NewAdminHandler(reviewSvc, archiveSvc, signer, files, zap.NewNop()), requests, archive
}

func decide(t *testing.T, handler *AdminHandler, id, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "id", Value: id}}
	c.Request = httptest.NewRequest(http.MethodPost, "/api/admin/application/"+id+"/action", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Decide(c)
	return rec
}

func TestAdminHandlerDecideApprove(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, requests, archive := newAdminFixture(t)
	requests.requests["r1"] = &models.StudentRequest{ID: "r1", FirstName: "Ada", Email: "ada@example.edu", Program: "Mathematics", Status: models.StatusPending}

	rec := decide(t, handler, "r1", `{"action":"approve"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Application approved")
	require.Len(t, archive.archived, 1)
	assert.Equal(t, "r1", archive.archived[0].SourceRequestID)
}

func TestAdminHandlerDecideReject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, requests, _ := newAdminFixture(t)
	requests.requests["r1"] = &models.StudentRequest{ID: "r1", Status: models.StatusPending}

	rec := decide(t, handler, "r1", `{"action":"reject","reason":"photo unreadable"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Application rejected")
	reason, ok := requests.rejected["r1"]
	require.True(t, ok)
	require.NotNil(t, reason)
	assert.Equal(t, "photo unreadable", *reason)
}

func TestAdminHandlerDecideInvalidAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, requests, _ := newAdminFixture(t)
	requests.requests["r1"] = &models.StudentRequest{ID: "r1", Status: models.StatusPending}

	rec := decide(t, handler, "r1", `{"action":"escalate"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_ACTION", body.Error.Code)
}

func TestAdminHandlerDecideUnknownRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := newAdminFixture(t)

	rec := decide(t, handler, "missing", `{"action":"approve"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminHandlerDecideMissingAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, requests, _ := newAdminFixture(t)
	requests.requests["r1"] = &models.StudentRequest{ID: "r1", Status: models.StatusPending}

	rec := decide(t, handler, "r1", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminHandlerDashboard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, requests, _ := newAdminFixture(t)
	photo := "documents/photo.png"
	requests.requests["r1"] = &models.StudentRequest{ID: "r1", FirstName: "Ada", Status: models.StatusPending, Photo: &photo}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)

	handler.Dashboard(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		PendingApplications []struct {
			ID            string `json:"id"`
			DocumentLinks []struct {
				Slot string `json:"slot"`
				URL  string `json:"url"`
			} `json:"documentLinks"`
		} `json:"pendingApplications"`
		RecentApproved []json.RawMessage `json:"recentApproved"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.PendingApplications, 1)
	require.Len(t, body.PendingApplications[0].DocumentLinks, 1)
	assert.Equal(t, "photo", body.PendingApplications[0].DocumentLinks[0].Slot)
	assert.NotNil(t, body.RecentApproved)
}

func TestAdminHandlerListRequestsInvalidStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := newAdminFixture(t)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/admin/requests?status=approved", nil)

	handler.ListRequests(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := newAdminFixture(t)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/admin/applications/export?format=csv", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "Ada Lovelace")
}

func TestAdminHandlerDownloadDocument(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := newAdminFixture(t)

	_, err := handler.files.SaveStream("documents/photo.png", strings.NewReader("fake-png-bytes"))
	require.NoError(t, err)

	token, _, err := handler.signer.Generate("r1", "documents/photo.png")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/admin/documents/download?token="+url.QueryEscape(token), nil)

	handler.DownloadDocument(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fake-png-bytes", rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestAdminHandlerDownloadDocumentBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := newAdminFixture(t)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/admin/documents/download?token=garbage", nil)

	handler.DownloadDocument(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminHandlerDownloadDocumentMissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := newAdminFixture(t)

	token, _, err := handler.signer.Generate("r1", "documents/gone.png")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/admin/documents/download?token="+url.QueryEscape(token), nil)

	handler.DownloadDocument(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
