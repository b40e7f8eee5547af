package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/idcard-api/internal/dto"
	"github.com/campushq/idcard-api/internal/models"
	appErrors "github.com/campushq/idcard-api/pkg/errors"
)

type mockRequestStore struct {
	requests     map[string]*models.StudentRequest
	pending      []models.StudentRequest
	rejected     map[string]*string
	listErr      error
	rejectErr    error
	rejectedAtTS time.Time
}

func newMockRequestStore() *mockRequestStore {
	return &mockRequestStore{
		requests: make(map[string]*models.StudentRequest),
		rejected: make(map[string]*string),
	}
}

func (m *mockRequestStore) GetByID(ctx context.Context, id string) (*models.StudentRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return req, nil
}

func (m *mockRequestStore) ListPending(ctx context.Context) ([]models.StudentRequest, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.pending, nil
}

func (m *mockRequestStore) List(ctx context.Context, status *models.RequestStatus) ([]models.StudentRequest, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.pending, nil
}

func (m *mockRequestStore) MarkRejected(ctx context.Context, id string, reason *string, ts time.Time) error {
	if m.rejectErr != nil {
		return m.rejectErr
	}
	if _, ok := m.requests[id]; !ok {
		return sql.ErrNoRows
	}
	m.rejected[id] = reason
	m.rejectedAtTS = ts
	return nil
}

type mockArchiveStore struct {
	archived   []*models.ApprovedApplication
	archiveErr error
	recent     []models.ApprovedApplication
}

func (m *mockArchiveStore) Archive(ctx context.Context, app *models.ApprovedApplication) error {
	if m.archiveErr != nil {
		return m.archiveErr
	}
	m.archived = append(m.archived, app)
	return nil
}

func (m *mockArchiveStore) Recent(ctx context.Context, limit int) ([]models.ApprovedApplication, error) {
	if limit < len(m.recent) {
		return m.recent[:limit], nil
	}
	return m.recent, nil
}

type mockSigner struct {
	calls int
	fail  bool
}

func (m *mockSigner) Generate(requestID, relPath string) (string, time.Time, error) {
	m.calls++
	if m.fail {
		return "", time.Time{}, assert.AnError
	}
	return "tok-" + requestID, time.Now().Add(time.Hour), nil
}

type mockInvalidator struct {
	calls int
}

func (m *mockInvalidator) InvalidateApplications(ctx context.Context) {
	m.calls++
}

func strPtr(s string) *string { return &s }

func pendingRequest(id string) *models.StudentRequest {
	return &models.StudentRequest{
		ID:        id,
		StudentID: "S-100",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.edu",
		Program:   "Mathematics",
		Photo:     strPtr("documents/photo.png"),
		Documents: []string{"documents/photo.png"},
		Status:    models.StatusPending,
		CreatedAt: time.Now().Add(-time.Hour),
	}
}

func TestReviewServiceApproveMigrates(t *testing.T) {
	requests := newMockRequestStore()
	requests.requests["r1"] = pendingRequest("r1")
	archive := &mockArchiveStore{}
	invalidator := &mockInvalidator{}
	svc := NewReviewService(requests, archive, &mockSigner{}, invalidator, zap.NewNop(), ReviewConfig{})

	res, err := svc.Decide(context.Background(), "r1", dto.DecisionRequest{Action: ActionApprove})
	require.NoError(t, err)
	assert.Equal(t, "Application approved", res.Message)

	require.Len(t, archive.archived, 1)
	app := archive.archived[0]
	assert.Equal(t, "r1", app.SourceRequestID)
	assert.Equal(t, "Ada", app.FirstName)
	assert.Equal(t, "ada@example.edu", app.Email)
	assert.Equal(t, []string{"documents/photo.png"}, []string(app.Documents))
	assert.False(t, app.ApprovedAt.IsZero())
	assert.Equal(t, 1, invalidator.calls)
}

func TestReviewServiceRejectInPlace(t *testing.T) {
	requests := newMockRequestStore()
	requests.requests["r1"] = pendingRequest("r1")
	archive := &mockArchiveStore{}
	svc := NewReviewService(requests, archive, &mockSigner{}, nil, zap.NewNop(), ReviewConfig{})

	res, err := svc.Decide(context.Background(), "r1", dto.DecisionRequest{Action: ActionReject, Reason: "photo unreadable"})
	require.NoError(t, err)
	assert.Equal(t, "Application rejected", res.Message)

	reason, ok := requests.rejected["r1"]
	require.True(t, ok)
	require.NotNil(t, reason)
	assert.Equal(t, "photo unreadable", *reason)
	assert.Empty(t, archive.archived)
}

func TestReviewServiceRejectWithoutReason(t *testing.T) {
	requests := newMockRequestStore()
	requests.requests["r1"] = pendingRequest("r1")
	svc := NewReviewService(requests, &mockArchiveStore{}, nil, nil, zap.NewNop(), ReviewConfig{})

	_, err := svc.Decide(context.Background(), "r1", dto.DecisionRequest{Action: ActionReject})
	require.NoError(t, err)

	reason, ok := requests.rejected["r1"]
	require.True(t, ok)
	assert.Nil(t, reason)
}

func TestReviewServiceInvalidAction(t *testing.T) {
	requests := newMockRequestStore()
	requests.requests["r1"] = pendingRequest("r1")
	svc := NewReviewService(requests, &mockArchiveStore{}, nil, nil, zap.NewNop(), ReviewConfig{})

	_, err := svc.Decide(context.Background(), "r1", dto.DecisionRequest{Action: "escalate"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidAction.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
}

func TestReviewServiceDecideUnknownRequest(t *testing.T) {
	svc := NewReviewService(newMockRequestStore(), &mockArchiveStore{}, nil, nil, zap.NewNop(), ReviewConfig{})

	_, err := svc.Decide(context.Background(), "missing", dto.DecisionRequest{Action: ActionApprove})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, 404, appErr.Status)
}

func TestReviewServiceDashboard(t *testing.T) {
	requests := newMockRequestStore()
	first := pendingRequest("r1")
	second := pendingRequest("r2")
	second.Photo = nil
	second.GDCopy = strPtr("documents/gd.pdf")
	requests.pending = []models.StudentRequest{*first, *second}

	archive := &mockArchiveStore{recent: []models.ApprovedApplication{
		{ID: "a1", FirstName: "Grace", ApprovedAt: time.Now()},
	}}
	signer := &mockSigner{}
	svc := NewReviewService(requests, archive, signer, nil, zap.NewNop(), ReviewConfig{RecentApprovedLimit: 5})

	res, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, res.PendingApplications, 2)
	require.Len(t, res.RecentApproved, 1)

	links := res.PendingApplications[0].DocumentLinks
	require.Len(t, links, 1)
	assert.Equal(t, SlotPhoto, links[0].Slot)
	assert.Contains(t, links[0].URL, "/api/admin/documents/download?token=")

	links = res.PendingApplications[1].DocumentLinks
	require.Len(t, links, 1)
	assert.Equal(t, SlotGDCopy, links[0].Slot)
	assert.Equal(t, 2, signer.calls)
}

func TestReviewServiceDashboardEmpty(t *testing.T) {
	svc := NewReviewService(newMockRequestStore(), &mockArchiveStore{}, nil, nil, zap.NewNop(), ReviewConfig{})

	res, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.PendingApplications)
	assert.NotNil(t, res.RecentApproved)
}

func TestReviewServiceListRequestsNeverNil(t *testing.T) {
	svc := NewReviewService(newMockRequestStore(), &mockArchiveStore{}, nil, nil, zap.NewNop(), ReviewConfig{})

	requests, err := svc.ListRequests(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, requests)
	assert.Empty(t, requests)
}
