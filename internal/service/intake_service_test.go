package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/idcard-api/internal/models"
	appErrors "github.com/campushq/idcard-api/pkg/errors"
)

type mockRequestCreator struct {
	created *models.StudentRequest
	err     error
}

func (m *mockRequestCreator) Create(ctx context.Context, req *models.StudentRequest) error {
	if m.err != nil {
		return m.err
	}
	req.ID = "req-1"
	m.created = req
	return nil
}

type mockUploadStorage struct {
	saved map[string][]byte
	err   error
}

func (m *mockUploadStorage) SaveStream(filename string, r io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[filename] = data
	return filename, nil
}

// Minimal valid PNG header so content sniffing resolves to image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func validSubmission() SubmitRequest {
	return SubmitRequest{
		StudentID:   "S-100",
		CardType:    "new",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.edu",
		Program:     "Mathematics",
		RequestType: "standard",
	}
}

func TestIntakeServiceSubmitWithDocuments(t *testing.T) {
	repo := &mockRequestCreator{}
	store := &mockUploadStorage{}
	svc := NewIntakeService(repo, store, validator.New(), zap.NewNop(), IntakeConfig{})

	uploads := []DocumentUpload{
		{Slot: SlotPhoto, Filename: "me.png", Size: int64(len(pngHeader)), MimeType: "image/png", Content: bytes.NewReader(pngHeader)},
		{Slot: SlotGDCopy, Filename: "gd.pdf", Size: 4, MimeType: "application/pdf", Content: strings.NewReader("%PDF")},
	}

	req, err := svc.Submit(context.Background(), validSubmission(), uploads)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, req.Status)
	require.NotNil(t, req.Photo)
	require.NotNil(t, req.GDCopy)
	assert.Nil(t, req.OldIDImage)
	assert.Len(t, req.Documents, 2)
	assert.Len(t, store.saved, 2)

	// Stored references use generated names, not the applicant filename.
	assert.NotContains(t, *req.Photo, "me.png")
	assert.True(t, strings.HasSuffix(*req.Photo, ".png"))
}

func TestIntakeServiceSubmitWithoutDocuments(t *testing.T) {
	repo := &mockRequestCreator{}
	svc := NewIntakeService(repo, &mockUploadStorage{}, validator.New(), zap.NewNop(), IntakeConfig{})

	req, err := svc.Submit(context.Background(), validSubmission(), nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, req.Status)
	assert.Empty(t, req.Documents)
	assert.NotNil(t, req.Documents)
}

func TestIntakeServiceSubmitMissingRequiredFields(t *testing.T) {
	repo := &mockRequestCreator{}
	svc := NewIntakeService(repo, &mockUploadStorage{}, validator.New(), zap.NewNop(), IntakeConfig{})

	cases := []struct {
		name   string
		mutate func(*SubmitRequest)
	}{
		{"missing first name", func(r *SubmitRequest) { r.FirstName = "" }},
		{"missing email", func(r *SubmitRequest) { r.Email = "" }},
		{"malformed email", func(r *SubmitRequest) { r.Email = "not-an-email" }},
		{"missing program", func(r *SubmitRequest) { r.Program = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := validSubmission()
			tc.mutate(&sub)
			_, err := svc.Submit(context.Background(), sub, nil)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
			assert.Nil(t, repo.created)
		})
	}
}

func TestIntakeServiceSubmitOversizedFile(t *testing.T) {
	svc := NewIntakeService(&mockRequestCreator{}, &mockUploadStorage{}, validator.New(), zap.NewNop(), IntakeConfig{MaxFileSize: 8})

	uploads := []DocumentUpload{
		{Slot: SlotPhoto, Filename: "big.png", Size: 9, MimeType: "image/png", Content: bytes.NewReader(pngHeader)},
	}
	_, err := svc.Submit(context.Background(), validSubmission(), uploads)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestIntakeServiceSubmitDisallowedMime(t *testing.T) {
	svc := NewIntakeService(&mockRequestCreator{}, &mockUploadStorage{}, validator.New(), zap.NewNop(), IntakeConfig{})

	uploads := []DocumentUpload{
		{Slot: SlotPhoto, Filename: "script.html", Size: 12, MimeType: "text/html", Content: strings.NewReader("<html></html>")},
	}
	_, err := svc.Submit(context.Background(), validSubmission(), uploads)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestIntakeServiceSubmitUnknownSlot(t *testing.T) {
	svc := NewIntakeService(&mockRequestCreator{}, &mockUploadStorage{}, validator.New(), zap.NewNop(), IntakeConfig{})

	uploads := []DocumentUpload{
		{Slot: "transcript", Filename: "t.png", Size: int64(len(pngHeader)), MimeType: "image/png", Content: bytes.NewReader(pngHeader)},
	}
	_, err := svc.Submit(context.Background(), validSubmission(), uploads)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestIntakeServiceSniffsMissingMime(t *testing.T) {
	store := &mockUploadStorage{}
	svc := NewIntakeService(&mockRequestCreator{}, store, validator.New(), zap.NewNop(), IntakeConfig{})

	uploads := []DocumentUpload{
		{Slot: SlotPhoto, Filename: "me.png", Size: int64(len(pngHeader)), Content: bytes.NewReader(pngHeader)},
	}
	req, err := svc.Submit(context.Background(), validSubmission(), uploads)
	require.NoError(t, err)
	require.NotNil(t, req.Photo)

	// The stored bytes must be the full file even after sniffing read ahead.
	assert.Equal(t, pngHeader, store.saved[*req.Photo])
}
