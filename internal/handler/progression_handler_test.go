package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pramuka-adm-api/internal/dto"
	"github.com/noah-isme/pramuka-adm-api/internal/middleware"
	"github.com/noah-isme/pramuka-adm-api/internal/models"
	appErrors "github.com/noah-isme/pramuka-adm-api/pkg/errors"
)

type progressionServiceMock struct {
	issueResp   *models.Progression
	issueErr    error
	listResp    []models.ProgressionDetail
	listErr     error
	summaryResp *models.ProgressionSummary
	lastFilter  models.ProgressionFilter
	mulaCalled  bool
	bantuCalled bool
	listCalled  bool
}

func (m *progressionServiceMock) IssueMula(ctx context.Context, req dto.IssueTierRequest, claims *models.JWTClaims) (*models.Progression, error) {
	m.mulaCalled = true
	return m.issueResp, m.issueErr
}

func (m *progressionServiceMock) IssueBantu(ctx context.Context, req dto.IssueTierRequest, claims *models.JWTClaims) (*models.Progression, error) {
	m.bantuCalled = true
	return m.issueResp, m.issueErr
}

func (m *progressionServiceMock) IssueTata(ctx context.Context, req dto.IssueTierRequest, claims *models.JWTClaims) (*models.Progression, error) {
	return m.issueResp, m.issueErr
}

func (m *progressionServiceMock) Revert(ctx context.Context, req dto.RevertTierRequest, claims *models.JWTClaims) (*models.Progression, error) {
	return m.issueResp, m.issueErr
}

func (m *progressionServiceMock) List(ctx context.Context, filter models.ProgressionFilter, claims *models.JWTClaims) ([]models.ProgressionDetail, int, error) {
	m.listCalled = true
	m.lastFilter = filter
	return m.listResp, len(m.listResp), m.listErr
}

func (m *progressionServiceMock) GetByMember(ctx context.Context, memberID string, claims *models.JWTClaims) (*models.Progression, error) {
	return m.issueResp, m.issueErr
}

func (m *progressionServiceMock) Summary(ctx context.Context, claims *models.JWTClaims) (*models.ProgressionSummary, error) {
	return m.summaryResp, m.issueErr
}

func adminContext(t *testing.T, w *httptest.ResponseRecorder, method, target string, body []byte) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, target, nil)
	}
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})
	return c
}

func TestProgressionHandlerIssueMula(t *testing.T) {
	mockSvc := &progressionServiceMock{
		issueResp: &models.Progression{ID: "p-1", MemberID: "m-1", Mula: true},
	}
	handler := NewProgressionHandler(mockSvc)

	payload, _ := json.Marshal(dto.IssueTierRequest{MemberID: "m-1"})
	w := httptest.NewRecorder()
	c := adminContext(t, w, http.MethodPost, "/progressions/mula", payload)

	handler.IssueMula(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.mulaCalled)
}

func TestProgressionHandlerIssueInvalidBody(t *testing.T) {
	mockSvc := &progressionServiceMock{}
	handler := NewProgressionHandler(mockSvc)

	w := httptest.NewRecorder()
	c := adminContext(t, w, http.MethodPost, "/progressions/bantu", []byte(`{"member_id":`))

	handler.IssueBantu(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.bantuCalled)
}

func TestProgressionHandlerIssueServiceError(t *testing.T) {
	mockSvc := &progressionServiceMock{
		issueErr: appErrors.ErrConflict,
	}
	handler := NewProgressionHandler(mockSvc)

	payload, _ := json.Marshal(dto.IssueTierRequest{MemberID: "m-1"})
	w := httptest.NewRecorder()
	c := adminContext(t, w, http.MethodPost, "/progressions/mula", payload)

	handler.IssueMula(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestProgressionHandlerListParsesFilter(t *testing.T) {
	mockSvc := &progressionServiceMock{
		listResp: []models.ProgressionDetail{{Progression: models.Progression{ID: "p-1"}}},
	}
	handler := NewProgressionHandler(mockSvc)

	w := httptest.NewRecorder()
	c := adminContext(t, w, http.MethodGet, "/progressions?tier=bantu&search=budi&page=2", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.listCalled)
	assert.Equal(t, models.TierBantu, mockSvc.lastFilter.Tier)
	assert.Equal(t, "budi", mockSvc.lastFilter.Search)
	assert.Equal(t, 2, mockSvc.lastFilter.Page)
}
