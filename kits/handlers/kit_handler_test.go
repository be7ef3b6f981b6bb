package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	kiterrors "github.com/gunplahub/api/kits/errors"
	"github.com/gunplahub/api/kits/models"
)

// mockKitService is a testify mock of services.KitService.
type mockKitService struct {
	mock.Mock
}

func (m *mockKitService) ListKits(ctx context.Context, params models.ListKitsParams) (*models.KitListResponse, error) {
	args := m.Called(ctx, params)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.KitListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockKitService) GetKit(ctx context.Context, id int64) (*models.KitDetail, error) {
	args := m.Called(ctx, id)
	if detail := args.Get(0); detail != nil {
		return detail.(*models.KitDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockKitService) GetRelated(ctx context.Context, id int64) (*models.RelatedKits, error) {
	args := m.Called(ctx, id)
	if related := args.Get(0); related != nil {
		return related.(*models.RelatedKits), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockKitService) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	args := m.Called(ctx)
	if options := args.Get(0); options != nil {
		return options.(*models.FilterOptions), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestApp(service *mockKitService) *fiber.App {
	app := fiber.New()
	handler := NewKitHandler(service)

	group := app.Group("/kits")
	group.Get("/", handler.ListKits)
	group.Get("/:kitId", handler.GetKit)
	group.Get("/:kitId/related", handler.GetRelated)
	app.Get("/filters", handler.FilterOptions)
	return app
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out))
}

func emptyListResponse() *models.KitListResponse {
	return &models.KitListResponse{
		Data:       []models.KitRecord{},
		Pagination: models.Pagination{Page: 1, Limit: 20, Total: 0, TotalPages: 1},
	}
}

func TestListKitsReturnsEnvelope(t *testing.T) {
	service := new(mockKitService)
	app := newTestApp(service)

	service.On("ListKits", mock.Anything, mock.Anything).Return(&models.KitListResponse{
		Data: []models.KitRecord{{ID: 1, Name: "RX-78-2 Gundam"}},
		Pagination: models.Pagination{
			Page: 1, Limit: 20, Total: 45, TotalPages: 3,
		},
	}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/kits?page=1&limit=20", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data       []models.KitRecord `json:"data"`
		Pagination models.Pagination  `json:"pagination"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "RX-78-2 Gundam", body.Data[0].Name)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 20, Total: 45, TotalPages: 3}, body.Pagination)
}

func TestListKitsSplitsCSVParams(t *testing.T) {
	service := new(mockKitService)
	app := newTestApp(service)

	service.On("ListKits", mock.Anything, mock.MatchedBy(func(p models.ListKitsParams) bool {
		return assert.ObjectsAreEqual([]string{"MG", "RG"}, p.Grades) &&
			assert.ObjectsAreEqual([]string{"UC"}, p.Timelines) &&
			assert.ObjectsAreEqual([]int64{3, 7}, p.Series)
	})).Return(emptyListResponse(), nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		"/kits?grade=MG,RG&timeline=UC&series=3,7", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	service.AssertExpectations(t)
}

func TestListKitsUnknownSortByIs400(t *testing.T) {
	service := new(mockKitService)
	app := newTestApp(service)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/kits?sortBy=evil_column", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body kiterrors.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, kiterrors.CodeValidationFailed, body.Code)
	service.AssertNotCalled(t, "ListKits", mock.Anything, mock.Anything)
}

func TestListKitsBackendFailureIs500WithError(t *testing.T) {
	service := new(mockKitService)
	app := newTestApp(service)

	service.On("ListKits", mock.Anything, mock.Anything).
		Return(nil, kiterrors.ErrDatabaseOperation)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/kits", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Contains(t, body, "error")
}

func TestGetKitNotFoundIs404WithDetails(t *testing.T) {
	service := new(mockKitService)
	app := newTestApp(service)

	service.On("GetKit", mock.Anything, int64(999)).Return(nil, kiterrors.ErrKitNotFound)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/kits/999", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Contains(t, body, "error")
	assert.Contains(t, body, "details")
}

func TestGetKitRejectsNonNumericID(t *testing.T) {
	service := new(mockKitService)
	app := newTestApp(service)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/kits/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	service.AssertNotCalled(t, "GetKit", mock.Anything, mock.Anything)
}

func TestGetRelatedGroupsEnvelope(t *testing.T) {
	service := new(mockKitService)
	app := newTestApp(service)

	service.On("GetRelated", mock.Anything, int64(10)).Return(&models.RelatedKits{
		Variant: []models.KitRecord{{ID: 20, Name: "RX-78-2 Ver.Ka"}},
		Series:  []models.KitRecord{},
		Similar: []models.KitRecord{},
	}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/kits/10/related", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data models.RelatedKits `json:"data"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Data.Variant, 1)
	assert.Empty(t, body.Data.Series)
	assert.Empty(t, body.Data.Similar)
}

func TestFilterOptionsEnvelope(t *testing.T) {
	service := new(mockKitService)
	app := newTestApp(service)

	service.On("FilterOptions", mock.Anything).Return(&models.FilterOptions{
		Grades:       []models.FilterOption{{ID: 1, Code: "MG", Name: "Master Grade"}},
		Timelines:    []models.FilterOption{},
		Series:       []models.FilterOption{},
		LimitedTypes: []string{"P-Bandai"},
	}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/filters", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data models.FilterOptions `json:"data"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Data.Grades, 1)
	assert.Equal(t, []string{"P-Bandai"}, body.Data.LimitedTypes)
}
