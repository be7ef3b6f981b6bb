package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adminerrors "github.com/gunplahub/api/admin/errors"
	"github.com/gunplahub/api/internal/listquery"
)

// mockRepository is a testify mock of Repository.
type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) List(ctx context.Context, res *Resource, q listquery.ListQuery) ([]Row, error) {
	args := m.Called(ctx, res, q)
	if rows := args.Get(0); rows != nil {
		return rows.([]Row), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Count(ctx context.Context, res *Resource, q listquery.ListQuery) (int64, error) {
	args := m.Called(ctx, res, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) Create(ctx context.Context, res *Resource, values map[string]interface{}) (Row, error) {
	args := m.Called(ctx, res, values)
	if row := args.Get(0); row != nil {
		return row.(Row), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, res *Resource, id int64, values map[string]interface{}) (Row, error) {
	args := m.Called(ctx, res, id, values)
	if row := args.Get(0); row != nil {
		return row.(Row), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, res *Resource, id int64) error {
	args := m.Called(ctx, res, id)
	return args.Error(0)
}

func newTestService() (*Service, *mockRepository) {
	repo := new(mockRepository)
	return NewService(DefaultRegistry(), repo), repo
}

func TestDefaultRegistryCoversReferenceTables(t *testing.T) {
	registry := DefaultRegistry()

	for _, name := range []string{
		"grades", "timelines", "series", "factions", "organizations",
		"pilots", "mobile-suits", "kits", "kit-images",
	} {
		_, ok := registry.Lookup(name)
		assert.True(t, ok, "resource %s should be registered", name)
	}

	_, ok := registry.Lookup("users")
	assert.False(t, ok)
}

func TestResourceSchemaDerivation(t *testing.T) {
	registry := DefaultRegistry()
	grades, ok := registry.Lookup("grades")
	require.True(t, ok)

	assert.True(t, grades.IsWritable("code"))
	assert.False(t, grades.IsWritable("id"))
	assert.Equal(t, []string{"code", "name"}, grades.RequiredFields())
	assert.Equal(t, []string{"id", "code", "name", "display_order"}, grades.Columns())

	// The listquery surface exposes id for sorting plus every field.
	table := grades.Table()
	_, err := table.Column("code")
	assert.NoError(t, err)
	_, err = table.Column("nope")
	assert.ErrorIs(t, err, listquery.ErrInvalidFilterField)
}

func TestListUnknownResource(t *testing.T) {
	service, _ := newTestService()

	_, err := service.List(context.Background(), "users", ListParams{})
	require.Error(t, err)
	assert.ErrorIs(t, err, adminerrors.ErrUnknownResource)
}

func TestListUnknownFilterField(t *testing.T) {
	service, _ := newTestService()

	_, err := service.List(context.Background(), "grades", ListParams{
		Filters: map[string][]string{"password": {"x"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, adminerrors.ErrUnknownField)
}

func TestListBuildsQueryAndEnvelope(t *testing.T) {
	service, repo := newTestService()

	repo.On("List", mock.Anything, mock.Anything, mock.MatchedBy(func(q listquery.ListQuery) bool {
		return q.Table == "grades" &&
			len(q.Filters) == 1 &&
			q.Filters[0].Field == "code" &&
			len(q.Filters[0].Values) == 2 &&
			q.Page == 2 && q.PageSize == 10
	})).Return([]Row{{"id": int64(1), "code": "MG"}}, nil)
	repo.On("Count", mock.Anything, mock.Anything, mock.Anything).Return(int64(25), nil)

	result, err := service.List(context.Background(), "grades", ListParams{
		Filters:  map[string][]string{"code": {"MG", "RG"}},
		Page:     2,
		PageSize: 10,
	})
	require.NoError(t, err)

	assert.Len(t, result.Data, 1)
	assert.Equal(t, 2, result.Pagination.Page)
	assert.Equal(t, int64(25), result.Pagination.Total)
	assert.Equal(t, 3, result.Pagination.TotalPages)
	repo.AssertExpectations(t)
}

func TestCreateRejectsUnknownField(t *testing.T) {
	service, repo := newTestService()

	_, err := service.Create(context.Background(), "grades", map[string]interface{}{
		"code":     "MG",
		"name":     "Master Grade",
		"is_admin": true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, adminerrors.ErrUnknownField)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateRejectsMissingRequiredField(t *testing.T) {
	service, repo := newTestService()

	_, err := service.Create(context.Background(), "grades", map[string]interface{}{
		"code": "MG",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, adminerrors.ErrMissingField)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePassesWritableValues(t *testing.T) {
	service, repo := newTestService()

	repo.On("Create", mock.Anything, mock.Anything, map[string]interface{}{
		"code": "MG",
		"name": "Master Grade",
	}).Return(Row{"id": int64(5), "code": "MG", "name": "Master Grade"}, nil)

	row, err := service.Create(context.Background(), "grades", map[string]interface{}{
		"code": "MG",
		"name": "Master Grade",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), row["id"])
	repo.AssertExpectations(t)
}

func TestUpdateRejectsEmptyPayload(t *testing.T) {
	service, repo := newTestService()

	_, err := service.Update(context.Background(), "grades", 5, map[string]interface{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, adminerrors.ErrEmptyPayload)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateIgnoresIDInPayload(t *testing.T) {
	service, repo := newTestService()

	repo.On("Update", mock.Anything, mock.Anything, int64(5), map[string]interface{}{
		"name": "High Grade",
	}).Return(Row{"id": int64(5), "name": "High Grade"}, nil)

	_, err := service.Update(context.Background(), "grades", 5, map[string]interface{}{
		"id":   99,
		"name": "High Grade",
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDeleteMissingRowPropagates(t *testing.T) {
	service, repo := newTestService()

	repo.On("Delete", mock.Anything, mock.Anything, int64(404)).
		Return(adminerrors.ErrRowNotFound)

	err := service.Delete(context.Background(), "grades", 404)
	require.Error(t, err)
	assert.ErrorIs(t, err, adminerrors.ErrRowNotFound)
}
