package rest

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authMW "markd/internal/app/hub/api/http/middleware/auth"
	"markd/internal/app/hub/token"
	"markd/internal/domain/bookmark"
	"markd/internal/utils/logger"
)

type MockBookmarkService struct {
	mock.Mock
}

func (m *MockBookmarkService) Create(ctx context.Context, ownerID string, in bookmark.Insert) (*bookmark.Bookmark, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookmark.Bookmark), args.Error(1)
}

func (m *MockBookmarkService) List(ctx context.Context, ownerID string) ([]bookmark.Bookmark, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bookmark.Bookmark), args.Error(1)
}

func (m *MockBookmarkService) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func newTestHandler(service *MockBookmarkService) *Handler {
	return NewHandler(service, logger.New(logger.EnvLocal), huma.Middlewares{})
}

func claimsCtx(userID string) context.Context {
	return authMW.WithClaims(context.Background(), &token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
	})
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	return se.GetStatus()
}

func TestList_ScopedToTokenSubject(t *testing.T) {
	service := new(MockBookmarkService)
	service.On("List", mock.Anything, "u-1").Return([]bookmark.Bookmark{
		{ID: "b-2"}, {ID: "b-1"},
	}, nil)

	// The owner_id filter names someone else; the token subject wins.
	out, err := newTestHandler(service).list(claimsCtx("u-1"), &listInput{OwnerID: "u-other"})

	require.NoError(t, err)
	assert.Equal(t, "b-2", out.Body[0].ID)
	service.AssertExpectations(t)
}

func TestList_AscendingOrder(t *testing.T) {
	service := new(MockBookmarkService)
	service.On("List", mock.Anything, "u-1").Return([]bookmark.Bookmark{
		{ID: "b-2"}, {ID: "b-1"},
	}, nil)

	out, err := newTestHandler(service).list(claimsCtx("u-1"), &listInput{Order: "created_at.asc"})

	require.NoError(t, err)
	assert.Equal(t, "b-1", out.Body[0].ID)
}

func TestInsert(t *testing.T) {
	service := new(MockBookmarkService)
	created := &bookmark.Bookmark{ID: "b-new", OwnerID: "u-1", URL: "https://go.dev", Title: "Go"}
	service.On("Create", mock.Anything, "u-1", bookmark.Insert{URL: "https://go.dev", Title: "Go"}).
		Return(created, nil)

	out, err := newTestHandler(service).insert(claimsCtx("u-1"), &insertInput{
		Body: insertRequest{OwnerID: "u-1", URL: "https://go.dev", Title: "Go"},
	})

	require.NoError(t, err)
	assert.Equal(t, "b-new", out.Body.ID)
}

func TestInsert_ForeignOwnerRejected(t *testing.T) {
	_, err := newTestHandler(new(MockBookmarkService)).insert(claimsCtx("u-1"), &insertInput{
		Body: insertRequest{OwnerID: "u-other", URL: "https://go.dev", Title: "Go"},
	})

	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
}

func TestInsert_ValidationError(t *testing.T) {
	service := new(MockBookmarkService)
	service.On("Create", mock.Anything, "u-1", mock.Anything).
		Return(nil, bookmark.ErrFieldsMissing)

	_, err := newTestHandler(service).insert(claimsCtx("u-1"), &insertInput{
		Body: insertRequest{URL: "https://go.dev"},
	})

	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	assert.Contains(t, err.Error(), "url and title are required")
}

func TestDelete(t *testing.T) {
	service := new(MockBookmarkService)
	service.On("Delete", mock.Anything, "u-1", "b-7").Return(nil)

	_, err := newTestHandler(service).delete(claimsCtx("u-1"), &deleteInput{ID: "b-7", OwnerID: "u-1"})

	assert.NoError(t, err)
	service.AssertExpectations(t)
}

func TestDelete_MissingID(t *testing.T) {
	_, err := newTestHandler(new(MockBookmarkService)).delete(claimsCtx("u-1"), &deleteInput{})

	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestUnauthenticated(t *testing.T) {
	h := newTestHandler(new(MockBookmarkService))

	_, err := h.list(context.Background(), &listInput{})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	_, err = h.insert(context.Background(), &insertInput{})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	_, err = h.delete(context.Background(), &deleteInput{ID: "b-1"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}
