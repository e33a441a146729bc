package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"digistore-be/internal/user"
	"digistore-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, email, password string) (string, user.User, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Get(1).(user.User), args.Error(2)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (string, user.User, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Get(1).(user.User), args.Error(2)
}

func (m *MockUserService) GetUserByID(ctx context.Context, id string) (user.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.User), args.Error(1)
}

func TestHandleMe_Success(t *testing.T) {
	svc := new(MockUserService)
	svc.On("GetUserByID", mock.Anything, "user-1").
		Return(user.User{ID: "user-1", Email: "buyer@example.com", Role: user.RoleUser}, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	ctx := utils.SetUserContext(req.Context(), "user-1", "buyer@example.com", utils.RoleUser)
	rec := httptest.NewRecorder()

	HandleMe(svc)(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data userInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user-1", resp.Data.ID)
	assert.Equal(t, "buyer@example.com", resp.Data.Email)
	assert.Equal(t, "user", resp.Data.Role)
}

func TestHandleMe_RequiresAuth(t *testing.T) {
	svc := new(MockUserService)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()

	HandleMe(svc)(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
	svc.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
}

func TestHandleMe_DeletedProfile(t *testing.T) {
	svc := new(MockUserService)
	svc.On("GetUserByID", mock.Anything, "user-gone").
		Return(user.User{}, user.ErrUserNotFound)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	ctx := utils.SetUserContext(req.Context(), "user-gone", "x@example.com", utils.RoleUser)
	rec := httptest.NewRecorder()

	HandleMe(svc)(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
