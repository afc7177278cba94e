package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/expense_management_app/internal/apperrors"
	"github.com/SscSPs/expense_management_app/internal/core/domain"
	"github.com/SscSPs/expense_management_app/internal/dto"
	"github.com/SscSPs/expense_management_app/internal/handlers"
	"github.com/SscSPs/expense_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type UserHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockUserService *MockUserService
	adminID         string
}

func (suite *UserHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.adminID = uuid.NewString()
	suite.mockUserService = new(MockUserService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(testJWTSecret))
	handlers.RegisterUserRoutes(v1, suite.mockUserService)
}

func (suite *UserHandlerTestSuite) do(method, url, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, bytes.NewReader([]byte(body)))
	req.Header.Set("Authorization", "Bearer "+generateTestToken(suite.adminID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func sampleUser(role domain.UserRole) *domain.User {
	return &domain.User{
		UserID:      uuid.NewString(),
		Name:        "Dana",
		Email:       "dana@example.com",
		Role:        role,
		CompanyID:   uuid.NewString(),
		IsActive:    true,
		AuditFields: domain.NewAuditFields("admin", time.Now()),
	}
}

func (suite *UserHandlerTestSuite) TestCreateUser_Success() {
	created := sampleUser(domain.RoleEmployee)
	suite.mockUserService.On("CreateUser",
		mock.AnythingOfType("*context.valueCtx"),
		suite.adminID,
		mock.MatchedBy(func(req dto.CreateUserRequest) bool {
			return req.Email == "dana@example.com" && req.Role == "Employee"
		}),
	).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/admin/users",
		`{"name":"Dana","email":"dana@example.com","password":"s3cret-pass","role":"Employee"}`)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.UserResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.UserID, resp.UserID)
	suite.NotContains(w.Body.String(), "password")
}

func (suite *UserHandlerTestSuite) TestCreateUser_InvalidRole() {
	w := suite.do(http.MethodPost, "/api/v1/admin/users",
		`{"name":"Dana","email":"dana@example.com","password":"s3cret-pass","role":"Owner"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockUserService.AssertNotCalled(suite.T(), "CreateUser")
}

func (suite *UserHandlerTestSuite) TestCreateUser_DuplicateEmail() {
	suite.mockUserService.On("CreateUser", mock.Anything, suite.adminID, mock.Anything).
		Return(nil, apperrors.NewAppError(http.StatusConflict, "email already in use", apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPost, "/api/v1/admin/users",
		`{"name":"Dana","email":"dana@example.com","password":"s3cret-pass","role":"Manager"}`)

	suite.Equal(http.StatusConflict, w.Code)
	suite.JSONEq(`{"error":"email already in use"}`, w.Body.String())
}

func (suite *UserHandlerTestSuite) TestListUsers_Filters() {
	users := []domain.User{*sampleUser(domain.RoleManager)}
	suite.mockUserService.On("ListUsers", mock.Anything, suite.adminID,
		mock.MatchedBy(func(p dto.ListUsersParams) bool { return p.Role == "Manager" && p.Status == "active" }),
	).Return(users, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/admin/users?role=Manager&status=active", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListUsersResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Users, 1)
}

func (suite *UserHandlerTestSuite) TestUsersDropdown() {
	user := sampleUser(domain.RoleManager)
	suite.mockUserService.On("ListActiveUsers", mock.Anything, suite.adminID).Return([]domain.User{*user}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/admin/users-dropdown", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[{"_id":"`+user.UserID+`","name":"Dana","role":"Manager"}]`, w.Body.String())
}

func (suite *UserHandlerTestSuite) TestUpdateUser_NotFound() {
	userID := uuid.NewString()
	suite.mockUserService.On("UpdateUser", mock.Anything, suite.adminID, userID, mock.Anything).
		Return(nil, apperrors.NewNotFoundError("user not found")).Once()

	w := suite.do(http.MethodPatch, "/api/v1/admin/users/"+userID, `{"name":"New"}`)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *UserHandlerTestSuite) TestDeleteUser() {
	userID := uuid.NewString()
	suite.mockUserService.On("DeleteUser", mock.Anything, suite.adminID, userID).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/admin/users/"+userID, "")

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *UserHandlerTestSuite) TestToggleStatus_Self() {
	suite.mockUserService.On("ToggleUserStatus", mock.Anything, suite.adminID, suite.adminID).
		Return(nil, apperrors.NewValidationFailedError("you cannot change your own status")).Once()

	w := suite.do(http.MethodPatch, "/api/v1/admin/users/"+suite.adminID+"/toggle-status", "")

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *UserHandlerTestSuite) TestResetPassword_Generated() {
	userID := uuid.NewString()
	suite.mockUserService.On("ResetUserPassword", mock.Anything, suite.adminID, userID, dto.ResetPasswordRequest{}).
		Return(&dto.ResetPasswordResponse{UserID: userID, TemporaryPassword: "0123456789abcdef"}, nil).Once()

	w := suite.do(http.MethodPatch, "/api/v1/admin/users/"+userID+"/reset-password", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "0123456789abcdef")
}

func TestUserHandler(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}
