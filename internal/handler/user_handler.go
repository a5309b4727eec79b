package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/holocron/internal/model"
	"github.com/hitoshi/holocron/internal/user"
)

const maxUserEmailLen = 120

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	List(ctx context.Context) ([]*model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	// Create はパスワードをハッシュ化してユーザーを登録する。
	Create(ctx context.Context, in user.CreateInput) (*model.User, error)
}

// userResponse はユーザーのJSONレスポンス。パスワードは含めない。
type userResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Email:    u.Email,
		IsActive: u.IsActive,
	}
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// List は全ユーザーを返す。
// GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get は指定IDのユーザーを返す。
// GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewUserNotFoundError())
		return
	}

	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// Create はユーザーを登録する。
// POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	obj, apiErr := decodeObject(w, r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	in, apiErr := parseCreateUser(obj)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(created))
}

// parseCreateUser は必須フィールドを確認する。パスワード長の上限はbcrypt側で検証する。
func parseCreateUser(obj jsonObject) (user.CreateInput, *model.APIError) {
	var (
		in     user.CreateInput
		apiErr *model.APIError
	)
	if apiErr = obj.requireFields("email", "password", "is_active"); apiErr != nil {
		return in, apiErr
	}
	if in.Email, apiErr = obj.stringField("email", maxUserEmailLen); apiErr != nil {
		return in, apiErr
	}
	// bcryptは72バイトまでしか扱えないため、文字数上限は実質的な制約にならない
	if in.Password, apiErr = obj.stringField("password", maxRequestBodyBytes); apiErr != nil {
		return in, apiErr
	}
	if in.IsActive, apiErr = obj.boolField("is_active"); apiErr != nil {
		return in, apiErr
	}
	return in, nil
}
