package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/holocron/internal/middleware"
	"github.com/hitoshi/holocron/internal/model"
	"github.com/hitoshi/holocron/internal/user"
)

// --- モック定義 ---

type mockPeopleService struct {
	listFn   func(ctx context.Context) ([]*model.Person, error)
	getFn    func(ctx context.Context, id int64) (*model.Person, error)
	createFn func(ctx context.Context, person *model.Person) (*model.Person, error)
}

func (m *mockPeopleService) List(ctx context.Context) ([]*model.Person, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockPeopleService) Get(ctx context.Context, id int64) (*model.Person, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, model.NewPersonNotFoundError()
}
func (m *mockPeopleService) Create(ctx context.Context, person *model.Person) (*model.Person, error) {
	if m.createFn != nil {
		return m.createFn(ctx, person)
	}
	person.ID = 1
	return person, nil
}

type mockPlanetService struct {
	listFn   func(ctx context.Context) ([]*model.Planet, error)
	getFn    func(ctx context.Context, id int64) (*model.Planet, error)
	createFn func(ctx context.Context, planet *model.Planet) (*model.Planet, error)
}

func (m *mockPlanetService) List(ctx context.Context) ([]*model.Planet, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockPlanetService) Get(ctx context.Context, id int64) (*model.Planet, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, model.NewPlanetNotFoundError()
}
func (m *mockPlanetService) Create(ctx context.Context, planet *model.Planet) (*model.Planet, error) {
	if m.createFn != nil {
		return m.createFn(ctx, planet)
	}
	planet.ID = 1
	return planet, nil
}

type mockUserService struct {
	listFn   func(ctx context.Context) ([]*model.User, error)
	getFn    func(ctx context.Context, id int64) (*model.User, error)
	createFn func(ctx context.Context, in user.CreateInput) (*model.User, error)
}

func (m *mockUserService) List(ctx context.Context) ([]*model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockUserService) Get(ctx context.Context, id int64) (*model.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, model.NewUserNotFoundError()
}
func (m *mockUserService) Create(ctx context.Context, in user.CreateInput) (*model.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return &model.User{ID: 1, Email: in.Email, PasswordHash: "hashed", IsActive: in.IsActive}, nil
}

type mockFavoriteService struct {
	listFn         func(ctx context.Context, userID int64) ([]*model.Favorite, error)
	addPersonFn    func(ctx context.Context, userID, personID int64) (*model.Favorite, error)
	addPlanetFn    func(ctx context.Context, userID, planetID int64) (*model.Favorite, error)
	removePersonFn func(ctx context.Context, userID, personID int64) error
	removePlanetFn func(ctx context.Context, userID, planetID int64) error
}

func (m *mockFavoriteService) List(ctx context.Context, userID int64) ([]*model.Favorite, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}
func (m *mockFavoriteService) AddPerson(ctx context.Context, userID, personID int64) (*model.Favorite, error) {
	if m.addPersonFn != nil {
		return m.addPersonFn(ctx, userID, personID)
	}
	return model.NewFavorite(userID, model.FavoriteKindPerson, personID)
}
func (m *mockFavoriteService) AddPlanet(ctx context.Context, userID, planetID int64) (*model.Favorite, error) {
	if m.addPlanetFn != nil {
		return m.addPlanetFn(ctx, userID, planetID)
	}
	return model.NewFavorite(userID, model.FavoriteKindPlanet, planetID)
}
func (m *mockFavoriteService) RemovePerson(ctx context.Context, userID, personID int64) error {
	if m.removePersonFn != nil {
		return m.removePersonFn(ctx, userID, personID)
	}
	return nil
}
func (m *mockFavoriteService) RemovePlanet(ctx context.Context, userID, planetID int64) error {
	if m.removePlanetFn != nil {
		return m.removePlanetFn(ctx, userID, planetID)
	}
	return nil
}

// --- テストヘルパー ---

// withUserID はテスト用にリクエストコンテキストにユーザーIDを注入するヘルパー。
func withUserID(r *http.Request, userID int64) *http.Request {
	return r.WithContext(middleware.ContextWithUserID(r.Context(), userID))
}

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// jsonRequest はJSONボディ付きのリクエストを生成する。
func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// parseAPIErrorResponse はレスポンスボディから "error" の値を取り出すヘルパー。
func parseAPIErrorResponse(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var result map[string]any
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	msg, ok := result["error"].(string)
	if !ok {
		t.Fatalf("response has no \"error\" string: %v", result)
	}
	return msg
}

// decodeBody はレスポンスボディを汎用マップとしてデコードする。
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v\nraw: %s", err, w.Body.String())
	}
	return result
}
