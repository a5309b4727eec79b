package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/holocron/internal/middleware"
	"github.com/hitoshi/holocron/internal/model"
)

// FavoriteServiceInterface はお気に入りハンドラーが必要とするサービスインターフェース。
// すべての操作は現在のユーザーIDを明示的に受け取る。
type FavoriteServiceInterface interface {
	List(ctx context.Context, userID int64) ([]*model.Favorite, error)
	AddPerson(ctx context.Context, userID, personID int64) (*model.Favorite, error)
	AddPlanet(ctx context.Context, userID, planetID int64) (*model.Favorite, error)
	RemovePerson(ctx context.Context, userID, personID int64) error
	RemovePlanet(ctx context.Context, userID, planetID int64) error
}

// favoriteResponse はお気に入りのJSONレスポンス。選択されていない側の対象IDはnullになる。
type favoriteResponse struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	PersonID *int64 `json:"person_id"`
	PlanetID *int64 `json:"planet_id"`
}

func toFavoriteResponse(f *model.Favorite) favoriteResponse {
	return favoriteResponse{
		ID:       f.ID,
		UserID:   f.UserID,
		PersonID: f.PersonID(),
		PlanetID: f.PlanetID(),
	}
}

// FavoriteHandler はお気に入りAPIのHTTPハンドラー。
type FavoriteHandler struct {
	service FavoriteServiceInterface
}

// NewFavoriteHandler はFavoriteHandlerを生成する。
func NewFavoriteHandler(service FavoriteServiceInterface) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// currentUserID はコンテキストから現在のユーザーIDを取り出す。取得できない場合は401を書き込む。
func currentUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return 0, false
	}
	return userID, true
}

// List は現在のユーザーのお気に入りを返す。
// GET /api/users/favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	favorites, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := make([]favoriteResponse, len(favorites))
	for i, f := range favorites {
		resp[i] = toFavoriteResponse(f)
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddPerson は人物をお気に入りに追加する。
// POST /api/favorite/people/{id}
func (h *FavoriteHandler) AddPerson(w http.ResponseWriter, r *http.Request) {
	h.add(w, r, h.service.AddPerson, model.NewPersonNotFoundError)
}

// AddPlanet は惑星をお気に入りに追加する。
// POST /api/favorite/planet/{id}
func (h *FavoriteHandler) AddPlanet(w http.ResponseWriter, r *http.Request) {
	h.add(w, r, h.service.AddPlanet, model.NewPlanetNotFoundError)
}

// RemovePerson は人物のお気に入りを1件削除する。
// DELETE /api/favorite/people/{id}
func (h *FavoriteHandler) RemovePerson(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.service.RemovePerson, model.FavoriteKindPerson)
}

// RemovePlanet は惑星のお気に入りを1件削除する。
// DELETE /api/favorite/planet/{id}
func (h *FavoriteHandler) RemovePlanet(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.service.RemovePlanet, model.FavoriteKindPlanet)
}

func (h *FavoriteHandler) add(
	w http.ResponseWriter,
	r *http.Request,
	addFn func(ctx context.Context, userID, targetID int64) (*model.Favorite, error),
	notFound func() *model.APIError,
) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(r)
	if !ok {
		writeAPIErrorResponse(w, http.StatusNotFound, notFound())
		return
	}

	fav, err := addFn(r.Context(), userID, targetID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFavoriteResponse(fav))
}

func (h *FavoriteHandler) remove(
	w http.ResponseWriter,
	r *http.Request,
	removeFn func(ctx context.Context, userID, targetID int64) error,
	kind model.FavoriteKind,
) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(r)
	if !ok {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewFavoriteNotFoundError(kind))
		return
	}

	if err := removeFn(r.Context(), userID, targetID); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: "Favorite " + string(kind) + " deleted successfully",
	})
}
