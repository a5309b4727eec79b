package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/holocron/internal/model"
)

// 惑星フィールドの文字数上限
const (
	maxPlanetNameLen       = 120
	maxPlanetPopulationLen = 120
	maxPlanetTerrainLen    = 120
)

// PlanetServiceInterface は惑星ハンドラーが必要とするサービスインターフェース。
type PlanetServiceInterface interface {
	List(ctx context.Context) ([]*model.Planet, error)
	Get(ctx context.Context, id int64) (*model.Planet, error)
	Create(ctx context.Context, planet *model.Planet) (*model.Planet, error)
}

type planetResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Population *string `json:"population"`
	Terrain    *string `json:"terrain"`
}

func toPlanetResponse(p *model.Planet) planetResponse {
	return planetResponse{
		ID:         p.ID,
		Name:       p.Name,
		Population: p.Population,
		Terrain:    p.Terrain,
	}
}

// PlanetHandler は惑星APIのHTTPハンドラー。
type PlanetHandler struct {
	service PlanetServiceInterface
}

// NewPlanetHandler はPlanetHandlerを生成する。
func NewPlanetHandler(service PlanetServiceInterface) *PlanetHandler {
	return &PlanetHandler{service: service}
}

// List は全惑星を返す。
// GET /api/planets
func (h *PlanetHandler) List(w http.ResponseWriter, r *http.Request) {
	planets, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := make([]planetResponse, len(planets))
	for i, p := range planets {
		resp[i] = toPlanetResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get は指定IDの惑星を返す。
// GET /api/planets/{id}
func (h *PlanetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewPlanetNotFoundError())
		return
	}

	planet, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanetResponse(planet))
}

// Create は惑星を登録する。
// POST /api/planets
func (h *PlanetHandler) Create(w http.ResponseWriter, r *http.Request) {
	obj, apiErr := decodeObject(w, r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	planet, apiErr := parsePlanet(obj)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	created, err := h.service.Create(r.Context(), planet)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlanetResponse(created))
}

func parsePlanet(obj jsonObject) (*model.Planet, *model.APIError) {
	if apiErr := obj.requireFields("name", "population", "terrain"); apiErr != nil {
		return nil, apiErr
	}

	var (
		p      model.Planet
		apiErr *model.APIError
	)
	if p.Name, apiErr = obj.stringField("name", maxPlanetNameLen); apiErr != nil {
		return nil, apiErr
	}
	if p.Population, apiErr = obj.nullableStringField("population", maxPlanetPopulationLen); apiErr != nil {
		return nil, apiErr
	}
	if p.Terrain, apiErr = obj.nullableStringField("terrain", maxPlanetTerrainLen); apiErr != nil {
		return nil, apiErr
	}
	return &p, nil
}
