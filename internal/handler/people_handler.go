package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/holocron/internal/model"
)

// 人物フィールドの文字数上限（カラム定義と一致させる）
const (
	maxPersonNameLen      = 120
	maxPersonGenderLen    = 20
	maxPersonEyeColorLen  = 50
	maxPersonBirthYearLen = 20
	maxPersonHeightLen    = 20
	maxPersonSkinColorLen = 20
)

// PeopleServiceInterface は人物ハンドラーが必要とするサービスインターフェース。
type PeopleServiceInterface interface {
	List(ctx context.Context) ([]*model.Person, error)
	Get(ctx context.Context, id int64) (*model.Person, error)
	Create(ctx context.Context, person *model.Person) (*model.Person, error)
}

// personResponse は人物のJSONレスポンス。未設定の属性はnullになる。
type personResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Gender    *string `json:"gender"`
	EyeColor  *string `json:"eye_color"`
	BirthYear *string `json:"birth_year"`
	Height    *string `json:"height"`
	SkinColor *string `json:"skin_color"`
}

func toPersonResponse(p *model.Person) personResponse {
	return personResponse{
		ID:        p.ID,
		Name:      p.Name,
		Gender:    p.Gender,
		EyeColor:  p.EyeColor,
		BirthYear: p.BirthYear,
		Height:    p.Height,
		SkinColor: p.SkinColor,
	}
}

// PeopleHandler は人物APIのHTTPハンドラー。
type PeopleHandler struct {
	service PeopleServiceInterface
}

// NewPeopleHandler はPeopleHandlerを生成する。
func NewPeopleHandler(service PeopleServiceInterface) *PeopleHandler {
	return &PeopleHandler{service: service}
}

// List は全人物を返す。
// GET /api/people
func (h *PeopleHandler) List(w http.ResponseWriter, r *http.Request) {
	people, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := make([]personResponse, len(people))
	for i, p := range people {
		resp[i] = toPersonResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get は指定IDの人物を返す。
// GET /api/people/{id}
func (h *PeopleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewPersonNotFoundError())
		return
	}

	person, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonResponse(person))
}

// Create は人物を登録する。
// POST /api/people
func (h *PeopleHandler) Create(w http.ResponseWriter, r *http.Request) {
	obj, apiErr := decodeObject(w, r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	person, apiErr := parsePerson(obj)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	created, err := h.service.Create(r.Context(), person)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPersonResponse(created))
}

// parsePerson は必須フィールドを固定順に確認してから各フィールドの型と長さを検証する。
func parsePerson(obj jsonObject) (*model.Person, *model.APIError) {
	if apiErr := obj.requireFields("name", "birth_year", "gender", "height", "skin_color", "eye_color"); apiErr != nil {
		return nil, apiErr
	}

	var (
		p      model.Person
		apiErr *model.APIError
	)
	if p.Name, apiErr = obj.stringField("name", maxPersonNameLen); apiErr != nil {
		return nil, apiErr
	}
	if p.BirthYear, apiErr = obj.nullableStringField("birth_year", maxPersonBirthYearLen); apiErr != nil {
		return nil, apiErr
	}
	if p.Gender, apiErr = obj.nullableStringField("gender", maxPersonGenderLen); apiErr != nil {
		return nil, apiErr
	}
	if p.Height, apiErr = obj.nullableStringField("height", maxPersonHeightLen); apiErr != nil {
		return nil, apiErr
	}
	if p.SkinColor, apiErr = obj.nullableStringField("skin_color", maxPersonSkinColorLen); apiErr != nil {
		return nil, apiErr
	}
	if p.EyeColor, apiErr = obj.nullableStringField("eye_color", maxPersonEyeColorLen); apiErr != nil {
		return nil, apiErr
	}
	return &p, nil
}
