package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/holocron/internal/model"
)

// maxRequestBodyBytes はリクエストボディの上限サイズ。
const maxRequestBodyBytes = 1 << 20

var jsonNull = []byte("null")

// jsonObject はフィールド単位で検証するためにデコードしたJSONオブジェクト。
// 値の型はフィールドを読み出す時点で検証する。
type jsonObject map[string]json.RawMessage

// decodeObject はリクエストボディを単一のJSONオブジェクトとしてデコードする。
// オブジェクト以外（配列、null、不正なJSON、後続データあり）はINVALID_BODYを返す。
func decodeObject(w http.ResponseWriter, r *http.Request) (jsonObject, *model.APIError) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))

	var obj jsonObject
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, model.NewInvalidBodyError()
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, model.NewInvalidBodyError()
	}
	return obj, nil
}

// requireFields は指定順にフィールドの存在を確認し、最初に欠落しているフィールドのエラーを返す。
func (o jsonObject) requireFields(fields ...string) *model.APIError {
	for _, f := range fields {
		if _, ok := o[f]; !ok {
			return model.NewMissingFieldError(f)
		}
	}
	return nil
}

// stringField はnullを許さない文字列フィールドを読み出す。maxLenは文字数の上限。
func (o jsonObject) stringField(field string, maxLen int) (string, *model.APIError) {
	raw := o[field]
	if bytes.Equal(raw, jsonNull) {
		return "", model.NewInvalidFieldError(field)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || utf8.RuneCountInString(s) > maxLen {
		return "", model.NewInvalidFieldError(field)
	}
	return s, nil
}

// nullableStringField はnullを許す文字列フィールドを読み出す。nullの場合はnilを返す。
func (o jsonObject) nullableStringField(field string, maxLen int) (*string, *model.APIError) {
	if bytes.Equal(o[field], jsonNull) {
		return nil, nil
	}
	s, apiErr := o.stringField(field, maxLen)
	if apiErr != nil {
		return nil, apiErr
	}
	return &s, nil
}

// boolField はnullを許さない真偽値フィールドを読み出す。
func (o jsonObject) boolField(field string) (bool, *model.APIError) {
	raw := o[field]
	if bytes.Equal(raw, jsonNull) {
		return false, model.NewInvalidFieldError(field)
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, model.NewInvalidFieldError(field)
	}
	return b, nil
}

// parseIDParam はURLパラメータ "id" を整数として解釈する。
// ルートの正規表現で数字のみに制限しているため、失敗するのはint64を超える場合のみ。
// その場合、該当レコードは存在し得ないので呼び出し元は404を返す。
func parseIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
