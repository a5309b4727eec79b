// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError はAPIのエラーレスポンスに変換されるドメインエラーを表す。
// CodeはHTTPステータスへのマッピングに、Messageはレスポンスの "error" に使われる。
type APIError struct {
	Code    string // エラーコード
	Message string // クライアントに返すメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeMissingField     = "MISSING_FIELD"
	ErrCodeInvalidField     = "INVALID_FIELD"
	ErrCodeInvalidBody      = "INVALID_BODY"
	ErrCodePersonNotFound   = "PERSON_NOT_FOUND"
	ErrCodePlanetNotFound   = "PLANET_NOT_FOUND"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeFavoriteNotFound = "FAVORITE_NOT_FOUND"
	ErrCodeEmailTaken       = "EMAIL_TAKEN"
	ErrCodeRouteNotFound    = "ROUTE_NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeUnauthenticated  = "UNAUTHENTICATED"
)

// NewMissingFieldError は必須フィールド欠落エラーを生成する。
func NewMissingFieldError(field string) *APIError {
	return &APIError{
		Code:    ErrCodeMissingField,
		Message: fmt.Sprintf("Missing field: %s", field),
	}
}

// NewInvalidFieldError は型や長さが不正なフィールドのエラーを生成する。
func NewInvalidFieldError(field string) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidField,
		Message: fmt.Sprintf("Invalid field: %s", field),
	}
}

// NewInvalidBodyError はリクエストボディがJSONオブジェクトとして解析できない場合のエラーを生成する。
func NewInvalidBodyError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidBody,
		Message: "Invalid JSON body",
	}
}

// NewPersonNotFoundError は人物未検出エラーを生成する。
func NewPersonNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodePersonNotFound,
		Message: "Person not found",
	}
}

// NewPlanetNotFoundError は惑星未検出エラーを生成する。
func NewPlanetNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodePlanetNotFound,
		Message: "Planet not found",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeUserNotFound,
		Message: "User not found",
	}
}

// NewFavoriteNotFoundError は削除対象のお気に入りが存在しない場合のエラーを生成する。
func NewFavoriteNotFoundError(kind FavoriteKind) *APIError {
	return &APIError{
		Code:    ErrCodeFavoriteNotFound,
		Message: fmt.Sprintf("Favorite %s not found", kind),
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:    ErrCodeEmailTaken,
		Message: "Email already registered",
	}
}

// NewRouteNotFoundError は未定義ルートへのアクセスエラーを生成する。
func NewRouteNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeRouteNotFound,
		Message: "Not found",
	}
}

// NewMethodNotAllowedError は許可されていないHTTPメソッドのエラーを生成する。
func NewMethodNotAllowedError() *APIError {
	return &APIError{
		Code:    ErrCodeMethodNotAllowed,
		Message: "Method not allowed",
	}
}

// NewInternalError は内部エラーを生成する。詳細はログのみに記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:    ErrCodeInternal,
		Message: "Internal server error",
	}
}

// NewUnauthenticatedError は現在のユーザーを特定できない場合のエラーを生成する。
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Code:    ErrCodeUnauthenticated,
		Message: "Current user could not be resolved",
	}
}
