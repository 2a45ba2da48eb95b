package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindPersistence       ErrorKind = "persistence"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindConflict          ErrorKind = "conflict"
	KindNotFound          ErrorKind = "not_found"
)

// AppError はhandlerまで返すエラー。Messageはそのまま画面に出る。
// Errは原因（ログ用）で、persistenceでは外に出さない。
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// 種類ごとのHTTPステータス
func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindInvalidTransition, KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func NewValidationError(message string) error {
	return &AppError{Kind: KindValidation, Message: message}
}

// 原因はErrに入れて、画面には "db error" だけ出す
func NewPersistenceError(cause error) error {
	return &AppError{Kind: KindPersistence, Message: "db error", Err: cause}
}

func NewInvalidTransitionError(message string) error {
	return &AppError{Kind: KindInvalidTransition, Message: message}
}

func NewConflictError(message string) error {
	return &AppError{Kind: KindConflict, Message: message}
}

func NewNotFoundError(message string) error {
	return &AppError{Kind: KindNotFound, Message: message}
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}

// Kindだけ見たいとき
func IsKind(err error, kind ErrorKind) bool {
	ae, ok := AsAppError(err)
	return ok && ae.Kind == kind
}
