package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind names the pipeline stage a failure belongs to. Handlers use it to
// decide HTTP status codes and the Kafka intake uses it to decide whether
// redelivery could possibly succeed.
type Kind string

const (
	KindValidation Kind = "validation"
	KindFetch      Kind = "fetch"
	KindProbe      Kind = "probe"
	KindGeometry   Kind = "geometry"
	KindRender     Kind = "render"
	KindPublish    Kind = "publish"
)

type AppError struct {
	Kind    Kind   `json:"-"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the failure kind to the status the API returns for it.
// Validation and geometry failures are the caller's fault, a probe failure
// means the fetched bytes were not a usable video, and fetch/publish are
// upstream dependencies misbehaving.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindGeometry:
		return http.StatusBadRequest
	case KindProbe:
		return http.StatusUnprocessableEntity
	case KindFetch, KindPublish:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func Validation(op string, err error, message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Op: op, Err: err}
}

func Fetch(op string, err error, message string) *AppError {
	return &AppError{Kind: KindFetch, Message: message, Op: op, Err: err}
}

func Probe(op string, err error, message string) *AppError {
	return &AppError{Kind: KindProbe, Message: message, Op: op, Err: err}
}

func Geometry(op string, err error, message string) *AppError {
	return &AppError{Kind: KindGeometry, Message: message, Op: op, Err: err}
}

func Render(op string, err error, message string) *AppError {
	return &AppError{Kind: KindRender, Message: message, Op: op, Err: err}
}

func Publish(op string, err error, message string) *AppError {
	return &AppError{Kind: KindPublish, Message: message, Op: op, Err: err}
}

// KindOf returns the kind of the first AppError in err's chain, or the empty
// string when the chain carries none.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// StatusOf maps any error to an HTTP status, defaulting to 500 for errors
// that carry no AppError.
func StatusOf(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.HTTPStatus()
	}
	return http.StatusInternalServerError
}
