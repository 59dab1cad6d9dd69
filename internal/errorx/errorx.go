package errorx

import (
	"context"
	"errors"
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"
)

// InternalErrorMsg is the body of every 500 caused by an uncoded error.
const InternalErrorMsg = "internal error"

// CodeError is an error that carries the HTTP status it should be rendered with.
type CodeError struct {
	Code int
	Msg  string
}

func (e *CodeError) Error() string {
	return e.Msg
}

// ErrorResp is the JSON body written for every failed request.
type ErrorResp struct {
	Error string `json:"error"`
}

func New(code int, msg string) error {
	return &CodeError{Code: code, Msg: msg}
}

func BadRequest(msg string) error {
	return New(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

func NotFound(msg string) error {
	return New(http.StatusNotFound, msg)
}

func Conflict(msg string) error {
	return New(http.StatusConflict, msg)
}

func TooManyRequests(msg string) error {
	return New(http.StatusTooManyRequests, msg)
}

// BadGateway marks a failure of a third-party API.
func BadGateway(msg string) error {
	return New(http.StatusBadGateway, msg)
}

// Handler converts any error into a status code and an ErrorResp body.
// It is installed with httpx.SetErrorHandlerCtx. Errors without a code are
// logged and answered with a generic message.
func Handler(ctx context.Context, err error) (int, any) {
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce.Code, &ErrorResp{Error: ce.Msg}
	}
	logx.WithContext(ctx).Errorf("unhandled error: %v", err)
	return http.StatusInternalServerError, &ErrorResp{Error: InternalErrorMsg}
}
