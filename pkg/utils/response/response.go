// Package response defines the JSON envelope every endpoint answers with.
package response

import (
	"net/http"
	"time"

	"github.com/kart-io/campusgpt/pkg/utils/errors"
)

// Response is the envelope. Code 0 means success; any other value is an
// errno code and Data is null.
type Response struct {
	Code      int    `json:"code"`
	HTTPCode  int    `json:"http_code,omitempty"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	RequestID string `json:"request_id,omitempty"`
	// Timestamp 响应时间(毫秒)
	Timestamp int64 `json:"timestamp,omitempty"`
}

// categoryStatus 未注册错误码按类别回退的 HTTP 状态码。
var categoryStatus = map[int]int{
	errors.CategoryRequest:    http.StatusBadRequest,
	errors.CategoryAuth:       http.StatusUnauthorized,
	errors.CategoryPermission: http.StatusForbidden,
	errors.CategoryResource:   http.StatusNotFound,
	errors.CategoryConflict:   http.StatusConflict,
	errors.CategoryRateLimit:  http.StatusTooManyRequests,
	errors.CategoryTimeout:    http.StatusGatewayTimeout,
	errors.CategoryNetwork:    http.StatusServiceUnavailable,
}

// Success wraps data in a code 0 envelope.
func Success(data any) *Response {
	return &Response{
		HTTPCode:  http.StatusOK,
		Message:   "success",
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Err is ErrWithLang in English.
func Err(e *errors.Errno) *Response {
	return ErrWithLang(e, "en")
}

// ErrWithLang renders e with its message in lang. A nil e is a success.
func ErrWithLang(e *errors.Errno, lang string) *Response {
	if e == nil {
		return Success(nil)
	}
	return &Response{
		Code:      e.Code,
		HTTPCode:  e.HTTPStatus(),
		Message:   e.Message(lang),
		Timestamp: time.Now().UnixMilli(),
	}
}

func (r *Response) WithRequestID(requestID string) *Response {
	r.RequestID = requestID
	return r
}

func (r *Response) IsSuccess() bool { return r.Code == 0 }

// HTTPStatus is the status to write for r. Codes that are neither set on
// the envelope nor registered map by their category, defaulting to 500.
func (r *Response) HTTPStatus() int {
	switch {
	case r.HTTPCode != 0:
		return r.HTTPCode
	case r.Code == 0:
		return http.StatusOK
	}
	if e, ok := errors.Lookup(r.Code); ok {
		return e.HTTPStatus()
	}
	if s, ok := categoryStatus[errors.GetCategory(r.Code)]; ok {
		return s
	}
	return http.StatusInternalServerError
}
