// Package httputils provides HTTP utility functions.
package httputils

import (
	stderrors "errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/campusgpt/pkg/utils/errors"
	"github.com/kart-io/campusgpt/pkg/utils/response"
	"github.com/kart-io/campusgpt/pkg/utils/validator"
)

// HeaderRequestID is the header carrying the request id.
const HeaderRequestID = "X-Request-ID"

// WriteResponse writes the response to the client.
// It handles both success and error cases, ensuring consistent response format.
func WriteResponse(c *gin.Context, err error, data any) {
	var resp *response.Response
	if err != nil {
		resp = response.ErrWithLang(toErrno(err), Lang(c))
	} else {
		resp = response.Success(data)
	}
	resp.WithRequestID(c.Writer.Header().Get(HeaderRequestID))
	c.JSON(resp.HTTPStatus(), resp)
}

// AbortWithError writes the error envelope and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	WriteResponse(c, err, nil)
	c.Abort()
}

// Lang picks the message language from Accept-Language.
func Lang(c *gin.Context) string {
	if strings.HasPrefix(strings.ToLower(c.GetHeader("Accept-Language")), "zh") {
		return "zh"
	}
	return "en"
}

func toErrno(err error) *errors.Errno {
	var e *errors.Errno
	if stderrors.As(err, &e) {
		return e
	}

	var verrs *validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		if first := verrs.First(); first != nil {
			return errors.ErrValidationFailed.WithMessage(first.Message).WithCause(err)
		}
	}
	return errors.FromError(err)
}
