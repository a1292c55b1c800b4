package httputils

import (
	stderrors "errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/campusgpt/pkg/utils/errors"
	"github.com/kart-io/campusgpt/pkg/utils/json"
	"github.com/kart-io/campusgpt/pkg/utils/validator"
)

// BindJSON decodes the request body into obj and validates it, translating
// failures into the caller's language.
func BindJSON(c *gin.Context, obj any) error {
	if err := json.NewDecoder(c.Request.Body).Decode(obj); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errors.ErrBadRequest.WithMessage("request body is empty")
		}
		return errors.ErrBadRequest.WithMessage("invalid request body").WithCause(err)
	}
	return validator.Global().ValidateWithLang(obj, Lang(c))
}

// BindQuery binds URL query parameters into obj and validates them.
func BindQuery(c *gin.Context, obj any) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		return errors.ErrBadRequest.WithMessage("invalid query").WithCause(err)
	}
	return validator.Global().ValidateWithLang(obj, Lang(c))
}
