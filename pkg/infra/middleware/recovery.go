package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	applogger "github.com/kart-io/campusgpt/pkg/infra/logger"
	"github.com/kart-io/campusgpt/pkg/utils/errors"
	"github.com/kart-io/campusgpt/pkg/utils/response"
)

// RecoveryConfig configures Recovery.
type RecoveryConfig struct {
	// EnableStackTrace puts the stack into the error message. Development only.
	EnableStackTrace bool

	// OnError writes the response for the recovered panic. Nil writes the
	// ErrPanic envelope.
	OnError func(c *gin.Context, err error)
}

func Recovery() gin.HandlerFunc {
	return RecoveryWithConfig(RecoveryConfig{})
}

// RecoveryWithConfig turns a panic in a later handler into an aborted
// request with an ErrPanic error, logging the stack.
func RecoveryWithConfig(config RecoveryConfig) gin.HandlerFunc {
	onError := config.OnError
	if onError == nil {
		onError = writePanic
	}

	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			stack := debug.Stack()
			applogger.GetLogger(c.Request.Context()).Errorw("panic recovered",
				"panic", fmt.Sprint(r),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"stack", string(stack),
			)

			msg := fmt.Sprintf("panic: %v", r)
			if config.EnableStackTrace {
				msg += "\n" + string(stack)
			}
			onError(c, errors.ErrPanic.WithMessage(msg))
			c.Abort()
		}()
		c.Next()
	}
}

func writePanic(c *gin.Context, err error) {
	resp := response.Err(errors.FromError(err)).WithRequestID(GetRequestID(c.Request.Context()))
	c.AbortWithStatusJSON(resp.HTTPStatus(), resp)
}
