package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/shem-api/internal/llm"
	"github.com/nulzo/shem-api/internal/relay"
	"github.com/nulzo/shem-api/pkg/api"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error attached by a handler.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var problem *api.Problem
		if errors.As(err, &problem) {
			if problem.Log != nil {
				logger.Error("Internal Error", zap.Error(problem.Log))
			}
			// RFC 9457 dictates the json is at the root
			c.JSON(problem.Status, problem)
			c.Abort()
			return
		}

		switch llm.KindOf(err) {
		case llm.AllProvidersExhausted:
			// provider details were already logged by the relay
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: relay.ExhaustedMessage})
			c.Abort()
			return
		case llm.InvalidRequest:
			var llmErr *llm.Error
			if errors.As(err, &llmErr) {
				c.JSON(http.StatusBadRequest, api.BadRequestError(llmErr.Message))
				c.Abort()
				return
			}
		}

		logger.Error("Unhandled Error", zap.Error(err))

		c.JSON(http.StatusInternalServerError, api.NewError(
			http.StatusInternalServerError,
			"Internal Server Error",
			"An unexpected error occurred.",
		))
		c.Abort()
	}
}
