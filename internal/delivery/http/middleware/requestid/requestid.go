package http_requestid_middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerName = "X-Request-Id"
	contextKey = "request_id"
)

// New tags every request with an id, echoed in the response header and
// attached to the request log line.
func New() gin.HandlerFunc {
	logger := slog.Default()

	return func(ctx *gin.Context) {
		id := ctx.GetHeader(headerName)
		if id == "" {
			id = uuid.New().String()
		}

		ctx.Set(contextKey, id)
		ctx.Header(headerName, id)

		logger.Info("request",
			slog.String("request_id", id),
			slog.String("method", ctx.Request.Method),
			slog.String("path", ctx.Request.URL.Path))

		ctx.Next()
	}
}

func FromContext(ctx *gin.Context) string {
	return ctx.GetString(contextKey)
}
