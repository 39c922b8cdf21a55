package http_auth_middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	http_common "github.com/kinokreker/core/internal/delivery/http/common"
	"github.com/kinokreker/core/internal/model"
	usecase_auth "github.com/kinokreker/core/internal/usecase/auth"
)

const (
	queryParam = "_auth"
	header     = "X-Telegram-Init-Data"

	contextUserKey = "current_user"
)

type Middleware struct {
	auth   *usecase_auth.Usecase
	logger *slog.Logger
}

func New(auth *usecase_auth.Usecase) *Middleware {
	return &Middleware{
		auth:   auth,
		logger: slog.Default(),
	}
}

// AuthRequired resolves the Telegram initData blob from the `_auth` query
// parameter or the X-Telegram-Init-Data header into a persisted user and
// puts it on the request context. No blob, no business logic: 401.
func (m *Middleware) AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		initData := ctx.Query(queryParam)
		if initData != "" {
			decoded, err := url.QueryUnescape(initData)
			if err != nil {
				m.abortUnauthorized(ctx, "invalid initData")
				return
			}
			initData = decoded
		} else {
			initData = ctx.GetHeader(header)
		}

		user, err := m.auth.Resolve(ctx, initData)
		if err != nil {
			if errors.Is(err, usecase_auth.ErrInvalidInitData) {
				m.abortUnauthorized(ctx, "invalid initData")
				return
			}
			m.logger.Error("failed to resolve user", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: "internal error",
			})
			ctx.Abort()
			return
		}

		ctx.Set(contextUserKey, user)
		ctx.Next()
	}
}

func (m *Middleware) abortUnauthorized(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{
		Message: message,
	})
	ctx.Abort()
}

// CurrentUser returns the user resolved by AuthRequired.
func CurrentUser(ctx *gin.Context) (model.User, bool) {
	val, ok := ctx.Get(contextUserKey)
	if !ok {
		return model.User{}, false
	}
	user, ok := val.(model.User)
	return user, ok
}
