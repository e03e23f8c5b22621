package middleware

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"

	"OnTrack/config"
	pkgerrors "OnTrack/pkg/errors"
	"OnTrack/pkg/response"
)

// 单用户自托管部署，静态 Bearer Token 鉴权。
// 未配置 API_TOKEN 时放行所有请求（本机开发模式）。

func AuthMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		expected := config.Cfg.APIToken
		if expected == "" {
			c.Next(ctx)
			return
		}

		auth := string(c.GetHeader("Authorization"))
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			response.Error(ctx, c, pkgerrors.Unauthorized)
			c.Abort()
			return
		}

		c.Next(ctx)
	}
}
