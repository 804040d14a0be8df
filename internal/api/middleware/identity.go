package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/cbonilla3189/happyfans/internal/model"
)

const currentUserKey = "current_user"

// SessionResolver 从会话令牌解析当前用户
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) *model.User
}

// Identity 读取会话 cookie；解析失败按匿名处理
func Identity(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(cookieName); err == nil && token != "" {
			if u := resolver.CurrentUser(c.Request.Context(), token); u != nil {
				c.Set(currentUserKey, u)
			}
		}
		c.Next()
	}
}

// CurrentUser 未登录时返回 nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}

// RequireGuest 已登录用户跳回首页
func RequireGuest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireLogin 未登录跳转 /login，带上原路径
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			next := c.Request.URL.Path
			if c.Request.Method == http.MethodPost {
				next = "/form"
			}
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(next))
			c.Abort()
			return
		}
		c.Next()
	}
}
