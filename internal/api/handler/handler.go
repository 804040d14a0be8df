package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cbonilla3189/happyfans/internal/api/middleware"
	"github.com/cbonilla3189/happyfans/internal/service"
	"github.com/cbonilla3189/happyfans/internal/storage"
	"github.com/cbonilla3189/happyfans/internal/view"
)

// Options 页面与会话相关开关
type Options struct {
	CookieName   string
	CookieSecure bool
}

// Handler 持有全部依赖；auth 为 nil 表示未启用账号功能
type Handler struct {
	fans    service.FanService
	auth    service.AuthService
	uploads *storage.Uploads
	views   *view.Renderer
	opts    Options
}

func NewHandler(fans service.FanService, auth service.AuthService, uploads *storage.Uploads, views *view.Renderer, opts Options) *Handler {
	if opts.CookieName == "" {
		opts.CookieName = "happyfans_session"
	}
	return &Handler{fans: fans, auth: auth, uploads: uploads, views: views, opts: opts}
}

// AuthEnabled 是否启用账号功能
func (h *Handler) AuthEnabled() bool { return h.auth != nil }

func (h *Handler) page(c *gin.Context, title string) view.Page {
	return view.Page{
		Title:       title,
		User:        middleware.CurrentUser(c),
		AuthEnabled: h.auth != nil,
	}
}

// html 渲染成功才写响应，失败时调用方自行降级
func (h *Handler) html(c *gin.Context, status int, name string, page view.Page) error {
	var buf bytes.Buffer
	if err := h.views.Render(&buf, name, page); err != nil {
		return err
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
	return nil
}

func (h *Handler) setSession(c *gin.Context, s *service.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.opts.CookieName, s.Token, int(h.auth.SessionTTL().Seconds()), "/", "", h.opts.CookieSecure, true)
}

func (h *Handler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.opts.CookieName, "", -1, "/", "", h.opts.CookieSecure, true)
}
