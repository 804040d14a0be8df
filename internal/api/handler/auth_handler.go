package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cbonilla3189/happyfans/internal/repository"
	"github.com/cbonilla3189/happyfans/internal/service"
	"github.com/cbonilla3189/happyfans/pkg/logger"
	"github.com/cbonilla3189/happyfans/pkg/response"
)

func authDisabled(c *gin.Context) {
	response.Error(c, http.StatusInternalServerError, service.ErrAuthDisabled.Error())
}

// RegisterPage 注册页
// @Summary 注册页
// @Tags 账号
// @Produce html
// @Success 200 {string} string "页面"
// @Failure 500 {object} response.Response "未启用"
// @Router /register [get]
func (h *Handler) RegisterPage(c *gin.Context) {
	if h.auth == nil {
		authDisabled(c)
		return
	}
	if err := h.html(c, http.StatusOK, "register.html", h.page(c, "Registro")); err != nil {
		response.InternalError(c, err)
	}
}

// Register 注册，成功跳转登录页
// @Summary 注册
// @Tags 账号
// @Accept x-www-form-urlencoded
// @Param email formData string true "邮箱"
// @Param name formData string false "昵称"
// @Param password formData string true "密码，至少 8 位"
// @Param confirm formData string true "确认密码"
// @Success 302 {string} string "跳转 /login"
// @Failure 200 {string} string "表单校验失败"
// @Failure 409 {string} string "邮箱已注册"
// @Failure 500 {object} response.Response
// @Router /register [post]
func (h *Handler) Register(c *gin.Context) {
	if h.auth == nil {
		authDisabled(c)
		return
	}
	var in service.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		response.BadRequest(c, "malformed form")
		return
	}

	_, err := h.auth.Register(c.Request.Context(), in)
	if err == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	page := h.page(c, "Registro")
	page.Form = map[string]string{"email": in.Email, "name": in.Name}
	status := http.StatusOK
	switch ve, ok := service.IsValidation(err); {
	case ok:
		page.Errors = ve.Fields
	case errors.Is(err, repository.ErrDuplicateEmail):
		status = http.StatusConflict
		page.FormError = "email already registered"
	default:
		response.InternalError(c, err)
		return
	}
	if rerr := h.html(c, status, "register.html", page); rerr != nil {
		response.InternalError(c, rerr)
	}
}

// LoginPage 登录页
// @Summary 登录页
// @Tags 账号
// @Produce html
// @Param next query string false "登录后跳转的本站路径"
// @Success 200 {string} string "页面"
// @Failure 500 {object} response.Response "未启用"
// @Router /login [get]
func (h *Handler) LoginPage(c *gin.Context) {
	if h.auth == nil {
		authDisabled(c)
		return
	}
	page := h.page(c, "Entrar")
	page.Next = safeNext(c.Query("next"))
	if err := h.html(c, http.StatusOK, "login.html", page); err != nil {
		response.InternalError(c, err)
	}
}

// Login 登录；邮箱不存在与密码错误返回同样的页面
// @Summary 登录
// @Tags 账号
// @Accept x-www-form-urlencoded
// @Param email formData string true "邮箱"
// @Param password formData string true "密码"
// @Param next formData string false "登录后跳转的本站路径"
// @Success 302 {string} string "跳转首页或 next"
// @Failure 200 {string} string "登录失败"
// @Failure 500 {object} response.Response
// @Router /login [post]
func (h *Handler) Login(c *gin.Context) {
	if h.auth == nil {
		authDisabled(c)
		return
	}
	var in service.LoginInput
	if err := c.ShouldBind(&in); err != nil {
		response.BadRequest(c, "malformed form")
		return
	}
	next := safeNext(c.PostForm("next"))

	sess, err := h.auth.Login(c.Request.Context(), in)
	if err == nil {
		h.setSession(c, sess)
		if next == "" {
			next = "/"
		}
		c.Redirect(http.StatusFound, next)
		return
	}

	page := h.page(c, "Entrar")
	page.Next = next
	switch ve, ok := service.IsValidation(err); {
	case ok:
		page.Errors = ve.Fields
	case errors.Is(err, service.ErrInvalidCredentials):
		page.FormError = service.ErrInvalidCredentials.Error()
	default:
		response.InternalError(c, err)
		return
	}
	if rerr := h.html(c, http.StatusOK, "login.html", page); rerr != nil {
		response.InternalError(c, rerr)
	}
}

// Logout 注销会话；未登录时同样跳回首页
// @Summary 退出登录
// @Tags 账号
// @Success 302 {string} string "跳转首页"
// @Router /logout [get]
func (h *Handler) Logout(c *gin.Context) {
	if h.auth != nil {
		if token, err := c.Cookie(h.opts.CookieName); err == nil && token != "" {
			if err := h.auth.Logout(c.Request.Context(), token); err != nil {
				logger.Warn("revoke session failed", zap.Error(err))
			}
		}
		h.clearSession(c)
	}
	c.Redirect(http.StatusFound, "/")
}

// safeNext 只接受本站路径
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	if strings.ContainsAny(next, "\r\n") {
		return ""
	}
	return next
}
