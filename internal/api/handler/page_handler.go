package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cbonilla3189/happyfans/pkg/logger"
	"github.com/cbonilla3189/happyfans/pkg/response"
)

const greeting = "¡Hola! Bienvenido a HappyFans."

// Home 首页；模板不可用时返回纯文本问候
// @Summary 首页
// @Tags 页面
// @Produce html
// @Success 200 {string} string "页面"
// @Router / [get]
func (h *Handler) Home(c *gin.Context) {
	if err := h.html(c, http.StatusOK, "home.html", h.page(c, "Inicio")); err != nil {
		logger.Warn("render home failed", zap.Error(err))
		c.String(http.StatusOK, greeting)
	}
}

type healthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Health 存活检查，不访问数据库
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} healthResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}

// Form 留言表单
// @Summary 留言表单
// @Tags 页面
// @Produce html
// @Success 200 {string} string "页面"
// @Failure 500 {object} response.Response
// @Router /form [get]
func (h *Handler) Form(c *gin.Context) {
	if err := h.html(c, http.StatusOK, "form.html", h.page(c, "Mensaje")); err != nil {
		response.InternalError(c, err)
	}
}

// Fans 留言墙，新的在前；模板失败时返回同样数据的 JSON
// @Summary 留言墙
// @Tags 页面
// @Produce html,json
// @Success 200 {object} response.Response{data=[]model.Fan}
// @Failure 500 {object} response.Response
// @Router /fans [get]
func (h *Handler) Fans(c *gin.Context) {
	list, err := h.fans.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	page := h.page(c, "Muro")
	page.Fans = list
	if err := h.html(c, http.StatusOK, "fans.html", page); err != nil {
		logger.Warn("render fans failed, falling back to json", zap.Error(err))
		response.Success(c, list)
	}
}
