package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cbonilla3189/happyfans/internal/api/middleware"
	"github.com/cbonilla3189/happyfans/internal/service"
	"github.com/cbonilla3189/happyfans/internal/storage"
	"github.com/cbonilla3189/happyfans/pkg/logger"
	"github.com/cbonilla3189/happyfans/pkg/response"
)

// Submit 发布留言，成功后跳回表单页
// @Summary 发布留言
// @Tags 留言
// @Accept multipart/form-data
// @Param name formData string true "名字"
// @Param message formData string true "留言"
// @Param photo formData file false "图片 png/jpg/jpeg/gif"
// @Success 302 {string} string "跳转 /form"
// @Failure 400 {string} string "表单错误"
// @Failure 413 {object} response.Response
// @Failure 429 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /submit [post]
func (h *Handler) Submit(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(middleware.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RequestEntityTooLarge(c)
			return
		}
		response.BadRequest(c, "malformed form")
		return
	}

	in := service.SubmitInput{
		Name:    c.Request.PostFormValue("name"),
		Message: c.Request.PostFormValue("message"),
		Photo:   formFile(c.Request.MultipartForm, "photo"),
	}
	if u := middleware.CurrentUser(c); u != nil {
		id := u.ID
		in.OwnerID = &id
	}

	if _, err := h.fans.Submit(c.Request.Context(), in); err != nil {
		if ve, ok := service.IsValidation(err); ok {
			page := h.page(c, "Mensaje")
			page.Errors = ve.Fields
			page.Form = map[string]string{"name": in.Name, "message": in.Message}
			if rerr := h.html(c, http.StatusBadRequest, "form.html", page); rerr != nil {
				response.BadRequest(c, ve.Error())
			}
			return
		}
		response.InternalError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/form")
}

func formFile(form *multipart.Form, field string) *multipart.FileHeader {
	if form == nil || len(form.File[field]) == 0 {
		return nil
	}
	return form.File[field][0]
}

// APIFans 留言列表 JSON
// @Summary 留言列表
// @Tags 留言
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Fan}
// @Failure 500 {object} response.Response
// @Router /api/fans [get]
func (h *Handler) APIFans(c *gin.Context) {
	list, err := h.fans.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, list)
}

// Upload 读取上传图片，只允许上传目录内的文件
// @Summary 上传的图片
// @Tags 留言
// @Param name path string true "文件名"
// @Success 200 {file} file
// @Failure 404 {object} response.Response
// @Router /uploads/{name} [get]
func (h *Handler) Upload(c *gin.Context) {
	path, err := h.uploads.Resolve(c.Param("name"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	if mt, err := mimetype.DetectFile(path); err == nil {
		c.Header("Content-Type", mt.String())
	} else {
		logger.Warn("detect upload type failed", zap.String("file", path), zap.Error(err))
	}
	c.Header("X-Content-Type-Options", "nosniff")
	c.File(path)
}

// DebugUploads 列出上传目录（仅 debug）
// @Summary 上传文件列表
// @Tags 调试
// @Produce json
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /debug/uploads [get]
func (h *Handler) DebugUploads(c *gin.Context) {
	names, err := h.uploads.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"dir": h.uploads.Dir(), "files": names})
}
