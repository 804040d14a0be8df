package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/cbonilla3189/happyfans/config"
	_ "github.com/cbonilla3189/happyfans/docs"
	"github.com/cbonilla3189/happyfans/internal/api/handler"
	"github.com/cbonilla3189/happyfans/internal/api/middleware"
	"github.com/cbonilla3189/happyfans/internal/service"
	"github.com/cbonilla3189/happyfans/pkg/response"
)

// NewRouter 组装中间件与路由；auth 为 nil 时所有请求按匿名处理
func NewRouter(cfg *config.Config, h *handler.Handler, auth service.AuthService) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = middleware.MaxUploadBytes

	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())
	if cfg.Tracing.Endpoint != "" {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/uploads/"})))
	r.Use(middleware.BodyLimit(middleware.MaxUploadBytes))
	if auth != nil {
		r.Use(middleware.Identity(auth, cfg.Auth.CookieName))
	}
	r.NoRoute(func(c *gin.Context) { response.NotFound(c) })

	limit := middleware.RateLimit(middleware.NewIPLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	guest := middleware.RequireGuest()

	r.GET("/", h.Home)
	r.GET("/health", h.Health)

	if auth != nil && cfg.Auth.RequireLogin {
		login := middleware.RequireLogin()
		r.GET("/form", login, h.Form)
		r.POST("/submit", login, limit, h.Submit)
	} else {
		r.GET("/form", h.Form)
		r.POST("/submit", limit, h.Submit)
	}

	r.GET("/fans", h.Fans)
	r.GET("/api/fans", h.APIFans)
	r.GET("/uploads/:name", h.Upload)

	r.GET("/register", guest, h.RegisterPage)
	r.POST("/register", guest, limit, h.Register)
	r.GET("/login", guest, h.LoginPage)
	r.POST("/login", guest, limit, h.Login)
	r.GET("/logout", h.Logout)

	if cfg.Server.Debug {
		r.GET("/debug/uploads", h.DebugUploads)
	}
	if cfg.Server.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	return r
}
