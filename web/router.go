package web

import (
	"time"

	"facecheck/auth"
	"facecheck/config"
	"facecheck/handlers"
	"facecheck/templates"
	"facecheck/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName     = "facecheck"
	sessionExpirationTime = 30 * 86400 // 30 days
	referenceCacheTime    = 3600
)

// NewRouter wires all routes. handlers.Checker and handlers.Reference must be set.
func NewRouter() *gin.Engine {
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	router.MaxMultipartMemory = config.MAX_UPLOAD_SIZE
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Origin", "X-Admin-Token"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	router.SetHTMLTemplate(templates.Load())

	cookieStore := cookie.NewStore([]byte(config.SESSION_KEY))
	cookieStore.Options(sessions.Options{Path: "/", MaxAge: sessionExpirationTime, HttpOnly: true})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/ws", "/reference"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	// Page
	router.GET("/", Index)
	router.GET("/reference", (&utils.CacheRouter{CacheTime: referenceCacheTime}).Handler(), ReferencePhoto)
	router.GET("/robots.txt", DisallowRobots)
	// API
	router.GET("/status", handlers.GetStatus)
	router.POST("/check", handlers.CheckUpload)
	router.GET("/ws", handlers.WebSocket)
	// Admin
	adminRouter := &auth.Router{Base: router, Token: config.ADMIN_TOKEN}
	adminRouter.GET("/history", handlers.HistoryList)
	adminRouter.GET("/history/:id/thumb", handlers.HistoryThumb)
	adminRouter.POST("/reference/reload", handlers.ReferenceReload)

	return router
}
