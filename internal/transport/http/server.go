package http

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"censusqa/internal/bootstrap"
	"censusqa/internal/transport/http/handler"
	"censusqa/internal/transport/http/middleware"
	"censusqa/web"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(app.Log.With().Str("component", "http").Logger()), gin.Recovery())
	router.SetHTMLTemplate(template.Must(web.Templates()))

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(app.Metrics.Handler()))

	withSession := middleware.Session(app.Sessions, app.Config.Session.CookieName)

	pageHandler := handler.NewPageHandler(app.Controller, app.Config.App.Title)
	router.GET("/", withSession, pageHandler.Show)
	router.POST("/", withSession, pageHandler.Submit)

	ragHandler := handler.NewRAGHandler(app.Controller)
	v1 := router.Group("/api/v1")
	v1.Use(withSession)
	v1.POST("/index", ragHandler.BuildIndex)
	v1.POST("/ask", ragHandler.Ask)
	v1.GET("/status", ragHandler.Status)

	return router
}
