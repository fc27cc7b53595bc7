package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"censusqa/internal/app"
	"censusqa/internal/transport/http/middleware"
	"censusqa/web"
)

// PageHandler serves the single interactive page.
type PageHandler struct {
	controller *app.Controller
	title      string
}

type pageData struct {
	Title string
	View  app.View
}

// detached keeps request values but ignores client disconnects, so a build or
// answer in flight always runs to completion.
func detached(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func NewPageHandler(controller *app.Controller, title string) *PageHandler {
	return &PageHandler{controller: controller, title: title}
}

func (h *PageHandler) Show(c *gin.Context) {
	view := app.View{State: app.StateUninitialized}
	if sess, ok := middleware.SessionFrom(c); ok {
		view.State = sess.State()
	}
	c.HTML(http.StatusOK, web.PageTemplate, pageData{Title: h.title, View: view})
}

// Submit handles one form post: the build button, the question, or both.
func (h *PageHandler) Submit(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		c.String(http.StatusInternalServerError, "session missing")
		return
	}
	ev := app.Event{
		Build:    c.PostForm("build") != "",
		Question: c.PostForm("question"),
	}
	view := h.controller.Dispatch(detached(c), sess, ev)
	c.HTML(http.StatusOK, web.PageTemplate, pageData{Title: h.title, View: view})
}
