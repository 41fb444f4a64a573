package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/postline/postline/internal/transport/mw"
)

// NewRouter sets up all Echo routes and middleware.
func NewRouter(h *Handler, resolver mw.TokenResolver) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
	}))

	// Health (no auth required)
	e.GET("/health", h.Health)

	// API — requires authentication
	v1 := e.Group("")
	v1.Use(mw.BearerAuth(resolver))

	v1.GET("/posts", h.ListPosts)
	v1.POST("/posts", h.CreatePost)
	v1.PATCH("/posts/:id", h.ChangePost)
	v1.DELETE("/posts/:id", h.DeletePost)

	v1.GET("/comments", h.ListComments)
	v1.POST("/comments", h.CreateComment)
	v1.PATCH("/comments/:id", h.ChangeComment)
	v1.DELETE("/comments/:id", h.DeleteComment)

	v1.POST("/followers/:username", h.Follow)
	v1.DELETE("/followers/:username", h.Unfollow)

	return e
}
