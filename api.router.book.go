package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupBookRoutes injects the reading list api endpoints and the
// embedded single-page ui serving routes.
func (api *APIHandler) SetupBookRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/", m.public(api.Index))
	router.GET("/status", m.public(api.Status))
	router.ServeFiles("/static/*filepath", StaticFilesystem())

	router.GET("/api/books", m.public(api.GetAllBooks))
	router.POST("/api/books", m.public(api.CreateBook))
	router.PATCH("/api/books/:id/toggle", m.public(api.ToggleBook))
	router.PATCH("/api/books/:id/rating", m.public(api.RateBook))
	router.DELETE("/api/books/:id", m.public(api.DeleteOneBook))
	return router
}
