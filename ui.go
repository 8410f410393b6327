package main

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// The single-page ui ships inside the binary, the server
// needs no filesystem layout at runtime.
//
//go:embed static
var staticFS embed.FS

// StaticFilesystem exposes the embedded assets under their own root
// so the router serves them at /static/ without the embed prefix.
func StaticFilesystem() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// the static directory is compiled in, a failure here is a build defect.
		panic(err)
	}
	return http.FS(sub)
}

// Index serves the reading list single-page application.
func (api *APIHandler) Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		api.logger.Error("failed to load ui page", zap.String("request.id", requestID), zap.Error(err))
		if err = WriteErrorResponse(w, http.StatusInternalServerError, "failed to load the page"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	if _, err := w.Write(page); err != nil {
		api.logger.Error("failed to send ui page", zap.String("request.id", requestID), zap.Error(err))
	}
}
