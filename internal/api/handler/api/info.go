// internal/api/handler/api/info.go
package api

import (
	"context"
	"net/http"

	"github.com/newthinker/realize/internal/api/response"
	"github.com/newthinker/realize/internal/app"
)

// InfoApp defines the interface needed from app.App.
type InfoApp interface {
	Info(ctx context.Context, symbol string) (*app.Profile, error)
}

// InfoHandler serves ticker profiles.
type InfoHandler struct {
	app InfoApp
}

// NewInfoHandler creates a new info handler.
func NewInfoHandler(app InfoApp) *InfoHandler {
	return &InfoHandler{app: app}
}

// Get handles GET /api/v1/symbols/{symbol}/info
func (h *InfoHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.app.Info(r.Context(), r.PathValue("symbol"))
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.JSON(w, http.StatusOK, profile)
}
