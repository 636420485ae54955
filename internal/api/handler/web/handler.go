// internal/api/handler/web/handler.go
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/newthinker/realize/internal/app"
	"github.com/newthinker/realize/internal/core"
	"github.com/newthinker/realize/internal/realization"
	"go.uber.org/zap"
)

//go:embed templates/*
var templateFS embed.FS

// pages lists the page templates rendered inside layout.html
var pages = []string{"dashboard.html"}

// DashboardApp is what the web UI needs from app.App
type DashboardApp interface {
	Title() string
	Symbols() []string
	DefaultPeriod() core.Period
	Info(ctx context.Context, symbol string) (*app.Profile, error)
	RunWithProfile(ctx context.Context, req realization.RunRequest, profile *app.Profile) (*app.Report, error)
	LatestExport(ctx context.Context) ([]byte, error)
	ExportFilename() string
}

// Handler provides web UI handlers with template rendering
type Handler struct {
	// pageTemplates holds separate template instances for each page
	// Each instance contains layout.html + the specific page template
	pageTemplates map[string]*template.Template
	app           DashboardApp
	logger        *zap.Logger
}

// NewHandler creates a new web handler with templates loaded from the given directory.
// If templatesDir is empty, it falls back to embedded templates.
func NewHandler(templatesDir string, app DashboardApp, logger *zap.Logger) (*Handler, error) {
	if templatesDir != "" {
		return NewHandlerWithFS(os.DirFS(filepath.Clean(templatesDir)), app, logger)
	}
	return NewHandlerWithFS(TemplateFS(), app, logger)
}

// NewHandlerWithFS creates a new web handler using a custom filesystem.
// This is useful for testing or custom template sources.
func NewHandlerWithFS(fsys fs.FS, app DashboardApp, logger *zap.Logger) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pageTemplates := make(map[string]*template.Template)
	for _, page := range pages {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys, "layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		pageTemplates[page] = tmpl
	}

	return &Handler{
		pageTemplates: pageTemplates,
		app:           app,
		logger:        logger,
	}, nil
}

// render executes the specified page template with the given data
func (h *Handler) render(w http.ResponseWriter, page string, data any) {
	tmpl, ok := h.pageTemplates[page]
	if !ok {
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}

	// Render fully before writing so a template error never leaves a half page
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		h.logger.Error("rendering template", zap.String("page", page), zap.Error(err))
		http.Error(w, "rendering page failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// TemplateFS returns the embedded template filesystem for external use.
func TemplateFS() fs.FS {
	subFS, err := fs.Sub(templateFS, "templates")
	if err != nil {
		// This should never happen with valid embed directive
		return templateFS
	}
	return subFS
}
