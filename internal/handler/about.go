package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/sakif/pastebin/internal/i18n"
)

var aboutTemplate = template.Must(template.New("about").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
	<meta charset="utf-8">
	<title>{{.Title}}</title>
</head>
<body>
	<p>{{.Message}}</p>
</body>
</html>
`))

// AboutHandler serves the localized about page.
type AboutHandler struct {
	logger *slog.Logger
}

// NewAboutHandler creates an AboutHandler.
func NewAboutHandler(logger *slog.Logger) *AboutHandler {
	return &AboutHandler{logger: logger}
}

// HandleAbout renders the about page in the best language match for the
// request's Accept-Language header, defaulting to English.
//
// HTTP: GET /internationalization
func (h *AboutHandler) HandleAbout(w http.ResponseWriter, r *http.Request) {
	page := i18n.PageFor(r.Header.Get("Accept-Language"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := aboutTemplate.Execute(w, page); err != nil {
		h.logger.Error("failed to render about page", slog.String("error", err.Error()))
	}
}
