package ui

import (
	"html/template"
	"net/http"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

type dashboardData struct {
	Title   string
	APIBase string
	Demo    bool
}

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, "dashboard.html", dashboardData{
		Title:   "Autoimmune Atlas",
		APIBase: a.apiBase(),
		Demo:    a.cfg.Atlas.Demo,
	})
}

type aboutData struct {
	Title   string
	Content template.HTML
}

func (a *App) handleAbout(w http.ResponseWriter, r *http.Request) {
	raw, err := embeddedFiles.ReadFile("templates/about.md")
	if err != nil {
		a.log.Error("about page source missing: %v", err)
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	rendered := markdown.ToHTML(raw, p, renderer)

	a.renderTemplate(w, "about.html", aboutData{
		Title:   "About the atlas",
		Content: template.HTML(rendered),
	})
}
