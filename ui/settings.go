package ui

import (
	"encoding/json"
	"net/http"
	"strings"

	"atlasdash/adapters/localstore"
)

// apiBaseView reports the effective base plus whether it is a stored override
type apiBaseView struct {
	APIBase    string `json:"api_base"`
	Overridden bool   `json:"overridden"`
	Default    string `json:"default"`
}

func (a *App) handleGetAPIBase(w http.ResponseWriter, r *http.Request) {
	_, overridden := a.store.Get(localstore.KeyAPIBase)
	a.writeJSON(w, apiResponse{OK: true, Data: apiBaseView{
		APIBase:    a.apiBase(),
		Overridden: overridden,
		Default:    a.cfg.Atlas.DefaultBase,
	}})
}

// handleSetAPIBase persists the submitted base verbatim, trimmed only. The
// value is not validated as a URL: a base that cannot be fetched from shows
// up as panel errors, and a DELETE reverts to the default.
func (a *App) handleSetAPIBase(w http.ResponseWriter, r *http.Request) {
	var body struct {
		APIBase string `json:"api_base"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.writeJSON(w, apiResponse{OK: false, Error: "invalid request body"})
		return
	}

	base := strings.TrimRight(strings.TrimSpace(body.APIBase), "/")
	a.store.Set(localstore.KeyAPIBase, base)
	a.rebindSource()
	a.handleGetAPIBase(w, r)
}

func (a *App) handleClearAPIBase(w http.ResponseWriter, r *http.Request) {
	a.store.Clear(localstore.KeyAPIBase)
	a.rebindSource()
	a.handleGetAPIBase(w, r)
}
