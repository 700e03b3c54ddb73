package ui

import (
	"net/http"
	"sort"
	"strconv"

	"atlasdash/adapters/excel"
	"atlasdash/domain/atlas"
	apperrors "atlasdash/internal/errors"
	"atlasdash/ports"
)

const defaultTopN = 5

func deQueryFromRequest(r *http.Request) (ports.DEQuery, error) {
	q := ports.DEQuery{
		Disease:  r.URL.Query().Get("disease"),
		CellType: r.URL.Query().Get("cell_type"),
	}
	if q.Disease == "" {
		return q, apperrors.InvalidInput("disease parameter required")
	}
	q.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	q.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	q.TopN, _ = strconv.Atoi(r.URL.Query().Get("top_n"))
	if q.TopN <= 0 {
		q.TopN = defaultTopN
	}
	return q, nil
}

// fillTops derives the top-up/top-down slices when the backend returns only
// the row page. Up takes only positive-logFC rows, down only negative ones,
// each capped at N, so the slices never overlap and a short page never pads
// one direction with genes regulated the other way.
func fillTops(table *atlas.DETable, topN int) {
	if len(table.TopUp) > 0 || len(table.TopDown) > 0 {
		return
	}
	ranked := make([]atlas.DERow, len(table.Rows))
	copy(ranked, table.Rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].LogFC > ranked[j].LogFC
	})
	for _, row := range ranked {
		if row.LogFC > 0 && len(table.TopUp) < topN {
			table.TopUp = append(table.TopUp, row)
		}
	}
	for i := len(ranked) - 1; i >= 0; i-- {
		if ranked[i].LogFC < 0 && len(table.TopDown) < topN {
			table.TopDown = append(table.TopDown, ranked[i])
		}
	}
}

func (a *App) handleDE(w http.ResponseWriter, r *http.Request) {
	a.panelResult("de", w, func() (apiResponse, error) {
		q, err := deQueryFromRequest(r)
		if err != nil {
			return apiResponse{}, err
		}
		table, err := a.currentSource().DEByDisease(r.Context(), q)
		if err != nil {
			return apiResponse{}, err
		}
		fillTops(table, q.TopN)
		return apiResponse{Data: table}, nil
	})
}

func (a *App) handleDEExport(w http.ResponseWriter, r *http.Request) {
	q, err := deQueryFromRequest(r)
	if err != nil {
		a.writeJSON(w, apiResponse{OK: false, Error: apperrors.UserMessage(err)})
		return
	}
	// Export always covers the full contrast, not the current page
	q.Limit, q.Offset = 0, 0

	table, err := a.currentSource().DEByDisease(r.Context(), q)
	if err != nil {
		a.writeJSON(w, apiResponse{OK: false, Error: apperrors.UserMessage(err)})
		return
	}
	fillTops(table, q.TopN)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="de_export.xlsx"`)
	if err := excel.WriteDEWorkbook(w, table); err != nil {
		// Headers are committed; all we can do is log
		a.log.Error("DE export failed: %v", err)
	}
}
