// File path: internal/api/stats_handler.go
package api

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/houdini-kb/hipcore/internal/extract"
)

type statsEntry struct {
	ParamName     string  `json:"param_name"`
	SampleCount   int     `json:"sample_count"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Mean          float64 `json:"mean"`
	ModifiedCount int     `json:"modified_count"`
	UsageLow      float64 `json:"usage_range_low"`
	UsageHigh     float64 `json:"usage_range_high"`
}

type statsResponse struct {
	NodeType  string       `json:"node_type"`
	ParamName string       `json:"param_name,omitempty"`
	Results   []statsEntry `json:"results"`
}

// handleStats serves GET /stats/{nodeType}, optionally narrowed by a
// ?param= query parameter, mirroring the core API's stats(node_type
// [, param_name]) operation.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	nodeType := chi.URLParam(r, "nodeType")
	if nodeType == "" {
		writeError(w, http.StatusBadRequest, errMissingNodeType)
		return
	}
	paramName := r.URL.Query().Get("param")

	results, err := extract.Aggregate(r.Context(), s.store, nodeType, paramName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := statsResponse{NodeType: nodeType, ParamName: paramName, Results: make([]statsEntry, 0, len(results))}
	for _, res := range results {
		if res.SampleCount < 2 {
			continue
		}
		low, high := extract.UsageRange(res)
		resp.Results = append(resp.Results, statsEntry{
			ParamName:     res.ParamName,
			SampleCount:   res.SampleCount,
			Min:           res.Min,
			Max:           res.Max,
			Mean:          res.Mean,
			ModifiedCount: res.ModifiedCount,
			UsageLow:      low,
			UsageHigh:     high,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type apiError string

func (e apiError) Error() string { return string(e) }

const errMissingNodeType = apiError("node type required")
