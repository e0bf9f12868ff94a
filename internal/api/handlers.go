package api

import (
	"bytes"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/export"
	"github.com/sells-group/leadscore/internal/lead"
	"github.com/sells-group/leadscore/internal/model"
)

const headerExportID = "X-Export-ID"

// LeadsResponse is the body of GET /api/leads.
type LeadsResponse struct {
	Summary  string        `json:"summary"`
	Total    int           `json:"total"`
	Criteria lead.Criteria `json:"criteria"`
	Leads    []model.Lead  `json:"leads"`
	Raw      []model.Lead  `json:"raw,omitempty"`
}

// OptionsResponse is the body of GET /api/options.
type OptionsResponse struct {
	lead.Options
	Defaults lead.Criteria `json:"defaults"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"leads":  s.table.Len(),
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, OptionsResponse{
		Options:  lead.OptionsOf(s.table),
		Defaults: s.defaults,
	})
}

// run parses the request criteria and executes the pipeline. It writes a 400
// and returns false when the query is invalid.
func (s *Server) run(w http.ResponseWriter, r *http.Request) (lead.Result, bool) {
	c, err := ParseCriteria(r.URL.Query(), s.defaults)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return lead.Result{}, false
	}
	return lead.Run(s.table, c, s.scoring), true
}

func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	res, ok := s.run(w, r)
	if !ok {
		return
	}

	resp := LeadsResponse{
		Summary:  export.Summary(res.Criteria, s.table),
		Total:    res.Leads.Len(),
		Criteria: res.Criteria,
		Leads:    res.Leads.Leads,
	}
	if r.URL.Query().Get("raw") == "true" {
		resp.Raw = res.Enriched.Leads
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLead(w http.ResponseWriter, r *http.Request) {
	// chi routes on RawPath when set, leaving the param escaped.
	company := chi.URLParam(r, "company")
	if r.URL.RawPath != "" {
		var err error
		if company, err = url.PathUnescape(company); err != nil {
			writeError(w, http.StatusBadRequest, "invalid company name")
			return
		}
	}

	res, ok := s.run(w, r)
	if !ok {
		return
	}

	l, found := lead.Find(res.Leads, company)
	if !found {
		writeError(w, http.StatusNotFound, "lead not found: "+company)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, export.CSVFileName, "text/csv", export.WriteCSV)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, export.XLSXFileName,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.WriteXLSX)
}

func (s *Server) serveExport(w http.ResponseWriter, r *http.Request, name, contentType string, write func(io.Writer, model.Table) error) {
	res, ok := s.run(w, r)
	if !ok {
		return
	}

	id := export.NewID()
	var buf bytes.Buffer
	if err := write(&buf, res.Leads); err != nil {
		zap.L().Error("api: export failed",
			zap.String("export_id", id),
			zap.String("file", name),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	zap.L().Info("api: export",
		zap.String("export_id", id),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("file", name),
		zap.Int("rows", res.Leads.Len()),
	)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set(headerExportID, id)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
