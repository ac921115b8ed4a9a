package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/herbscope/internal/apperr"
	"github.com/starford/herbscope/internal/dataset"
	"github.com/starford/herbscope/internal/service"
)

const maxBodyBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// ListHerbs handles GET /api/herbs.
//
//	@Summary		List herbs with optional filters, most frequent first
//	@Tags			herbs
//	@Produce		json
//	@Param			category	query		string	false	"Category tag"
//	@Param			nature		query		string	false	"Nature tag"
//	@Param			meridian	query		string	false	"Meridian tag"
//	@Param			limit		query		int		false	"Max results"
//	@Success		200			{object}	HerbListResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/herbs [get]
func (h *Handler) ListHerbs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := intParam(q, "limit")
	if err != nil {
		writeError(w, "list herbs", err)
		return
	}
	f := service.Filter{
		Category: q.Get("category"),
		Nature:   q.Get("nature"),
		Meridian: q.Get("meridian"),
	}
	if limit != nil {
		f.Limit = *limit
	}
	herbs, total, err := h.svc.ListHerbs(r.Context(), f)
	if err != nil {
		writeError(w, "list herbs", err)
		return
	}
	writeJSON(w, http.StatusOK, HerbListResponse{Herbs: herbs, Total: total})
}

// GetHerb handles GET /api/herbs/{name}.
//
//	@Summary		Get a herb by name or alias
//	@Tags			herbs
//	@Produce		json
//	@Param			name	path		string	true	"Herb name or alias"
//	@Success		200		{object}	herb.Record
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/herbs/{name} [get]
func (h *Handler) GetHerb(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	rec, err := h.svc.GetHerb(r.Context(), name)
	if err != nil {
		writeError(w, "get herb", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Symptoms handles GET /api/symptoms.
//
//	@Summary		List the symptom vocabulary
//	@Tags			recommend
//	@Produce		json
//	@Success		200	{object}	SymptomListResponse
//	@Security		BearerAuth
//	@Router			/symptoms [get]
func (h *Handler) Symptoms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SymptomListResponse{Symptoms: h.svc.Symptoms()})
}

// Surface handles GET /api/surface.
//
//	@Summary		Compute a two-herb dose-response surface
//	@Tags			surface
//	@Produce		json
//	@Param			a		query		string	true	"Herb on the X axis"
//	@Param			b		query		string	true	"Herb on the Y axis"
//	@Param			model	query		string	true	"Interaction model"	Enums(additivity, synergy, antagonism, complex-peak)
//	@Param			min		query		number	false	"Axis minimum dose (g)"
//	@Param			max		query		number	false	"Axis maximum dose (g)"
//	@Param			samples	query		int		false	"Samples per axis (1-1000)"
//	@Success		200		{object}	SurfaceResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/surface [get]
func (h *Handler) Surface(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := service.SurfaceRequest{HerbA: q.Get("a"), HerbB: q.Get("b"), Model: q.Get("model")}
	if req.HerbA == "" || req.HerbB == "" || req.Model == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameters 'a', 'b' and 'model' are required"))
		return
	}
	var err error
	if req.Min, err = floatParam(q, "min"); err != nil {
		writeError(w, "surface", err)
		return
	}
	if req.Max, err = floatParam(q, "max"); err != nil {
		writeError(w, "surface", err)
		return
	}
	if req.Samples, err = intParam(q, "samples"); err != nil {
		writeError(w, "surface", err)
		return
	}

	s, err := h.svc.Surface(r.Context(), req)
	if err != nil {
		writeError(w, "surface", err)
		return
	}
	peak := s.Peak()
	lo, hi := s.Range()
	writeJSON(w, http.StatusOK, SurfaceResponse{
		HerbA:  s.HerbA,
		HerbB:  s.HerbB,
		Model:  string(s.Model),
		Factor: s.Factor,
		X:      s.X,
		Y:      s.Y,
		Z:      s.Z,
		Peak:   SurfacePoint{X: peak.X, Y: peak.Y, Z: peak.Z},
		Range:  [2]float64{lo, hi},
	})
}

// Recommend handles POST /api/recommend.
//
//	@Summary		Infer a herb recommendation with its reasoning trace
//	@Tags			recommend
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SymptomRequest	true	"Observed symptoms"
//	@Success		200		{object}	recommend.Result
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/recommend [post]
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSymptoms(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Recommend(r.Context(), req.Symptoms)
	if err != nil {
		writeError(w, "recommend", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Diagnose handles POST /api/clinic/diagnose.
//
//	@Summary		Formula, composition and confidence for a symptom list
//	@Tags			recommend
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SymptomRequest	true	"Observed symptoms"
//	@Success		200		{object}	recommend.Diagnosis
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/clinic/diagnose [post]
func (h *Handler) Diagnose(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSymptoms(w, r)
	if !ok {
		return
	}
	d, err := h.svc.Diagnose(r.Context(), req.Symptoms)
	if err != nil {
		writeError(w, "diagnose", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// GraphSummary handles GET /api/graph/summary.
//
//	@Summary		Topology summary and centrality ranking of the relation graph
//	@Tags			graph
//	@Produce		json
//	@Param			top	query		int	false	"Ranking size"
//	@Success		200	{object}	graph.Summary
//	@Security		BearerAuth
//	@Router			/graph/summary [get]
func (h *Handler) GraphSummary(w http.ResponseWriter, r *http.Request) {
	top, err := intParam(r.URL.Query(), "top")
	if err != nil {
		writeError(w, "graph summary", err)
		return
	}
	n := 0
	if top != nil {
		n = *top
	}
	writeJSON(w, http.StatusOK, h.svc.GraphSummary(r.Context(), n))
}

// Report handles GET /api/report.
//
//	@Summary		Analysis report of the live dataset
//	@Tags			report
//	@Produce		json
//	@Produce		text/markdown
//	@Param			format	query		string	false	"Output format"	Enums(json, markdown)
//	@Success		200		{object}	report.Report
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/report [get]
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format != "" && format != "json" && format != "markdown" && format != "md" {
		writeJSON(w, http.StatusBadRequest, errorBody("format must be json or markdown"))
		return
	}
	rep, err := h.svc.Report(r.Context())
	if err != nil {
		writeError(w, "report", err)
		return
	}
	if format == "markdown" || format == "md" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, rep.Markdown())
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// DatasetInfo handles GET /api/dataset.
//
//	@Summary		Metadata of the live dataset
//	@Tags			dataset
//	@Produce		json
//	@Success		200	{object}	service.Info
//	@Security		BearerAuth
//	@Router			/dataset [get]
func (h *Handler) DatasetInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Info())
}

// ImportDataset handles PUT /api/dataset.
//
//	@Summary		Replace the live dataset with an uploaded document
//	@Tags			dataset
//	@Accept			json
//	@Accept			application/yaml
//	@Produce		json
//	@Success		200	{object}	service.Info
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/dataset [put]
func (h *Handler) ImportDataset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	format := dataset.FormatYAML
	if strings.Contains(r.Header.Get("Content-Type"), "json") {
		format = dataset.FormatJSON
	}
	info, err := h.svc.Import(r.Context(), body, format, "upload")
	if err != nil {
		writeError(w, "import dataset", err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func decodeSymptoms(w http.ResponseWriter, r *http.Request) (SymptomRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req SymptomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return req, false
	}
	return req, true
}

func intParam(q url.Values, key string) (*int, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", apperr.ErrInvalidArgument, key)
	}
	return &v, nil
}

func floatParam(q url.Values, key string) (*float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", apperr.ErrInvalidArgument, key)
	}
	return &v, nil
}
