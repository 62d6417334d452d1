package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"

	"github.com/JonMunkholm/labnorm/internal/core"
	"github.com/JonMunkholm/labnorm/internal/logging"
	"github.com/JonMunkholm/labnorm/internal/store"
	"github.com/JonMunkholm/labnorm/internal/workbook"
)

// ConvertResponse is the body returned by POST /api/convert and
// GET /api/results/{id}.
type ConvertResponse struct {
	ID         string          `json:"id"`
	Source     string          `json:"source"`
	Lab        string          `json:"lab,omitempty"`
	Improvised bool            `json:"improvised,omitempty"`
	Documents  []core.Document `json:"documents"`
	Errors     []core.Issue    `json:"errors"`
	Warnings   []core.Issue    `json:"warnings"`
	DurationMS int64           `json:"duration_ms"`
	Stored     int             `json:"stored"`
	StoreError string          `json:"store_error,omitempty"`
}

func toResponse(res *core.Result) ConvertResponse {
	docs := res.Documents
	if docs == nil {
		docs = []core.Document{}
	}
	return ConvertResponse{
		ID:         res.ID,
		Source:     res.Source,
		Lab:        res.Lab,
		Improvised: res.Improvised,
		Documents:  docs,
		Errors:     core.Issues(res.Errors),
		Warnings:   core.Issues(res.Warnings),
		DurationMS: res.Duration.Milliseconds(),
	}
}

// handleConvert converts one uploaded workbook. Form fields: file (required)
// and lab (optional registry key overriding autodetection).
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Convert.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			respondError(w, r, errFileTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, r, fmt.Errorf("read upload: %w", err), http.StatusInternalServerError)
		return
	}

	wb, err := workbook.ReadBytes(header.Filename, data)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, workbook.ErrUnsupportedType) {
			status = http.StatusUnsupportedMediaType
		}
		respondError(w, r, err, status)
		return
	}

	opts := core.ConvertOptions{
		Lab:               strings.TrimSpace(r.FormValue("lab")),
		SkipUnitOverrides: !s.cfg.Convert.AllowOverrides,
		DisableImprovise:  !s.cfg.Convert.AllowImprovise,
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Convert.Timeout)
	defer cancel()

	res, err := s.convert(ctx, wb, opts)
	if err != nil {
		respondError(w, r, err, convertErrorStatus(err))
		return
	}
	s.results.Set(res.ID, res, cache.DefaultExpiration)

	resp := toResponse(res)
	if s.store != nil && len(res.Documents) > 0 {
		n, err := s.store.SaveResult(ctx, res)
		if err != nil {
			logging.WithFields(r.Context(), "conversion_id", res.ID).Error("store result", "error", err)
			resp.StoreError = core.MapError(err).Message
		}
		resp.Stored = n
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) convert(ctx context.Context, wb core.Workbook, opts core.ConvertOptions) (*core.Result, error) {
	if s.metrics == nil {
		return s.converter.Convert(ctx, wb, opts)
	}
	done := s.metrics.Start()
	res, err := s.converter.Convert(ctx, wb, opts)
	done()
	s.metrics.Observe(res, err)
	return res, err
}

func convertErrorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrTooManyConversions):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, core.ErrEmptyWorkbook), errors.Is(err, core.ErrUnreadableWorkbook):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// handleGetResult returns a conversion from the result cache, or rebuilt
// from the event store once the cache entry has expired.
func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	res, err := s.lookupResult(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, lookupErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, toResponse(res))
}

func (s *Server) lookupResult(ctx context.Context, id string) (*core.Result, error) {
	if v, ok := s.results.Get(id); ok {
		return v.(*core.Result), nil
	}
	if s.store == nil {
		return nil, errResultNotFound
	}

	events, err := s.store.Events(ctx, id)
	if errors.Is(err, store.ErrInvalidConversionID) {
		return nil, errResultNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, errResultNotFound
	}

	res := resultFromStore(id, events)
	s.results.Set(id, res, cache.DefaultExpiration)
	return res, nil
}

func lookupErrorStatus(err error) int {
	if errors.Is(err, errResultNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// resultFromStore rebuilds a Result from persisted events. Each stored event
// was one accepted document.
func resultFromStore(id string, events []store.StoredEvent) *core.Result {
	res := &core.Result{ID: id, Source: events[0].Source, Lab: events[0].Lab}
	for _, se := range events {
		date := se.EventDate
		if date == "" {
			date = core.UnknownDate
		}
		res.Documents = append(res.Documents, core.Document{
			Sheet:     se.Sheet,
			GroupDate: date,
			Result:    core.ModusResult{Events: []core.Event{se.Event}},
		})
	}
	return res
}

// handleExport flattens a conversion back into a spreadsheet:
// ?format=csv (default) writes every event to one sheet, ?format=xlsx
// writes one tab per source sheet.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	res, err := s.lookupResult(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, lookupErrorStatus(err))
		return
	}

	base := exportName(res.Source)
	var (
		buf         bytes.Buffer
		contentType string
		filename    string
	)
	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		err = workbook.WriteCSV(&buf, core.ToSheet(base, res.Events()))
		contentType, filename = "text/csv; charset=utf-8", base+".csv"
	case "xlsx":
		err = workbook.WriteXLSX(&buf, exportSheets(res)...)
		contentType, filename = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", base+".xlsx"
	default:
		respondError(w, r, fmt.Errorf("unknown export format %q", format), http.StatusBadRequest)
		return
	}
	if err != nil {
		respondError(w, r, fmt.Errorf("export %s: %w", res.ID, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

func exportName(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "results"
	}
	return base + "_modus"
}

// exportSheets groups documents by source sheet, keeping first-seen order.
func exportSheets(res *core.Result) []core.Sheet {
	var order []string
	bySheet := make(map[string][]core.Event)
	for _, d := range res.Documents {
		if _, ok := bySheet[d.Sheet]; !ok {
			order = append(order, d.Sheet)
		}
		bySheet[d.Sheet] = append(bySheet[d.Sheet], d.Result.Events...)
	}
	if len(order) == 0 {
		return []core.Sheet{core.ToSheet(exportName(res.Source), nil)}
	}

	sheets := make([]core.Sheet, 0, len(order))
	for _, name := range order {
		sheets = append(sheets, core.ToSheet(name, bySheet[name]))
	}
	return sheets
}

// LabInfo summarizes one registered lab config.
type LabInfo struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Headers  int    `json:"headers"`
	Analytes int    `json:"analytes"`
}

func labInfo(cfg *core.LabConfig) LabInfo {
	return LabInfo{
		Key:      cfg.Key(),
		Name:     cfg.Name,
		Type:     string(cfg.Type),
		Headers:  len(cfg.Headers),
		Analytes: len(cfg.Analytes),
	}
}

// handleListLabs lists registered lab configs in autodetection order.
func (s *Server) handleListLabs(w http.ResponseWriter, r *http.Request) {
	all := s.converter.Registry().All()
	out := make([]LabInfo, 0, len(all))
	for _, cfg := range all {
		out = append(out, labInfo(cfg))
	}
	writeJSON(w, http.StatusOK, out)
}

// DetectRequest is the body of POST /api/labs/detect.
type DetectRequest struct {
	Headers   []string `json:"headers"`
	Sheet     string   `json:"sheet,omitempty"`
	Improvise bool     `json:"improvise,omitempty"`
}

// DetectResponse reports which lab config a set of headers selects.
type DetectResponse struct {
	Detected   bool                `json:"detected"`
	Improvised bool                `json:"improvised"`
	Lab        *LabInfo            `json:"lab,omitempty"`
	Mappings   map[string][]string `json:"mappings,omitempty"`
	Analytes   map[string]string   `json:"analytes,omitempty"`
}

// handleDetectLab runs autodetection on a header list, optionally falling
// back to an improvised config.
func (s *Server) handleDetectLab(w http.ResponseWriter, r *http.Request) {
	var req DetectRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(&req); err != nil || len(req.Headers) == 0 {
		respondError(w, r, errBadRequest, http.StatusBadRequest)
		return
	}
	for i, h := range req.Headers {
		req.Headers[i] = strings.TrimSpace(h)
	}

	reg := s.converter.Registry()
	logger := logging.FromContext(r.Context())
	resp := DetectResponse{}
	cfg := core.Autodetect(reg, req.Headers, req.Sheet, logger)
	if cfg != nil {
		resp.Detected = true
	} else if req.Improvise && s.cfg.Convert.AllowImprovise {
		cfg = core.Cobble(reg, req.Headers, logger)
		resp.Improvised = true
	}

	if cfg != nil {
		info := labInfo(cfg)
		resp.Lab = &info
		resp.Mappings = cfg.Mappings
		resp.Analytes = make(map[string]string, len(cfg.Analytes))
		for col, a := range cfg.Analytes {
			resp.Analytes[col] = a.Element
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status      string              `json:"status"`
	Time        time.Time           `json:"time"`
	Labs        int                 `json:"labs"`
	Database    bool                `json:"database"`
	Conversions *core.LimiterStatus `json:"conversions,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Time:     time.Now().UTC(),
		Labs:     s.converter.Registry().Len(),
		Database: s.store != nil,
	}
	if l := s.converter.Limiter(); l != nil {
		st := l.Status()
		resp.Conversions = &st
	}
	writeJSON(w, http.StatusOK, resp)
}
