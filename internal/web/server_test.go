package web

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JonMunkholm/labnorm/internal/config"
	"github.com/JonMunkholm/labnorm/internal/core"
	"github.com/JonMunkholm/labnorm/internal/metrics"
	"github.com/JonMunkholm/labnorm/internal/store"
)

const westCSV = "Sample ID,Date Recd,Potassium ppm K\nS1,04/01/2021,161\nS2,04/01/2021,140\n"

func testRegistry() *core.Registry {
	return core.NewRegistry(&core.LabConfig{
		Name: "West",
		Type: core.LabSoil,
		Mappings: core.Mappings{
			"Sample ID": {core.FieldSampleNumber},
			"Date Recd": {core.FieldEventDate},
		},
		Analytes: map[string]core.NutrientResult{
			"Potassium ppm K": {Element: "K", ValueUnit: "ppm"},
		},
	})
}

func testConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(func(k string) string { return env[k] })
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	return cfg
}

type fakeStore struct {
	saved  []*core.Result
	events []store.StoredEvent
}

func (f *fakeStore) SaveResult(_ context.Context, res *core.Result) (int, error) {
	f.saved = append(f.saved, res)
	return len(res.Events()), nil
}

func (f *fakeStore) Events(_ context.Context, id string) ([]store.StoredEvent, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}
	return f.events, nil
}

func parseID(id string) (string, error) {
	if len(id) != 36 {
		return "", store.ErrInvalidConversionID
	}
	return id, nil
}

func newTestServer(t *testing.T, env map[string]string, deps Deps) *Server {
	t.Helper()
	if deps.Converter == nil {
		deps.Converter = core.NewConverter(testRegistry(), core.WithLimiter(core.NewLimiter(2, 0)))
	}
	return NewServer(testConfig(t, env), deps)
}

func upload(t *testing.T, filename, body, lab string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(body))
	}
	if lab != "" {
		mw.WriteField("lab", lab)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/convert", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v (%s)", v, err, rec.Body.String())
	}
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil, Deps{})
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	h := decode[HealthResponse](t, rec)
	if h.Status != "ok" || h.Labs != 1 || h.Database {
		t.Errorf("health = %+v", h)
	}
	if h.Conversions == nil || h.Conversions.MaxConcurrent != 2 {
		t.Errorf("conversions = %+v, want max 2", h.Conversions)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestListLabs(t *testing.T) {
	s := newTestServer(t, nil, Deps{})
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/labs", nil))
	labs := decode[[]LabInfo](t, rec)
	if len(labs) != 1 || labs[0].Key != "West-Soil" || labs[0].Headers != 3 || labs[0].Analytes != 1 {
		t.Errorf("labs = %+v", labs)
	}
}

func TestDetectLab(t *testing.T) {
	s := newTestServer(t, nil, Deps{})

	tests := []struct {
		name       string
		body       string
		status     int
		detected   bool
		improvised bool
	}{
		{"subset detected", `{"headers":["Sample ID"," Date Recd "]}`, http.StatusOK, true, false},
		{"unknown column", `{"headers":["Sample ID","Mystery"]}`, http.StatusOK, false, false},
		{"improvised", `{"headers":["Sample ID","Mystery"],"improvise":true}`, http.StatusOK, false, true},
		{"empty headers", `{"headers":[]}`, http.StatusBadRequest, false, false},
		{"not json", `headers`, http.StatusBadRequest, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/labs/detect", strings.NewReader(tt.body))
			rec := serve(s, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				if e := decode[ErrorResponse](t, rec); e.Code != "REQ001" {
					t.Errorf("code = %q, want REQ001", e.Code)
				}
				return
			}
			got := decode[DetectResponse](t, rec)
			if got.Detected != tt.detected || got.Improvised != tt.improvised {
				t.Errorf("detect = %+v", got)
			}
			if tt.detected && (got.Lab == nil || got.Lab.Key != "West-Soil") {
				t.Errorf("lab = %+v, want West-Soil", got.Lab)
			}
		})
	}
}

func TestConvert_ResultAndExport(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewConversionMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	st := &fakeStore{}
	s := newTestServer(t, nil, Deps{Store: st, Metrics: m, Gatherer: reg})

	rec := serve(s, upload(t, "west.csv", westCSV, ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("convert status = %d (%s)", rec.Code, rec.Body.String())
	}
	res := decode[ConvertResponse](t, rec)
	if res.ID == "" || res.Source != "west.csv" || res.Lab != "West-Soil" {
		t.Errorf("response = %+v", res)
	}
	if len(res.Documents) != 1 || res.Documents[0].GroupDate != "2021-04-01" {
		t.Fatalf("documents = %+v, errors = %+v", res.Documents, res.Errors)
	}
	if res.Stored != 1 || len(st.saved) != 1 {
		t.Errorf("stored = %d, saved = %d, want 1", res.Stored, len(st.saved))
	}

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/results/"+res.ID, nil))
	if got := decode[ConvertResponse](t, rec); rec.Code != http.StatusOK || got.ID != res.ID {
		t.Errorf("result lookup = %d %+v", rec.Code, got)
	}

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/export/"+res.ID, nil))
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("csv export = %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "west_modus.csv") {
		t.Errorf("Content-Disposition = %q", rec.Header().Get("Content-Disposition"))
	}
	if body := rec.Body.String(); !strings.Contains(body, "161") || !strings.Contains(body, "2021-04-01") {
		t.Errorf("csv export body = %q", body)
	}

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/export/"+res.ID+"?format=xlsx", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Content-Type"), "spreadsheetml") {
		t.Errorf("xlsx export = %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("xlsx export is not a zip container")
	}

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/export/"+res.ID+"?format=pdf", nil))
	if rec.Code != http.StatusBadRequest || decode[ErrorResponse](t, rec).Code != "REQ002" {
		t.Errorf("pdf export = %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `labnorm_conversions_total{lab="West-Soil",status="success"} 1`) {
		t.Errorf("metrics missing conversion counter:\n%s", rec.Body.String())
	}
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		filename string
		body     string
		status   int
		code     string
	}{
		{"no file", nil, "", "", http.StatusBadRequest, "FILE004"},
		{"legacy excel", nil, "report.xls", "binary", http.StatusUnsupportedMediaType, "WB002"},
		{"empty csv", nil, "empty.csv", "", http.StatusUnprocessableEntity, "WB003"},
		{"too large", map[string]string{"CONVERT_MAX_FILE_SIZE": "64"}, "west.csv", strings.Repeat(westCSV, 10), http.StatusRequestEntityTooLarge, "FILE001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.env, Deps{})
			rec := serve(s, upload(t, tt.filename, tt.body, ""))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			got := decode[ErrorResponse](t, rec)
			if got.Code != tt.code {
				t.Errorf("code = %q, want %q", got.Code, tt.code)
			}
			if !strings.Contains(got.Error, "(Code: "+tt.code+")") || !strings.HasSuffix(got.Error, got.Action) {
				t.Errorf("error = %q, want formatted message with code %s", got.Error, tt.code)
			}
		})
	}
}

func TestGetResult(t *testing.T) {
	id := "6f1c8f0e-8a45-4d2b-9a57-3c1f0f1d2a11"
	var ev core.Event
	ev.EventMetaData.EventDate = "2021-04-01"

	tests := []struct {
		name   string
		store  EventStore
		id     string
		status int
	}{
		{"no store", nil, id, http.StatusNotFound},
		{"from store", &fakeStore{events: []store.StoredEvent{{Source: "west.csv", Sheet: "west", EventDate: "2021-04-01", Event: ev}}}, id, http.StatusOK},
		{"store empty", &fakeStore{}, id, http.StatusNotFound},
		{"bad id", &fakeStore{}, "nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil, Deps{Store: tt.store})
			rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/results/"+tt.id, nil))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status == http.StatusNotFound {
				if got := decode[ErrorResponse](t, rec); got.Code != "UPL003" {
					t.Errorf("code = %q, want UPL003", got.Code)
				}
				return
			}
			got := decode[ConvertResponse](t, rec)
			if got.ID != id || got.Source != "west.csv" || len(got.Documents) != 1 {
				t.Errorf("result = %+v", got)
			}
		})
	}
}

func TestAPIKeyRequired(t *testing.T) {
	s := newTestServer(t, map[string]string{"REQUIRE_API_KEY": "true", "API_KEYS": "k1"}, Deps{})

	if rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/labs", nil)); rec.Code != http.StatusUnauthorized {
		t.Errorf("/api/labs without key = %d, want 401", rec.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/labs", nil)
	req.Header.Set("X-API-Key", "k1")
	if rec := serve(s, req); rec.Code != http.StatusOK {
		t.Errorf("/api/labs with key = %d, want 200", rec.Code)
	}
	if rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil)); rec.Code != http.StatusOK {
		t.Errorf("/healthz = %d, want 200", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, map[string]string{"RATE_LIMIT_REQUESTS_PER_MINUTE": "2"}, Deps{})

	codes := make([]int, 3)
	for i := range codes {
		codes[i] = serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	got := []bool{rl.allow("a"), rl.allow("a"), rl.allow("a"), rl.allow("b")}
	want := []bool{true, true, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("allow #%d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestExportName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"west.xlsx", "west_modus"},
		{"dir/Lab Report.csv", "Lab Report_modus"},
		{"", "results_modus"},
	}
	for _, tt := range tests {
		if got := exportName(tt.in); got != tt.want {
			t.Errorf("exportName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
