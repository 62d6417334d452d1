package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JonMunkholm/labnorm/internal/core"
)

func newTestMetrics(t *testing.T) *ConversionMetrics {
	t.Helper()
	m, err := NewConversionMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewConversionMetrics() error = %v", err)
	}
	return m
}

func TestNewConversionMetrics_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewConversionMetrics(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := NewConversionMetrics(reg); err == nil {
		t.Error("second register error = nil, want AlreadyRegisteredError")
	}
}

func TestStatus(t *testing.T) {
	doc := core.Document{Sheet: "Sheet1"}
	tests := []struct {
		name string
		res  *core.Result
		want string
	}{
		{"no documents", &core.Result{}, StatusFailed},
		{"clean", &core.Result{Documents: []core.Document{doc}}, StatusSuccess},
		{"some dropped", &core.Result{
			Documents: []core.Document{doc},
			Errors:    []error{&core.MissingDateColumnError{Sheet: "Other"}},
		}, StatusPartial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.res); got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObserve(t *testing.T) {
	m := newTestMetrics(t)

	res := &core.Result{
		Lab:       "West-Soil",
		Duration:  30 * time.Millisecond,
		Documents: []core.Document{{Sheet: "A"}, {Sheet: "A"}},
		Errors:    []error{&core.MissingDateColumnError{Sheet: "B"}},
		Warnings: []error{
			&core.DepthInferenceWarning{Sheet: "A", Row: 2},
			&core.DepthInferenceWarning{Sheet: "A", Row: 3},
			core.UnitConversionWarning{Element: "K", From: "bogus", Err: errors.New("unknown unit")},
		},
	}
	m.Observe(res, nil)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"partial conversions", testutil.ToFloat64(m.conversionsTotal.WithLabelValues("West-Soil", StatusPartial)), 1},
		{"documents", testutil.ToFloat64(m.documentsTotal.WithLabelValues("West-Soil")), 2},
		{"DATE001 dropped", testutil.ToFloat64(m.sheetErrorsTotal.WithLabelValues("DATE001")), 1},
		{"DEPTH001 warnings", testutil.ToFloat64(m.warningsTotal.WithLabelValues("DEPTH001")), 2},
		{"UNIT001 warnings", testutil.ToFloat64(m.warningsTotal.WithLabelValues("UNIT001")), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if n := testutil.CollectAndCount(m.conversionDuration); n != 1 {
		t.Errorf("duration series = %d, want 1", n)
	}
}

func TestObserve_Failures(t *testing.T) {
	m := newTestMetrics(t)

	m.Observe(nil, fmt.Errorf("upload: %w", core.ErrTooManyConversions))
	m.Observe(nil, core.ErrEmptyWorkbook)
	m.Observe(nil, core.ErrUnreadableWorkbook)

	if got := testutil.ToFloat64(m.conversionsTotal.WithLabelValues("", StatusRejected)); got != 1 {
		t.Errorf("rejected = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.conversionsTotal.WithLabelValues("", StatusFailed)); got != 2 {
		t.Errorf("failed = %v, want 2", got)
	}
}

func TestStart(t *testing.T) {
	m := newTestMetrics(t)

	done1 := m.Start()
	done2 := m.Start()
	if got := testutil.ToFloat64(m.activeConversions); got != 2 {
		t.Errorf("active = %v, want 2", got)
	}
	done1()
	done2()
	if got := testutil.ToFloat64(m.activeConversions); got != 0 {
		t.Errorf("active = %v, want 0", got)
	}
}
