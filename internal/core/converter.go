package core

// converter.go drives a whole conversion: partition the workbook, resolve
// the lab config, group each data sheet by date, build and validate one
// Event per group.
//
// Failures are scoped as narrowly as possible. A sheet without a date column
// and a group that fails validation are recorded on the Result while the
// remaining sheets and groups carry on.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ConvertOptions tune one conversion. The zero value autodetects the lab,
// honors UNITS rows and improvises a config when nothing matches.
type ConvertOptions struct {
	// Lab selects a registry entry by "{name}-{type}" key or bare name.
	Lab string
	// SkipUnitOverrides ignores UNITS rows.
	SkipUnitOverrides bool
	// DisableImprovise turns off Cobble; unmatched workbooks convert
	// without a lab config.
	DisableImprovise bool
}

// Document is one accepted Event with where it came from.
type Document struct {
	Sheet     string      `json:"sheet"`
	GroupDate string      `json:"group_date"`
	Result    ModusResult `json:"result"`
}

// Result is the outcome of converting one workbook. Errors hold the sheets
// and groups that were dropped; Warnings hold everything that degraded.
type Result struct {
	ID         string        `json:"id"`
	Source     string        `json:"source"`
	Lab        string        `json:"lab,omitempty"`
	Improvised bool          `json:"improvised,omitempty"`
	Documents  []Document    `json:"documents"`
	Errors     []error       `json:"-"`
	Warnings   []error       `json:"-"`
	Duration   time.Duration `json:"duration"`
}

// Events returns every accepted Event in document order.
func (r *Result) Events() []Event {
	var out []Event
	for _, d := range r.Documents {
		out = append(out, d.Result.Events...)
	}
	return out
}

// DepthStandardizer is implemented by UnitsConverters that also normalize
// an Event's depths.
type DepthStandardizer interface {
	StandardizeDepths(refs []DepthRef) []DepthRef
}

// Converter converts workbooks against a lab registry. It holds no
// per-conversion state and is safe for concurrent use.
type Converter struct {
	registry  *Registry
	units     UnitsConverter
	validator SchemaValidator
	limiter   *Limiter
	logger    *slog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithUnits sets the UnitsConverter. Defaults to PassthroughUnits.
func WithUnits(u UnitsConverter) Option {
	return func(c *Converter) { c.units = u }
}

// WithValidator sets the SchemaValidator. Defaults to NewStructValidator.
func WithValidator(v SchemaValidator) Option {
	return func(c *Converter) { c.validator = v }
}

// WithLimiter bounds concurrent conversions.
func WithLimiter(l *Limiter) Option {
	return func(c *Converter) { c.limiter = l }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// NewConverter returns a Converter for the given registry.
func NewConverter(reg *Registry, opts ...Option) *Converter {
	c := &Converter{registry: reg}
	for _, opt := range opts {
		opt(c)
	}
	if c.units == nil {
		c.units = PassthroughUnits{}
	}
	if c.validator == nil {
		c.validator = NewStructValidator()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Registry returns the converter's lab registry.
func (c *Converter) Registry() *Registry { return c.registry }

// Limiter returns the converter's limiter, or nil.
func (c *Converter) Limiter() *Limiter { return c.limiter }

// Convert converts one workbook. The error is non-nil only when the
// workbook as a whole is unusable or ctx ends; sheet and group failures
// are reported on the Result.
func (c *Converter) Convert(ctx context.Context, wb Workbook, opts ConvertOptions) (*Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Acquire(ctx); err != nil {
			return nil, err
		}
		defer c.limiter.Release()
	}

	start := time.Now()
	res := &Result{ID: uuid.New().String(), Source: wb.Name}
	logger := c.logger.With("conversion_id", res.ID, "source", wb.Name)

	part := PartitionWorkbook(wb)
	if len(part.DataSheets) == 0 {
		return nil, fmt.Errorf("%s: %w", wb.Name, ErrEmptyWorkbook)
	}

	cfg, warn := ResolveLab(c.registry, part.DataSheets, opts, logger)
	if warn != nil {
		res.Warnings = append(res.Warnings, warn)
		logger.Warn("lab config not found", "error", warn)
	}
	if cfg != nil {
		res.Lab = cfg.Key()
		res.Improvised = cfg.Name == ImprovisedLabName
	}

	pointMeta := part.IndexPointMeta(cfg)

	for _, sheet := range part.DataSheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.convertSheet(res, sheet, cfg, pointMeta, opts, logger)
	}

	res.Duration = time.Since(start)
	logger.Info("conversion complete",
		"lab", res.Lab,
		"documents", len(res.Documents),
		"errors", len(res.Errors),
		"warnings", len(res.Warnings),
		"duration", res.Duration,
	)
	return res, nil
}

func (c *Converter) convertSheet(res *Result, sheet DataSheet, cfg *LabConfig, pointMeta map[string]Row, opts ConvertOptions, logger *slog.Logger) {
	logger = logger.With("sheet", sheet.Name)

	if len(sheet.Rows) == 0 {
		logger.Debug("skipping sheet without data rows")
		return
	}

	dateCol, err := DateColumn(sheet.Name, sheet.Columns, cfg, logger)
	if err != nil {
		res.Errors = append(res.Errors, err)
		logger.Error("sheet dropped", "error", err)
		return
	}

	sc := newSheetContext(sheet, cfg, pointMeta, c.units, !opts.SkipUnitOverrides, logger)

	for _, g := range GroupRows(sheet.Name, sheet.Rows, dateCol, logger) {
		ev, warnings := buildEvent(sc, g)
		res.Warnings = append(res.Warnings, warnings...)

		if std, ok := c.units.(DepthStandardizer); ok && ev.EventSamples.Soil != nil {
			ev.EventSamples.Soil.DepthRefs = std.StandardizeDepths(ev.EventSamples.Soil.DepthRefs)
		}

		doc := ModusResult{Events: []Event{ev}}
		if fields := c.validator.Validate(&doc); len(fields) > 0 {
			verr := &SchemaValidationError{Sheet: sheet.Name, GroupDate: g.Date, Fields: fields}
			res.Errors = append(res.Errors, verr)
			logger.Error("group dropped", "group_date", g.Date, "error", verr)
			continue
		}

		res.Documents = append(res.Documents, Document{
			Sheet:     sheet.Name,
			GroupDate: g.Date,
			Result:    doc,
		})
	}
}

// FileInput is one workbook of a batch.
type FileInput struct {
	Workbook Workbook
	Options  ConvertOptions
}

// FileResult pairs a batch input with its outcome. Exactly one of Result
// and Err is set.
type FileResult struct {
	Source string
	Result *Result
	Err    error
}

// ConvertFiles converts independent workbooks in parallel. A failing file
// never affects the others; only ctx ending stops the batch.
func (c *Converter) ConvertFiles(ctx context.Context, files []FileInput) ([]FileResult, error) {
	out := make([]FileResult, len(files))

	limit := DefaultMaxConcurrent
	if c.limiter != nil {
		limit = c.limiter.MaxConcurrent()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, f := range files {
		g.Go(func() error {
			res, err := c.Convert(gctx, f.Workbook, f.Options)
			out[i] = FileResult{Source: f.Workbook.Name, Result: res, Err: err}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}
