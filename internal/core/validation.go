package core

// validation.go is the acceptance gate for built Events.
//
// Field rules live in `validate` struct tags on the document types. Two
// struct-level rules cover what tags cannot say: an EventType marks exactly
// one kind, and EventSamples holds samples for that kind only.

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Namespaced field path
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// SchemaValidator checks a built document before it is accepted.
type SchemaValidator interface {
	Validate(doc *ModusResult) []ValidationError
}

// StructValidator validates documents with go-playground/validator.
type StructValidator struct {
	v *validator.Validate
}

// NewStructValidator returns a validator with the document rules installed.
func NewStructValidator() *StructValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("eventdate", validateEventDate)
	v.RegisterStructValidation(validateEventType, EventType{})
	v.RegisterStructValidation(validateEvent, Event{})
	return &StructValidator{v: v}
}

// Validate returns every violation in doc, or nil.
func (s *StructValidator) Validate(doc *ModusResult) []ValidationError {
	err := s.v.Struct(doc)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   strings.TrimPrefix(fe.Namespace(), "ModusResult."),
			Value:   fmt.Sprint(fe.Value()),
			Message: ruleMessage(fe),
		})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field is empty"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "eventdate":
		return "invalid date, want YYYY-MM-DD"
	case "eventtype":
		return "exactly one event type must be set"
	case "samples":
		return "samples must match the event type"
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}

// validateEventDate accepts YYYY-MM-DD or the unknown-date sentinel.
func validateEventDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == UnknownDate {
		return true
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func validateEventType(sl validator.StructLevel) {
	t := sl.Current().Interface().(EventType)
	n := 0
	for _, set := range []bool{t.Soil, t.Plant != nil, t.Water, t.Nematode, t.Residue} {
		if set {
			n++
		}
	}
	if n != 1 {
		sl.ReportError(t, "EventType", "EventType", "eventtype", "")
	}
}

func validateEvent(sl validator.StructLevel) {
	ev := sl.Current().Interface().(Event)
	s := ev.EventSamples

	var kinds []LabType
	if s.Soil != nil {
		kinds = append(kinds, LabSoil)
	}
	if s.Plant != nil {
		kinds = append(kinds, LabPlant)
	}
	if s.Water != nil {
		kinds = append(kinds, LabWater)
	}
	if s.Nematode != nil {
		kinds = append(kinds, LabNematode)
	}
	if s.Residue != nil {
		kinds = append(kinds, LabResidue)
	}

	if len(kinds) != 1 || kinds[0] != ev.EventMetaData.EventType.LabType() {
		sl.ReportError(s, "EventSamples", "EventSamples", "samples", "")
	}
}
