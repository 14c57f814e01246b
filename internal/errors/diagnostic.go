package errors

import (
	"encoding/json"
	"fmt"

	"github.com/shakfu/mgen-sub001/internal/ast"
)

// Severity is one of the three levels a Diagnostic can carry (§3.5).
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic is the canonical structured message every phase appends to a
// PipelineResult. It implements error so it can also flow through ordinary
// Go error returns inside a single phase.
type Diagnostic struct {
	Severity   Severity  `json:"severity"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Location   ast.Pos   `json:"location"`
	Suggestion string    `json:"suggestion,omitempty"`
	HelpURL    string    `json:"help_url,omitempty"`
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Location, d.Code, d.Message)
}

// IsError reports whether this diagnostic halts downstream phases (§7).
func (d *Diagnostic) IsError() bool { return d.Severity == SeverityError }

// ToJSON renders the diagnostic as deterministic JSON for machine
// consumers (§6.4 mentions a human-readable form; this is its structured
// counterpart). The mgen command has no flag that prints it; it prints
// the human-readable form only.
func (d *Diagnostic) ToJSON() (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// New constructs an error-severity diagnostic, the common case.
func New(code string, pos ast.Pos, format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: SeverityError, Code: code, Location: pos, Message: fmt.Sprintf(format, args...)}
}

// Newf is New with an explicit severity, for call sites that report a
// warning or info diagnostic (e.g. checker rules).
func Newf(severity Severity, code string, pos ast.Pos, format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: severity, Code: code, Location: pos, Message: fmt.Sprintf(format, args...)}
}

// WithSuggestion attaches a one-line fix suggestion and returns the receiver
// for chaining at the construction site.
func (d *Diagnostic) WithSuggestion(s string) *Diagnostic {
	d.Suggestion = s
	return d
}

// Bag collects diagnostics across a phase or the whole pipeline (§3.5,
// "Diagnostics are append-only").
type Bag struct {
	items []*Diagnostic
}

// Add appends one or more diagnostics, ignoring nils so call sites can pass
// the result of a function that returns (value, *Diagnostic) without an
// explicit nil check.
func (b *Bag) Add(ds ...*Diagnostic) {
	for _, d := range ds {
		if d != nil {
			b.items = append(b.items, d)
		}
	}
}

// All returns every diagnostic collected so far, in insertion order.
func (b *Bag) All() []*Diagnostic { return b.items }

// HasErrors reports whether any error-severity diagnostic was collected
// (§3.5: success is true only when no error-severity diagnostic was
// emitted during any phase).
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.IsError() {
			return true
		}
	}
	return false
}
