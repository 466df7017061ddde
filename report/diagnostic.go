package report

import "fmt"

// Enumeration of diagnostic severities, ordered least to most severe.
const (
	SeverityInfo = iota
	SeverityWarn
	SeverityError
	SeverityFatal
)

// SeverityName returns the display name of a severity level.
func SeverityName(sev int) string {
	switch sev {
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "fatal"
	}
}

// Diagnostic is a single reported finding: a lexical/syntactic error, a name
// resolution failure, a unit/type mismatch, a failed context condition, or an
// analysis (solver) failure. Code is a short machine-checkable identifier
// such as "CoCoConvolveNotCorrectlyProvided" (spec §8 scenario 4) used by
// tests to assert that mutating a model to violate exactly one context
// condition produces exactly one diagnostic with the expected code.
type Diagnostic struct {
	Severity int
	Code     string
	Context  *CompilationContext
	Span     *TextSpan
	Message  string
}

func (d *Diagnostic) String() string {
	if d.Span == nil {
		return fmt.Sprintf("%s: %s: %s", d.Context.ReprPath, SeverityName(d.Severity), d.Message)
	}

	return fmt.Sprintf(
		"%s:%d:%d: %s: %s",
		d.Context.ReprPath, d.Span.StartLine+1, d.Span.StartCol+1, SeverityName(d.Severity), d.Message,
	)
}

// LocalError is a compile error raised deep within a phase (typically by
// panic) before it has been associated with a compilation context. It is
// caught and converted into a Diagnostic at the nearest phase boundary.
type LocalError struct {
	Code    string
	Message string
	Span    *TextSpan
}

func (le *LocalError) Error() string {
	return le.Message
}

// Raise constructs a LocalError for use with panic/recover error recovery
// within a single phase (e.g. the parser skipping to the next `end`).
func Raise(code string, span *TextSpan, msg string, args ...interface{}) *LocalError {
	return &LocalError{Code: code, Message: fmt.Sprintf(msg, args...), Span: span}
}
