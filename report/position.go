package report

// TextSpan represents a range or "span" of source text. It is used to mark
// erroneous or otherwise significant source text in a NESTML model. Spans
// are inclusive on both sides: the start position is the first character in
// the span and the end position is the last character in the span. Lines
// and columns are zero-indexed.
type TextSpan struct {
	StartLine, StartCol int
	EndLine, EndCol     int
}

// NewSpanOver returns a new text span spanning over and between two spans.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	return &TextSpan{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// CompilationContext identifies the source file a diagnostic belongs to.
type CompilationContext struct {
	// ModName is the name of the model root (or "" if none was configured).
	ModName string

	// FilePath is the path to the source file as discovered under the input
	// root (relative when that root is relative).
	FilePath string

	// ReprPath is the path used for display purposes: the path relative to
	// the model root when one is configured, otherwise the same as FilePath.
	ReprPath string

	// PackageName and ArtifactName are derived from FilePath relative to the
	// model root per spec §6.
	PackageName  string
	ArtifactName string
}
