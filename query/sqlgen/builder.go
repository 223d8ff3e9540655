package sqlgen

import "strings"

// Builder accumulates the SQL text of a single statement. A Builder is
// single-use: once Finish has been called any further write panics.
type Builder struct {
	sb       strings.Builder
	finished bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WriteRaw appends s verbatim.
func (b *Builder) WriteRaw(s string) {
	b.mustOpen()
	b.sb.WriteString(s)
}

// WriteIdentifier appends name quoted with backticks.
func (b *Builder) WriteIdentifier(name string) {
	b.mustOpen()
	b.sb.WriteString(QuoteIdentifier(name))
}

// WriteQualified appends a dotted identifier path, quoting each part.
func (b *Builder) WriteQualified(parts ...string) {
	b.mustOpen()
	for i, p := range parts {
		if i > 0 {
			b.sb.WriteByte('.')
		}
		b.sb.WriteString(QuoteIdentifier(p))
	}
}

// WritePlaceholder appends a positional bind marker.
func (b *Builder) WritePlaceholder() {
	b.mustOpen()
	b.sb.WriteByte('?')
}

// Finish returns the accumulated text and closes the builder.
func (b *Builder) Finish() string {
	b.mustOpen()
	b.finished = true
	return b.sb.String()
}

func (b *Builder) mustOpen() {
	if b.finished {
		panic("sqlgen: builder used after Finish")
	}
}

// QuoteIdentifier wraps name in backticks, doubling any embedded backtick.
// Identifiers are always quoted, keywords included.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
