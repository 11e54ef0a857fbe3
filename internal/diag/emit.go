package diag

import (
	"fmt"
	"io"
	"strings"
)

// Emitter renders diagnostics to some output format. Emission is decoupled
// from accumulation: a Collection hands its diagnostics to whichever
// Emitter the driver selected.
type Emitter interface {
	Emit(d Diagnostic, cache *Cache) error
	EmitAll(c *Collection, cache *Cache) error
	EmitSummary(c *Collection) error
}

// TerminalEmitter renders diagnostics as rich, human-facing terminal output
// with optional ANSI color and a code snippet with underline.
type TerminalEmitter struct {
	w       io.Writer
	colored bool
}

// NewTerminalEmitter returns a TerminalEmitter writing to w.
func NewTerminalEmitter(w io.Writer, colored bool) *TerminalEmitter {
	return &TerminalEmitter{w: w, colored: colored}
}

func (e *TerminalEmitter) color(sev Severity) string {
	if !e.colored {
		return ""
	}
	switch sev {
	case SeverityError:
		return "\x1b[31m"
	case SeverityWarning:
		return "\x1b[33m"
	case SeverityHint:
		return "\x1b[34m"
	default:
		return ""
	}
}

func (e *TerminalEmitter) reset() string {
	if e.colored {
		return "\x1b[0m"
	}
	return ""
}

func (e *TerminalEmitter) bold() string {
	if e.colored {
		return "\x1b[1m"
	}
	return ""
}

func (e *TerminalEmitter) cyan() string {
	if e.colored {
		return "\x1b[36m"
	}
	return ""
}

// Emit writes a single diagnostic: header, location + snippet + underline,
// labels, explanation, and suggestions.
func (e *TerminalEmitter) Emit(d Diagnostic, cache *Cache) error {
	color, reset, bold, cyan := e.color(d.Severity), e.reset(), e.bold(), e.cyan()

	if _, err := fmt.Fprintf(e.w, "%s%s%s[%s]%s: %s\n", bold, color, d.Severity, d.Code, reset, d.Message); err != nil {
		return err
	}

	if loc, ok := cache.Location(d.Primary); ok {
		if _, err := fmt.Fprintf(e.w, "  %s-->%s %s:%d:%d\n", cyan, reset, loc.File, loc.Line, loc.Column); err != nil {
			return err
		}
		if f, ok := cache.File(d.Primary.File); ok {
			lineNum, startCol := f.LineColumn(d.Primary.Start)
			if lineText, ok := f.LineText(lineNum); ok {
				lineStr := fmt.Sprintf("%d", lineNum)
				padding := strings.Repeat(" ", len(lineStr))

				fmt.Fprintf(e.w, "%s %s|%s\n", padding, cyan, reset)
				fmt.Fprintf(e.w, "%s%s |%s %s\n", cyan, lineStr, reset, lineText)

				underlinePadding := strings.Repeat(" ", int(startCol-1))
				spanLen := d.Primary.Len()
				if spanLen < 1 {
					spanLen = 1
				}
				maxUnderline := int(uint32(len(lineText)) - (startCol - 1))
				if maxUnderline < 0 {
					maxUnderline = 0
				}
				underlineLen := int(spanLen)
				if underlineLen > maxUnderline {
					underlineLen = maxUnderline
				}
				if underlineLen < 1 {
					underlineLen = 1
				}
				underline := strings.Repeat("^", underlineLen)
				fmt.Fprintf(e.w, "%s %s|%s %s%s%s%s\n", padding, cyan, reset, underlinePadding, color, underline, reset)
			}
		}
	}

	for _, label := range d.Labels {
		if loc, ok := cache.Location(label.Span); ok {
			fmt.Fprintf(e.w, "  %snote%s: %s (%s:%d:%d)\n", cyan, reset, label.Message, loc.File, loc.Line, loc.Column)
		}
	}

	if d.Explanation != "" {
		fmt.Fprintf(e.w, "  %s= help:%s %s\n", cyan, reset, d.Explanation)
	}
	for _, s := range d.Suggestions {
		fmt.Fprintf(e.w, "  %s= suggestion:%s %s\n", cyan, reset, s)
	}

	_, err := fmt.Fprintln(e.w)
	return err
}

// EmitAll emits every diagnostic in c, in report order.
func (e *TerminalEmitter) EmitAll(c *Collection, cache *Cache) error {
	for _, d := range c.All() {
		if err := e.Emit(d, cache); err != nil {
			return err
		}
	}
	return nil
}

// EmitSummary writes a one-line "N errors, M warnings" summary.
func (e *TerminalEmitter) EmitSummary(c *Collection) error {
	errors, warnings, _ := c.Counts()
	color := e.color(SeverityWarning)
	if errors > 0 {
		color = e.color(SeverityError)
	}
	reset := e.reset()
	_, err := fmt.Fprintf(e.w, "%s%d error(s), %d warning(s)%s\n", color, errors, warnings, reset)
	return err
}

// SimpleEmitter renders one plain-text "file:line:col: severity[code]: message"
// line per diagnostic ("severity[code]: message" when the span has no
// location), for non-interactive or piped contexts.
type SimpleEmitter struct {
	w io.Writer
}

// NewSimpleEmitter returns a SimpleEmitter writing to w.
func NewSimpleEmitter(w io.Writer) *SimpleEmitter { return &SimpleEmitter{w: w} }

func (e *SimpleEmitter) Emit(d Diagnostic, cache *Cache) error {
	loc, ok := cache.Location(d.Primary)
	if !ok {
		_, err := fmt.Fprintf(e.w, "%s[%s]: %s\n", d.Severity, d.Code, d.Message)
		return err
	}
	_, err := fmt.Fprintf(e.w, "%s:%d:%d: %s[%s]: %s\n", loc.File, loc.Line, loc.Column, d.Severity, d.Code, d.Message)
	return err
}

func (e *SimpleEmitter) EmitAll(c *Collection, cache *Cache) error {
	for _, d := range c.All() {
		if err := e.Emit(d, cache); err != nil {
			return err
		}
	}
	return nil
}

func (e *SimpleEmitter) EmitSummary(c *Collection) error {
	errors, warnings, _ := c.Counts()
	_, err := fmt.Fprintf(e.w, "%d error(s), %d warning(s)\n", errors, warnings)
	return err
}
