package diag

import (
	"encoding/json"
	"io"
)

// jsonDiagnostic is the wire shape for --format json.
type jsonDiagnostic struct {
	Code        Code     `json:"code"`
	Severity    string   `json:"severity"`
	Message     string   `json:"message"`
	File        string   `json:"file,omitempty"`
	Line        uint32   `json:"line,omitempty"`
	Column      uint32   `json:"column,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// JSONEmitter renders diagnostics as newline-delimited JSON objects,
// followed by a single summary object.
type JSONEmitter struct {
	enc *json.Encoder
}

// NewJSONEmitter returns a JSONEmitter writing to w.
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{enc: json.NewEncoder(w)}
}

func (e *JSONEmitter) toWire(d Diagnostic, cache *Cache) jsonDiagnostic {
	jd := jsonDiagnostic{
		Code:        d.Code,
		Severity:    d.Severity.String(),
		Message:     d.Message,
		Explanation: d.Explanation,
		Suggestions: d.Suggestions,
	}
	if loc, ok := cache.Location(d.Primary); ok {
		jd.File, jd.Line, jd.Column = loc.File, loc.Line, loc.Column
	}
	return jd
}

func (e *JSONEmitter) Emit(d Diagnostic, cache *Cache) error {
	return e.enc.Encode(e.toWire(d, cache))
}

func (e *JSONEmitter) EmitAll(c *Collection, cache *Cache) error {
	for _, d := range c.All() {
		if err := e.Emit(d, cache); err != nil {
			return err
		}
	}
	return nil
}

func (e *JSONEmitter) EmitSummary(c *Collection) error {
	errors, warnings, hints := c.Counts()
	return e.enc.Encode(struct {
		Errors   int `json:"errors"`
		Warnings int `json:"warnings"`
		Hints    int `json:"hints"`
	}{errors, warnings, hints})
}
