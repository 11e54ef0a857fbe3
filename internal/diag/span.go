// Package diag implements the span and diagnostic service: file
// registration, byte-range spans, location resolution, and an
// accumulating diagnostic collection with a pluggable emitter.
package diag

import "fmt"

// FileID identifies a source file registered with a Cache.
type FileID uint32

// DummyFile is the sentinel FileID used by spans with no known location.
const DummyFile FileID = ^FileID(0)

// Span is a half-open byte range [Start, End) within a single file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// DummySpan is returned where no location information is available.
var DummySpan = Span{File: DummyFile}

// IsDummy reports whether s carries no real location.
func (s Span) IsDummy() bool {
	return s.File == DummyFile
}

// Len returns the span's length in bytes.
func (s Span) Len() uint32 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// IsEmpty reports whether the span covers zero bytes.
func (s Span) IsEmpty() bool {
	return s.Start >= s.End
}

// Merge returns the smallest span covering both s and other. It panics if
// both spans carry real, distinct file IDs — merging spans is only valid
// within one file, or when one side is the dummy span.
func (s Span) Merge(other Span) Span {
	if s.IsDummy() {
		return other
	}
	if other.IsDummy() {
		return s
	}
	if s.File != other.File {
		panic(fmt.Sprintf("diag: cannot merge spans from different files (%d, %d)", s.File, other.File))
	}
	start := s.Start
	if other.Start < start {
		start = other.Start
	}
	end := s.End
	if other.End > end {
		end = other.End
	}
	return Span{File: s.File, Start: start, End: end}
}

// NewSpan builds a span for the given file and byte range.
func NewSpan(file FileID, start, end uint32) Span {
	return Span{File: file, Start: start, End: end}
}

// Location is a resolved, human-facing position: 1-indexed line and column.
type Location struct {
	File   string
	Line   uint32
	Column uint32
}
