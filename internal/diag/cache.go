package diag

import "sync"

// Cache is the span & diagnostic service's file registry. add_file is
// idempotent by path; location/slice degrade to "none" for unknown spans —
// by degrading instead of erroring, the service never fails.
type Cache struct {
	mu       sync.RWMutex
	files    map[FileID]*SourceFile
	byPath   map[string]FileID
	nextID   FileID
}

// NewCache returns an empty file cache.
func NewCache() *Cache {
	return &Cache{
		files:  make(map[FileID]*SourceFile),
		byPath: make(map[string]FileID),
	}
}

// AddFile registers path with the given text, returning its FileID. Calling
// AddFile twice with the same path returns the original FileID and leaves
// the stored text untouched (the first version wins).
func (c *Cache) AddFile(path, text string) FileID {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.byPath[path]; ok {
		return id
	}
	id := c.nextID
	c.nextID++
	c.files[id] = newSourceFile(id, path, text)
	c.byPath[path] = id
	return id
}

// File returns the source file for id, if registered.
func (c *Cache) File(id FileID) (*SourceFile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.files[id]
	return f, ok
}

// FileByPath returns the FileID previously assigned to path, if any.
func (c *Cache) FileByPath(path string) (FileID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byPath[path]
	return id, ok
}

// Location resolves a span to a 1-indexed line/column. It returns
// (Location{}, false) for a dummy span or an unknown file.
func (c *Cache) Location(span Span) (Location, bool) {
	if span.IsDummy() {
		return Location{}, false
	}
	f, ok := c.File(span.File)
	if !ok {
		return Location{}, false
	}
	line, col := f.LineColumn(span.Start)
	return Location{File: f.Path, Line: line, Column: col}, true
}

// Slice returns the source text covered by span, if resolvable.
func (c *Cache) Slice(span Span) (string, bool) {
	if span.IsDummy() {
		return "", false
	}
	f, ok := c.File(span.File)
	if !ok {
		return "", false
	}
	return f.Slice(span.Start, span.End), true
}

// LineText returns the full line of text containing span's start, with the
// trailing line terminator stripped.
func (c *Cache) LineText(span Span) (string, bool) {
	if span.IsDummy() {
		return "", false
	}
	f, ok := c.File(span.File)
	if !ok {
		return "", false
	}
	line, _ := f.LineColumn(span.Start)
	return f.LineText(line)
}

// Len returns the number of registered files.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}
