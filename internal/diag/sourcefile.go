package diag

// SourceFile holds a registered file's text and precomputed line-start
// offsets so line/column resolution never rescans the whole file.
type SourceFile struct {
	ID              FileID
	Path            string
	Text            string
	lineStartOffsets []uint32
}

func newSourceFile(id FileID, path, text string) *SourceFile {
	f := &SourceFile{ID: id, Path: path, Text: text}
	f.lineStartOffsets = computeLineStarts(text)
	return f
}

func computeLineStarts(text string) []uint32 {
	starts := []uint32{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, uint32(i+1))
		}
	}
	return starts
}

// LineColumn resolves a byte offset to a 1-indexed (line, column) pair via
// binary search over the precomputed line starts.
func (f *SourceFile) LineColumn(offset uint32) (line, column uint32) {
	starts := f.lineStartOffsets
	lo, hi := 0, len(starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line = uint32(lo) + 1
	column = offset - starts[lo] + 1
	return line, column
}

// LineText returns the text of the given 1-indexed line, with any trailing
// "\r\n" or "\n" stripped. Returns ("", false) for an out-of-range line.
func (f *SourceFile) LineText(n uint32) (string, bool) {
	if n < 1 || int(n) > len(f.lineStartOffsets) {
		return "", false
	}
	start := f.lineStartOffsets[n-1]
	var end uint32
	if int(n) < len(f.lineStartOffsets) {
		end = f.lineStartOffsets[n]
	} else {
		end = uint32(len(f.Text))
	}
	line := f.Text[start:end]
	if len(line) > 0 && line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return line, true
}

// Slice returns the text covered by [start, end), clamped to the file's
// bounds.
func (f *SourceFile) Slice(start, end uint32) string {
	if start > uint32(len(f.Text)) {
		start = uint32(len(f.Text))
	}
	if end > uint32(len(f.Text)) {
		end = uint32(len(f.Text))
	}
	if end < start {
		end = start
	}
	return f.Text[start:end]
}
