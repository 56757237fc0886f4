package loader

// Record is one input line as handed to a transform.
type Record struct {
	// Index is the 1-based line number, or 0 when numbering is disabled.
	Index int64
	// Line is the decoded line with its CRLF or LF terminator removed.
	Line string
}

// Chunk is a run of consecutive lines read in one step. The zero-length
// chunk marks the end of input.
type Chunk struct {
	// Lines holds the decoded lines, terminators removed.
	Lines []string
	// First is the index of Lines[0] when numbering is enabled, else 0.
	First int64
	// Bytes counts the raw bytes the lines occupied in the decoded stream,
	// terminators included.
	Bytes int64
}

// Len returns the number of lines in the chunk.
func (c Chunk) Len() int { return len(c.Lines) }

// IsTerminal reports whether c is the end-of-input marker.
func (c Chunk) IsTerminal() bool { return len(c.Lines) == 0 }

// Numbered reports whether the chunk carries line indices.
func (c Chunk) Numbered() bool { return c.First > 0 }

// Range returns the inclusive index range covered by the chunk, or (0, 0)
// when numbering is disabled or the chunk is terminal.
func (c Chunk) Range() (first, last int64) {
	if !c.Numbered() || c.IsTerminal() {
		return 0, 0
	}
	return c.First, c.First + int64(len(c.Lines)) - 1
}

// Records pairs each line with its index (0 when numbering is disabled).
func (c Chunk) Records() []Record {
	recs := make([]Record, len(c.Lines))
	for i, line := range c.Lines {
		recs[i] = Record{Line: line}
		if c.Numbered() {
			recs[i].Index = c.First + int64(i)
		}
	}
	return recs
}
