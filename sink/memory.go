package sink

// Memory accumulates results in arrival order.
type Memory struct {
	lines []string
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Write appends lines.
func (m *Memory) Write(lines []string) error {
	m.lines = append(m.lines, lines...)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// Lines returns everything written so far. The result is never nil.
func (m *Memory) Lines() []string {
	if m.lines == nil {
		return []string{}
	}
	return m.lines
}

// Len returns the number of lines written.
func (m *Memory) Len() int { return len(m.lines) }
