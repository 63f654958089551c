package types

// Token is a lexical unit of a snippet with a half-open byte span [Start, End).
type Token struct {
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// OffsetRange is a raw half-open byte span that is not tied to any tree node.
type OffsetRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Span returns the range bounds.
func (r OffsetRange) Span() (int, int) {
	return r.Start, r.End
}

// Empty reports whether the range covers no bytes.
func (r OffsetRange) Empty() bool {
	return r.End <= r.Start
}

// Clamp limits the range to [0, limit] and orders its bounds.
func (r OffsetRange) Clamp(limit int) OffsetRange {
	if r.Start > r.End {
		r.Start, r.End = r.End, r.Start
	}
	r.Start = min(max(r.Start, 0), limit)
	r.End = min(max(r.End, 0), limit)
	return r
}

// Contains reports whether other lies fully inside r.
func (r OffsetRange) Contains(other OffsetRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Text extracts the covered substring of content, clamped to its bounds.
func (r OffsetRange) Text(content string) string {
	c := r.Clamp(len(content))
	if c.Empty() {
		return ""
	}
	return content[c.Start:c.End]
}
