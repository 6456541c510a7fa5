package decode

// Span is a maximal run of identically classified positions inside a mask.
// Start is relative to the beginning of the mask.
type Span struct {
	// Value is the classification shared by every position in the span.
	Value bool

	// Start is the offset of the first position in the span.
	Start int

	// Length is the number of positions in the span. Always positive.
	Length int
}

// Runs splits a classification mask into maximal spans of equal value.
// The spans partition the mask completely, appear in ascending order,
// and adjacent spans never share a value. An empty mask yields no spans.
func Runs(mask []bool) []Span {
	if len(mask) == 0 {
		return nil
	}

	spans := make([]Span, 0, 4)
	cur := mask[0]
	start := 0
	for i := 1; i < len(mask); i++ {
		if mask[i] != cur {
			spans = append(spans, Span{Value: cur, Start: start, Length: i - start})
			cur = mask[i]
			start = i
		}
	}

	// The trailing span is always emitted, even when the whole mask is one run.
	return append(spans, Span{Value: cur, Start: start, Length: len(mask) - start})
}
