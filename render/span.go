package render

// Span is a closed numeric range [Start, End]
type Span struct {
	Start, End float32
}

// Band is the result of sampling a Span
// In=false means the probe fell outside the span and Pos carries no meaning
type Band struct {
	Pos float32
	In  bool
}

// Sample maps v to its normalized offset within the span
// A zero-length span must only be probed at its endpoint
func (s Span) Sample(v float32) Band {
	if v < s.Start || v > s.End {
		return Band{}
	}
	return Band{Pos: (v - s.Start) / (s.End - s.Start), In: true}
}

// Len returns End-Start
func (s Span) Len() float32 {
	return s.End - s.Start
}
