// Package rain implements the digital rain widget.
//
// Each column carries one Drop whose head falls at one of MaxSpeed speeds. A
// Matrix advances every drop once per Render, colors the tail behind each head
// from a gradient, and shuffles glyphs by swapping cells, so the multiset of
// glyphs on screen never changes after the first fill.
package rain
