// ABOUTME: Pure helpers computing scroll position after list mutations
// ABOUTME: Keeps visible content stationary on prepend, auto-follows on append

package scroll

// Position is the scrollable state of a message viewport before a content
// mutation. Units are whatever the view layer measures in (pixels, rows);
// the math only assumes they are consistent.
type Position struct {
	// Top is the offset of the viewport's upper edge from the start of the
	// scrollable content.
	Top int
	// Height is the total scrollable content height.
	Height int
	// Viewport is the visible height.
	Viewport int
}

// AtBottom reports whether the viewport shows the end of the content, i.e.
// the most recent message is visible.
func (p Position) AtBottom() bool {
	return p.Top+p.Viewport >= p.Height
}

// Bottom returns the Top value that pins the viewport to the end of content
// with the given height. Used after an initial page load, which always
// anchors to the most recent message.
func Bottom(height, viewport int) int {
	top := height - viewport
	if top < 0 {
		return 0
	}
	return top
}

// AfterPrepend returns the Top value that keeps previously visible content
// stationary after content of height newHeight-before.Height was added
// above the viewport.
func AfterPrepend(before Position, newHeight int) int {
	return before.Top + (newHeight - before.Height)
}

// AfterAppend returns the Top value after content was added at the tail.
// A viewport that was at the bottom follows the new content; one scrolled
// away from the bottom stays where it is.
func AfterAppend(before Position, newHeight int) int {
	if before.AtBottom() {
		return Bottom(newHeight, before.Viewport)
	}
	return before.Top
}
