package layout

// WindowResult describes the visible slice of the workspace list.
type WindowResult struct {
	ScrollOffset int // index of the first visible item
	VisibleCount int // number of items rendered
	SelectedRow  int // selection position relative to ScrollOffset
	MaxVisible   int // item rows available in the viewport
}

// MaxVisible returns how many item rows fit in a viewport of the given height.
func MaxVisible(viewportHeight int) int {
	return max(1, viewportHeight-ListChromeRows)
}

// Window keeps the selection centered when possible and pins it to the
// start or end of the list near the boundaries.
func Window(selected, total, viewportHeight int) WindowResult {
	maxVisible := MaxVisible(viewportHeight)
	if total <= 0 {
		return WindowResult{MaxVisible: maxVisible}
	}
	selected = clamp(selected, 0, total-1)

	offset := clamp(selected-maxVisible/2, 0, total-maxVisible)
	offset = max(0, offset)

	return WindowResult{
		ScrollOffset: offset,
		VisibleCount: min(maxVisible, total-offset),
		SelectedRow:  selected - offset,
		MaxVisible:   maxVisible,
	}
}

// IndexAt maps an item row (0 = first row below the list chrome) back to a
// list index using the same window the list was rendered with.
func IndexAt(row, selected, total, viewportHeight int) (int, bool) {
	w := Window(selected, total, viewportHeight)
	if row < 0 || row >= w.VisibleCount {
		return 0, false
	}
	return w.ScrollOffset + row, true
}
