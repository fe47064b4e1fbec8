// Package layout holds the pane geometry arithmetic for the dashboard window.
//
// Every pane split and resize issued against the multiplexer derives its numbers
// from PlanLayout. Nothing here performs I/O.
package layout

// NarrowThreshold is the window width below which the viewers stack under the list.
const NarrowThreshold = 100

// Horizontal bounds, in columns.
const (
	ListMinWidth      = 15
	ListMaxWidth      = 40
	PrimaryMinWidth   = 40
	SecondaryMinWidth = 20
	SecondaryMaxWidth = 60

	listPercent      = 24
	primaryPercent   = 38
	secondaryPercent = 38

	// horizontalBorders is the number of columns eaten by the two
	// vertical separators between list, primary and secondary.
	horizontalBorders = 2
)

// Vertical bounds, in rows.
const (
	ListChromeRows   = 2
	ListMinHeight    = 6
	ListMaxHeight    = 8
	verticalBorders  = 1
	minListItemCount = 1
)

// Direction is the orientation of the dashboard window.
type Direction int

const (
	// Horizontal places list, primary and secondary side by side.
	Horizontal Direction = iota
	// Vertical stacks the list above a single primary viewer.
	Vertical
)

// String returns the display name for the direction
func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// DirectionFor returns the orientation for a window of the given width.
func DirectionFor(width int) Direction {
	if width < NarrowThreshold {
		return Vertical
	}
	return Horizontal
}

// Plan is the computed pane geometry. Width fields are only meaningful in
// Horizontal plans, height fields only in Vertical plans.
type Plan struct {
	Direction Direction

	ListWidth      int
	PrimaryWidth   int
	SecondaryWidth int

	ListHeight    int
	PrimaryHeight int
}

// HasSecondary reports whether the plan leaves room for the secondary viewer.
func (p Plan) HasSecondary() bool {
	return p.Direction == Horizontal && p.SecondaryWidth >= SecondaryMinWidth
}

// FirstSplitWidth is the width of the pane split off the list in horizontal
// mode: the primary plus the border and secondary carved from it afterwards.
// Without a secondary the primary keeps that space. Zero for vertical plans.
func (p Plan) FirstSplitWidth() int {
	if p.Direction != Horizontal {
		return 0
	}
	return p.PrimaryWidth + p.SecondaryWidth + horizontalBorders/2
}

// PlanLayout computes pane sizes for a window of totalWidth x totalHeight
// showing itemCount workspaces.
func PlanLayout(totalWidth, totalHeight, itemCount int) Plan {
	if DirectionFor(totalWidth) == Vertical {
		return planVertical(totalHeight, itemCount)
	}
	return planHorizontal(totalWidth)
}

// planVertical sizes the list to its items plus chrome, bounded to
// [min(ideal, ListMinHeight), ListMaxHeight]; the primary takes the rest.
func planVertical(totalHeight, itemCount int) Plan {
	ideal := max(minListItemCount, itemCount) + ListChromeRows
	listHeight := clamp(ideal, min(ideal, ListMinHeight), ListMaxHeight)
	primaryHeight := totalHeight - verticalBorders - listHeight

	if primaryHeight < 0 {
		listHeight = max(0, totalHeight-verticalBorders)
		primaryHeight = 0
	}

	return Plan{
		Direction:     Vertical,
		ListHeight:    listHeight,
		PrimaryHeight: primaryHeight,
	}
}

func planHorizontal(totalWidth int) Plan {
	usable := totalWidth - horizontalBorders
	plan := Plan{Direction: Horizontal}

	if usable < ListMinWidth+PrimaryMinWidth+SecondaryMinWidth {
		// Not enough room for everything: list and primary get their
		// minimums, secondary whatever is left (possibly nothing).
		plan.ListWidth = min(ListMinWidth, max(0, usable))
		plan.PrimaryWidth = min(PrimaryMinWidth, max(0, usable-plan.ListWidth))
		plan.SecondaryWidth = max(0, usable-plan.ListWidth-plan.PrimaryWidth)
		return plan
	}

	list := clamp(usable*listPercent/100, ListMinWidth, ListMaxWidth)
	primary := max(usable*primaryPercent/100, PrimaryMinWidth)
	secondary := usable - list - primary

	if secondary < SecondaryMinWidth {
		secondary = SecondaryMinWidth
		remainder := usable - secondary
		list = clamp(remainder*listPercent/(listPercent+primaryPercent), ListMinWidth, ListMaxWidth)
		primary = remainder - list
		if primary < PrimaryMinWidth {
			primary = PrimaryMinWidth
			list = remainder - primary
		}
	}

	if secondary > SecondaryMaxWidth {
		primary += secondary - SecondaryMaxWidth
		secondary = SecondaryMaxWidth
	}

	plan.ListWidth = list
	plan.PrimaryWidth = primary
	plan.SecondaryWidth = secondary
	return plan
}

// Size is a window size in cells.
type Size struct {
	Cols int
	Rows int
}

// ResizeAction is what a window size change requires of the panes.
type ResizeAction int

const (
	// ResizeNone means the geometry is unchanged.
	ResizeNone ResizeAction = iota
	// ResizeRelayout resizes existing panes in place.
	ResizeRelayout
	// ResizeRebuild destroys and recreates the viewer panes.
	ResizeRebuild
)

// String returns the display name for the action
func (a ResizeAction) String() string {
	switch a {
	case ResizeNone:
		return "none"
	case ResizeRelayout:
		return "relayout"
	case ResizeRebuild:
		return "rebuild"
	default:
		return "unknown"
	}
}

// ClassifyResize decides how to react to the window going from prev to next.
// Only crossing NarrowThreshold requires a rebuild.
func ClassifyResize(prev, next Size) ResizeAction {
	if DirectionFor(prev.Cols) != DirectionFor(next.Cols) {
		return ResizeRebuild
	}
	if prev == next {
		return ResizeNone
	}
	return ResizeRelayout
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
