package panes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pappardelle/pappardelle/internal/layout"
	"github.com/pappardelle/pappardelle/internal/tmux"
)

// Pane roles, stored in tmux.RoleOption on each pane.
const (
	RoleList      = "list"
	RolePrimary   = "primary"
	RoleSecondary = "secondary"
)

// ZoomSettle is how long to wait after a zoom toggle before drawing overlay
// content. tmux applies the zoom and the terminal repaints asynchronously.
const ZoomSettle = 100 * time.Millisecond

// PaneSet holds the handles of the dashboard panes. Secondary is empty in
// vertical layouts and when the window is too narrow for it.
type PaneSet struct {
	List      string
	Primary   string
	Secondary string
}

// HasSecondary reports whether the secondary viewer exists.
func (s PaneSet) HasSecondary() bool {
	return s.Secondary != ""
}

// Viewers returns the non-empty viewer pane handles.
func (s PaneSet) Viewers() []string {
	var ids []string
	if s.Primary != "" {
		ids = append(ids, s.Primary)
	}
	if s.Secondary != "" {
		ids = append(ids, s.Secondary)
	}
	return ids
}

// ViewerHooks lets the Orchestrator release viewer state before it destroys panes.
type ViewerHooks interface {
	DetachViewer(ctx context.Context, paneID string)
	ResetViewers()
}

// Orchestrator creates, resizes, zooms and destroys the dashboard panes.
// The list pane is never destroyed; viewers are recreated on orientation change.
type Orchestrator struct {
	mux     Mux
	workDir string
	hooks   ViewerHooks

	panes PaneSet
	plan  layout.Plan
	size  layout.Size // window size the current panes were laid out for
}

// NewOrchestrator creates an Orchestrator that opens viewer shells in workDir.
func NewOrchestrator(mux Mux, workDir string) *Orchestrator {
	return &Orchestrator{mux: mux, workDir: workDir}
}

// SetViewerHooks registers the component tracking what viewers display.
func (o *Orchestrator) SetViewerHooks(h ViewerHooks) {
	o.hooks = h
}

// Panes returns the current pane handles.
func (o *Orchestrator) Panes() PaneSet {
	return o.panes
}

// Plan returns the plan the current panes were created or resized from.
func (o *Orchestrator) Plan() layout.Plan {
	return o.plan
}

// LastSize returns the window size of the last successful layout.
func (o *Orchestrator) LastSize() layout.Size {
	return o.size
}

// WindowSize asks tmux for the current size of the window containing target.
func (o *Orchestrator) WindowSize(ctx context.Context, target string) (layout.Size, error) {
	cols, rows, err := o.mux.WindowSize(ctx, target)
	if err != nil {
		return layout.Size{}, fmt.Errorf("query window size: %w", err)
	}
	return layout.Size{Cols: cols, Rows: rows}, nil
}

// SetupLayout splits rootPane into the list pane plus viewers. On failure the
// caller should continue without pane wiring.
func (o *Orchestrator) SetupLayout(ctx context.Context, rootPane string, itemCount int) (PaneSet, error) {
	if rootPane == "" {
		return PaneSet{}, errors.New("setup layout: no root pane")
	}

	o.removeStaleViewers(ctx, rootPane)

	set, err := o.createViewers(ctx, rootPane, itemCount)
	if err != nil {
		return PaneSet{}, err
	}

	if err := o.mux.ConfigureChrome(ctx, rootPane); err != nil {
		log.Printf("[panes] configure chrome: %v", err)
	}
	log.Printf("[panes] layout %s: list=%s primary=%s secondary=%s",
		o.plan.Direction, set.List, set.Primary, set.Secondary)
	return set, nil
}

// RebuildLayout replaces the viewer panes after the orientation flipped. It is
// the only path that destroys panes.
func (o *Orchestrator) RebuildLayout(ctx context.Context, old PaneSet, itemCount int) (PaneSet, error) {
	for _, id := range old.Viewers() {
		if o.hooks != nil {
			o.hooks.DetachViewer(ctx, id)
		}
		if err := o.KillPane(ctx, id); err != nil {
			log.Printf("[panes] kill %s during rebuild: %v", id, err)
		}
	}
	if o.hooks != nil {
		o.hooks.ResetViewers()
	}
	o.panes = PaneSet{List: old.List}

	set, err := o.createViewers(ctx, old.List, itemCount)
	if err != nil {
		return PaneSet{List: old.List}, fmt.Errorf("rebuild layout: %w", err)
	}
	log.Printf("[panes] rebuilt layout %s: primary=%s secondary=%s",
		o.plan.Direction, set.Primary, set.Secondary)
	return set, nil
}

// RelayoutPanes resizes the existing panes in place for the current
// orientation. The pane left unsized absorbs the remaining space.
func (o *Orchestrator) RelayoutPanes(ctx context.Context, set PaneSet, itemCount int) error {
	size, err := o.WindowSize(ctx, set.List)
	if err != nil {
		return err
	}
	plan := layout.PlanLayout(size.Cols, size.Rows, itemCount)

	switch plan.Direction {
	case layout.Horizontal:
		if err := o.mux.ResizePaneWidth(ctx, set.List, plan.ListWidth); err != nil {
			return fmt.Errorf("resize list pane: %w", err)
		}
		if set.Secondary != "" {
			if err := o.mux.ResizePaneWidth(ctx, set.Secondary, plan.SecondaryWidth); err != nil {
				return fmt.Errorf("resize secondary pane: %w", err)
			}
		}
	case layout.Vertical:
		if err := o.mux.ResizePaneHeight(ctx, set.List, plan.ListHeight); err != nil {
			return fmt.Errorf("resize list pane: %w", err)
		}
	}

	o.plan = plan
	o.size = size
	return nil
}

// HandleResize re-queries the window and rebuilds or relayouts as needed.
// It returns the (possibly new) pane set and the action taken.
func (o *Orchestrator) HandleResize(ctx context.Context, set PaneSet, itemCount int) (PaneSet, layout.ResizeAction, error) {
	size, err := o.WindowSize(ctx, set.List)
	if err != nil {
		return set, layout.ResizeNone, err
	}

	action := layout.ClassifyResize(o.size, size)
	if set.Primary == "" {
		// A failed rebuild left no viewers; any resize retries it.
		action = layout.ResizeRebuild
	}
	switch action {
	case layout.ResizeRebuild:
		newSet, err := o.RebuildLayout(ctx, set, itemCount)
		return newSet, action, err
	case layout.ResizeRelayout:
		return set, action, o.RelayoutPanes(ctx, set, itemCount)
	default:
		return set, action, nil
	}
}

// ZoomPane zooms paneID's window unless it is already zoomed.
func (o *Orchestrator) ZoomPane(ctx context.Context, paneID string) error {
	return o.setZoom(ctx, paneID, true)
}

// UnzoomPane restores paneID's window unless it is already unzoomed.
func (o *Orchestrator) UnzoomPane(ctx context.Context, paneID string) error {
	return o.setZoom(ctx, paneID, false)
}

func (o *Orchestrator) setZoom(ctx context.Context, paneID string, want bool) error {
	zoomed, err := o.mux.WindowZoomed(ctx, paneID)
	if err != nil {
		return fmt.Errorf("query zoom: %w", err)
	}
	if zoomed == want {
		return nil
	}
	if err := o.mux.ToggleZoom(ctx, paneID); err != nil {
		return fmt.Errorf("toggle zoom: %w", err)
	}
	return nil
}

// KillPane destroys paneID. A pane that is already gone counts as success.
func (o *Orchestrator) KillPane(ctx context.Context, paneID string) error {
	if paneID == "" {
		return nil
	}
	err := o.mux.KillPane(ctx, paneID)
	if err == nil || errors.Is(err, tmux.ErrNotFound) {
		return nil
	}
	return err
}

// LabelViewers writes the workspace shown in each viewer into its border.
func (o *Orchestrator) LabelViewers(ctx context.Context, workspaceKey, status string) {
	roles := map[string]string{
		o.panes.Primary:   "assistant",
		o.panes.Secondary: "review",
	}
	for id, role := range roles {
		if id == "" {
			continue
		}
		label := tmux.FormatPaneLabel(role, workspaceKey, status)
		if err := o.mux.SetPaneOption(ctx, id, tmux.LabelOption, label); err != nil {
			log.Printf("[panes] label %s: %v", id, err)
		}
	}
}

// Teardown detaches and destroys the viewer panes, leaving the list pane.
func (o *Orchestrator) Teardown(ctx context.Context) {
	for _, id := range o.panes.Viewers() {
		if o.hooks != nil {
			o.hooks.DetachViewer(ctx, id)
		}
		if err := o.KillPane(ctx, id); err != nil {
			log.Printf("[panes] kill %s: %v", id, err)
		}
	}
	if o.hooks != nil {
		o.hooks.ResetViewers()
	}
	if err := o.UnzoomPane(ctx, o.panes.List); err != nil {
		log.Printf("[panes] unzoom on exit: %v", err)
	}
	o.panes = PaneSet{List: o.panes.List}
}

// createViewers queries the window, plans, and splits listPane.
func (o *Orchestrator) createViewers(ctx context.Context, listPane string, itemCount int) (PaneSet, error) {
	size, err := o.WindowSize(ctx, listPane)
	if err != nil {
		return PaneSet{}, err
	}
	plan := layout.PlanLayout(size.Cols, size.Rows, itemCount)
	set := PaneSet{List: listPane}

	var created []string
	fail := func(err error) (PaneSet, error) {
		o.discard(ctx, created)
		return PaneSet{}, err
	}

	switch plan.Direction {
	case layout.Vertical:
		id, err := o.split(ctx, listPane, tmux.SplitVertical, plan.PrimaryHeight)
		if err != nil {
			return fail(fmt.Errorf("split primary: %w", err))
		}
		created = append(created, id)
		set.Primary = id

	case layout.Horizontal:
		// The first split takes everything right of the list; the second
		// carves the secondary off its right edge.
		id, err := o.split(ctx, listPane, tmux.SplitHorizontal, plan.FirstSplitWidth())
		if err != nil {
			return fail(fmt.Errorf("split primary: %w", err))
		}
		created = append(created, id)
		set.Primary = id

		if plan.HasSecondary() {
			id, err := o.split(ctx, set.Primary, tmux.SplitHorizontal, plan.SecondaryWidth)
			if err != nil {
				return fail(fmt.Errorf("split secondary: %w", err))
			}
			created = append(created, id)
			set.Secondary = id
		}
	}

	labels := []struct{ id, role string }{
		{set.List, RoleList},
		{set.Primary, RolePrimary},
		{set.Secondary, RoleSecondary},
	}
	for _, l := range labels {
		if l.id == "" {
			continue
		}
		if err := o.label(ctx, l.id, l.role); err != nil {
			return fail(err)
		}
	}

	if err := o.mux.SelectPane(ctx, listPane); err != nil {
		return fail(fmt.Errorf("focus list pane: %w", err))
	}

	o.panes = set
	o.plan = plan
	o.size = size
	return set, nil
}

func (o *Orchestrator) split(ctx context.Context, target string, dir tmux.SplitDirection, size int) (string, error) {
	return o.mux.SplitPane(ctx, tmux.SplitOptions{
		Target:    target,
		Direction: dir,
		Dir:       o.workDir,
		Size:      size,
	})
}

func (o *Orchestrator) label(ctx context.Context, paneID, role string) error {
	if err := o.mux.SetPaneOption(ctx, paneID, tmux.RoleOption, role); err != nil {
		return fmt.Errorf("label %s as %s: %w", paneID, role, err)
	}
	if err := o.mux.SetPaneOption(ctx, paneID, tmux.LabelOption, tmux.FormatPaneLabel(role, "", "")); err != nil {
		return fmt.Errorf("label %s as %s: %w", paneID, role, err)
	}
	return nil
}

// discard kills panes created by a setup that failed part way through.
func (o *Orchestrator) discard(ctx context.Context, ids []string) {
	for _, id := range ids {
		if err := o.KillPane(ctx, id); err != nil {
			log.Printf("[panes] discard %s: %v", id, err)
		}
	}
}

// removeStaleViewers kills viewer panes left in the window by a previous run.
func (o *Orchestrator) removeStaleViewers(ctx context.Context, rootPane string) {
	existing, err := o.mux.ListPanes(ctx, rootPane)
	if err != nil {
		log.Printf("[panes] list panes: %v", err)
		return
	}
	for _, p := range existing {
		if p.ID == rootPane || (p.Role != RolePrimary && p.Role != RoleSecondary) {
			continue
		}
		log.Printf("[panes] removing stale %s pane %s", p.Role, p.ID)
		if err := o.KillPane(ctx, p.ID); err != nil {
			log.Printf("[panes] kill stale %s: %v", p.ID, err)
		}
	}
}
