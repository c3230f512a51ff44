package listview

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Collaborator persists mutation intents. Each call returns the
// authoritative record, which replaces the optimistic local copy.
type Collaborator[T any] interface {
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Option configures a Controller.
type Option[T any] func(*Controller[T])

// WithCollaborator forwards every mutation to c.
func WithCollaborator[T any](c Collaborator[T]) Option[T] {
	return func(ctl *Controller[T]) { ctl.collab = c }
}

// WithSort sets the initial sort.
func WithSort[T any](s SortState) Option[T] {
	return func(ctl *Controller[T]) { ctl.sort = s }
}

// Controller composes a store, a filter and a sort into the view of one
// screen and applies user actions to them. It is not safe for concurrent
// use; each screen owns its controller.
type Controller[T any] struct {
	schema    *Schema[T]
	store     *Store[T]
	filter    FilterState
	sort      SortState
	selection Selection
	collab    Collaborator[T]
}

// NewController creates a controller over items.
func NewController[T any](schema *Schema[T], items []T, opts ...Option[T]) (*Controller[T], error) {
	store, err := NewStore(schema.ID, items)
	if err != nil {
		return nil, err
	}
	c := &Controller[T]{
		schema: schema,
		store:  store,
		filter: DefaultFilter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := checkField(schema, c.sort.Field); err != nil {
		return nil, err
	}
	return c, nil
}

// Schema returns the schema the controller was built with.
func (c *Controller[T]) Schema() *Schema[T] { return c.schema }

// Snapshot returns the current store snapshot.
func (c *Controller[T]) Snapshot() *Snapshot[T] { return c.store.Snapshot() }

// Filter returns the current filter.
func (c *Controller[T]) Filter() FilterState { return c.filter }

// Sort returns the current sort.
func (c *Controller[T]) Sort() SortState { return c.sort }

// Selection returns the current selection.
func (c *Controller[T]) Selection() Selection { return c.selection }

// View computes the visible records.
func (c *Controller[T]) View() View[T] {
	return ComputeView(c.schema, c.store.Snapshot(), c.filter, c.sort)
}

// Get returns the record with the given id.
func (c *Controller[T]) Get(id string) (T, bool) {
	return c.store.Snapshot().Get(id)
}

// SetFilter applies patch and returns the new filter.
func (c *Controller[T]) SetFilter(patch FilterPatch) FilterState {
	c.filter = c.filter.Apply(patch)
	return c.filter
}

// ResetFilter restores the default filter.
func (c *Controller[T]) ResetFilter() FilterState {
	c.filter = DefaultFilter()
	return c.filter
}

// SetSort picks field as sort column, toggling direction when it is
// already selected.
func (c *Controller[T]) SetSort(field string) (SortState, error) {
	if err := checkField(c.schema, field); err != nil {
		return c.sort, err
	}
	c.sort = c.sort.Toggle(field)
	return c.sort, nil
}

// Select adds id to the selection.
func (c *Controller[T]) Select(id string) (Selection, error) {
	if !c.store.Snapshot().Has(id) {
		return c.selection, fmt.Errorf("select %q: %w", id, ErrNotFound)
	}
	c.selection = c.selection.Select(id)
	return c.selection, nil
}

// Deselect removes id from the selection.
func (c *Controller[T]) Deselect(id string) Selection {
	c.selection = c.selection.Deselect(id)
	return c.selection
}

// Toggle flips the selection of id.
func (c *Controller[T]) Toggle(id string) (Selection, error) {
	if c.selection.Has(id) {
		return c.Deselect(id), nil
	}
	return c.Select(id)
}

// ClearSelection empties the selection.
func (c *Controller[T]) ClearSelection() {
	c.selection = Selection{}
}

// Selected returns the selected records in pick order.
func (c *Controller[T]) Selected() []T {
	snap := c.store.Snapshot()
	out := make([]T, 0, c.selection.Len())
	for _, id := range c.selection.ids {
		if item, ok := snap.Get(id); ok {
			out = append(out, item)
		}
	}
	return out
}

// Update applies fn to the record id, forwards it to the collaborator and
// stores the record the collaborator returns. A collaborator error, or a
// returned record with another id (ErrIDChanged), rolls the store back to
// its previous snapshot.
func (c *Controller[T]) Update(ctx context.Context, id string, fn func(T) T) (T, error) {
	var zero T
	prev := c.store.Snapshot()
	if !c.store.MutateOne(id, fn) {
		return zero, fmt.Errorf("update %q: %w", id, ErrNotFound)
	}
	updated, _ := c.store.Snapshot().Get(id)
	if c.collab == nil {
		return updated, nil
	}
	saved, err := c.collab.Update(ctx, updated)
	if err == nil {
		err = c.sameID(id, saved)
	}
	if err != nil {
		c.store.restore(prev)
		return zero, fmt.Errorf("update %q: %w", id, err)
	}
	c.store.MutateOne(id, func(T) T { return saved })
	return saved, nil
}

// MarkRead flags one record as read.
func (c *Controller[T]) MarkRead(ctx context.Context, id string) error {
	if c.schema.MarkRead == nil {
		return ErrUnsupported
	}
	_, err := c.Update(ctx, id, c.schema.MarkRead)
	return err
}

// MarkAllRead flags every unread record as read and returns how many
// changed.
func (c *Controller[T]) MarkAllRead(ctx context.Context) (int, error) {
	if c.schema.MarkRead == nil || c.schema.IsUnread == nil {
		return 0, ErrUnsupported
	}
	var errs []error
	n := 0
	for _, item := range c.store.Snapshot().items {
		if !c.schema.IsUnread(item) {
			continue
		}
		if _, err := c.Update(ctx, c.schema.ID(item), c.schema.MarkRead); err != nil {
			errs = append(errs, err)
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}

// SetStatus moves a record to status, which must belong to the schema's
// vocabulary.
func (c *Controller[T]) SetStatus(ctx context.Context, id, status string) (T, error) {
	var zero T
	if c.schema.WithStatus == nil {
		return zero, ErrUnsupported
	}
	canonical, ok := c.canonicalStatus(status)
	if !ok {
		verr := &ValidationError{}
		return zero, verr.Add("status", "oneof="+strings.Join(c.schema.Statuses, " "))
	}
	return c.Update(ctx, id, func(item T) T {
		return c.schema.WithStatus(item, canonical)
	})
}

func (c *Controller[T]) canonicalStatus(status string) (string, bool) {
	for _, s := range c.schema.Statuses {
		if strings.EqualFold(s, strings.TrimSpace(status)) {
			return s, true
		}
	}
	return "", false
}

// Delete removes the record id and drops it from the selection.
func (c *Controller[T]) Delete(ctx context.Context, id string) error {
	prev := c.store.Snapshot()
	if !c.store.RemoveOne(id) {
		return fmt.Errorf("delete %q: %w", id, ErrNotFound)
	}
	if c.collab != nil {
		if err := c.collab.Delete(ctx, id); err != nil {
			c.store.restore(prev, id)
			return fmt.Errorf("delete %q: %w", id, err)
		}
	}
	c.selection = c.selection.Deselect(id)
	return nil
}

// DeleteAll removes every record. Records the collaborator fails to
// delete stay in the store.
func (c *Controller[T]) DeleteAll(ctx context.Context) (int, error) {
	prev := c.store.Snapshot()
	if c.collab == nil {
		c.selection = Selection{}
		return c.store.RemoveAll(), nil
	}
	var (
		errs []error
		kept []T
	)
	for _, item := range prev.items {
		id := c.schema.ID(item)
		if err := c.collab.Delete(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("delete %q: %w", id, err))
			kept = append(kept, item)
		}
	}
	n := c.store.RemoveAll()
	if len(kept) > 0 {
		ids := make([]string, 0, len(kept))
		for _, item := range kept {
			ids = append(ids, c.schema.ID(item))
		}
		snap, _ := newSnapshot(c.schema.ID, kept)
		c.store.restore(snap, ids...)
	}
	c.selection = Selection{}
	return n - len(kept), errors.Join(errs...)
}

// Insert adds a new record and stores the collaborator's version of it.
// The collaborator may fill in fields but must keep the id; otherwise the
// insert is rolled back with ErrIDChanged.
func (c *Controller[T]) Insert(ctx context.Context, item T) (T, error) {
	var zero T
	prev := c.store.Snapshot()
	if err := c.store.Insert(item); err != nil {
		return zero, err
	}
	if c.collab == nil {
		return item, nil
	}
	id := c.schema.ID(item)
	saved, err := c.collab.Create(ctx, item)
	if err == nil {
		err = c.sameID(id, saved)
	}
	if err != nil {
		c.store.restore(prev)
		return zero, fmt.Errorf("create %q: %w", id, err)
	}
	c.store.MutateOne(id, func(T) T { return saved })
	return saved, nil
}

func (c *Controller[T]) sameID(id string, saved T) error {
	if got := c.schema.ID(saved); got != id {
		return fmt.Errorf("%w: got %q", ErrIDChanged, got)
	}
	return nil
}

// Reload replaces the whole collection, e.g. after a refresh from the
// collaborator. Selected ids that disappeared are dropped.
func (c *Controller[T]) Reload(items []T) error {
	if err := c.store.Replace(items); err != nil {
		return err
	}
	snap := c.store.Snapshot()
	for _, id := range c.selection.IDs() {
		if !snap.Has(id) {
			c.selection = c.selection.Deselect(id)
		}
	}
	return nil
}

// Counts returns the number of records per status across the whole store.
func (c *Controller[T]) Counts() map[string]int {
	counts := make(map[string]int)
	for _, item := range c.store.Snapshot().items {
		counts[c.schema.status(item)]++
	}
	return counts
}

// Unread returns how many records still need attention.
func (c *Controller[T]) Unread() int {
	if c.schema.IsUnread == nil {
		return 0
	}
	n := 0
	for _, item := range c.store.Snapshot().items {
		if c.schema.IsUnread(item) {
			n++
		}
	}
	return n
}
