package dataaccess

// DeletedAtField is the soft-delete timestamp field. NULL means the row is active.
const DeletedAtField = "deletedAt"

// Kinds that insert rows. A row being created cannot be deleted yet, so they are not filtered.
var unfilteredKinds = map[Kind]struct{}{
	KindCreate:              {},
	KindCreateMany:          {},
	KindCreateManyAndReturn: {},
}

// SoftDeleteFilter restricts every non-create operation on its registered entities
// to rows whose deletedAt is NULL.
//
// The filter is shallow: it rewrites only the targeted entity's own where clause.
// Related rows loaded alongside it are not filtered.
type SoftDeleteFilter struct {
	entities map[Entity]struct{}
}

// NewSoftDeleteFilter registers the filter for the given entities only.
func NewSoftDeleteFilter(entities ...Entity) *SoftDeleteFilter {
	f := &SoftDeleteFilter{entities: make(map[Entity]struct{}, len(entities))}
	for _, e := range entities {
		f.entities[e] = struct{}{}
	}
	return f
}

// Applies reports whether e is registered.
func (f *SoftDeleteFilter) Applies(e Entity) bool {
	_, ok := f.entities[e]
	return ok
}

// Intercept returns op with deletedAt = NULL merged into its where clause.
// A caller-supplied deletedAt constraint is overwritten, so deleted rows are never
// reachable through this path.
func (f *SoftDeleteFilter) Intercept(e Entity, op Operation) Operation {
	if !f.Applies(e) {
		return op
	}
	if _, skip := unfilteredKinds[op.Kind()]; skip {
		return op
	}
	w, ok := op.(Filtered)
	if !ok {
		return op
	}
	return w.WithFilter(w.Filter().Merge(Predicate{DeletedAtField: nil}))
}
