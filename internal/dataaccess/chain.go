package dataaccess

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Executor runs an operation against an entity.
type Executor interface {
	Execute(ctx context.Context, e Entity, op Operation) (Result, error)
}

// Transactor runs fn with an Executor bound to a single transaction.
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx Executor) error) error
}

// Session is an Executor that can also open transactions. *Chain satisfies it.
type Session interface {
	Executor
	Transactor
}

// Interceptor rewrites an operation before it reaches storage.
type Interceptor interface {
	Intercept(e Entity, op Operation) Operation
}

// DerivedField is a read-only field computed from stored fields after a read.
type DerivedField struct {
	Field   string
	Needs   []string
	Compute func(Record) any
}

// Shaper declares derived fields per entity.
type Shaper interface {
	Derived(e Entity) []DerivedField
}

// Chain runs its interceptors in order, executes the rewritten operation on Next,
// and shapes the returned records. It holds no per-call state.
type Chain struct {
	Next         Executor
	Interceptors []Interceptor
	Shapers      []Shaper
}

// NewDefaultChain wires the soft-delete filter and the projectId resolver in front of next.
func NewDefaultChain(next Executor) *Chain {
	resolver := NewProjectIDResolver()
	return &Chain{
		Next: next,
		Interceptors: []Interceptor{
			NewSoftDeleteFilter(SoftDeletableEntities()...),
			resolver,
		},
		Shapers: []Shaper{resolver},
	}
}

func (c *Chain) Execute(ctx context.Context, e Entity, op Operation) (Result, error) {
	for _, i := range c.Interceptors {
		op = i.Intercept(e, op)
	}

	derived := c.derived(e)
	var keep map[string]struct{}
	if f, ok := op.(Find); ok && len(f.Select) > 0 && len(derived) > 0 {
		op, keep = expandSelect(f, derived)
	}

	log.Debug().Str("entity", string(e)).Str("kind", string(op.Kind())).Msg("dispatching operation")
	res, err := c.Next.Execute(ctx, e, op)
	if err != nil {
		return res, err
	}

	for _, rec := range res.Records {
		for _, d := range derived {
			if hasFields(rec, d.Needs) {
				rec[d.Field] = d.Compute(rec)
			}
		}
		if keep != nil {
			for k := range rec {
				if _, ok := keep[k]; !ok {
					delete(rec, k)
				}
			}
		}
	}
	return res, nil
}

// Transaction runs fn against a chain bound to Next's transaction. When Next cannot
// open transactions fn runs against c directly.
func (c *Chain) Transaction(ctx context.Context, fn func(tx Executor) error) error {
	t, ok := c.Next.(Transactor)
	if !ok {
		return fn(c)
	}
	return t.Transaction(ctx, func(tx Executor) error {
		return fn(&Chain{Next: tx, Interceptors: c.Interceptors, Shapers: c.Shapers})
	})
}

func (c *Chain) derived(e Entity) []DerivedField {
	var out []DerivedField
	for _, s := range c.Shapers {
		out = append(out, s.Derived(e)...)
	}
	return out
}

// expandSelect swaps derived fields in the select list for the stored fields they need,
// and returns the caller's original selection for trimming afterwards.
func expandSelect(f Find, derived []DerivedField) (Find, map[string]struct{}) {
	keep := make(map[string]struct{}, len(f.Select))
	for _, s := range f.Select {
		keep[s] = struct{}{}
	}
	byName := make(map[string]DerivedField, len(derived))
	for _, d := range derived {
		byName[d.Field] = d
	}

	seen := make(map[string]struct{}, len(f.Select))
	sel := make([]string, 0, len(f.Select))
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		sel = append(sel, s)
	}
	for _, s := range f.Select {
		if d, ok := byName[s]; ok {
			for _, n := range d.Needs {
				add(n)
			}
			continue
		}
		add(s)
	}
	f.Select = sel
	return f, keep
}

func hasFields(rec Record, fields []string) bool {
	for _, f := range fields {
		if _, ok := rec[f]; !ok {
			return false
		}
	}
	return true
}
