package dataaccess

// Predicate is a where clause keyed by field name. A nil value matches NULL,
// a Condition applies an operator, anything else is equality.
type Predicate map[string]any

// Merge returns a new predicate holding p's keys overlaid with other's.
// Neither input is modified.
func (p Predicate) Merge(other Predicate) Predicate {
	out := make(Predicate, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Operator names a Condition.
type Operator string

const (
	OpIn       Operator = "in"
	OpNot      Operator = "not"
	OpContains Operator = "contains"
	OpGte      Operator = "gte"
	OpLte      Operator = "lte"
)

// Condition is a non-equality constraint on one field.
type Condition struct {
	Op    Operator
	Value any
}

func In(values ...any) Condition  { return Condition{Op: OpIn, Value: values} }
func Not(value any) Condition     { return Condition{Op: OpNot, Value: value} }
func Contains(s string) Condition { return Condition{Op: OpContains, Value: s} }
func Gte(value any) Condition     { return Condition{Op: OpGte, Value: value} }
func Lte(value any) Condition     { return Condition{Op: OpLte, Value: value} }
