package dataaccess

// Kind is the string literal naming an operation.
type Kind string

const (
	KindCreate              Kind = "create"
	KindCreateMany          Kind = "createMany"
	KindCreateManyAndReturn Kind = "createManyAndReturn"
	KindFindUnique          Kind = "findUnique"
	KindFindFirst           Kind = "findFirst"
	KindFindMany            Kind = "findMany"
	KindCount               Kind = "count"
	KindUpdate              Kind = "update"
	KindUpdateMany          Kind = "updateMany"
	KindUpsert              Kind = "upsert"
	KindDelete              Kind = "delete"
	KindDeleteMany          Kind = "deleteMany"
)

// Data is a write payload keyed by field name.
type Data map[string]any

// Clone returns a shallow copy. A nil Data clones to nil.
func (d Data) Clone() Data {
	if d == nil {
		return nil
	}
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Without returns a copy of d lacking keys. The copy is never nil.
func (d Data) Without(keys ...string) Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Record is one result row keyed by field name.
type Record map[string]any

// String returns the field as a string, or "" when absent or not a string.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Result is what an Executor returns. Count is set for count and *Many writes.
type Result struct {
	Records []Record
	Count   int64
}

// First returns the first record, or nil.
func (r Result) First() Record {
	if len(r.Records) == 0 {
		return nil
	}
	return r.Records[0]
}

// Operation is the closed set of data-access operations. Each variant carries only
// the fields its kind can legitimately have.
type Operation interface {
	Kind() Kind
	operation()
}

// Filtered is implemented by operations that carry a where predicate.
type Filtered interface {
	Operation
	Filter() Predicate
	WithFilter(Predicate) Operation
}

// Order sorts a read by one field.
type Order struct {
	Field string
	Desc  bool
}

type Create struct {
	Data Data
}

func (Create) Kind() Kind { return KindCreate }
func (Create) operation() {}

// CreateMany inserts several rows; Return selects createManyAndReturn.
type CreateMany struct {
	Data   []Data
	Return bool
}

func (o CreateMany) Kind() Kind {
	if o.Return {
		return KindCreateManyAndReturn
	}
	return KindCreateMany
}
func (CreateMany) operation() {}

// Find is any read. Op defaults to findMany.
type Find struct {
	Op      Kind
	Where   Predicate
	Select  []string
	OrderBy []Order
	Take    int
	Skip    int
}

func (o Find) Kind() Kind {
	if o.Op == "" {
		return KindFindMany
	}
	return o.Op
}
func (Find) operation()          {}
func (o Find) Filter() Predicate { return o.Where }
func (o Find) WithFilter(p Predicate) Operation {
	o.Where = p
	return o
}

// Update writes Data to the row matching Where, or to every match when Many is set.
type Update struct {
	Where Predicate
	Data  Data
	Many  bool
}

func (o Update) Kind() Kind {
	if o.Many {
		return KindUpdateMany
	}
	return KindUpdate
}
func (Update) operation()          {}
func (o Update) Filter() Predicate { return o.Where }
func (o Update) WithFilter(p Predicate) Operation {
	o.Where = p
	return o
}

// Upsert updates the row matching Where with Update, or inserts Create.
type Upsert struct {
	Where  Predicate
	Create Data
	Update Data
}

func (Upsert) Kind() Kind          { return KindUpsert }
func (Upsert) operation()          {}
func (o Upsert) Filter() Predicate { return o.Where }
func (o Upsert) WithFilter(p Predicate) Operation {
	o.Where = p
	return o
}

// Delete physically removes the row matching Where, or every match when Many is set.
type Delete struct {
	Where Predicate
	Many  bool
}

func (o Delete) Kind() Kind {
	if o.Many {
		return KindDeleteMany
	}
	return KindDelete
}
func (Delete) operation()          {}
func (o Delete) Filter() Predicate { return o.Where }
func (o Delete) WithFilter(p Predicate) Operation {
	o.Where = p
	return o
}
