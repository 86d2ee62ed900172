package database

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"pcns-backend/internal/dataaccess"
	"pcns-backend/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// newModel returns a fresh zero model for an entity. A new value per call keeps
// GORM from writing assignments into a shared instance.
func newModel(e dataaccess.Entity) (any, bool) {
	switch e {
	case dataaccess.Activity:
		return &domain.Activity{}, true
	case dataaccess.Enquiry:
		return &domain.Enquiry{}, true
	case dataaccess.ElectrificationProject:
		return &domain.ElectrificationProject{}, true
	case dataaccess.HousingProject:
		return &domain.HousingProject{}, true
	case dataaccess.NoteHistory:
		return &domain.NoteHistory{}, true
	case dataaccess.Note:
		return &domain.Note{}, true
	case dataaccess.Permit:
		return &domain.Permit{}, true
	case dataaccess.PermitNote:
		return &domain.PermitNote{}, true
	}
	return nil, false
}

// Models returns one instance of every registered model, in migration order.
func Models() []any {
	var out []any
	for _, e := range dataaccess.Entities() {
		m, _ := newModel(e)
		out = append(out, m)
	}
	return out
}

// table maps an entity's field names (json tags) onto its columns.
type table struct {
	entity  dataaccess.Entity
	schema  *schema.Schema
	columns map[string]string
	fields  map[string]string
	pk      *schema.Field
}

func parseTable(db *gorm.DB, e dataaccess.Entity) (*table, error) {
	m, ok := newModel(e)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, e)
	}
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", e, err)
	}
	t := &table{
		entity:  e,
		schema:  stmt.Schema,
		columns: make(map[string]string, len(stmt.Schema.Fields)),
		fields:  make(map[string]string, len(stmt.Schema.Fields)),
		pk:      stmt.Schema.PrioritizedPrimaryField,
	}
	for _, f := range stmt.Schema.Fields {
		if f.DBName == "" {
			continue
		}
		name := fieldName(f)
		t.columns[name] = f.DBName
		t.fields[f.DBName] = name
	}
	if t.pk == nil {
		return nil, fmt.Errorf("%s has no primary key", e)
	}
	return t, nil
}

func fieldName(f *schema.Field) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func (t *table) model() any {
	m, _ := newModel(t.entity)
	return m
}

func (t *table) column(field string) (string, error) {
	col, ok := t.columns[field]
	if !ok {
		return "", fmt.Errorf("%w: %s.%s", ErrUnknownField, t.entity, field)
	}
	return col, nil
}

func (t *table) pkColumn() clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: t.pk.DBName}
}

// where translates a predicate into clause expressions, in key order for stable SQL.
func (t *table) where(p dataaccess.Predicate) ([]clause.Expression, error) {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	exprs := make([]clause.Expression, 0, len(keys))
	for _, k := range keys {
		name, err := t.column(k)
		if err != nil {
			return nil, err
		}
		col := clause.Column{Table: clause.CurrentTable, Name: name}
		cond, ok := p[k].(dataaccess.Condition)
		if !ok {
			exprs = append(exprs, clause.Eq{Column: col, Value: p[k]})
			continue
		}
		switch cond.Op {
		case dataaccess.OpIn:
			values, _ := cond.Value.([]any)
			exprs = append(exprs, clause.IN{Column: col, Values: values})
		case dataaccess.OpNot:
			exprs = append(exprs, clause.Neq{Column: col, Value: cond.Value})
		case dataaccess.OpContains:
			exprs = append(exprs, clause.Like{Column: col, Value: fmt.Sprintf("%%%v%%", cond.Value)})
		case dataaccess.OpGte:
			exprs = append(exprs, clause.Gte{Column: col, Value: cond.Value})
		case dataaccess.OpLte:
			exprs = append(exprs, clause.Lte{Column: col, Value: cond.Value})
		default:
			return nil, fmt.Errorf("%w: operator %q on %s.%s", ErrUnsupportedOperation, cond.Op, t.entity, k)
		}
	}
	return exprs, nil
}

// values translates a write payload into a column map.
func (t *table) values(d dataaccess.Data) (map[string]any, error) {
	out := make(map[string]any, len(d))
	for k, v := range d {
		col, err := t.column(k)
		if err != nil {
			return nil, err
		}
		out[col] = v
	}
	return out, nil
}

func (t *table) record(row map[string]any) dataaccess.Record {
	rec := make(dataaccess.Record, len(row))
	for col, v := range row {
		if name, ok := t.fields[col]; ok {
			rec[name] = t.normalize(col, v)
			continue
		}
		rec[col] = v
	}
	return rec
}

// normalize turns scanned values into plain ones. Nullable columns scan into the
// model's pointer fields and come back dereferenced, or nil. Boolean columns, which
// SQLite hands back as integers, become bools.
func (t *table) normalize(col string, v any) any {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		v = rv.Elem().Interface()
	}
	f := t.schema.LookUpField(col)
	if f == nil || f.DataType != schema.Bool {
		return v
	}
	switch n := v.(type) {
	case int64:
		return n != 0
	case float64:
		return n != 0
	case []byte:
		return string(n) == "1" || strings.EqualFold(string(n), "true")
	case string:
		return n == "1" || strings.EqualFold(n, "true")
	}
	return v
}
