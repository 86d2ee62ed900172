package database

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"pcns-backend/internal/dataaccess"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store executes data-access operations against GORM. It applies no filtering of its
// own; soft-delete and projectId handling belong to the dataaccess.Chain in front of it.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) Execute(ctx context.Context, e dataaccess.Entity, op dataaccess.Operation) (dataaccess.Result, error) {
	t, err := parseTable(s.DB, e)
	if err != nil {
		return dataaccess.Result{}, err
	}
	db := s.DB.WithContext(ctx)

	switch o := op.(type) {
	case dataaccess.Create:
		return s.create(db, t, o)
	case dataaccess.CreateMany:
		return s.createMany(db, t, o)
	case dataaccess.Find:
		return s.find(db, t, o)
	case dataaccess.Update:
		return s.update(db, t, o)
	case dataaccess.Upsert:
		return s.upsert(db, t, o)
	case dataaccess.Delete:
		return s.delete(db, t, o)
	}
	return dataaccess.Result{}, fmt.Errorf("%w: %T", ErrUnsupportedOperation, op)
}

// Transaction runs fn with a Store bound to a single database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx dataaccess.Executor) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

func (s *Store) create(db *gorm.DB, t *table, o dataaccess.Create) (dataaccess.Result, error) {
	var out dataaccess.Result
	err := db.Transaction(func(tx *gorm.DB) error {
		id, err := insert(tx, t, o.Data)
		if err != nil {
			return err
		}
		out, err = byIDs(tx, t, id)
		return err
	})
	return out, err
}

func (s *Store) createMany(db *gorm.DB, t *table, o dataaccess.CreateMany) (dataaccess.Result, error) {
	if len(o.Data) == 0 {
		return dataaccess.Result{}, nil
	}
	rows := make([]map[string]any, 0, len(o.Data))
	ids := make([]any, 0, len(o.Data))
	for _, d := range o.Data {
		values, err := t.values(d)
		if err != nil {
			return dataaccess.Result{}, err
		}
		ids = append(ids, fillID(t, values))
		fillTimestamps(db, t, values)
		rows = append(rows, values)
	}

	var out dataaccess.Result
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(t.model()).Create(rows)
		if res.Error != nil {
			return res.Error
		}
		if !o.Return {
			out.Count = res.RowsAffected
			return nil
		}
		var err error
		out, err = byIDs(tx, t, ids...)
		return err
	})
	return out, err
}

func (s *Store) find(db *gorm.DB, t *table, o dataaccess.Find) (dataaccess.Result, error) {
	q, err := scoped(db.Model(t.model()), t, o.Where)
	if err != nil {
		return dataaccess.Result{}, err
	}

	if o.Kind() == dataaccess.KindCount {
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return dataaccess.Result{}, err
		}
		return dataaccess.Result{Count: n}, nil
	}

	if len(o.Select) > 0 {
		cols := make([]string, 0, len(o.Select))
		for _, f := range o.Select {
			col, err := t.column(f)
			if err != nil {
				return dataaccess.Result{}, err
			}
			cols = append(cols, col)
		}
		q = q.Select(cols)
	}
	for _, ord := range o.OrderBy {
		col, err := t.column(ord.Field)
		if err != nil {
			return dataaccess.Result{}, err
		}
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: col}, Desc: ord.Desc})
	}
	switch o.Kind() {
	case dataaccess.KindFindUnique, dataaccess.KindFindFirst:
		q = q.Limit(1)
	default:
		if o.Take > 0 {
			q = q.Limit(o.Take)
		}
		if o.Skip > 0 {
			q = q.Offset(o.Skip)
		}
	}

	var rows []map[string]any
	if err := q.Find(&rows).Error; err != nil {
		return dataaccess.Result{}, err
	}
	return result(t, rows), nil
}

func (s *Store) update(db *gorm.DB, t *table, o dataaccess.Update) (dataaccess.Result, error) {
	values, err := t.values(o.Data)
	if err != nil {
		return dataaccess.Result{}, err
	}

	if o.Many {
		q, err := scoped(db.Model(t.model()), t, o.Where)
		if err != nil {
			return dataaccess.Result{}, err
		}
		res := q.Updates(values)
		return dataaccess.Result{Count: res.RowsAffected}, res.Error
	}

	var out dataaccess.Result
	err = db.Transaction(func(tx *gorm.DB) error {
		id, err := firstID(tx, t, o.Where)
		if err != nil {
			return err
		}
		if err := updateByID(tx, t, id, values); err != nil {
			return err
		}
		out, err = byIDs(tx, t, id)
		return err
	})
	return out, err
}

func (s *Store) upsert(db *gorm.DB, t *table, o dataaccess.Upsert) (dataaccess.Result, error) {
	values, err := t.values(o.Update)
	if err != nil {
		return dataaccess.Result{}, err
	}

	var out dataaccess.Result
	err = db.Transaction(func(tx *gorm.DB) error {
		id, err := firstID(tx, t, o.Where)
		switch {
		case errors.Is(err, ErrNotFound):
			if id, err = insert(tx, t, o.Create); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := updateByID(tx, t, id, values); err != nil {
				return err
			}
		}
		out, err = byIDs(tx, t, id)
		return err
	})
	return out, err
}

func (s *Store) delete(db *gorm.DB, t *table, o dataaccess.Delete) (dataaccess.Result, error) {
	if o.Many {
		q, err := scoped(db, t, o.Where)
		if err != nil {
			return dataaccess.Result{}, err
		}
		res := q.Delete(t.model())
		return dataaccess.Result{Count: res.RowsAffected}, res.Error
	}

	var out dataaccess.Result
	err := db.Transaction(func(tx *gorm.DB) error {
		id, err := firstID(tx, t, o.Where)
		if err != nil {
			return err
		}
		if out, err = byIDs(tx, t, id); err != nil {
			return err
		}
		return tx.Where(clause.Eq{Column: t.pkColumn(), Value: id}).Delete(t.model()).Error
	})
	return out, err
}

// scoped applies a predicate to q. An empty predicate adds no WHERE clause.
func scoped(q *gorm.DB, t *table, p dataaccess.Predicate) (*gorm.DB, error) {
	exprs, err := t.where(p)
	if err != nil {
		return nil, err
	}
	if len(exprs) == 0 {
		return q, nil
	}
	return q.Clauses(clause.Where{Exprs: exprs}), nil
}

// insert creates one row and returns its primary key, generating a UUID when a
// string key was not supplied.
func insert(tx *gorm.DB, t *table, d dataaccess.Data) (any, error) {
	values, err := t.values(d)
	if err != nil {
		return nil, err
	}
	id := fillID(t, values)
	fillTimestamps(tx, t, values)
	if err := tx.Model(t.model()).Create(values).Error; err != nil {
		return nil, err
	}
	return id, nil
}

func fillID(t *table, values map[string]any) any {
	id, ok := values[t.pk.DBName]
	if ok && id != nil && id != "" {
		return id
	}
	if t.pk.FieldType.Kind() == reflect.String {
		id = uuid.NewString()
		values[t.pk.DBName] = id
	}
	return id
}

// fillTimestamps sets autoCreateTime/autoUpdateTime columns, which GORM only
// fills itself for struct inserts.
func fillTimestamps(db *gorm.DB, t *table, values map[string]any) {
	now := db.NowFunc()
	for _, f := range t.schema.Fields {
		if f.DBName == "" || (f.AutoCreateTime == 0 && f.AutoUpdateTime == 0) {
			continue
		}
		if v, ok := values[f.DBName]; !ok || v == nil {
			values[f.DBName] = now
		}
	}
}

func firstID(tx *gorm.DB, t *table, p dataaccess.Predicate) (any, error) {
	q, err := scoped(tx.Model(t.model()), t, p)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := q.Select(t.pk.DBName).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, t.entity)
	}
	return rows[0][t.pk.DBName], nil
}

func updateByID(tx *gorm.DB, t *table, id any, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	return tx.Model(t.model()).Where(clause.Eq{Column: t.pkColumn(), Value: id}).Updates(values).Error
}

func byIDs(tx *gorm.DB, t *table, ids ...any) (dataaccess.Result, error) {
	var rows []map[string]any
	err := tx.Model(t.model()).
		Where(clause.IN{Column: t.pkColumn(), Values: ids}).
		Order(clause.OrderByColumn{Column: t.pkColumn()}).
		Find(&rows).Error
	if err != nil {
		return dataaccess.Result{}, err
	}
	return result(t, rows), nil
}

func result(t *table, rows []map[string]any) dataaccess.Result {
	out := dataaccess.Result{Records: make([]dataaccess.Record, 0, len(rows)), Count: int64(len(rows))}
	for _, row := range rows {
		out.Records = append(out.Records, t.record(row))
	}
	return out
}
