package database

import (
	"fmt"
	"strings"

	"pcns-backend/internal/dataaccess"

	"gorm.io/gorm"
)

// DeletedAtColumn is the physical column behind dataaccess.DeletedAtField.
const DeletedAtColumn = "deleted_at"

// CheckSoftDeleteCoverage verifies that the entities registered with the soft-delete
// filter are exactly the models carrying a deleted_at column, and that every project
// variant exposes its identifier field.
func CheckSoftDeleteCoverage(db *gorm.DB, filter *dataaccess.SoftDeleteFilter) error {
	var problems []string
	for _, e := range dataaccess.Entities() {
		t, err := parseTable(db, e)
		if err != nil {
			return err
		}
		_, hasColumn := t.fields[DeletedAtColumn]
		registered := filter.Applies(e)
		switch {
		case hasColumn && !registered:
			problems = append(problems, fmt.Sprintf("%s has %s but is not filtered", e, DeletedAtColumn))
		case !hasColumn && registered:
			problems = append(problems, fmt.Sprintf("%s is filtered but has no %s", e, DeletedAtColumn))
		}
	}
	for e, idField := range dataaccess.ProjectVariants() {
		t, err := parseTable(db, e)
		if err != nil {
			return err
		}
		if _, ok := t.columns[idField]; !ok {
			problems = append(problems, fmt.Sprintf("%s has no %s", e, idField))
		}
		if _, ok := t.columns[dataaccess.ProjectIDField]; ok {
			problems = append(problems, fmt.Sprintf("%s stores %s", e, dataaccess.ProjectIDField))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrSoftDeleteCoverage, strings.Join(problems, "; "))
	}
	return nil
}
