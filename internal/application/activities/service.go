package activities

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pcns-backend/internal/dataaccess"

	"github.com/google/uuid"
)

// Initiative codes an activity can belong to.
const (
	InitiativeHousing         = "HOUSING"
	InitiativeElectrification = "ELECTRIFICATION"
)

// NewID returns an 8 character activity identifier.
func NewID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Create inserts a new activity for initiative and returns its ID.
func Create(ctx context.Context, db dataaccess.Executor, initiative string) (string, error) {
	id := NewID()
	_, err := db.Execute(ctx, dataaccess.Activity, dataaccess.Create{Data: dataaccess.Data{
		"activityId":   id,
		"initiativeId": initiative,
	}})
	if err != nil {
		return "", fmt.Errorf("create activity: %w", err)
	}
	return id, nil
}

// SoftDelete stamps deletedAt on the activity. Already deleted activities are left alone.
func SoftDelete(ctx context.Context, db dataaccess.Executor, activityID string, at time.Time) error {
	_, err := db.Execute(ctx, dataaccess.Activity, dataaccess.Update{
		Where: dataaccess.Predicate{"activityId": activityID},
		Data:  dataaccess.Data{"deletedAt": at},
		Many:  true,
	})
	if err != nil {
		return fmt.Errorf("delete activity %s: %w", activityID, err)
	}
	return nil
}

// Exists reports whether a live activity with the given ID exists.
func Exists(ctx context.Context, db dataaccess.Executor, activityID string) (bool, error) {
	res, err := db.Execute(ctx, dataaccess.Activity, dataaccess.Find{
		Op:    dataaccess.KindCount,
		Where: dataaccess.Predicate{"activityId": activityID},
	})
	if err != nil {
		return false, err
	}
	return res.Count > 0, nil
}
