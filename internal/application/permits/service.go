package permits

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pcns-backend/internal/application/activities"
	"pcns-backend/internal/dataaccess"
	"pcns-backend/internal/infrastructure/database"
	"pcns-backend/internal/pkg/constants"
	"pcns-backend/internal/pkg/validation"

	"github.com/google/uuid"
)

var dateFields = []string{"submittedDate", "decisionDate", "statusLastVerified"}

type Service struct {
	Data dataaccess.Session
}

// Create adds a permit to an existing activity.
func (s *Service) Create(ctx context.Context, in dataaccess.Data) (dataaccess.Record, error) {
	data := in.Without("permitId", "createdAt", "createdBy", "updatedAt")
	if missing := validation.MissingFields(data, "activityId", "permitTypeId"); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	if err := validate(data); err != nil {
		return nil, err
	}

	var out dataaccess.Record
	err := s.Data.Transaction(ctx, func(tx dataaccess.Executor) error {
		ok, err := activities.Exists(ctx, tx, fmt.Sprint(data["activityId"]))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: unknown activity %v", ErrValidation, data["activityId"])
		}
		data["permitId"] = uuid.NewString()
		res, err := tx.Execute(ctx, dataaccess.Permit, dataaccess.Create{Data: data})
		if err != nil {
			return err
		}
		out = res.First()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create permit: %w", storeError(err, ErrNotFound))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, permitID string) (dataaccess.Record, error) {
	res, err := s.Data.Execute(ctx, dataaccess.Permit, dataaccess.Find{
		Op:    dataaccess.KindFindUnique,
		Where: dataaccess.Predicate{"permitId": permitID},
	})
	if err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, ErrNotFound
	}
	return res.First(), nil
}

// List returns an activity's permits, most recently updated first.
func (s *Service) List(ctx context.Context, activityID string) ([]dataaccess.Record, error) {
	res, err := s.Data.Execute(ctx, dataaccess.Permit, dataaccess.Find{
		Where:   dataaccess.Predicate{"activityId": activityID},
		OrderBy: []dataaccess.Order{{Field: "updatedAt", Desc: true}},
	})
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

func (s *Service) Update(ctx context.Context, permitID string, in dataaccess.Data) (dataaccess.Record, error) {
	data := in.Without("permitId", "activityId", "createdAt", "createdBy", "updatedAt")
	if err := validate(data); err != nil {
		return nil, err
	}
	res, err := s.Data.Execute(ctx, dataaccess.Permit, dataaccess.Update{
		Where: dataaccess.Predicate{"permitId": permitID},
		Data:  data,
	})
	if err != nil {
		return nil, storeError(err, ErrNotFound)
	}
	return res.First(), nil
}

// AddNote records a status note on a permit.
func (s *Service) AddNote(ctx context.Context, permitID, note string) (dataaccess.Record, error) {
	if strings.TrimSpace(note) == "" {
		return nil, fmt.Errorf("%w: missing note", ErrValidation)
	}
	var out dataaccess.Record
	err := s.Data.Transaction(ctx, func(tx dataaccess.Executor) error {
		res, err := tx.Execute(ctx, dataaccess.Permit, dataaccess.Find{
			Op:    dataaccess.KindCount,
			Where: dataaccess.Predicate{"permitId": permitID},
		})
		if err != nil {
			return err
		}
		if res.Count == 0 {
			return ErrNotFound
		}
		created, err := tx.Execute(ctx, dataaccess.PermitNote, dataaccess.Create{Data: dataaccess.Data{
			"permitId": permitID,
			"note":     note,
		}})
		if err != nil {
			return err
		}
		out = created.First()
		return nil
	})
	if err != nil {
		return nil, storeError(err, ErrNotFound)
	}
	return out, nil
}

// ListNotes returns a permit's live notes, newest first.
func (s *Service) ListNotes(ctx context.Context, permitID string) ([]dataaccess.Record, error) {
	res, err := s.Data.Execute(ctx, dataaccess.PermitNote, dataaccess.Find{
		Where:   dataaccess.Predicate{"permitId": permitID},
		OrderBy: []dataaccess.Order{{Field: "createdAt", Desc: true}},
	})
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// DeleteNote soft-deletes a permit note.
func (s *Service) DeleteNote(ctx context.Context, noteID string) error {
	_, err := s.Data.Execute(ctx, dataaccess.PermitNote, dataaccess.Update{
		Where: dataaccess.Predicate{"permitNoteId": noteID},
		Data:  dataaccess.Data{"deletedAt": time.Now().UTC()},
	})
	return storeError(err, ErrNoteNotFound)
}

func validate(data dataaccess.Data) error {
	if invalid := validation.NormalizeTimes(data, dateFields...); len(invalid) > 0 {
		return fmt.Errorf("%w: invalid date %s", ErrValidation, strings.Join(invalid, ", "))
	}
	if v, ok := data["authStatus"].(string); ok && !constants.IsValidAuthStatus(v) {
		return fmt.Errorf("%w: unknown authStatus %q", ErrValidation, v)
	}
	if v, ok := data["permitTypeId"].(float64); ok {
		data["permitTypeId"] = int(v)
	}
	return nil
}

func storeError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrNotFound):
		return notFound
	case errors.Is(err, database.ErrUnknownField):
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return err
}
