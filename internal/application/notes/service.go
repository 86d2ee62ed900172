package notes

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

// NotesField holds a history's notes, newest first, in returned records.
const NotesField = "notes"

var serverOwned = []string{"noteHistoryId", "deletedAt", "createdAt", "createdBy", "updatedAt", NotesField}

type Service struct {
	Data dataaccess.Session
}

// CreateHistory opens a note history on an activity with its first note.
func (s *Service) CreateHistory(ctx context.Context, in dataaccess.Data, note string) (dataaccess.Record, error) {
	data := in.Without(serverOwned...)
	if missing := validation.MissingFields(data, "activityId", "title"); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	if strings.TrimSpace(note) == "" {
		return nil, fmt.Errorf("%w: missing note", ErrValidation)
	}
	if _, ok := data["type"]; !ok {
		data["type"] = constants.NoteGeneral
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
		data["noteHistoryId"] = uuid.NewString()
		res, err := tx.Execute(ctx, dataaccess.NoteHistory, dataaccess.Create{Data: data})
		if err != nil {
			return err
		}
		out = res.First()
		if _, err := addNote(ctx, tx, out.String("noteHistoryId"), note); err != nil {
			return err
		}
		return attachNotes(ctx, tx, []dataaccess.Record{out})
	})
	if err != nil {
		return nil, fmt.Errorf("create note history: %w", storeError(err))
	}
	return out, nil
}

// ListHistory returns an activity's note histories, newest first, each with its notes.
func (s *Service) ListHistory(ctx context.Context, activityID string) ([]dataaccess.Record, error) {
	res, err := s.Data.Execute(ctx, dataaccess.NoteHistory, dataaccess.Find{
		Where:   dataaccess.Predicate{"activityId": activityID},
		OrderBy: []dataaccess.Order{{Field: "createdAt", Desc: true}},
	})
	if err != nil {
		return nil, err
	}
	if err := attachNotes(ctx, s.Data, res.Records); err != nil {
		return nil, err
	}
	return res.Records, nil
}

// UpdateHistory changes a history's fields and appends note when it is not blank.
func (s *Service) UpdateHistory(ctx context.Context, historyID string, in dataaccess.Data, note string) (dataaccess.Record, error) {
	data := in.Without(serverOwned...).Without("activityId")
	if err := validate(data); err != nil {
		return nil, err
	}

	var out dataaccess.Record
	err := s.Data.Transaction(ctx, func(tx dataaccess.Executor) error {
		res, err := tx.Execute(ctx, dataaccess.NoteHistory, dataaccess.Update{
			Where: dataaccess.Predicate{"noteHistoryId": historyID},
			Data:  data,
		})
		if err != nil {
			return err
		}
		out = res.First()
		if strings.TrimSpace(note) != "" {
			if _, err := addNote(ctx, tx, historyID, note); err != nil {
				return err
			}
		}
		return attachNotes(ctx, tx, []dataaccess.Record{out})
	})
	if err != nil {
		return nil, storeError(err)
	}
	return out, nil
}

// AddNote appends a note to a live history.
func (s *Service) AddNote(ctx context.Context, historyID, note string) (dataaccess.Record, error) {
	if strings.TrimSpace(note) == "" {
		return nil, fmt.Errorf("%w: missing note", ErrValidation)
	}
	var out dataaccess.Record
	err := s.Data.Transaction(ctx, func(tx dataaccess.Executor) error {
		res, err := tx.Execute(ctx, dataaccess.NoteHistory, dataaccess.Find{
			Op:    dataaccess.KindCount,
			Where: dataaccess.Predicate{"noteHistoryId": historyID},
		})
		if err != nil {
			return err
		}
		if res.Count == 0 {
			return ErrNotFound
		}
		out, err = addNote(ctx, tx, historyID, note)
		return err
	})
	if err != nil {
		return nil, storeError(err)
	}
	return out, nil
}

// DeleteHistory soft-deletes a history. Its notes stay attached and become unreachable.
func (s *Service) DeleteHistory(ctx context.Context, historyID string) error {
	_, err := s.Data.Execute(ctx, dataaccess.NoteHistory, dataaccess.Update{
		Where: dataaccess.Predicate{"noteHistoryId": historyID},
		Data:  dataaccess.Data{"deletedAt": time.Now().UTC()},
	})
	return storeError(err)
}

func addNote(ctx context.Context, tx dataaccess.Executor, historyID, note string) (dataaccess.Record, error) {
	res, err := tx.Execute(ctx, dataaccess.Note, dataaccess.Create{Data: dataaccess.Data{
		"noteHistoryId": historyID,
		"note":          note,
	}})
	if err != nil {
		return nil, err
	}
	return res.First(), nil
}

// attachNotes loads the notes of every history in one query.
func attachNotes(ctx context.Context, db dataaccess.Executor, histories []dataaccess.Record) error {
	if len(histories) == 0 {
		return nil
	}
	ids := make([]any, 0, len(histories))
	byID := make(map[string]dataaccess.Record, len(histories))
	for _, h := range histories {
		id := h.String("noteHistoryId")
		ids = append(ids, id)
		byID[id] = h
		h[NotesField] = []dataaccess.Record{}
	}
	res, err := db.Execute(ctx, dataaccess.Note, dataaccess.Find{
		Where:   dataaccess.Predicate{"noteHistoryId": dataaccess.In(ids...)},
		OrderBy: []dataaccess.Order{{Field: "createdAt", Desc: true}, {Field: "noteId"}},
	})
	if err != nil {
		return err
	}
	for _, n := range res.Records {
		if h, ok := byID[n.String("noteHistoryId")]; ok {
			h[NotesField] = append(h[NotesField].([]dataaccess.Record), n)
		}
	}
	return nil
}

func validate(data dataaccess.Data) error {
	if invalid := validation.NormalizeTimes(data, "bringForwardDate"); len(invalid) > 0 {
		return fmt.Errorf("%w: invalid date %s", ErrValidation, strings.Join(invalid, ", "))
	}
	if v, ok := data["type"].(string); ok && !constants.IsValidNoteType(v) {
		return fmt.Errorf("%w: unknown type %q", ErrValidation, v)
	}
	return nil
}

func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, database.ErrUnknownField):
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return err
}
