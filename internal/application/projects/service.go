package projects

import (
	"context"
	"encoding/json"
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
	"gorm.io/datatypes"
)

// Service manages one project variant. Callers see the variant's ID under both its
// own name and the derived projectId.
type Service struct {
	Data       dataaccess.Session
	Variant    dataaccess.Entity
	Initiative string
	idField    string
}

type ListFilter struct {
	AssignedUserID    string
	ApplicationStatus string
	IntakeStatus      string
	Search            string
	Take              int
	Skip              int
}

func NewService(data dataaccess.Session, variant dataaccess.Entity) (*Service, error) {
	idField, ok := dataaccess.ProjectVariants()[variant]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, variant)
	}
	initiative := activities.InitiativeHousing
	if variant == dataaccess.ElectrificationProject {
		initiative = activities.InitiativeElectrification
	}
	return &Service{Data: data, Variant: variant, Initiative: initiative, idField: idField}, nil
}

// IDField is the variant's physical identifier, e.g. housingProjectId.
func (s *Service) IDField() string {
	return s.idField
}

// Create files a submitted project under a new activity.
func (s *Service) Create(ctx context.Context, in dataaccess.Data) (dataaccess.Record, error) {
	data := s.writable(in)
	if missing := validation.MissingFields(data, "projectName", "submittedBy"); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	if err := s.prepare(data); err != nil {
		return nil, err
	}
	if _, ok := data["submittedAt"]; !ok {
		data["submittedAt"] = time.Now().UTC()
	}
	if _, ok := data["intakeStatus"]; !ok {
		data["intakeStatus"] = constants.IntakeSubmitted
	}

	var out dataaccess.Record
	err := s.Data.Transaction(ctx, func(tx dataaccess.Executor) error {
		activityID, err := activities.Create(ctx, tx, s.Initiative)
		if err != nil {
			return err
		}
		data["activityId"] = activityID
		data[s.idField] = uuid.NewString()
		res, err := tx.Execute(ctx, s.Variant, dataaccess.Create{Data: data})
		if err != nil {
			return err
		}
		out = res.First()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", s.Variant, s.storeError(err))
	}
	return shape(out), nil
}

// SaveDraft creates or updates a draft. Without an ID, or with the ID of a project
// that no longer exists, a new draft and activity are created under a fresh ID.
func (s *Service) SaveDraft(ctx context.Context, in dataaccess.Data) (dataaccess.Record, error) {
	id, _ := in[s.idField].(string)
	if id == "" {
		id, _ = in[dataaccess.ProjectIDField].(string)
	}
	data := s.writable(in)
	if err := s.prepare(data); err != nil {
		return nil, err
	}

	var out dataaccess.Record
	err := s.Data.Transaction(ctx, func(tx dataaccess.Executor) error {
		create := data.Clone()
		where := dataaccess.Predicate{s.idField: id}

		existing, err := tx.Execute(ctx, s.Variant, dataaccess.Find{Op: dataaccess.KindFindUnique, Where: where, Select: []string{s.idField}})
		if err != nil {
			return err
		}
		if len(existing.Records) == 0 {
			// A soft-deleted row still holds the key.
			id = uuid.NewString()
			where = dataaccess.Predicate{s.idField: id}
			activityID, err := activities.Create(ctx, tx, s.Initiative)
			if err != nil {
				return err
			}
			create[s.idField] = id
			create["activityId"] = activityID
			create["intakeStatus"] = constants.IntakeDraft
			if _, ok := create["submittedAt"]; !ok {
				create["submittedAt"] = time.Now().UTC()
			}
			if _, ok := create["projectName"]; !ok {
				create["projectName"] = ""
			}
			if _, ok := create["submittedBy"]; !ok {
				create["submittedBy"] = ""
			}
		}

		res, err := tx.Execute(ctx, s.Variant, dataaccess.Upsert{Where: where, Create: create, Update: data})
		if err != nil {
			return err
		}
		out = res.First()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save %s draft: %w", s.Variant, s.storeError(err))
	}
	return shape(out), nil
}

func (s *Service) Get(ctx context.Context, id string) (dataaccess.Record, error) {
	res, err := s.Data.Execute(ctx, s.Variant, dataaccess.Find{
		Op:    dataaccess.KindFindUnique,
		Where: dataaccess.Predicate{s.idField: id},
	})
	if err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, ErrNotFound
	}
	return shape(res.First()), nil
}

// List returns a page of projects, newest first, and the total matching f.
func (s *Service) List(ctx context.Context, f ListFilter) ([]dataaccess.Record, int64, error) {
	where := dataaccess.Predicate{}
	if f.AssignedUserID != "" {
		where["assignedUserId"] = f.AssignedUserID
	}
	if f.ApplicationStatus != "" {
		where["applicationStatus"] = f.ApplicationStatus
	}
	if f.IntakeStatus != "" {
		where["intakeStatus"] = f.IntakeStatus
	}
	if f.Search != "" {
		where["projectName"] = dataaccess.Contains(f.Search)
	}

	count, err := s.Data.Execute(ctx, s.Variant, dataaccess.Find{Op: dataaccess.KindCount, Where: where})
	if err != nil {
		return nil, 0, err
	}
	res, err := s.Data.Execute(ctx, s.Variant, dataaccess.Find{
		Where:   where,
		OrderBy: []dataaccess.Order{{Field: "submittedAt", Desc: true}},
		Take:    f.Take,
		Skip:    f.Skip,
	})
	if err != nil {
		return nil, 0, err
	}
	for i, rec := range res.Records {
		res.Records[i] = shape(rec)
	}
	return res.Records, count.Count, nil
}

func (s *Service) Update(ctx context.Context, id string, in dataaccess.Data) (dataaccess.Record, error) {
	data := s.writable(in)
	if err := s.prepare(data); err != nil {
		return nil, err
	}
	return s.update(ctx, id, data)
}

// LinkATSClient records the project's client and enquiry references in ATS.
func (s *Service) LinkATSClient(ctx context.Context, id string, clientID int, atsEnquiryID string) (dataaccess.Record, error) {
	if clientID <= 0 {
		return nil, fmt.Errorf("%w: atsClientId must be positive", ErrValidation)
	}
	data := dataaccess.Data{"atsClientId": clientID, "addedToATS": true}
	if atsEnquiryID != "" {
		data["atsEnquiryId"] = atsEnquiryID
	}
	return s.update(ctx, id, data)
}

// Delete soft-deletes the project and its activity.
func (s *Service) Delete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	return s.Data.Transaction(ctx, func(tx dataaccess.Executor) error {
		res, err := tx.Execute(ctx, s.Variant, dataaccess.Update{
			Where: dataaccess.Predicate{s.idField: id},
			Data:  dataaccess.Data{"deletedAt": now},
		})
		if err != nil {
			return s.storeError(err)
		}
		return activities.SoftDelete(ctx, tx, res.First().String("activityId"), now)
	})
}

func (s *Service) update(ctx context.Context, id string, data dataaccess.Data) (dataaccess.Record, error) {
	res, err := s.Data.Execute(ctx, s.Variant, dataaccess.Update{
		Where: dataaccess.Predicate{s.idField: id},
		Data:  data,
	})
	if err != nil {
		return nil, s.storeError(err)
	}
	return shape(res.First()), nil
}

// writable drops the fields callers may not set. projectId is left for the chain to strip.
func (s *Service) writable(in dataaccess.Data) dataaccess.Data {
	return in.Without(s.idField, "activityId", "deletedAt", "createdAt", "createdBy", "updatedAt", "addedToATS", "atsClientId", "atsEnquiryId")
}

func (s *Service) prepare(data dataaccess.Data) error {
	if invalid := validation.NormalizeTimes(data, "submittedAt"); len(invalid) > 0 {
		return fmt.Errorf("%w: invalid date %s", ErrValidation, strings.Join(invalid, ", "))
	}
	if v, ok := data["applicationStatus"].(string); ok && !constants.IsValidApplicationStatus(v) {
		return fmt.Errorf("%w: unknown applicationStatus %q", ErrValidation, v)
	}
	if v, ok := data["intakeStatus"].(string); ok && !constants.IsValidIntakeStatus(v) {
		return fmt.Errorf("%w: unknown intakeStatus %q", ErrValidation, v)
	}
	if v, ok := data["latitude"].(float64); ok && !validation.IsValidLatitude(v) {
		return fmt.Errorf("%w: latitude out of range", ErrValidation)
	}
	if v, ok := data["longitude"].(float64); ok && !validation.IsValidLongitude(v) {
		return fmt.Errorf("%w: longitude out of range", ErrValidation)
	}
	if v, ok := data["bcHydroNumber"].(string); ok && v != "" && !validation.IsValidBCHydroNumber(v) {
		return fmt.Errorf("%w: bcHydroNumber must be 12 digits", ErrValidation)
	}
	if v, ok := data["geoJson"]; ok && v != nil {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%w: geoJson: %v", ErrValidation, err)
		}
		data["geoJson"] = datatypes.JSON(raw)
	}
	return nil
}

func (s *Service) storeError(err error) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, database.ErrUnknownField):
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return err
}

// shape decodes the stored geoJson column back into JSON.
func shape(rec dataaccess.Record) dataaccess.Record {
	if rec == nil {
		return nil
	}
	switch v := rec["geoJson"].(type) {
	case string:
		rec["geoJson"] = json.RawMessage(v)
	case []byte:
		rec["geoJson"] = json.RawMessage(v)
	}
	return rec
}
