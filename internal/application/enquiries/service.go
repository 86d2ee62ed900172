package enquiries

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

// serverOwned fields are never taken from callers.
var serverOwned = []string{"enquiryId", "activityId", "deletedAt", "createdAt", "createdBy", "updatedAt", "addedToATS", "atsClientId", "atsEnquiryId"}

type Service struct {
	Data       dataaccess.Session
	Initiative string
}

// ListFilter narrows List. Empty fields are ignored.
type ListFilter struct {
	AssignedUserID string
	Status         string
	Search         string
	Take           int
	Skip           int
}

// Create opens a new activity and files the enquiry under it in one transaction.
func (s *Service) Create(ctx context.Context, in dataaccess.Data) (dataaccess.Record, error) {
	data := in.Without(serverOwned...)
	if missing := validation.MissingFields(data, "submittedBy"); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	if err := validate(data); err != nil {
		return nil, err
	}
	if _, ok := data["submittedAt"]; !ok {
		data["submittedAt"] = time.Now().UTC()
	}
	if _, ok := data["enquiryStatus"]; !ok {
		data["enquiryStatus"] = constants.StatusNew
	}
	if _, ok := data["intakeStatus"]; !ok {
		data["intakeStatus"] = constants.IntakeSubmitted
	}

	initiative := s.Initiative
	if initiative == "" {
		initiative = activities.InitiativeHousing
	}

	var out dataaccess.Record
	err := s.Data.Transaction(ctx, func(tx dataaccess.Executor) error {
		activityID, err := activities.Create(ctx, tx, initiative)
		if err != nil {
			return err
		}
		data["activityId"] = activityID
		data["enquiryId"] = uuid.NewString()
		res, err := tx.Execute(ctx, dataaccess.Enquiry, dataaccess.Create{Data: data})
		if err != nil {
			return err
		}
		out = res.First()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create enquiry: %w", storeError(err))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, enquiryID string) (dataaccess.Record, error) {
	res, err := s.Data.Execute(ctx, dataaccess.Enquiry, dataaccess.Find{
		Op:    dataaccess.KindFindUnique,
		Where: dataaccess.Predicate{"enquiryId": enquiryID},
	})
	if err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, ErrNotFound
	}
	return res.First(), nil
}

// List returns a page of enquiries, newest first, and the total number matching f.
func (s *Service) List(ctx context.Context, f ListFilter) ([]dataaccess.Record, int64, error) {
	where := dataaccess.Predicate{}
	if f.AssignedUserID != "" {
		where["assignedUserId"] = f.AssignedUserID
	}
	if f.Status != "" {
		where["enquiryStatus"] = f.Status
	}
	if f.Search != "" {
		where["enquiryDescription"] = dataaccess.Contains(f.Search)
	}

	count, err := s.Data.Execute(ctx, dataaccess.Enquiry, dataaccess.Find{Op: dataaccess.KindCount, Where: where})
	if err != nil {
		return nil, 0, err
	}
	res, err := s.Data.Execute(ctx, dataaccess.Enquiry, dataaccess.Find{
		Where:   where,
		OrderBy: []dataaccess.Order{{Field: "submittedAt", Desc: true}},
		Take:    f.Take,
		Skip:    f.Skip,
	})
	if err != nil {
		return nil, 0, err
	}
	return res.Records, count.Count, nil
}

func (s *Service) Update(ctx context.Context, enquiryID string, in dataaccess.Data) (dataaccess.Record, error) {
	data := in.Without(serverOwned...)
	if err := validate(data); err != nil {
		return nil, err
	}
	return s.update(ctx, enquiryID, data)
}

// LinkATSClient records the enquiry's client and enquiry references in ATS.
func (s *Service) LinkATSClient(ctx context.Context, enquiryID string, clientID int, atsEnquiryID string) (dataaccess.Record, error) {
	if clientID <= 0 {
		return nil, fmt.Errorf("%w: atsClientId must be positive", ErrValidation)
	}
	data := dataaccess.Data{"atsClientId": clientID, "addedToATS": true}
	if atsEnquiryID != "" {
		data["atsEnquiryId"] = atsEnquiryID
	}
	return s.update(ctx, enquiryID, data)
}

// Delete soft-deletes the enquiry and its activity.
func (s *Service) Delete(ctx context.Context, enquiryID string) error {
	now := time.Now().UTC()
	return s.Data.Transaction(ctx, func(tx dataaccess.Executor) error {
		res, err := tx.Execute(ctx, dataaccess.Enquiry, dataaccess.Update{
			Where: dataaccess.Predicate{"enquiryId": enquiryID},
			Data:  dataaccess.Data{"deletedAt": now},
		})
		if err != nil {
			return storeError(err)
		}
		return activities.SoftDelete(ctx, tx, res.First().String("activityId"), now)
	})
}

func (s *Service) update(ctx context.Context, enquiryID string, data dataaccess.Data) (dataaccess.Record, error) {
	res, err := s.Data.Execute(ctx, dataaccess.Enquiry, dataaccess.Update{
		Where: dataaccess.Predicate{"enquiryId": enquiryID},
		Data:  data,
	})
	if err != nil {
		return nil, storeError(err)
	}
	return res.First(), nil
}

func validate(data dataaccess.Data) error {
	if invalid := validation.NormalizeTimes(data, "submittedAt"); len(invalid) > 0 {
		return fmt.Errorf("%w: invalid date %s", ErrValidation, strings.Join(invalid, ", "))
	}
	if v, ok := data["contactEmail"].(string); ok && v != "" && !validation.IsValidEmail(v) {
		return fmt.Errorf("%w: invalid contactEmail", ErrValidation)
	}
	if v, ok := data["enquiryStatus"].(string); ok && !constants.IsValidApplicationStatus(v) {
		return fmt.Errorf("%w: unknown enquiryStatus %q", ErrValidation, v)
	}
	if v, ok := data["intakeStatus"].(string); ok && !constants.IsValidIntakeStatus(v) {
		return fmt.Errorf("%w: unknown intakeStatus %q", ErrValidation, v)
	}
	return nil
}

// storeError maps store failures onto this package's errors.
func storeError(err error) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, database.ErrUnknownField):
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return err
}
