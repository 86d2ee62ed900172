package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"pcns-backend/internal/dataaccess"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

func enquiryData(id, status string) dataaccess.Data {
	return dataaccess.Data{
		"enquiryId":     id,
		"activityId":    "ACT" + id,
		"submittedAt":   time.Now().UTC(),
		"submittedBy":   "proponent",
		"enquiryStatus": status,
	}
}

func TestStore_CreateFillsKeyAndDefaults(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()

	res, err := s.Execute(ctx, dataaccess.Enquiry, dataaccess.Create{Data: dataaccess.Data{
		"activityId":  "A1",
		"submittedAt": time.Now().UTC(),
		"submittedBy": "proponent",
	}})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	rec := res.First()
	assert.NotEmpty(t, rec.String("enquiryId"))
	assert.Equal(t, "A1", rec.String("activityId"))
	assert.Equal(t, "New", rec.String("enquiryStatus"))
	assert.Equal(t, "PCNS", rec.String("submittedMethod"))
	assert.NotNil(t, rec["createdAt"])
	assert.Nil(t, rec["deletedAt"])
}

func TestStore_BooleansReadBackAsBool(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()

	d := enquiryData("1", "New")
	d["addedToATS"] = true
	_, err := s.Execute(ctx, dataaccess.Enquiry, dataaccess.Create{Data: d})
	require.NoError(t, err)
	_, err = s.Execute(ctx, dataaccess.Enquiry, dataaccess.Create{Data: enquiryData("2", "New")})
	require.NoError(t, err)

	res, err := s.Execute(ctx, dataaccess.Enquiry, dataaccess.Find{
		OrderBy: []dataaccess.Order{{Field: "enquiryId"}},
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, true, res.Records[0]["addedToATS"])
	assert.Equal(t, false, res.Records[1]["addedToATS"])
}

func TestStore_NullableColumnsReadBackAsValues(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()

	d := enquiryData("1", "New")
	d["contactEmail"] = "a@b.ca"
	d["atsClientId"] = 42
	created, err := s.Execute(ctx, dataaccess.Enquiry, dataaccess.Create{Data: d})
	require.NoError(t, err)
	assert.Equal(t, "a@b.ca", created.First().String("contactEmail"))

	res, err := s.Execute(ctx, dataaccess.Enquiry, dataaccess.Find{
		Op:    dataaccess.KindFindUnique,
		Where: dataaccess.Predicate{"enquiryId": "1"},
	})
	require.NoError(t, err)
	rec := res.First()
	require.NotNil(t, rec)
	assert.Equal(t, "a@b.ca", rec.String("contactEmail"))
	assert.IsType(t, "", rec["contactEmail"])
	assert.EqualValues(t, 42, rec["atsClientId"])
	assert.IsType(t, 0, rec["atsClientId"])
	assert.Nil(t, rec["atsEnquiryId"])
	assert.Nil(t, rec["deletedAt"])
}

func TestStore_FindPredicates(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()
	for _, d := range []dataaccess.Data{enquiryData("1", "New"), enquiryData("2", "Open"), enquiryData("3", "Closed")} {
		_, err := s.Execute(ctx, dataaccess.Enquiry, dataaccess.Create{Data: d})
		require.NoError(t, err)
	}

	res, err := s.Execute(ctx, dataaccess.Enquiry, dataaccess.Find{
		Where:   dataaccess.Predicate{"enquiryStatus": dataaccess.In("New", "Open")},
		OrderBy: []dataaccess.Order{{Field: "enquiryId", Desc: true}},
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "2", res.Records[0].String("enquiryId"))
	assert.Equal(t, "1", res.Records[1].String("enquiryId"))

	res, err = s.Execute(ctx, dataaccess.Enquiry, dataaccess.Find{Op: dataaccess.KindCount, Where: dataaccess.Predicate{"enquiryStatus": dataaccess.Not("Closed")}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Count)

	res, err = s.Execute(ctx, dataaccess.Enquiry, dataaccess.Find{Where: dataaccess.Predicate{"activityId": dataaccess.Contains("CT3")}})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "3", res.First().String("enquiryId"))

	res, err = s.Execute(ctx, dataaccess.Enquiry, dataaccess.Find{
		Select:  []string{"enquiryId"},
		OrderBy: []dataaccess.Order{{Field: "enquiryId"}},
		Take:    1,
		Skip:    1,
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, dataaccess.Record{"enquiryId": "2"}, res.First())
}

func TestStore_NilMatchesNull(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()
	_, err := s.Execute(ctx, dataaccess.Enquiry, dataaccess.Create{Data: enquiryData("1", "New")})
	require.NoError(t, err)
	deleted := enquiryData("2", "New")
	deleted["deletedAt"] = time.Now().UTC()
	_, err = s.Execute(ctx, dataaccess.Enquiry, dataaccess.Create{Data: deleted})
	require.NoError(t, err)

	res, err := s.Execute(ctx, dataaccess.Enquiry, dataaccess.Find{Where: dataaccess.Predicate{"deletedAt": nil}})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "1", res.First().String("enquiryId"))
}

func TestStore_UpdateSingle(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()
	_, err := s.Execute(ctx, dataaccess.Enquiry, dataaccess.Create{Data: enquiryData("1", "New")})
	require.NoError(t, err)

	res, err := s.Execute(ctx, dataaccess.Enquiry, dataaccess.Update{
		Where: dataaccess.Predicate{"enquiryId": "1"},
		Data:  dataaccess.Data{"enquiryStatus": "Closed"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Closed", res.First().String("enquiryStatus"))

	_, err = s.Execute(ctx, dataaccess.Enquiry, dataaccess.Update{
		Where: dataaccess.Predicate{"enquiryId": "missing"},
		Data:  dataaccess.Data{"enquiryStatus": "Closed"},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UpdateManyAndDeleteMany(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()
	_, err := s.Execute(ctx, dataaccess.Enquiry, dataaccess.CreateMany{Data: []dataaccess.Data{
		enquiryData("1", "New"), enquiryData("2", "New"), enquiryData("3", "Open"),
	}})
	require.NoError(t, err)

	res, err := s.Execute(ctx, dataaccess.Enquiry, dataaccess.Update{
		Where: dataaccess.Predicate{"enquiryStatus": "New"},
		Data:  dataaccess.Data{"intakeStatus": "Submitted"},
		Many:  true,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Count)

	res, err = s.Execute(ctx, dataaccess.Enquiry, dataaccess.Delete{
		Where: dataaccess.Predicate{"intakeStatus": "Submitted"},
		Many:  true,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Count)

	res, err = s.Execute(ctx, dataaccess.Enquiry, dataaccess.Find{Op: dataaccess.KindCount})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Count)
}

func TestStore_CreateManyAndReturn(t *testing.T) {
	s := NewStore(newTestDB(t))
	res, err := s.Execute(context.Background(), dataaccess.Enquiry, dataaccess.CreateMany{
		Data:   []dataaccess.Data{enquiryData("1", "New"), enquiryData("2", "New")},
		Return: true,
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "1", res.Records[0].String("enquiryId"))
	assert.Equal(t, "2", res.Records[1].String("enquiryId"))
}

func TestStore_Upsert(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()
	where := dataaccess.Predicate{"housingProjectId": "H1"}
	create := dataaccess.Data{
		"housingProjectId": "H1",
		"activityId":       "A1",
		"projectName":      "Row Houses",
		"submittedAt":      time.Now().UTC(),
		"submittedBy":      "proponent",
	}

	res, err := s.Execute(ctx, dataaccess.HousingProject, dataaccess.Upsert{Where: where, Create: create, Update: dataaccess.Data{"projectName": "ignored"}})
	require.NoError(t, err)
	assert.Equal(t, "Row Houses", res.First().String("projectName"))

	res, err = s.Execute(ctx, dataaccess.HousingProject, dataaccess.Upsert{Where: where, Create: create, Update: dataaccess.Data{"projectName": "Townhomes"}})
	require.NoError(t, err)
	assert.Equal(t, "Townhomes", res.First().String("projectName"))

	res, err = s.Execute(ctx, dataaccess.HousingProject, dataaccess.Find{Op: dataaccess.KindCount})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Count)
}

func TestStore_DeleteReturnsRow(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()
	_, err := s.Execute(ctx, dataaccess.Enquiry, dataaccess.Create{Data: enquiryData("1", "New")})
	require.NoError(t, err)

	res, err := s.Execute(ctx, dataaccess.Enquiry, dataaccess.Delete{Where: dataaccess.Predicate{"enquiryId": "1"}})
	require.NoError(t, err)
	assert.Equal(t, "1", res.First().String("enquiryId"))

	_, err = s.Execute(ctx, dataaccess.Enquiry, dataaccess.Delete{Where: dataaccess.Predicate{"enquiryId": "1"}})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UnknownFieldAndEntity(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()

	_, err := s.Execute(ctx, dataaccess.HousingProject, dataaccess.Create{Data: dataaccess.Data{"projectId": "X"}})
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = s.Execute(ctx, dataaccess.Enquiry, dataaccess.Find{Where: dataaccess.Predicate{"nope": 1}})
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = s.Execute(ctx, dataaccess.Entity("ghost"), dataaccess.Find{})
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx dataaccess.Executor) error {
		if _, err := tx.Execute(ctx, dataaccess.Enquiry, dataaccess.Create{Data: enquiryData("1", "New")}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	res, err := s.Execute(ctx, dataaccess.Enquiry, dataaccess.Find{Op: dataaccess.KindCount})
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Count)
}

func TestChainOverStore_HidesSoftDeletedRows(t *testing.T) {
	c := dataaccess.NewDefaultChain(NewStore(newTestDB(t)))
	ctx := context.Background()
	_, err := c.Execute(ctx, dataaccess.Enquiry, dataaccess.Create{Data: enquiryData("123", "New")})
	require.NoError(t, err)

	_, err = c.Execute(ctx, dataaccess.Enquiry, dataaccess.Update{
		Where: dataaccess.Predicate{"enquiryId": "123"},
		Data:  dataaccess.Data{"deletedAt": time.Now().UTC()},
	})
	require.NoError(t, err)

	res, err := c.Execute(ctx, dataaccess.Enquiry, dataaccess.Find{Where: dataaccess.Predicate{"enquiryId": "123"}})
	require.NoError(t, err)
	assert.Empty(t, res.Records)

	_, err = c.Execute(ctx, dataaccess.Enquiry, dataaccess.Update{
		Where: dataaccess.Predicate{"enquiryId": "123"},
		Data:  dataaccess.Data{"enquiryStatus": "Closed"},
	})
	assert.ErrorIs(t, err, ErrNotFound)

	res, err = c.Execute(ctx, dataaccess.Enquiry, dataaccess.Find{Where: dataaccess.Predicate{"deletedAt": dataaccess.Not(nil)}})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

func TestChainOverStore_ProjectIDRoundTrip(t *testing.T) {
	c := dataaccess.NewDefaultChain(NewStore(newTestDB(t)))
	ctx := context.Background()

	res, err := c.Execute(ctx, dataaccess.ElectrificationProject, dataaccess.Upsert{
		Where: dataaccess.Predicate{"electrificationProjectId": "E1"},
		Create: dataaccess.Data{
			"electrificationProjectId": "E1",
			"projectId":                "ignored",
			"activityId":               "A1",
			"projectName":              "Solar Farm",
			"submittedAt":              time.Now().UTC(),
			"submittedBy":              "proponent",
		},
		Update: dataaccess.Data{"projectId": "ignored2", "applicationStatus": "In Progress"},
	})
	require.NoError(t, err)
	assert.Equal(t, "E1", res.First()["projectId"])
	assert.Equal(t, "Solar Farm", res.First().String("projectName"))

	res, err = c.Execute(ctx, dataaccess.ElectrificationProject, dataaccess.Find{
		Op:     dataaccess.KindFindFirst,
		Where:  dataaccess.Predicate{"electrificationProjectId": "E1"},
		Select: []string{"projectId", "projectName"},
	})
	require.NoError(t, err)
	assert.Equal(t, dataaccess.Record{"projectId": "E1", "projectName": "Solar Farm"}, res.First())
}
