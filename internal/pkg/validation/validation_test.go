package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("navigator@gov.bc.ca"))
	assert.False(t, IsValidEmail("navigator@"))
	assert.False(t, IsValidEmail("a b@c.d"))
}

func TestIsValidBCHydroNumber(t *testing.T) {
	assert.True(t, IsValidBCHydroNumber("123456789012"))
	assert.False(t, IsValidBCHydroNumber("12345"))
}

func TestCoordinates(t *testing.T) {
	assert.True(t, IsValidLatitude(48.4))
	assert.False(t, IsValidLatitude(91))
	assert.True(t, IsValidLongitude(-123.3))
	assert.False(t, IsValidLongitude(-181))
}

func TestMissingFields(t *testing.T) {
	data := map[string]any{"projectName": "Row Houses", "submittedBy": " ", "activityId": nil}
	assert.Equal(t, []string{"submittedBy", "activityId", "locality"},
		MissingFields(data, "projectName", "submittedBy", "activityId", "locality"))
	assert.Empty(t, MissingFields(data, "projectName"))
}

func TestParseTime(t *testing.T) {
	ts, ok := ParseTime("2024-03-01T10:00:00Z")
	assert.True(t, ok)
	assert.Equal(t, 2024, ts.Year())

	ts, ok = ParseTime("2024-03-01")
	assert.True(t, ok)
	assert.Equal(t, time.March, ts.Month())

	_, ok = ParseTime("yesterday")
	assert.False(t, ok)
	_, ok = ParseTime(42)
	assert.False(t, ok)
}

func TestNormalizeTimes(t *testing.T) {
	data := map[string]any{"submittedAt": "2024-03-01", "decisionDate": "soon", "bringForwardDate": nil}
	assert.Equal(t, []string{"decisionDate"}, NormalizeTimes(data, "submittedAt", "decisionDate", "bringForwardDate", "absent"))
	assert.IsType(t, time.Time{}, data["submittedAt"])
	assert.Nil(t, data["bringForwardDate"])
}
