package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusSets(t *testing.T) {
	assert.True(t, IsValidIntakeStatus("Draft"))
	assert.False(t, IsValidIntakeStatus("draft"))
	assert.True(t, IsValidApplicationStatus(StatusInProgress))
	assert.False(t, IsValidApplicationStatus(""))
	assert.True(t, IsValidNoteType(NoteBringForward))
	assert.True(t, IsValidAuthStatus(AuthIssued))
	assert.False(t, IsValidAuthStatus("Approved"))
}
