package models_test

import (
	"testing"

	"vidmatch/backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

// TestUserBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestUserBeforeCreate_GeneratesUUID(t *testing.T) {
	// Arrange
	user := &models.User{
		Username:  "alice",
		Email:     "alice@example.com",
		Age:       25,
		Gender:    "Female",
		Location:  "US",
		Interests: pq.StringArray{"music", "travel"},
	}
	assert.Empty(t, user.ID, "User ID should be empty before BeforeCreate")

	// Act - Call the hook directly (GORM would call this automatically)
	err := user.BeforeCreate(nil)

	// Assert
	assert.NoError(t, err, "BeforeCreate should not return an error")
	assert.NotEmpty(t, user.ID, "User ID must be populated after BeforeCreate")

	parsedUUID, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr, "User ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsedUUID)
}

// TestUserBeforeCreate_PreservesExistingID verifies that the hook doesn't overwrite an existing ID.
func TestUserBeforeCreate_PreservesExistingID(t *testing.T) {
	existingID := uuid.New().String()
	user := &models.User{
		ID:       existingID,
		Username: "bob",
		Email:    "bob@example.com",
	}

	err := user.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, existingID, user.ID, "BeforeCreate should preserve existing ID")
}

// TestUserBeforeCreate_MultipleUsers verifies unique UUIDs are generated for multiple users.
func TestUserBeforeCreate_MultipleUsers(t *testing.T) {
	users := []*models.User{
		{Username: "a", Email: "a@example.com"},
		{Username: "b", Email: "b@example.com"},
		{Username: "c", Email: "c@example.com"},
	}

	generatedIDs := make(map[string]bool)
	for _, u := range users {
		err := u.BeforeCreate(nil)
		assert.NoError(t, err)
		assert.False(t, generatedIDs[u.ID], "each user must get a unique ID")
		generatedIDs[u.ID] = true
	}
}
