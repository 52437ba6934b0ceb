package bulk

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImportHistory(t *testing.T) {
	userID := uuid.New()

	t.Run("valid", func(t *testing.T) {
		h, err := NewImportHistory(ImportEntityClients, "clientes.csv", 12, userID)
		require.NoError(t, err)
		assert.Equal(t, ImportEntityClients, h.EntityType)
		assert.Equal(t, 12, h.TotalRows)
		assert.Equal(t, userID, h.ImportedBy)
		assert.Empty(t, h.Status)
	})

	t.Run("invalid entity", func(t *testing.T) {
		_, err := NewImportHistory(ImportEntityType("suppliers"), "x.csv", 1, userID)
		assert.Error(t, err)
	})

	t.Run("empty file name", func(t *testing.T) {
		_, err := NewImportHistory(ImportEntityProducts, "", 1, userID)
		assert.Error(t, err)
	})
}

func TestImportHistoryOutcome(t *testing.T) {
	h, err := NewImportHistory(ImportEntityProducts, "catalogo.xlsx", 3, uuid.New())
	require.NoError(t, err)

	h.Complete(3)
	assert.Equal(t, ImportStatusCompleted, h.Status)
	assert.Equal(t, 3, h.CreatedRows)
	assert.NotNil(t, h.CompletedAt)

	h.Fail("duplicate key")
	assert.Equal(t, ImportStatusFailed, h.Status)
	assert.Equal(t, 0, h.CreatedRows)
	assert.Equal(t, "duplicate key", h.ErrorMessage)
}
