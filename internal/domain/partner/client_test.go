package partner

import (
	"testing"

	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("normalizes fields", func(t *testing.T) {
		c, err := NewClient(ClientInfo{
			Code:    " C001 ",
			Name:    " Auto Peças Acme ",
			CNPJ:    "12345678000195",
			Email:   "Compras@Acme.com.br",
			State:   "sp",
			ZipCode: "01310100",
		})
		require.NoError(t, err)

		assert.Equal(t, "C001", c.Code)
		assert.Equal(t, "Auto Peças Acme", c.Name)
		assert.Equal(t, "12.345.678/0001-95", c.CNPJ)
		assert.Equal(t, "compras@acme.com.br", c.Email)
		assert.Equal(t, "SP", c.State)
		assert.Equal(t, "01310-100", c.ZipCode)
		assert.True(t, c.Active)
		assert.True(t, c.CNPJVerified())
	})

	t.Run("keeps CNPJ with bad check digits", func(t *testing.T) {
		c, err := NewClient(ClientInfo{Name: "Acme", CNPJ: "12.345.678/0001-90"})
		require.NoError(t, err)
		assert.Equal(t, "12.345.678/0001-90", c.CNPJ)
		assert.False(t, c.CNPJVerified())
	})

	tests := []struct {
		name string
		info ClientInfo
		code string
	}{
		{"empty name", ClientInfo{Name: "  "}, "INVALID_CLIENT_NAME"},
		{"short cnpj", ClientInfo{Name: "A", CNPJ: "123"}, "INVALID_CNPJ"},
		{"bad email", ClientInfo{Name: "A", Email: "nope"}, "INVALID_EMAIL"},
		{"bad state", ClientInfo{Name: "A", State: "XX"}, "INVALID_STATE"},
		{"bad zip", ClientInfo{Name: "A", ZipCode: "123"}, "INVALID_ZIP_CODE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.info)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.code, domainErr.Code)
		})
	}
}

func TestClientOwnershipAndActivation(t *testing.T) {
	c, err := NewClient(ClientInfo{Name: "Acme"})
	require.NoError(t, err)

	rep := uuid.New()
	assert.False(t, c.IsOwnedBy(rep))
	c.AssignRepresentative(&rep)
	assert.True(t, c.IsOwnedBy(rep))
	assert.False(t, c.IsOwnedBy(uuid.New()))

	require.NoError(t, c.Deactivate())
	assert.Error(t, c.Deactivate())
	require.NoError(t, c.Activate())
	assert.Error(t, c.Activate())
}

func TestNewClientHistory(t *testing.T) {
	orderID := uuid.New()
	h, err := NewClientHistory(uuid.New(), uuid.New(), HistoryOrderCreated, "Pedido PED-2026-00001 criado", &orderID)
	require.NoError(t, err)
	assert.Equal(t, HistoryOrderCreated, h.Kind)
	assert.Equal(t, &orderID, h.OrderID)
	assert.False(t, h.CreatedAt.IsZero())

	_, err = NewClientHistory(uuid.New(), uuid.New(), HistoryKind("call"), "x", nil)
	assert.Error(t, err)

	_, err = NewClientHistory(uuid.New(), uuid.New(), HistoryNote, "  ", nil)
	assert.Error(t, err)
}
