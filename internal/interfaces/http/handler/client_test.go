package handler

import (
	"net/http"
	"testing"

	partnerapp "github.com/filterdesk/backend/internal/application/partner"
	"github.com/filterdesk/backend/internal/domain/partner"
	"github.com/filterdesk/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientHandler_Create(t *testing.T) {
	env := newTestEnv(t)

	t.Run("representative creates a client assigned to themself", func(t *testing.T) {
		w := env.do(env.rep, http.MethodPost, "/api/v1/clients", map[string]any{
			"name":  "Auto Peças Central",
			"cnpj":  "12.345.678/0001-95",
			"state": "SP",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var client partnerapp.ClientResponse
		decode(t, w, &client)
		assert.Equal(t, "Auto Peças Central", client.Name)
		require.NotNil(t, client.RepresentativeID)
		assert.Equal(t, env.rep.ID, *client.RepresentativeID)
	})

	t.Run("invalid state abbreviation is a validation error", func(t *testing.T) {
		w := env.do(env.admin, http.MethodPost, "/api/v1/clients", map[string]any{
			"name":  "Filtros do Sul",
			"state": "XX",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w, nil)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "state", resp.Error.Details[0].Field)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := env.do(env.admin, http.MethodPost, "/api/v1/clients", "not an object")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, errorCode(t, w))
	})

	t.Run("anonymous request", func(t *testing.T) {
		w := env.do(nil, http.MethodPost, "/api/v1/clients", map[string]any{"name": "X"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestClientHandler_RepresentativeScope(t *testing.T) {
	env := newTestEnv(t)
	own := env.seedClient("Auto Peças Central", "12.345.678/0001-95", env.rep)
	foreign := env.seedClient("Filtros do Sul", "98.765.432/0001-10", env.other)

	t.Run("list only shows own clients", func(t *testing.T) {
		w := env.do(env.rep, http.MethodGet, "/api/v1/clients", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var clients []partnerapp.ClientResponse
		resp := decode(t, w, &clients)
		require.Len(t, clients, 1)
		assert.Equal(t, own.ID, clients[0].ID)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(1), resp.Meta.Total)
	})

	t.Run("admin sees every client", func(t *testing.T) {
		w := env.do(env.admin, http.MethodGet, "/api/v1/clients", nil)
		var clients []partnerapp.ClientResponse
		decode(t, w, &clients)
		assert.Len(t, clients, 2)
	})

	t.Run("foreign client is forbidden", func(t *testing.T) {
		w := env.do(env.rep, http.MethodGet, "/api/v1/clients/"+foreign.ID.String(), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown client", func(t *testing.T) {
		w := env.do(env.admin, http.MethodGet, "/api/v1/clients/6f1c1d9e-9f51-4a49-8d5e-0a4d3b2c1f00", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := env.do(env.admin, http.MethodGet, "/api/v1/clients/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, errorCode(t, w))
	})
}

func TestClientHandler_Deactivate(t *testing.T) {
	env := newTestEnv(t)
	client := env.seedClient("Auto Peças Central", "", env.rep)

	w := env.do(env.admin, http.MethodPost, "/api/v1/clients/"+client.ID.String()+"/deactivate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(env.admin, http.MethodPost, "/api/v1/clients/"+client.ID.String()+"/deactivate", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ERR_ALREADY_DEACTIVATED", errorCode(t, w))
}

func TestClientHandler_HistoryAndNotes(t *testing.T) {
	env := newTestEnv(t)
	client := env.seedClient("Auto Peças Central", "", env.rep)
	path := "/api/v1/clients/" + client.ID.String() + "/history"

	w := env.do(env.rep, http.MethodPost, path, map[string]any{"description": "Pediu visita na próxima semana"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(env.rep, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []partnerapp.HistoryResponse
	decode(t, w, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, string(partner.HistoryNote), entries[0].Kind)
	assert.Equal(t, "Pediu visita na próxima semana", entries[0].Description)
}

func TestClientHandler_Stats(t *testing.T) {
	env := newTestEnv(t)
	env.seedClient("Auto Peças Central", "", env.rep)
	env.seedClient("Filtros do Sul", "", env.other)

	w := env.do(env.admin, http.MethodGet, "/api/v1/clients/stats", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var stats partner.ClientStats
	decode(t, w, &stats)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(2), stats.Active)

	w = env.do(env.rep, http.MethodGet, "/api/v1/clients/stats", nil)
	decode(t, w, &stats)
	assert.Equal(t, int64(1), stats.Total)
}
