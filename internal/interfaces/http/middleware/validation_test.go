package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/filterdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clientForm struct {
	Name  string `json:"name" binding:"required,min=2"`
	CNPJ  string `json:"cnpj" binding:"omitempty,cnpj"`
	State string `json:"state" binding:"omitempty,uf"`
	Email string `json:"email" binding:"omitempty,email"`
}

func newValidationRouter(t *testing.T) *gin.Engine {
	t.Helper()
	require.NoError(t, SetupValidator())

	router := gin.New()
	router.Use(RequestID(nil))
	router.POST("/clients", func(c *gin.Context) {
		var form clientForm
		if err := c.ShouldBindJSON(&form); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	})
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSetupValidator_ClientForm(t *testing.T) {
	router := newValidationRouter(t)

	t.Run("valid form", func(t *testing.T) {
		w := postJSON(router, `{"name":"Auto Peças Central","cnpj":"12.345.678/0001-95","state":"sp"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("CPF is accepted as document", func(t *testing.T) {
		w := postJSON(router, `{"name":"Oficina do João","cnpj":"123.456.789-09"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("field errors use JSON names", func(t *testing.T) {
		w := postJSON(router, `{"name":"A","cnpj":"12.345","state":"XX","email":"nope"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Must be at least 2 characters", fields["name"])
		assert.Equal(t, "Must be a CNPJ (14 digits) or CPF (11 digits)", fields["cnpj"])
		assert.Equal(t, "Must be a Brazilian state abbreviation", fields["state"])
		assert.Equal(t, "Invalid email format", fields["email"])
	})

	t.Run("malformed JSON has no details", func(t *testing.T) {
		w := postJSON(router, `{"name":`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Error.Details)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type sample struct {
		Required string `validate:"required"`
		Min      string `validate:"min=5"`
		Qty      int    `validate:"gte=1"`
		Role     string `validate:"oneof=admin representative"`
		ID       string `validate:"uuid"`
	}

	v := validator.New()
	require.NoError(t, RegisterValidations(v))

	err := v.Struct(sample{Min: "abc", Role: "owner", ID: "x"})
	require.Error(t, err)

	messages := map[string]string{}
	for _, e := range err.(validator.ValidationErrors) {
		messages[e.StructField()] = getValidationMessage(e)
	}
	assert.Equal(t, "This field is required", messages["Required"])
	assert.Equal(t, "Must be at least 5 characters", messages["Min"])
	assert.Equal(t, "Must be greater than or equal to 1", messages["Qty"])
	assert.Equal(t, "Must be one of: admin representative", messages["Role"])
	assert.Equal(t, "Invalid UUID format", messages["ID"])
}
