package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag/v2"
)

func TestSwaggerDoc(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths               map[string]map[string]json.RawMessage `json:"paths"`
		SecurityDefinitions map[string]struct {
			In   string `json:"in"`
			Name string `json:"name"`
		} `json:"securityDefinitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, SwaggerInfo.Title, doc.Info.Title)
	assert.Equal(t, "cookie", doc.SecurityDefinitions["SessionCookie"].In)
	assert.Equal(t, "fd_session", doc.SecurityDefinitions["SessionCookie"].Name)

	tests := []struct {
		path   string
		method string
	}{
		{"/auth/login", "post"},
		{"/clients/{id}/history", "get"},
		{"/clients/{id}/history", "post"},
		{"/orders/{id}", "delete"},
		{"/orders/{id}/pdf", "get"},
		{"/pricing/quote", "post"},
		{"/stats/dashboard", "get"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			require.Contains(t, doc.Paths, tt.path)
			assert.Contains(t, doc.Paths[tt.path], tt.method)
		})
	}
}
