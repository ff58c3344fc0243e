package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/medplat-be/internal/models"
	"github.com/hongminglow/medplat-be/internal/models/dto"
)

func TestDashboards_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice", models.RoleUser)
	bob := env.seedUser(t, "bob", models.RoleUser)

	resp := env.do(jsonRequest(t, http.MethodPost, "/dashboards", alice, map[string]any{
		"name":    "Ward X",
		"widgets": []map[string]any{{"id": "w1", "type": "bar", "config": map[string]any{"field": "cases"}}},
	}))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	created := decode[dto.DashboardResponse](t, resp).Dashboard
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "alice", created.Owner)
	require.Len(t, created.Widgets, 1)
	assert.JSONEq(t, `{"field":"cases"}`, string(created.Widgets[0].Config))

	resp = env.do(jsonRequest(t, http.MethodPost, "/dashboards", alice, map[string]any{
		"id": created.ID, "name": "Ward X (v2)", "widgets": []any{},
	}))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Ward X (v2)", decode[dto.DashboardResponse](t, resp).Dashboard.Name)

	resp = env.do(jsonRequest(t, http.MethodPost, "/dashboards", bob, map[string]any{
		"id": created.ID, "name": "hijack", "widgets": []any{},
	}))
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = env.do(jsonRequest(t, http.MethodGet, "/dashboards", bob, nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"dashboards":[]}`, resp.Body.String())

	resp = env.do(jsonRequest(t, http.MethodDelete, "/dashboards/"+created.ID, bob, nil))
	require.Equal(t, http.StatusOK, resp.Code)
	resp = env.do(jsonRequest(t, http.MethodGet, "/dashboards", alice, nil))
	require.Len(t, decode[dto.DashboardsResponse](t, resp).Dashboards, 1)

	resp = env.do(jsonRequest(t, http.MethodDelete, "/dashboards/"+created.ID, alice, nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"deleted"}`, resp.Body.String())
	resp = env.do(jsonRequest(t, http.MethodGet, "/dashboards", alice, nil))
	assert.Empty(t, decode[dto.DashboardsResponse](t, resp).Dashboards)
}

func TestDashboards_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "alice", models.RoleUser)

	for _, body := range []map[string]any{
		{"name": "", "widgets": []any{}},
		{"name": "no widgets"},
		{"name": "null widgets", "widgets": nil},
		{"name": "bad widgets", "widgets": "bar"},
	} {
		resp := env.do(jsonRequest(t, http.MethodPost, "/dashboards", token, body))
		assert.Equal(t, http.StatusBadRequest, resp.Code, body)
	}
	assert.Equal(t, http.StatusUnauthorized, env.do(jsonRequest(t, http.MethodGet, "/dashboards", "", nil)).Code)
}
