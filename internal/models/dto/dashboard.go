package dto

import "github.com/hongminglow/medplat-be/internal/models"

type SaveDashboardRequest struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Widgets []models.Widget `json:"widgets"`
}

type DashboardResponse struct {
	Dashboard models.Dashboard `json:"dashboard"`
}

type DashboardsResponse struct {
	Dashboards []models.Dashboard `json:"dashboards"`
}
