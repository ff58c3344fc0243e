package dto

import (
	"github.com/hongminglow/medplat-be/internal/models"
	"github.com/hongminglow/medplat-be/internal/stats"
)

type AnomalyResponse struct {
	Anomaly   bool            `json:"anomaly"`
	Message   string          `json:"message,omitempty"`
	Anomalies []stats.Anomaly `json:"anomalies"`
}

type ForecastResponse struct {
	Field    string    `json:"field,omitempty"`
	Forecast []float64 `json:"forecast"`
}

type DataResponse struct {
	Data []models.Record `json:"data"`
}

type UploadResponse struct {
	InsertedCount int `json:"inserted_count"`
}
