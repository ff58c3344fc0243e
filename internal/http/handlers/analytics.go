package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/hongminglow/medplat-be/internal/http/respond"
	"github.com/hongminglow/medplat-be/internal/models"
	"github.com/hongminglow/medplat-be/internal/models/dto"
	"github.com/hongminglow/medplat-be/internal/stats"
	"github.com/hongminglow/medplat-be/internal/storage"
)

// AnalyticsHandler runs the statistics engine over the whole record collection.
type AnalyticsHandler struct {
	records    storage.RecordStore
	collection string
	logger     logrus.FieldLogger
}

// NewAnalyticsHandler constructs the handler over collection.
func NewAnalyticsHandler(records storage.RecordStore, collection string, logger logrus.FieldLogger) *AnalyticsHandler {
	return &AnalyticsHandler{records: records, collection: collection, logger: logger}
}

// Register attaches the statistics routes.
func (h *AnalyticsHandler) Register(r *mux.Router, protect Protect) {
	r.Handle("/anomaly", protect(http.HandlerFunc(h.handleAnomaly))).Methods(http.MethodPost)
	r.Handle("/forecast", protect(http.HandlerFunc(h.handleForecast))).Methods(http.MethodPost)
}

func (h *AnalyticsHandler) load(w http.ResponseWriter, r *http.Request) ([]models.Record, bool) {
	records, err := h.records.ListRecords(r.Context(), h.collection, 0)
	if err != nil {
		h.logger.WithError(err).Error("list records")
		respond.Error(w, http.StatusInternalServerError, "failed to load data")
		return nil, false
	}
	return records, true
}

func (h *AnalyticsHandler) handleAnomaly(w http.ResponseWriter, r *http.Request) {
	records, ok := h.load(w, r)
	if !ok {
		return
	}
	if len(records) == 0 {
		respond.JSON(w, http.StatusOK, dto.AnomalyResponse{Message: "No data", Anomalies: []stats.Anomaly{}})
		return
	}
	report, err := stats.DetectAnomalies(records)
	if err != nil {
		h.statsError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.AnomalyResponse{Anomaly: report.Anomaly, Anomalies: report.Anomalies})
}

func (h *AnalyticsHandler) handleForecast(w http.ResponseWriter, r *http.Request) {
	records, ok := h.load(w, r)
	if !ok {
		return
	}
	result, err := stats.Forecast(records)
	if err != nil {
		h.statsError(w, err)
		return
	}
	if len(result.Values) == 0 {
		respond.JSON(w, http.StatusOK, dto.ForecastResponse{Forecast: []float64{}})
		return
	}
	respond.JSON(w, http.StatusOK, dto.ForecastResponse{Field: result.Field, Forecast: result.Values})
}

func (h *AnalyticsHandler) statsError(w http.ResponseWriter, err error) {
	if errors.Is(err, stats.ErrNonNumeric) || errors.Is(err, stats.ErrNonFinite) {
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.logger.WithError(err).Error("compute statistics")
	respond.Error(w, http.StatusInternalServerError, "failed to compute statistics")
}
