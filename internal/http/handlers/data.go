package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/hongminglow/medplat-be/internal/archive"
	"github.com/hongminglow/medplat-be/internal/http/respond"
	"github.com/hongminglow/medplat-be/internal/ingest"
	"github.com/hongminglow/medplat-be/internal/metrics"
	"github.com/hongminglow/medplat-be/internal/models/dto"
	"github.com/hongminglow/medplat-be/internal/storage"
)

// DataHandler accepts CSV/JSON uploads and serves the stored records.
type DataHandler struct {
	records    storage.RecordStore
	archiver   archive.Archiver
	collection string
	maxBytes   int64
	metrics    *metrics.Metrics
	logger     logrus.FieldLogger
}

// NewDataHandler constructs the handler. Uploads larger than maxBytes are rejected.
func NewDataHandler(records storage.RecordStore, archiver archive.Archiver, collection string, maxBytes int64, m *metrics.Metrics, logger logrus.FieldLogger) *DataHandler {
	return &DataHandler{
		records:    records,
		archiver:   archiver,
		collection: collection,
		maxBytes:   maxBytes,
		metrics:    m,
		logger:     logger,
	}
}

// Register attaches the upload and data routes. Both are public.
func (h *DataHandler) Register(r *mux.Router) {
	r.HandleFunc("/upload-data", h.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/dashboard-data", h.handleDashboardData).Methods(http.MethodGet)
}

func (h *DataHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxBytes {
		respond.Error(w, http.StatusRequestEntityTooLarge, "File too large.")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(w, http.StatusRequestEntityTooLarge, "File too large.")
			return
		}
		respond.Error(w, http.StatusBadRequest, "A file field named 'file' is required.")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	records, err := ingest.Parse(header.Filename, content)
	switch {
	case errors.Is(err, ingest.ErrUnsupportedType):
		respond.Error(w, http.StatusBadRequest, "Unsupported file type. Upload CSV or JSON.")
		return
	case errors.Is(err, ingest.ErrNoData):
		respond.Error(w, http.StatusBadRequest, "No data found in file.")
		return
	case err != nil:
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	key, err := h.archiver.Archive(r.Context(), header.Filename, content)
	if err != nil {
		h.logger.WithError(err).WithField("filename", header.Filename).Error("archive upload")
		respond.Error(w, http.StatusBadGateway, "failed to archive upload")
		return
	}

	inserted, err := h.records.InsertRecords(r.Context(), h.collection, records)
	if err != nil {
		h.logger.WithError(err).Error("insert records")
		respond.Error(w, http.StatusInternalServerError, "failed to store records")
		return
	}
	h.metrics.RecordsInsertedTotal.Add(float64(inserted))
	h.logger.WithFields(logrus.Fields{
		"filename":    header.Filename,
		"inserted":    inserted,
		"archive_key": key,
	}).Info("upload stored")
	respond.JSON(w, http.StatusOK, dto.UploadResponse{InsertedCount: inserted})
}

func (h *DataHandler) handleDashboardData(w http.ResponseWriter, r *http.Request) {
	records, err := h.records.ListRecords(r.Context(), h.collection, 0)
	if err != nil {
		h.logger.WithError(err).Error("list records")
		respond.Error(w, http.StatusInternalServerError, "failed to load data")
		return
	}
	respond.JSON(w, http.StatusOK, dto.DataResponse{Data: records})
}
