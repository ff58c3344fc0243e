package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/hongminglow/medplat-be/internal/http/respond"
	"github.com/hongminglow/medplat-be/internal/models"
	"github.com/hongminglow/medplat-be/internal/models/dto"
	"github.com/hongminglow/medplat-be/internal/storage"
)

// DashboardsHandler manages the caller's saved dashboards.
type DashboardsHandler struct {
	dashboards storage.DashboardStore
	logger     logrus.FieldLogger
}

// NewDashboardsHandler constructs the handler.
func NewDashboardsHandler(dashboards storage.DashboardStore, logger logrus.FieldLogger) *DashboardsHandler {
	return &DashboardsHandler{dashboards: dashboards, logger: logger}
}

// Register attaches the dashboard routes.
func (h *DashboardsHandler) Register(r *mux.Router, protect Protect) {
	r.Handle("/dashboards", protect(http.HandlerFunc(h.handleList))).Methods(http.MethodGet)
	r.Handle("/dashboards", protect(http.HandlerFunc(h.handleSave))).Methods(http.MethodPost)
	r.Handle("/dashboards/{id}", protect(http.HandlerFunc(h.handleDelete))).Methods(http.MethodDelete)
}

func (h *DashboardsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.dashboards.ListDashboards(r.Context(), currentUser(r).Username)
	if err != nil {
		h.logger.WithError(err).Error("list dashboards")
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch dashboards")
		return
	}
	respond.JSON(w, http.StatusOK, dto.DashboardsResponse{Dashboards: list})
}

func (h *DashboardsHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveDashboardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Name and widgets are required")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Widgets == nil {
		respond.Error(w, http.StatusBadRequest, "Name and widgets are required")
		return
	}

	d := models.Dashboard{
		ID:      strings.TrimSpace(req.ID),
		Owner:   currentUser(r).Username,
		Name:    name,
		Widgets: req.Widgets,
	}
	var (
		saved models.Dashboard
		err   error
	)
	if d.ID == "" {
		saved, err = h.dashboards.CreateDashboard(r.Context(), d)
	} else {
		saved, err = h.dashboards.UpdateDashboard(r.Context(), d)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Dashboard not found")
			return
		}
		h.logger.WithError(err).Error("save dashboard")
		respond.Error(w, http.StatusInternalServerError, "Failed to save dashboard")
		return
	}
	respond.JSON(w, http.StatusOK, dto.DashboardResponse{Dashboard: saved})
}

func (h *DashboardsHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.dashboards.DeleteDashboard(r.Context(), currentUser(r).Username, id); err != nil {
		h.logger.WithError(err).Error("delete dashboard")
		respond.Error(w, http.StatusInternalServerError, "Failed to delete dashboard")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
