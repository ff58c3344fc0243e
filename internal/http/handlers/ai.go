package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"

	"github.com/hongminglow/medplat-be/internal/genai"
	"github.com/hongminglow/medplat-be/internal/http/respond"
	"github.com/hongminglow/medplat-be/internal/metrics"
	"github.com/hongminglow/medplat-be/internal/models/dto"
	"github.com/hongminglow/medplat-be/internal/stats"
	"github.com/hongminglow/medplat-be/internal/storage"
)

const (
	fallbackReply  = "Sorry, I couldn't process your request."
	kpiUnavailable = "KPI suggestions unavailable"
	kpiCacheSize   = 64
)

// Generator produces text for a prompt.
type Generator interface {
	Configured() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// AIHandler serves the chatbot, natural-language query and KPI suggestion endpoints.
type AIHandler struct {
	gen        Generator
	records    storage.RecordStore
	collection string
	kpis       *expirable.LRU[string, []string]
	metrics    *metrics.Metrics
	logger     logrus.FieldLogger
}

// NewAIHandler constructs the handler with a per-role KPI cache living for kpiTTL.
func NewAIHandler(gen Generator, records storage.RecordStore, collection string, kpiTTL time.Duration, m *metrics.Metrics, logger logrus.FieldLogger) *AIHandler {
	return &AIHandler{
		gen:        gen,
		records:    records,
		collection: collection,
		kpis:       expirable.NewLRU[string, []string](kpiCacheSize, nil, kpiTTL),
		metrics:    m,
		logger:     logger,
	}
}

// Register attaches the AI routes; only KPI suggestions require a user.
func (h *AIHandler) Register(r *mux.Router, protect Protect) {
	r.HandleFunc("/chatbot", h.handleChatbot).Methods(http.MethodPost)
	r.HandleFunc("/nlp", h.handleNLP).Methods(http.MethodPost)
	r.Handle("/suggest-kpis", protect(http.HandlerFunc(h.handleSuggestKPIs))).Methods(http.MethodGet)
}

func (h *AIHandler) handleChatbot(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatbotRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respond.Error(w, http.StatusBadRequest, "message is required")
		return
	}
	if !h.gen.Configured() {
		respond.Error(w, http.StatusInternalServerError, "Gemini API key not set.")
		return
	}

	relevant := []byte("{}")
	latest, err := h.records.LatestRecord(r.Context(), h.collection)
	switch {
	case err == nil:
		if relevant, err = json.Marshal(latest); err != nil {
			h.logger.WithError(err).Error("encode latest record")
			respond.Error(w, http.StatusInternalServerError, "failed to load data")
			return
		}
	case !errors.Is(err, storage.ErrNotFound):
		h.logger.WithError(err).Error("load latest record")
		respond.Error(w, http.StatusInternalServerError, "failed to load data")
		return
	}

	prompt := fmt.Sprintf("User message: %s\nRelevant data: %s", req.Message, relevant)
	reply, err := h.gen.Generate(r.Context(), prompt)
	switch {
	case errors.Is(err, genai.ErrMalformedReply):
		h.observe("chatbot", "malformed")
		reply = fallbackReply
	case err != nil:
		h.observe("chatbot", "error")
		h.logger.WithError(err).Error("chatbot generate")
		respond.Error(w, http.StatusBadGateway, "Gemini API error")
		return
	default:
		h.observe("chatbot", "ok")
	}
	respond.JSON(w, http.StatusOK, dto.ChatbotResponse{Reply: reply})
}

func (h *AIHandler) handleNLP(w http.ResponseWriter, r *http.Request) {
	var req dto.NLPRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		respond.Error(w, http.StatusBadRequest, "query is required")
		return
	}
	if !strings.Contains(strings.ToLower(req.Query), "case load") {
		respond.JSON(w, http.StatusOK, dto.NLPResponse{Summary: "No data found for query."})
		return
	}

	records, err := h.records.ListRecords(r.Context(), h.collection, 0)
	if err != nil {
		h.logger.WithError(err).Error("list records")
		respond.Error(w, http.StatusInternalServerError, "failed to load data")
		return
	}
	chart := stats.CaseLoad(records)
	if chart == nil {
		respond.JSON(w, http.StatusOK, dto.NLPResponse{Summary: "No uploaded data available."})
		return
	}
	respond.JSON(w, http.StatusOK, dto.NLPResponse{
		ChartData: chart,
		Summary:   "Weekly case load summary based on uploaded data.",
	})
}

func (h *AIHandler) handleSuggestKPIs(w http.ResponseWriter, r *http.Request) {
	role := currentUser(r).Role.String()
	if kpis, ok := h.kpis.Get(role); ok {
		h.metrics.KPICacheTotal.WithLabelValues("hit").Inc()
		respond.JSON(w, http.StatusOK, dto.KPIResponse{KPIs: kpis})
		return
	}
	h.metrics.KPICacheTotal.WithLabelValues("miss").Inc()

	prompt := fmt.Sprintf("Suggest 3 important KPIs for a user with role '%s' in a medical dashboard.", role)
	text, err := h.gen.Generate(r.Context(), prompt)
	var statusErr *genai.StatusError
	switch {
	case errors.Is(err, genai.ErrMalformedReply), errors.Is(err, genai.ErrNotConfigured), errors.As(err, &statusErr):
		h.observe("suggest-kpis", "degraded")
		h.logger.WithError(err).Warn("kpi suggestions degraded")
		respond.JSON(w, http.StatusOK, dto.KPIResponse{KPIs: []string{kpiUnavailable}})
		return
	case err != nil:
		h.observe("suggest-kpis", "error")
		h.logger.WithError(err).Error("kpi generate")
		respond.Error(w, http.StatusBadGateway, "Gemini API error")
		return
	}
	h.observe("suggest-kpis", "ok")

	kpis := splitKPIs(text)
	if len(kpis) == 0 {
		respond.JSON(w, http.StatusOK, dto.KPIResponse{KPIs: []string{kpiUnavailable}})
		return
	}
	h.kpis.Add(role, kpis)
	respond.JSON(w, http.StatusOK, dto.KPIResponse{KPIs: kpis})
}

func (h *AIHandler) observe(endpoint, outcome string) {
	h.metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
}

// splitKPIs turns a bulleted reply into one entry per non-blank line.
func splitKPIs(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if kpi := strings.Trim(line, "- "); kpi != "" {
			out = append(out, kpi)
		}
	}
	return out
}
