package dto

import "github.com/hongminglow/medplat-be/internal/stats"

type ChatbotRequest struct {
	Message string `json:"message"`
}

type ChatbotResponse struct {
	Reply string `json:"reply"`
}

type NLPRequest struct {
	Query string `json:"query"`
}

type NLPResponse struct {
	ChartData *stats.ChartData `json:"chartData"`
	Summary   string           `json:"summary"`
}

type KPIResponse struct {
	KPIs []string `json:"kpis"`
}
