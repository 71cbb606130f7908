package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dangerclosesec/greenhug/internal/impact"
	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/dangerclosesec/greenhug/internal/repository"
	"github.com/dangerclosesec/greenhug/internal/service"
)

// ImpactHandler serves a company's accumulated impact, its executive summary
// and its ledger.
type ImpactHandler struct {
	aggregator      *service.ImpactAggregator
	companyService  *service.CompanyService
	rankingService  *service.RankingService
	auditLogService *service.ImpactAuditLogService
}

func NewImpactHandler(
	aggregator *service.ImpactAggregator,
	companyService *service.CompanyService,
	rankingService *service.RankingService,
	auditLogService *service.ImpactAuditLogService,
) *ImpactHandler {
	return &ImpactHandler{
		aggregator:      aggregator,
		companyService:  companyService,
		rankingService:  rankingService,
		auditLogService: auditLogService,
	}
}

type HistoryResponse struct {
	BaseResponse
	Logs  []model.ImpactAuditLog `json:"logs"`
	Total int64                  `json:"total"`
}

// Get returns the accumulated impact, all zero when nothing was recorded yet.
func (h *ImpactHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidParam(w, r, "companyID")
	if !ok {
		return
	}

	rec, err := h.aggregator.GetAccumulated(r.Context(), companyID)
	if err != nil {
		respondWithServiceError(w, r, "Error fetching accumulated impact", err)
		return
	}
	respondWithData(w, http.StatusOK, rec)
}

func (h *ImpactHandler) Summary(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidParam(w, r, "companyID")
	if !ok {
		return
	}

	summary, err := h.rankingService.Summary(r.Context(), companyID)
	if err != nil {
		respondWithServiceError(w, r, "Error building company summary", err)
		return
	}
	respondWithData(w, http.StatusOK, summary)
}

// Upsert overwrites the company's counters. Negative values are stored as 0.
func (h *ImpactHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidParam(w, r, "companyID")
	if !ok {
		return
	}

	var input impact.Bundle
	if !decodeJSON(w, r, &input) {
		return
	}

	if _, err := h.companyService.Get(r.Context(), companyID); err != nil {
		respondWithServiceError(w, r, "Error fetching company", err)
		return
	}

	result, err := h.aggregator.ApplyManualAdjustment(r.Context(), companyID, input)
	if err != nil {
		respondWithServiceError(w, r, "Error adjusting accumulated impact", err)
		return
	}
	respondWithData(w, http.StatusOK, result)
}

// History returns the company's ledger, newest first.
func (h *ImpactHandler) History(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidParam(w, r, "companyID")
	if !ok {
		return
	}

	params := repository.QueryParams{CompanyID: companyID}
	query := r.URL.Query()

	if actionType := query.Get("action_type"); actionType != "" {
		params.ActionType = actionType
	}

	if startTimeStr := query.Get("start_time"); startTimeStr != "" {
		startTime, err := time.Parse(time.RFC3339, startTimeStr)
		if err == nil {
			params.StartTime = startTime
		}
	}

	if endTimeStr := query.Get("end_time"); endTimeStr != "" {
		endTime, err := time.Parse(time.RFC3339, endTimeStr)
		if err == nil {
			params.EndTime = endTime
		}
	}

	// Pagination
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err == nil && limit > 0 {
			params.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err == nil && offset >= 0 {
			params.Offset = offset
		}
	}

	logs, total, err := h.auditLogService.GetHistory(r.Context(), params)
	if err != nil {
		respondWithServiceError(w, r, "Error fetching impact history", err)
		return
	}

	if logs == nil {
		logs = []model.ImpactAuditLog{}
	}
	respondWithJSON(w, http.StatusOK, HistoryResponse{
		BaseResponse: BaseResponse{Ok: true},
		Logs:         logs,
		Total:        total,
	})
}
