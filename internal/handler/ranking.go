package handler

import (
	"net/http"

	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/dangerclosesec/greenhug/internal/service"
	"github.com/go-chi/chi/v5"
)

type RankingHandler struct {
	rankingService *service.RankingService
}

func NewRankingHandler(rankingService *service.RankingService) *RankingHandler {
	return &RankingHandler{
		rankingService: rankingService,
	}
}

func (h *RankingHandler) General(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.rankingService.General(r.Context())
	if err != nil {
		respondWithServiceError(w, r, "Error building ranking", err)
		return
	}
	respondWithData(w, http.StatusOK, ranking)
}

func (h *RankingHandler) ByRegion(w http.ResponseWriter, r *http.Request) {
	region := model.Region(chi.URLParam(r, "region"))

	ranking, err := h.rankingService.ByRegion(r.Context(), region)
	if err != nil {
		respondWithServiceError(w, r, "Error building regional ranking", err)
		return
	}
	respondWithData(w, http.StatusOK, ranking)
}

func (h *RankingHandler) ByIndustryType(w http.ResponseWriter, r *http.Request) {
	industryType := model.IndustryType(chi.URLParam(r, "type"))

	ranking, err := h.rankingService.ByIndustryType(r.Context(), industryType)
	if err != nil {
		respondWithServiceError(w, r, "Error building industry ranking", err)
		return
	}
	respondWithData(w, http.StatusOK, ranking)
}

func (h *RankingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.rankingService.Stats(r.Context())
	if err != nil {
		respondWithServiceError(w, r, "Error building ranking statistics", err)
		return
	}
	respondWithData(w, http.StatusOK, stats)
}
