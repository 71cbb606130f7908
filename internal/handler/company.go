package handler

import (
	"net/http"

	"github.com/dangerclosesec/greenhug/internal/service"
)

type CompanyHandler struct {
	companyService *service.CompanyService
	projectService *service.ProjectService
}

func NewCompanyHandler(companyService *service.CompanyService, projectService *service.ProjectService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
		projectService: projectService,
	}
}

func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companyService.List(r.Context())
	if err != nil {
		respondWithServiceError(w, r, "Error listing companies", err)
		return
	}
	respondWithData(w, http.StatusOK, companies)
}

func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	company, err := h.companyService.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, "Error fetching company", err)
		return
	}
	respondWithData(w, http.StatusOK, company)
}

func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CompanyInput
	if !decodeJSON(w, r, &input) {
		return
	}

	company, err := h.companyService.Create(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, r, "Error creating company", err)
		return
	}
	respondWithData(w, http.StatusCreated, company)
}

func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var input service.CompanyInput
	if !decodeJSON(w, r, &input) {
		return
	}

	company, err := h.companyService.Update(r.Context(), id, input)
	if err != nil {
		respondWithServiceError(w, r, "Error updating company", err)
		return
	}
	respondWithData(w, http.StatusOK, company)
}

// Delete removes the company together with its projects, entries, ledger and
// accumulated impact.
func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.companyService.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, r, "Error deleting company", err)
		return
	}
	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}

func (h *CompanyHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	projects, err := h.projectService.ListByCompany(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, "Error listing projects", err)
		return
	}
	respondWithData(w, http.StatusOK, projects)
}

// CreateProject stores a project with its entries and adds them to the
// company's accumulated impact.
func (h *CompanyHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var input service.CreateProjectInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.projectService.Create(r.Context(), id, input)
	if err != nil {
		respondWithServiceError(w, r, "Error creating project", err)
		return
	}
	respondWithData(w, http.StatusCreated, out)
}
