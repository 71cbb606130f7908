package handler

import (
	"net/http"

	"github.com/dangerclosesec/greenhug/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	project, err := h.projectService.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, "Error fetching project", err)
		return
	}
	respondWithData(w, http.StatusOK, project)
}

func (h *ProjectHandler) AddEntries(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var input service.AddEntriesInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.projectService.AddEntries(r.Context(), id, input)
	if err != nil {
		respondWithServiceError(w, r, "Error adding impact entries", err)
		return
	}
	respondWithData(w, http.StatusCreated, out)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	out, err := h.projectService.Delete(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, "Error deleting project", err)
		return
	}
	respondWithData(w, http.StatusOK, out)
}
