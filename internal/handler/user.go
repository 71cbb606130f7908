package handler

import (
	"net/http"

	"github.com/dangerclosesec/greenhug/internal/service"
)

// UserHandler manages admin dashboard accounts.
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		respondWithServiceError(w, r, "Error listing users", err)
		return
	}
	respondWithData(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, "Error fetching user", err)
		return
	}
	respondWithData(w, http.StatusOK, user)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateUserInput
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.userService.Create(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, r, "Error creating user", err)
		return
	}
	respondWithData(w, http.StatusCreated, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var input service.UpdateUserInput
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.userService.Update(r.Context(), id, input)
	if err != nil {
		respondWithServiceError(w, r, "Error updating user", err)
		return
	}
	respondWithData(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, r, "Error deleting user", err)
		return
	}
	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}
