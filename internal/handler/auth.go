// internal/handler/auth.go
package handler

import (
	"net/http"

	"github.com/dangerclosesec/greenhug/internal/middleware"
	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/dangerclosesec/greenhug/internal/service"
)

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

type LoginResponse struct {
	BaseResponse
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

type VerifyResponse struct {
	BaseResponse
	User *model.User `json:"user"`
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.userService.Login(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, r, "User login error", err)
		return
	}

	respondWithJSON(w, http.StatusOK, LoginResponse{
		BaseResponse: BaseResponse{Ok: true},
		User:         output.User,
		Token:        output.Token,
	})
}

// VerifyHandler checks the bearer token and returns the user it belongs to.
func (h *AuthHandler) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid authorization header")
		return
	}

	user, err := h.userService.Verify(r.Context(), token)
	if err != nil {
		respondWithServiceError(w, r, "Token verification error", err)
		return
	}

	respondWithJSON(w, http.StatusOK, VerifyResponse{
		BaseResponse: BaseResponse{Ok: true},
		User:         user,
	})
}
