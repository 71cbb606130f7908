package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dangerclosesec/greenhug/internal/domain"
	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

type ErrorResponse struct { // TypeGen: ErrorResponse
	BaseResponse
	Error   string    `json:"error"`
	Details *[]string `json:"details,omitempty"`
	Code    *string   `json:"error_code,omitempty"`
	Link    *string   `json:"error_link,omitempty"`
}

type BaseResponse struct { // TypeGen: DefaultResponse
	Ok bool `json:"ok"`
}

type DataResponse struct { // TypeGen: DataResponse
	BaseResponse
	Data interface{} `json:"data"`
}

// errorStatus maps domain errors to responses. The first match wins, so
// specific errors come before the generic ones they wrap.
var errorStatus = []struct {
	target  error
	status  int
	message string
	code    string
}{
	{domain.ErrInvalidIndustryType, http.StatusBadRequest, "Invalid industry type", "invalid_industry_type"},
	{domain.ErrInvalidRegion, http.StatusBadRequest, "Invalid region", "invalid_region"},
	{domain.ErrInvalidProjectType, http.StatusBadRequest, "Invalid project type", "invalid_project_type"},
	{domain.ErrInvalidImpactType, http.StatusBadRequest, "Invalid impact type", "invalid_impact_type"},
	{domain.ErrImpactOutOfRange, http.StatusBadRequest, "Impact values exceed the accumulated range", "impact_out_of_range"},
	{domain.ErrNoImpactEntries, http.StatusBadRequest, "At least one impact entry is required", "no_impact_entries"},
	{domain.ErrPasswordTooWeak, http.StatusBadRequest, "Password does not meet requirements", "password_too_weak"},
	{domain.ErrInvalidRole, http.StatusBadRequest, "Invalid role", "invalid_role"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "Invalid input", "invalid_input"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid name or password", "invalid_credentials"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized", "unauthorized"},
	{domain.ErrForbidden, http.StatusForbidden, "Forbidden", "forbidden"},
	{domain.ErrCompanyNotFound, http.StatusNotFound, "Company not found", "company_not_found"},
	{domain.ErrProjectNotFound, http.StatusNotFound, "Project not found", "project_not_found"},
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found", "user_not_found"},
	{domain.ErrNotFound, http.StatusNotFound, "Not found", "not_found"},
	{domain.ErrUserNameTaken, http.StatusConflict, "User name already exists", "user_name_taken"},
	{domain.ErrLastSuperAdmin, http.StatusConflict, "Cannot remove the last super admin", "last_super_admin"},
	{domain.ErrSetupCompleted, http.StatusConflict, "Initial setup already completed", "setup_completed"},
}

// respondWithServiceError logs err and writes the response its domain error
// maps to. Unknown errors become a 500 without details.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()

	for _, e := range errorStatus {
		if !errors.Is(err, e.target) {
			continue
		}
		slog.WarnContext(ctx, msg, "error", err, "requestID", chmw.GetReqID(ctx))

		code := e.code
		resp := ErrorResponse{Error: e.message, Code: &code}
		if e.status == http.StatusBadRequest {
			details := errorDetails(err)
			resp.Details = &details
		}
		respondWithJSON(w, e.status, resp)
		return
	}

	slog.ErrorContext(ctx, msg, "error", err, "requestID", chmw.GetReqID(ctx))
	respondWithError(w, http.StatusInternalServerError, "Internal server error")
}

func errorDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			details = append(details, fmt.Sprintf("%s: failed on %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		details = append(details, fmt.Sprintf("%s: failed on %s", fe.Namespace(), fe.Tag()))
	}
	return details
}

// decodeJSON reads the request body into dst. It writes a 400 and returns
// false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		slog.WarnContext(r.Context(), "Invalid request payload", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// uuidParam parses a UUID path parameter, writing a 400 when it is malformed.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", name))
		return uuid.Nil, false
	}
	return id, true
}

// respondWithData sends a successful response wrapping payload
func respondWithData(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, DataResponse{BaseResponse: BaseResponse{Ok: true}, Data: payload})
}

// respondWithError sends an error response with a message
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	// Sets content type header
	w.Header().Set("Content-Type", "application/json")

	// Sets the HTTP status code
	w.WriteHeader(code)

	// Encodes the response
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
