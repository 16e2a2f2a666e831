package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3filter"
)

const adminTokenScheme = "adminToken"

func (a *API) writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		getLoggerFromCtx(ctx, a.logger).Error("failed to marshal response", "error", err)
		status = http.StatusInternalServerError
		jsonBody = []byte(`{"code": "InternalError", "message": "failed to encode response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(jsonBody)
}

func (a *API) writeError(ctx context.Context, w http.ResponseWriter, status int, code ErrorCode, message string) {
	a.writeJSON(ctx, w, status, Error{Code: code, Message: message})
}

func (a *API) requestErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	getLoggerFromCtx(r.Context(), a.logger).Warn("Invalid request", "error", err)
	a.writeError(r.Context(), w, http.StatusBadRequest, InvalidBody, "Invalid body")
}

func (a *API) responseErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	getLoggerFromCtx(r.Context(), a.logger).Error("Failed to write response", "error", err)
	a.writeError(r.Context(), w, http.StatusInternalServerError, InternalError, "Internal server error")
}

// authenticate backs the adminToken security scheme of the validator.
func (a *API) authenticate(ctx context.Context, input *openapi3filter.AuthenticationInput) error {
	if input.SecuritySchemeName != adminTokenScheme {
		return fmt.Errorf("unknown security scheme %q", input.SecuritySchemeName)
	}
	if !a.isAdmin(input.RequestValidationInput.Request) {
		return errors.New("admin token required")
	}
	return nil
}

// isAdmin checks for the configured bearer token. No token configured means
// nobody is an admin.
func (a *API) isAdmin(r *http.Request) bool {
	if a.adminToken == "" {
		return false
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(a.adminToken)) == 1
}
