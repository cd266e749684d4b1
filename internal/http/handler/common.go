package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fabrikk-as/console-api/internal/billing"
	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/service"
	"github.com/fabrikk-as/console-api/internal/workflow"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError maps every engine and service error to the matching
// problem response. Handlers call this with any error from a service.
func respondError(w http.ResponseWriter, err error) {
	var validationErrs billing.ValidationErrors
	if errors.As(err, &validationErrs) {
		respondJSON(w, http.StatusUnprocessableEntity, domain.APIError{
			Type:   domain.ErrorTypeValidation,
			Title:  "Validation Error",
			Status: http.StatusUnprocessableEntity,
			Detail: "One or more fields failed validation",
			Errors: validationErrs,
		})
		return
	}

	var transitionErr *workflow.TransitionError
	if errors.As(err, &transitionErr) {
		respondJSON(w, http.StatusConflict, domain.APIError{
			Type:   domain.ErrorTypeInvalidTransition,
			Title:  "Invalid Transition",
			Status: http.StatusConflict,
			Detail: transitionErr.Error(),
		})
		return
	}

	var linkageErr *workflow.LinkageError
	if errors.As(err, &linkageErr) {
		respondJSON(w, http.StatusUnprocessableEntity, domain.APIError{
			Type:   domain.ErrorTypeInvalidLinkage,
			Title:  "Invalid Linkage",
			Status: http.StatusUnprocessableEntity,
			Detail: linkageErr.Error(),
		})
		return
	}

	var lockedErr *workflow.LockedError
	if errors.As(err, &lockedErr) {
		respondJSON(w, http.StatusLocked, domain.APIError{
			Type:   domain.ErrorTypeLocked,
			Title:  "Locked",
			Status: http.StatusLocked,
			Detail: lockedErr.Error(),
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrQuotationNotFound),
		errors.Is(err, service.ErrSalesOrderNotFound),
		errors.Is(err, service.ErrProjectNotFound),
		errors.Is(err, service.ErrWorkOrderNotFound),
		errors.Is(err, service.ErrInvoiceNotFound),
		errors.Is(err, service.ErrContractorNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrFileNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrQuotationNotEditable),
		errors.Is(err, service.ErrConflict):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// respondValidationError sends field-level messages for request binding
// failures
func respondValidationError(w http.ResponseWriter, err error) {
	errs := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			fieldName := toJSONFieldName(fe.Field())
			errs[fieldName] = formatValidationError(fe)
		}
	}

	respondJSON(w, http.StatusBadRequest, domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: errs,
	})
}

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "uuid":
		return "Must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// toJSONFieldName converts a Go struct field name to its JSON camelCase
// equivalent
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return domain.ErrorTypeForbidden
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	default:
		return domain.ErrorTypeInternal
	}
}

// decodeAndValidate binds the JSON body into target and runs struct
// validation. Returns false after writing the error response.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := validate.Struct(target); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// pathUUID parses a uuid path parameter. Returns uuid.Nil and false after
// writing the error response when the parameter is malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s parameter", param))
		return uuid.Nil, false
	}
	return id, true
}

// pagination reads page/pageSize query parameters with sane bounds
func pagination(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return page, pageSize
}

// queryUUID parses an optional uuid query parameter
func queryUUID(r *http.Request, param string) *uuid.UUID {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
