package dto

import "net/http"

// API error codes returned in ErrorInfo.Code
const (
	ErrCodeInternal           = "ERR_INTERNAL"
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeBadRequest         = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput       = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON        = "ERR_INVALID_JSON"
	ErrCodePayloadTooLarge    = "ERR_PAYLOAD_TOO_LARGE"
	ErrCodeRateLimited        = "ERR_RATE_LIMITED"
	ErrCodeAIGeneration       = "ERR_AI_GENERATION"
	ErrCodeStorageUnavailable = "ERR_STORAGE_UNAVAILABLE"
)

type apiCode struct {
	status int
	// domain is the shared.DomainError code translated to this API code, if any
	domain string
}

var apiCodes = map[string]apiCode{
	ErrCodeInternal:           {http.StatusInternalServerError, "INTERNAL_ERROR"},
	ErrCodeValidation:         {http.StatusBadRequest, "VALIDATION_ERROR"},
	ErrCodeNotFound:           {http.StatusNotFound, "NOT_FOUND"},
	ErrCodeBadRequest:         {http.StatusBadRequest, "BAD_REQUEST"},
	ErrCodeInvalidInput:       {http.StatusBadRequest, "INVALID_INPUT"},
	ErrCodeInvalidJSON:        {http.StatusBadRequest, ""},
	ErrCodePayloadTooLarge:    {http.StatusRequestEntityTooLarge, ""},
	ErrCodeRateLimited:        {http.StatusTooManyRequests, ""},
	ErrCodeAIGeneration:       {http.StatusInternalServerError, "AI_GENERATION_FAILED"},
	ErrCodeStorageUnavailable: {http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
}

var fromDomain = func() map[string]string {
	m := make(map[string]string, len(apiCodes))
	for code, info := range apiCodes {
		if info.domain != "" {
			m[info.domain] = code
		}
	}
	return m
}()

// GetHTTPStatus returns the status for an API error code; unknown codes are 500
func GetHTTPStatus(code string) int {
	if info, ok := apiCodes[code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode translates a domain error code to its API code.
// API codes and unknown codes are returned unchanged.
func NormalizeErrorCode(code string) string {
	if api, ok := fromDomain[code]; ok {
		return api
	}
	return code
}

// IsServerError reports whether code maps to a 5xx status. Messages of such
// errors are replaced with a generic text before reaching the client.
func IsServerError(code string) bool {
	return GetHTTPStatus(code) >= http.StatusInternalServerError
}
