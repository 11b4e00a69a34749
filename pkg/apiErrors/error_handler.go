package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Códigos públicos de erro. O valor é enviado no campo "error" da resposta.
const (
	// Credencial (401)
	ErrMissingCredential  = "missing_credential"
	ErrInvalidCredential  = "invalid_credential"
	ErrCredentialExpired  = "credential_expired"
	ErrCredentialInactive = "credential_inactive"
	ErrInsufficientScope  = "insufficient_scope"

	// Placement (404)
	ErrPlacementNotFound = "placement_not_found"
	ErrPlacementInactive = "placement_inactive"

	// Validação (400)
	ErrMissingParameter = "missing_parameter"
	ErrMissingURL       = "missing_url"
	ErrInvalidURL       = "invalid_url"
	ErrInvalidRequest   = "invalid_request"

	// Rotas internas
	ErrInvalidToken = "invalid_token"

	ErrRateLimited    = "rate_limited"
	ErrInternalServer = "internal_error"
)

// Mensagens padrão enviadas junto com o código
var defaultMessages = map[string]string{
	ErrMissingCredential:  "API key is required. Pass via X-API-Key header.",
	ErrInvalidCredential:  "API key is invalid.",
	ErrCredentialExpired:  "API key has expired.",
	ErrCredentialInactive: "API key is inactive.",
	ErrInsufficientScope:  "API key does not have the required scope.",
	ErrPlacementNotFound:  "Placement not found.",
	ErrPlacementInactive:  "Placement is inactive.",
	ErrMissingParameter:   "placement parameter is required",
	ErrMissingURL:         "url parameter is required",
	ErrInvalidURL:         "url parameter must be an absolute http(s) URL",
	ErrInvalidToken:       "service token is missing or invalid",
	ErrRateLimited:        "too many requests",
	ErrInternalServer:     "internal server error",
}

var httpStatusMap = map[string]int{
	ErrMissingCredential:  http.StatusUnauthorized,
	ErrInvalidCredential:  http.StatusUnauthorized,
	ErrCredentialExpired:  http.StatusUnauthorized,
	ErrCredentialInactive: http.StatusUnauthorized,
	ErrInsufficientScope:  http.StatusUnauthorized,
	ErrPlacementNotFound:  http.StatusNotFound,
	ErrPlacementInactive:  http.StatusNotFound,
	ErrMissingParameter:   http.StatusBadRequest,
	ErrMissingURL:         http.StatusBadRequest,
	ErrInvalidURL:         http.StatusBadRequest,
	ErrInvalidRequest:     http.StatusBadRequest,
	ErrInvalidToken:       http.StatusUnauthorized,
	ErrRateLimited:        http.StatusTooManyRequests,
	ErrInternalServer:     http.StatusInternalServerError,
}

// APIError é o corpo padrão das respostas de erro
type APIError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// StatusFor retorna o status HTTP do código, 500 quando desconhecido
func StatusFor(code string) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// MessageFor retorna a mensagem padrão do código
func MessageFor(code string) string {
	return defaultMessages[code]
}

// WriteError escreve o erro padronizado. Uma mensagem vazia usa a mensagem padrão do código.
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	if message == "" {
		message = MessageFor(code)
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	_ = json.NewEncoder(w).Encode(apiErr)
}
