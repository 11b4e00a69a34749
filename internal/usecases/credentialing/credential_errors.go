package credentialing

import (
	"errors"
	"fmt"

	"github.com/vfg2006/affiliate-serving-api/pkg/apiErrors"
)

var (
	ErrMissingCredential  = errors.New("credencial ausente")
	ErrInvalidCredential  = errors.New("credencial inválida")
	ErrCredentialInactive = errors.New("credencial desativada")
	ErrCredentialExpired  = errors.New("credencial expirada")
	ErrInsufficientScope  = errors.New("credencial sem o escopo necessário")

	ErrUnknownKeyClass = errors.New("classe de chave desconhecida")
)

// CredentialError carrega o código público da rejeição
type CredentialError struct {
	Err     error
	Code    string
	Details string
}

func (e *CredentialError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

func newCredentialError(err error, details string) *CredentialError {
	return &CredentialError{
		Err:     err,
		Code:    codeFor(err),
		Details: details,
	}
}

func codeFor(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return apiErrors.ErrMissingCredential
	case errors.Is(err, ErrCredentialInactive):
		return apiErrors.ErrCredentialInactive
	case errors.Is(err, ErrCredentialExpired):
		return apiErrors.ErrCredentialExpired
	case errors.Is(err, ErrInsufficientScope):
		return apiErrors.ErrInsufficientScope
	default:
		return apiErrors.ErrInvalidCredential
	}
}

// CodeOf retorna o código público de um erro de validação
func CodeOf(err error) string {
	var credErr *CredentialError
	if errors.As(err, &credErr) {
		return credErr.Code
	}
	return apiErrors.ErrInvalidCredential
}
