package selecting

import (
	"errors"
	"fmt"

	"github.com/vfg2006/affiliate-serving-api/pkg/apiErrors"
)

var (
	ErrPlacementNotFound = errors.New("placement não encontrado")
	ErrPlacementInactive = errors.New("placement desativado")
)

// SelectionError é um erro terminal da seleção, sem fallback
type SelectionError struct {
	Err     error
	Code    string
	Details string
}

func (e *SelectionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *SelectionError) Unwrap() error {
	return e.Err
}

func newSelectionError(err error, details string) *SelectionError {
	code := apiErrors.ErrPlacementNotFound
	if errors.Is(err, ErrPlacementInactive) {
		code = apiErrors.ErrPlacementInactive
	}

	return &SelectionError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// CodeOf retorna o código público do erro de seleção
func CodeOf(err error) string {
	var selErr *SelectionError
	if errors.As(err, &selErr) {
		return selErr.Code
	}
	return apiErrors.ErrInternalServer
}
