package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/affiliate-serving-api/pkg/apiErrors"
)

// ClickRecorder registra cliques sem bloquear o redirecionamento
type ClickRecorder interface {
	RecordClick(ctx context.Context, impressionID string)
}

// Click registra o clique e redireciona para o destino.
// O redirecionamento acontece mesmo quando o clique não pode ser gravado.
func Click(recorder ClickRecorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		impressionID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		destination := r.URL.Query().Get("url")
		if destination == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingURL, "", nil)
			return
		}

		if !isRedirectable(destination) {
			apiErrors.WriteError(w, apiErrors.ErrInvalidURL, "", nil)
			return
		}

		recorder.RecordClick(r.Context(), impressionID)

		http.Redirect(w, r, destination, http.StatusFound)
	})
}

// isRedirectable aceita apenas URLs absolutas http(s)
func isRedirectable(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
