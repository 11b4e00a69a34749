package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/affiliate-serving-api/infrastructure/repository"
	"github.com/vfg2006/affiliate-serving-api/internal/usecases/credentialing"
	"github.com/vfg2006/affiliate-serving-api/pkg/apiErrors"
)

// InvalidateCacheRequest é enviado pelo painel depois de alterar dados de um projeto
type InvalidateCacheRequest struct {
	ProjectID  string   `json:"project_id"`
	KeyDigests []string `json:"key_digests"`
}

type InvalidateCacheResponse struct {
	PlacementsRemoved  int `json:"placements_removed"`
	RulesRemoved       int `json:"rules_removed"`
	CredentialsRemoved int `json:"credentials_removed"`
}

// CacheInvalidators agrupa os caches que podem ser invalidados. Campos nulos são ignorados.
type CacheInvalidators struct {
	Placements  repository.ProjectInvalidator
	Rules       repository.ProjectInvalidator
	Credentials credentialing.Validator
}

func InvalidateCache(invalidators CacheInvalidators) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req InvalidateCacheRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "invalid JSON body", nil)
			return
		}

		if req.ProjectID == "" && len(req.KeyDigests) == 0 {
			apiErrors.WriteError(w, apiErrors.ErrMissingParameter, "project_id or key_digests is required", nil)
			return
		}

		var resp InvalidateCacheResponse

		if req.ProjectID != "" {
			if invalidators.Placements != nil {
				resp.PlacementsRemoved = invalidators.Placements.InvalidateProject(req.ProjectID)
			}
			if invalidators.Rules != nil {
				resp.RulesRemoved = invalidators.Rules.InvalidateProject(req.ProjectID)
			}
		}

		if len(req.KeyDigests) > 0 && invalidators.Credentials != nil {
			resp.CredentialsRemoved = invalidators.Credentials.Invalidate(req.KeyDigests...)
		}

		logrus.WithFields(logrus.Fields{
			"project_id":          req.ProjectID,
			"placements_removed":  resp.PlacementsRemoved,
			"rules_removed":       resp.RulesRemoved,
			"credentials_removed": resp.CredentialsRemoved,
		}).Info("Cache invalidado")

		writeJSON(w, http.StatusOK, resp)
	})
}
