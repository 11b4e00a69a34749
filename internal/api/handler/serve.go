package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/vfg2006/affiliate-serving-api/internal/domain"
	"github.com/vfg2006/affiliate-serving-api/internal/usecases/credentialing"
	"github.com/vfg2006/affiliate-serving-api/internal/usecases/geo"
	"github.com/vfg2006/affiliate-serving-api/internal/usecases/selecting"
	"github.com/vfg2006/affiliate-serving-api/pkg/apiErrors"
	"github.com/vfg2006/affiliate-serving-api/pkg/log"
	"github.com/vfg2006/affiliate-serving-api/pkg/metrics"
)

const apiKeyHeader = "X-API-Key"

// ImpressionRecorder grava impressões sem bloquear a resposta
type ImpressionRecorder interface {
	RecordImpressions(ctx context.Context, impressions []*domain.Impression)
}

type ServeConfig struct {
	PublicBaseURL        string
	CacheMaxAge          int
	StaleWhileRevalidate int
}

type serveDeps struct {
	validator credentialing.Validator
	selector  selecting.Selector
	geo       *geo.Resolver
	recorder  ImpressionRecorder
	cfg       ServeConfig
}

func Serve(
	validator credentialing.Validator,
	selector selecting.Selector,
	geoResolver *geo.Resolver,
	recorder ImpressionRecorder,
	cfg ServeConfig,
) http.Handler {
	d := &serveDeps{
		validator: validator,
		selector:  selector,
		geo:       geoResolver,
		recorder:  recorder,
		cfg:       cfg,
	}

	return http.HandlerFunc(d.serve)
}

func (d *serveDeps) serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	placementSlug := query.Get("placement")
	if placementSlug == "" {
		metrics.ServeDecisionsTotal.WithLabelValues(metrics.OutcomeBadRequest).Inc()
		apiErrors.WriteError(w, apiErrors.ErrMissingParameter, "", nil)
		return
	}

	projectID, err := d.validator.Validate(ctx, apiKeyFrom(r))
	if err != nil {
		code := credentialing.CodeOf(err)
		metrics.CredentialValidationsTotal.WithLabelValues(code).Inc()
		metrics.ServeDecisionsTotal.WithLabelValues(metrics.OutcomeCredentialError).Inc()
		apiErrors.WriteError(w, code, "", nil)
		return
	}
	metrics.CredentialValidationsTotal.WithLabelValues("valid").Inc()

	ctx = log.ContextWithFields(ctx, log.Fields{"project_id": projectID, "placement": placementSlug})

	geoInfo := d.geo.Resolve(r)
	params := selecting.Params{
		ProjectID:     projectID,
		PlacementSlug: placementSlug,
		Country:       geoInfo.Country,
		Category:      query.Get("category"),
		Size:          query.Get("size"),
		Format:        query.Get("format"),
		Limit:         parseLimit(query.Get("limit")),
	}
	debug := query.Get("debug") == "true"

	var (
		response    *domain.ServeResponse
		impressions []*domain.Impression
		outcome     string
	)

	if params.Limit > 1 {
		result, err := d.selector.SelectMany(ctx, params)
		if err != nil {
			d.writeSelectionError(w, err)
			return
		}
		response, impressions = d.buildMulti(params, result, geoInfo, debug)
		outcome = outcomeFor(result.Fallback, result.FallbackType)
	} else {
		result, err := d.selector.Select(ctx, params)
		if err != nil {
			d.writeSelectionError(w, err)
			return
		}
		response, impressions = d.buildSingle(params, result, geoInfo, debug)
		outcome = outcomeFor(result.Fallback, result.FallbackType)
	}

	w.Header().Set("Cache-Control", fmt.Sprintf(
		"public, max-age=%d, stale-while-revalidate=%d", d.cfg.CacheMaxAge, d.cfg.StaleWhileRevalidate,
	))
	writeJSON(w, http.StatusOK, response)

	metrics.ServeDecisionsTotal.WithLabelValues(outcome).Inc()

	// Gravado depois da resposta, sem aguardar
	d.recorder.RecordImpressions(ctx, impressions)
}

func (d *serveDeps) writeSelectionError(w http.ResponseWriter, err error) {
	metrics.ServeDecisionsTotal.WithLabelValues(metrics.OutcomePlacementError).Inc()
	apiErrors.WriteError(w, selecting.CodeOf(err), "", nil)
}

func (d *serveDeps) buildSingle(params selecting.Params, result *selecting.Result, geoInfo domain.GeoInfo, debug bool) (*domain.ServeResponse, []*domain.Impression) {
	impressionID := uuid.NewString()

	response := &domain.ServeResponse{
		Creative:     result.Creative,
		Fallback:     result.Fallback,
		FallbackType: responseFallbackType(result.FallbackType),
		FallbackURL:  result.FallbackURL,
		Geo:          geoInfo,
		ImpressionID: impressionID,
	}

	switch {
	case result.Creative != nil:
		response.TrackingURL = d.trackingURL(impressionID, result.Creative.ClickURL)
	case result.FallbackURL != nil:
		response.TrackingURL = d.trackingURL(impressionID, *result.FallbackURL)
	}

	if debug {
		response.Debug = &domain.ServeDebug{
			RulesMatched:    result.RulesMatched,
			SelectionReason: result.SelectionReason,
		}
	}

	impression := &domain.Impression{
		ID:          impressionID,
		ProjectID:   params.ProjectID,
		PlacementID: result.PlacementID,
		CreativeID:  result.CreativeID,
		RuleID:      result.RuleID,
		Country:     params.Country,
		WasFallback: result.Fallback,
	}

	return response, []*domain.Impression{impression}
}

func (d *serveDeps) buildMulti(params selecting.Params, result *selecting.MultiResult, geoInfo domain.GeoInfo, debug bool) (*domain.ServeResponse, []*domain.Impression) {
	response := &domain.ServeResponse{
		Fallback:     result.Fallback,
		FallbackType: responseFallbackType(result.FallbackType),
		FallbackURL:  result.FallbackURL,
		Geo:          geoInfo,
		Creatives:    make([]*domain.ServeCreativeItem, 0, len(result.Items)),
	}

	if debug {
		response.Debug = &domain.ServeDebug{
			RulesMatched:    result.RulesMatched,
			SelectionReason: result.SelectionReason,
		}
	}

	impressions := make([]*domain.Impression, 0, len(result.Items))
	for _, item := range result.Items {
		impressionID := uuid.NewString()
		creativeID := item.CreativeID

		response.Creatives = append(response.Creatives, &domain.ServeCreativeItem{
			Creative:     item.Creative,
			ImpressionID: impressionID,
			TrackingURL:  d.trackingURL(impressionID, item.Creative.ClickURL),
		})

		impressions = append(impressions, &domain.Impression{
			ID:          impressionID,
			ProjectID:   params.ProjectID,
			PlacementID: result.PlacementID,
			CreativeID:  &creativeID,
			RuleID:      item.RuleID,
			Country:     params.Country,
			WasFallback: result.Fallback,
		})
	}

	if len(response.Creatives) > 0 {
		response.Creative = response.Creatives[0].Creative
	}

	// Fallback sem criativo ainda conta uma impressão do placement
	if len(impressions) == 0 {
		impressionID := uuid.NewString()
		response.ImpressionID = impressionID
		if result.FallbackURL != nil {
			response.TrackingURL = d.trackingURL(impressionID, *result.FallbackURL)
		}

		impressions = append(impressions, &domain.Impression{
			ID:          impressionID,
			ProjectID:   params.ProjectID,
			PlacementID: result.PlacementID,
			Country:     params.Country,
			WasFallback: true,
		})
	}

	return response, impressions
}

func (d *serveDeps) trackingURL(impressionID, destination string) string {
	return fmt.Sprintf("%s/api/v1/click/%s?url=%s",
		strings.TrimRight(d.cfg.PublicBaseURL, "/"), impressionID, url.QueryEscape(destination))
}

// apiKeyFrom lê a chave do X-API-Key, senão do Authorization: Bearer
func apiKeyFrom(r *http.Request) string {
	if key := r.Header.Get(apiKeyHeader); key != "" {
		return key
	}

	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// parseLimit devolve 1 para valores ausentes ou não numéricos. O teto é aplicado pelo seletor.
func parseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 1
	}
	return limit
}

func responseFallbackType(t domain.FallbackType) string {
	switch t {
	case domain.FallbackTypeCreative:
		return domain.ResponseFallbackPlacementDefault
	case domain.FallbackTypeURL:
		return domain.ResponseFallbackURL
	default:
		return domain.ResponseFallbackNone
	}
}

func outcomeFor(fallback bool, t domain.FallbackType) string {
	if !fallback {
		return metrics.OutcomeServed
	}

	switch t {
	case domain.FallbackTypeCreative:
		return metrics.OutcomeFallbackCreative
	case domain.FallbackTypeURL:
		return metrics.OutcomeFallbackURL
	default:
		return metrics.OutcomeFallbackNone
	}
}
