package handler

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/affiliate-serving-api/internal/domain"
	"github.com/vfg2006/affiliate-serving-api/pkg/log"
)

func init() {
	log.SetupTestLogger()
}

var testNow = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

// recorderSpy guarda as chamadas do gravador de analytics
type recorderSpy struct {
	mu          sync.Mutex
	impressions []*domain.Impression
	clicks      []string
}

func (r *recorderSpy) RecordImpressions(_ context.Context, impressions []*domain.Impression) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.impressions = append(r.impressions, impressions...)
}

func (r *recorderSpy) RecordClick(_ context.Context, impressionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clicks = append(r.clicks, impressionID)
}

func (r *recorderSpy) recordedImpressions() []*domain.Impression {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Impression(nil), r.impressions...)
}
