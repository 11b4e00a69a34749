package domain

import (
	"time"
)

type Impression struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	PlacementID string    `json:"placement_id"`
	CreativeID  *string   `json:"creative_id"`
	RuleID      *string   `json:"rule_id"`
	Country     *string   `json:"country"`
	WasFallback bool      `json:"was_fallback"`
	CreatedAt   time.Time `json:"created_at"`
}

type Click struct {
	ID           string    `json:"id"`
	ImpressionID *string   `json:"impression_id"`
	ProjectID    string    `json:"project_id"`
	CreativeID   *string   `json:"creative_id"`
	Country      *string   `json:"country"`
	CreatedAt    time.Time `json:"created_at"`
}

// DailyStat é o agregado diário de impressões e cliques
type DailyStat struct {
	Date        time.Time `json:"date"`
	ProjectID   string    `json:"project_id"`
	PlacementID *string   `json:"placement_id"`
	CreativeID  *string   `json:"creative_id"`
	Country     *string   `json:"country"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
}
