package domain

type FallbackType string

const (
	FallbackTypeNone     FallbackType = "none"
	FallbackTypeCreative FallbackType = "creative"
	FallbackTypeURL      FallbackType = "url"
)

type Placement struct {
	ID                 string       `json:"id"`
	ProjectID          string       `json:"project_id"`
	Name               string       `json:"name"`
	Slug               string       `json:"slug"`
	IsActive           bool         `json:"is_active"`
	FallbackType       FallbackType `json:"fallback_type"`
	FallbackCreativeID *string      `json:"fallback_creative_id"`
	FallbackURL        *string      `json:"fallback_url"`
}
