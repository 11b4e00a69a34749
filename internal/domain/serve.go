package domain

type GeoSource string

const (
	GeoSourceParam            GeoSource = "param"
	GeoSourceVercelHeader     GeoSource = "vercel-header"
	GeoSourceCloudflareHeader GeoSource = "cloudflare-header"
	GeoSourceUnknown          GeoSource = "unknown"
)

type GeoInfo struct {
	Country *string   `json:"country"`
	Source  GeoSource `json:"source"`
}

type ServeCreative struct {
	ClickURL string         `json:"click_url"`
	ImageURL *string        `json:"image_url"`
	AltText  *string        `json:"alt_text"`
	Width    *int           `json:"width"`
	Height   *int           `json:"height"`
	Format   CreativeFormat `json:"format"`
}

// Valores públicos de fallback_type na resposta
const (
	ResponseFallbackPlacementDefault = "placement_default"
	ResponseFallbackURL              = "url"
	ResponseFallbackNone             = "none"
)

type ServeDebug struct {
	RulesMatched    int    `json:"rules_matched"`
	SelectionReason string `json:"selection_reason"`
}

type ServeCreativeItem struct {
	Creative     *ServeCreative `json:"creative"`
	ImpressionID string         `json:"impression_id"`
	TrackingURL  string         `json:"tracking_url"`
}

type ServeResponse struct {
	Creative     *ServeCreative       `json:"creative"`
	Fallback     bool                 `json:"fallback"`
	FallbackType string               `json:"fallback_type,omitempty"`
	FallbackURL  *string              `json:"fallback_url,omitempty"`
	Geo          GeoInfo              `json:"geo"`
	Debug        *ServeDebug          `json:"debug,omitempty"`
	ImpressionID string               `json:"impression_id,omitempty"`
	TrackingURL  string               `json:"tracking_url,omitempty"`
	Creatives    []*ServeCreativeItem `json:"creatives,omitempty"`
}
