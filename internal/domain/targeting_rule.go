package domain

type TargetingRule struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	PlacementID string    `json:"placement_id"`
	CreativeID  string    `json:"creative_id"`
	Countries   []string  `json:"countries"`  // vazio = qualquer país
	Categories  []string  `json:"categories"` // vazio = qualquer categoria
	Priority    int       `json:"priority"`
	Weight      int       `json:"weight"`
	IsActive    bool      `json:"is_active"`
	Creative    *Creative `json:"creative,omitempty"`
}
