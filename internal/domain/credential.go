package domain

import (
	"time"
)

// Escopos aceitos para as credenciais de API
const (
	ScopeServe      = "serve"
	ScopeAdminRead  = "admin:read"
	ScopeAdminWrite = "admin:write"
)

// Classes de emissão reconhecidas pelo prefixo da chave
const (
	CredentialClassLive = "live"
	CredentialClassTest = "test"
)

type APICredential struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"project_id"`
	Name       string     `json:"name"`
	KeyPrefix  string     `json:"key_prefix"`
	KeyHash    string     `json:"-"`
	Scopes     []string   `json:"scopes"`
	ExpiresAt  *time.Time `json:"expires_at"`
	IsActive   bool       `json:"is_active"`
	LastUsedAt *time.Time `json:"last_used_at"`
}

// CredentialMetadata é o subconjunto da credencial mantido em cache
type CredentialMetadata struct {
	CredentialID string
	ProjectID    string
	IsActive     bool
	ExpiresAt    *time.Time
	Scopes       []string
}

func (c *APICredential) Metadata() CredentialMetadata {
	return CredentialMetadata{
		CredentialID: c.ID,
		ProjectID:    c.ProjectID,
		IsActive:     c.IsActive,
		ExpiresAt:    c.ExpiresAt,
		Scopes:       c.Scopes,
	}
}

func (m CredentialMetadata) IsExpired(now time.Time) bool {
	return m.ExpiresAt != nil && m.ExpiresAt.Before(now)
}

func (m CredentialMetadata) HasScope(scope string) bool {
	for _, s := range m.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
