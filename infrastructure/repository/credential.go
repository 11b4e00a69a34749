package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/affiliate-serving-api/infrastructure/database/postgres"
	"github.com/vfg2006/affiliate-serving-api/internal/domain"
)

const (
	apiKeysTable = "api_keys"
)

type CredentialRepository interface {
	GetByDigest(ctx context.Context, digest string) (*domain.APICredential, error)
	TouchLastUsed(ctx context.Context, credentialID string, usedAt time.Time) error
}

type credentialRepository struct {
	conn *postgres.Connection
}

func NewCredentialRepository(conn *postgres.Connection) CredentialRepository {
	return &credentialRepository{
		conn: conn,
	}
}

// GetByDigest busca a credencial pelo hash da chave. Retorna nil, nil quando não existe.
func (r *credentialRepository) GetByDigest(ctx context.Context, digest string) (*domain.APICredential, error) {
	query, args, err := squirrel.
		Select("id, project_id, name, key_prefix, key_hash, scopes, expires_at, is_active, last_used_at").
		From(apiKeysTable).
		Where(squirrel.Eq{"key_hash": digest}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build credential query")
	}

	cred := &domain.APICredential{}
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&cred.ID,
		&cred.ProjectID,
		&cred.Name,
		&cred.KeyPrefix,
		&cred.KeyHash,
		pq.Array(&cred.Scopes),
		&cred.ExpiresAt,
		&cred.IsActive,
		&cred.LastUsedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to fetch credential by digest")
	}

	return cred, nil
}

func (r *credentialRepository) TouchLastUsed(ctx context.Context, credentialID string, usedAt time.Time) error {
	query, args, err := squirrel.
		Update(apiKeysTable).
		Set("last_used_at", usedAt).
		Where(squirrel.Eq{"id": credentialID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build last_used_at update")
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return errors.Wrapf(pqErr, "database error (code: %s)", pqErr.Code)
		}
		return errors.Wrap(err, "failed to update last_used_at")
	}

	return nil
}
