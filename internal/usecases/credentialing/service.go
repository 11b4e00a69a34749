package credentialing

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/affiliate-serving-api/infrastructure/repository"
	"github.com/vfg2006/affiliate-serving-api/internal/domain"
	"github.com/vfg2006/affiliate-serving-api/pkg/cache"
	"github.com/vfg2006/affiliate-serving-api/pkg/log"
)

const defaultTouchTimeout = 3 * time.Second

type Validator interface {
	Validate(ctx context.Context, rawKey string) (string, error)
	Invalidate(digests ...string) int
}

type Service struct {
	credentialRepo repository.CredentialRepository
	cache          *cache.LRU[domain.CredentialMetadata]
	requiredScope  string
	touchTimeout   time.Duration
	now            func() time.Time
	wg             sync.WaitGroup
}

type Option func(*Service)

// WithCache habilita o cache de metadados por digest
func WithCache(c *cache.LRU[domain.CredentialMetadata]) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithTouchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.touchTimeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(credentialRepo repository.CredentialRepository, opts ...Option) *Service {
	s := &Service{
		credentialRepo: credentialRepo,
		requiredScope:  domain.ScopeServe,
		touchTimeout:   defaultTouchTimeout,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Validate resolve a chave bruta para o ID do projeto
func (s *Service) Validate(ctx context.Context, rawKey string) (string, error) {
	if rawKey == "" {
		return "", newCredentialError(ErrMissingCredential, "")
	}

	if !hasRecognizedPrefix(rawKey) {
		return "", newCredentialError(ErrInvalidCredential, "prefixo não reconhecido")
	}

	digest := Digest(rawKey)

	meta, err := s.lookup(ctx, digest)
	if err != nil {
		return "", err
	}

	if !meta.IsActive {
		return "", newCredentialError(ErrCredentialInactive, "")
	}

	if meta.IsExpired(s.now()) {
		if s.cache != nil {
			s.cache.Delete(digest)
		}
		return "", newCredentialError(ErrCredentialExpired, "")
	}

	if !meta.HasScope(s.requiredScope) {
		return "", newCredentialError(ErrInsufficientScope, s.requiredScope)
	}

	s.touchLastUsed(ctx, meta.CredentialID)

	return meta.ProjectID, nil
}

func (s *Service) lookup(ctx context.Context, digest string) (domain.CredentialMetadata, error) {
	if s.cache != nil {
		if meta, ok := s.cache.Get(digest); ok {
			return meta, nil
		}
	}

	cred, err := s.credentialRepo.GetByDigest(ctx, digest)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao buscar credencial no banco")
		return domain.CredentialMetadata{}, newCredentialError(ErrInvalidCredential, "falha na consulta")
	}

	if cred == nil {
		return domain.CredentialMetadata{}, newCredentialError(ErrInvalidCredential, "")
	}

	meta := cred.Metadata()
	if s.cache != nil {
		s.cache.Set(digest, meta)
	}

	return meta, nil
}

// touchLastUsed atualiza last_used_at fora do caminho da requisição
func (s *Service) touchLastUsed(ctx context.Context, credentialID string) {
	logger := log.ForContext(ctx)
	usedAt := s.now().UTC()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		touchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.touchTimeout)
		defer cancel()

		if err := s.credentialRepo.TouchLastUsed(touchCtx, credentialID, usedAt); err != nil {
			logger.WithError(err).Warn("Falha ao atualizar last_used_at da credencial")
		}
	}()
}

// Invalidate remove digests do cache e retorna quantos existiam
func (s *Service) Invalidate(digests ...string) int {
	if s.cache == nil {
		return 0
	}

	removed := 0
	for _, digest := range digests {
		if s.cache.Delete(digest) {
			removed++
		}
	}

	return removed
}

// Wait aguarda as atualizações de last_used_at em andamento
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
