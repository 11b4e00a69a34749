package credentialing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/affiliate-serving-api/infrastructure/repository/mocks"
	"github.com/vfg2006/affiliate-serving-api/internal/domain"
	"github.com/vfg2006/affiliate-serving-api/pkg/apiErrors"
	"github.com/vfg2006/affiliate-serving-api/pkg/cache"
	"go.uber.org/mock/gomock"
)

const testKey = "am_live_0123456789abcdefghijklmnopqrstuvwxyzABCDEFG"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func activeCredential() *domain.APICredential {
	return &domain.APICredential{
		ID:        "key-1",
		ProjectID: "proj-1",
		KeyPrefix: testKey[:16],
		KeyHash:   Digest(testKey),
		Scopes:    []string{domain.ScopeServe},
		IsActive:  true,
	}
}

func TestService_Validate(t *testing.T) {
	clock := newClock()

	tests := []struct {
		name         string
		rawKey       string
		setup        func(repo *mocks.MockCredentialRepository)
		expectedCode string
		expectedID   string
	}{
		{
			name:         "Chave ausente",
			rawKey:       "",
			setup:        func(repo *mocks.MockCredentialRepository) {},
			expectedCode: apiErrors.ErrMissingCredential,
		},
		{
			name:         "Prefixo desconhecido não consulta o banco",
			rawKey:       "sk_live_123",
			setup:        func(repo *mocks.MockCredentialRepository) {},
			expectedCode: apiErrors.ErrInvalidCredential,
		},
		{
			name:   "Digest inexistente",
			rawKey: testKey,
			setup: func(repo *mocks.MockCredentialRepository) {
				repo.EXPECT().GetByDigest(gomock.Any(), Digest(testKey)).Return(nil, nil)
			},
			expectedCode: apiErrors.ErrInvalidCredential,
		},
		{
			name:   "Erro do banco vira credencial inválida",
			rawKey: testKey,
			setup: func(repo *mocks.MockCredentialRepository) {
				repo.EXPECT().GetByDigest(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			expectedCode: apiErrors.ErrInvalidCredential,
		},
		{
			name:   "Credencial desativada",
			rawKey: testKey,
			setup: func(repo *mocks.MockCredentialRepository) {
				cred := activeCredential()
				cred.IsActive = false
				repo.EXPECT().GetByDigest(gomock.Any(), gomock.Any()).Return(cred, nil)
			},
			expectedCode: apiErrors.ErrCredentialInactive,
		},
		{
			name:   "Credencial expirada",
			rawKey: testKey,
			setup: func(repo *mocks.MockCredentialRepository) {
				cred := activeCredential()
				cred.ExpiresAt = timePtr(clock.Now().Add(-time.Minute))
				repo.EXPECT().GetByDigest(gomock.Any(), gomock.Any()).Return(cred, nil)
			},
			expectedCode: apiErrors.ErrCredentialExpired,
		},
		{
			name:   "Sem escopo serve",
			rawKey: testKey,
			setup: func(repo *mocks.MockCredentialRepository) {
				cred := activeCredential()
				cred.Scopes = []string{domain.ScopeAdminRead}
				repo.EXPECT().GetByDigest(gomock.Any(), gomock.Any()).Return(cred, nil)
			},
			expectedCode: apiErrors.ErrInsufficientScope,
		},
		{
			name:   "Credencial válida com expiração futura",
			rawKey: testKey,
			setup: func(repo *mocks.MockCredentialRepository) {
				cred := activeCredential()
				cred.ExpiresAt = timePtr(clock.Now().Add(time.Hour))
				repo.EXPECT().GetByDigest(gomock.Any(), gomock.Any()).Return(cred, nil)
				repo.EXPECT().TouchLastUsed(gomock.Any(), "key-1", gomock.Any()).Return(nil)
			},
			expectedID: "proj-1",
		},
		{
			name:   "Falha no last_used_at não afeta a validação",
			rawKey: "am_test_" + testKey[8:],
			setup: func(repo *mocks.MockCredentialRepository) {
				repo.EXPECT().GetByDigest(gomock.Any(), gomock.Any()).Return(activeCredential(), nil)
				repo.EXPECT().TouchLastUsed(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("timeout"))
			},
			expectedID: "proj-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockCredentialRepository(ctrl)
			tt.setup(repo)

			svc := NewService(repo, WithClock(clock.Now))

			projectID, err := svc.Validate(context.Background(), tt.rawKey)
			require.NoError(t, svc.Wait(context.Background()))

			if tt.expectedCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedCode, CodeOf(err))
				assert.Empty(t, projectID)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedID, projectID)
		})
	}
}

func TestService_CacheHitSkipsStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockCredentialRepository(ctrl)
	repo.EXPECT().GetByDigest(gomock.Any(), Digest(testKey)).Return(activeCredential(), nil).Times(1)
	repo.EXPECT().TouchLastUsed(gomock.Any(), "key-1", gomock.Any()).Return(nil).Times(3)

	svc := NewService(repo, WithCache(cache.New[domain.CredentialMetadata]()))

	for i := 0; i < 3; i++ {
		projectID, err := svc.Validate(context.Background(), testKey)
		require.NoError(t, err)
		assert.Equal(t, "proj-1", projectID)
	}

	require.NoError(t, svc.Wait(context.Background()))
}

// Uma chave revogada continua aceita até o TTL do cache vencer
func TestService_RevocationStalenessWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clock := newClock()
	ttl := 2 * time.Minute

	revoked := activeCredential()
	revoked.IsActive = false

	repo := mocks.NewMockCredentialRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().GetByDigest(gomock.Any(), gomock.Any()).Return(activeCredential(), nil),
		repo.EXPECT().GetByDigest(gomock.Any(), gomock.Any()).Return(revoked, nil),
	)
	repo.EXPECT().TouchLastUsed(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := NewService(repo,
		WithClock(clock.Now),
		WithCache(cache.New[domain.CredentialMetadata](cache.WithTTL(ttl), cache.WithClock(clock.Now))),
	)

	_, err := svc.Validate(context.Background(), testKey)
	require.NoError(t, err)

	// Revogada no banco, ainda dentro da janela
	clock.Advance(ttl - time.Second)
	projectID, err := svc.Validate(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, "proj-1", projectID)

	// Janela vencida, o banco é consultado de novo
	clock.Advance(2 * time.Second)
	_, err = svc.Validate(context.Background(), testKey)
	require.Error(t, err)
	assert.Equal(t, apiErrors.ErrCredentialInactive, CodeOf(err))

	require.NoError(t, svc.Wait(context.Background()))
}

func TestService_ExpiredEntryIsDroppedFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clock := newClock()
	cred := activeCredential()
	cred.ExpiresAt = timePtr(clock.Now().Add(30 * time.Second))

	repo := mocks.NewMockCredentialRepository(ctrl)
	repo.EXPECT().GetByDigest(gomock.Any(), gomock.Any()).Return(cred, nil).Times(1)
	repo.EXPECT().TouchLastUsed(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	c := cache.New[domain.CredentialMetadata](cache.WithClock(clock.Now))
	svc := NewService(repo, WithClock(clock.Now), WithCache(c))

	_, err := svc.Validate(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	clock.Advance(time.Minute)
	_, err = svc.Validate(context.Background(), testKey)
	assert.Equal(t, apiErrors.ErrCredentialExpired, CodeOf(err))
	assert.Equal(t, 0, c.Len())

	require.NoError(t, svc.Wait(context.Background()))
}

func TestService_Invalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockCredentialRepository(ctrl)
	repo.EXPECT().GetByDigest(gomock.Any(), gomock.Any()).Return(activeCredential(), nil).Times(2)
	repo.EXPECT().TouchLastUsed(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	svc := NewService(repo, WithCache(cache.New[domain.CredentialMetadata]()))

	_, err := svc.Validate(context.Background(), testKey)
	require.NoError(t, err)

	assert.Equal(t, 1, svc.Invalidate(Digest(testKey), "unknown"))

	_, err = svc.Validate(context.Background(), testKey)
	require.NoError(t, err)

	require.NoError(t, svc.Wait(context.Background()))
}
