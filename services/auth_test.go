package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memorySessionStore struct {
	mu   sync.Mutex
	jtis map[string]string
	err  error
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{jtis: make(map[string]string)}
}

func (m *memorySessionStore) Save(ctx context.Context, jti, userID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.jtis[jti] = userID
	return nil
}

func (m *memorySessionStore) Delete(ctx context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.jtis[jti]
	delete(m.jtis, jti)
	return ok, nil
}

func (m *memorySessionStore) has(jti string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.jtis[jti]
	return ok
}

func newTestAuthService(user *models.User, store *memorySessionStore) *AuthService {
	return &AuthService{
		sessions: store,
		getUser: func(idUser primitive.ObjectID) (*models.User, *res.ErrorRes) {
			if idUser != user.ID {
				return nil, &res.ErrorRes{
					Err:        errors.New("user not found"),
					StatusCode: http.StatusNotFound,
				}
			}
			return user, nil
		},
	}
}

func TestRefreshRotation(t *testing.T) {
	user := tokenUser()
	user.Status = true
	store := newMemorySessionStore()
	auth := newTestAuthService(user, store)

	pair, errRes := auth.issueTokens(user)
	require.Nil(t, errRes)
	oldJti := pair.refreshClaims.Id
	require.True(t, store.has(oldJti))

	rotated, errRes := auth.Refresh(pair.RefreshToken)
	require.Nil(t, errRes)
	assert.False(t, store.has(oldJti))
	assert.True(t, store.has(rotated.refreshClaims.Id))
	assert.NotEqual(t, oldJti, rotated.refreshClaims.Id)

	// The rotated token can no longer be used
	_, errRes = auth.Refresh(pair.RefreshToken)
	require.NotNil(t, errRes)
	assert.Equal(t, http.StatusUnauthorized, errRes.StatusCode)
}

func TestRefreshErrors(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(user *models.User, store *memorySessionStore, pair *TokenPair) string
		status int
	}{
		{
			name: "access token",
			setup: func(user *models.User, store *memorySessionStore, pair *TokenPair) string {
				return pair.AccessToken
			},
			status: http.StatusUnauthorized,
		},
		{
			name: "garbage",
			setup: func(user *models.User, store *memorySessionStore, pair *TokenPair) string {
				return "not-a-token"
			},
			status: http.StatusUnauthorized,
		},
		{
			name: "revoked",
			setup: func(user *models.User, store *memorySessionStore, pair *TokenPair) string {
				store.Delete(context.Background(), pair.refreshClaims.Id)
				return pair.RefreshToken
			},
			status: http.StatusUnauthorized,
		},
		{
			name: "store down",
			setup: func(user *models.User, store *memorySessionStore, pair *TokenPair) string {
				store.err = errors.New("redis down")
				return pair.RefreshToken
			},
			status: http.StatusServiceUnavailable,
		},
		{
			name: "deactivated",
			setup: func(user *models.User, store *memorySessionStore, pair *TokenPair) string {
				user.Status = false
				return pair.RefreshToken
			},
			status: http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := tokenUser()
			user.Status = true
			store := newMemorySessionStore()
			auth := newTestAuthService(user, store)
			pair, errRes := auth.issueTokens(user)
			require.Nil(t, errRes)

			_, errRes = auth.Refresh(tt.setup(user, store, pair))
			require.NotNil(t, errRes)
			assert.Equal(t, tt.status, errRes.StatusCode)
		})
	}
}

func TestRefreshReplayedConcurrently(t *testing.T) {
	user := tokenUser()
	user.Status = true
	store := newMemorySessionStore()
	auth := newTestAuthService(user, store)
	pair, errRes := auth.issueTokens(user)
	require.Nil(t, errRes)

	const callers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, errRes := auth.Refresh(pair.RefreshToken); errRes == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)
}

func TestLogoutRevokes(t *testing.T) {
	user := tokenUser()
	user.Status = true
	store := newMemorySessionStore()
	auth := newTestAuthService(user, store)
	pair, errRes := auth.issueTokens(user)
	require.Nil(t, errRes)

	assert.Nil(t, auth.Logout(pair.RefreshToken))
	assert.False(t, store.has(pair.refreshClaims.Id))

	_, errRes = auth.Refresh(pair.RefreshToken)
	require.NotNil(t, errRes)
	assert.Equal(t, http.StatusUnauthorized, errRes.StatusCode)

	// Unknown or empty tokens are a no-op
	assert.Nil(t, auth.Logout(""))
	assert.Nil(t, auth.Logout("not-a-token"))
}
