package session

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"tidewatch/internal/domain"
	"tidewatch/internal/logger"
)

// tokenBytes gives 256 bits of entropy per session token.
const tokenBytes = 32

// Session is a decrypted session as seen by callers.
type Session struct {
	ID        string
	UserID    string
	CreatedAt int64
	State     domain.CredentialState
}

// Manager encrypts credential state with a process-wide AES-256-GCM key
// (derived once from the configured secret, never rotated at runtime) and
// hands ciphertext to the backend.
type Manager struct {
	store  Store
	gcm    cipher.AEAD
	ttl    time.Duration
	logger logger.Logger
}

func NewManager(secret string, store Store, ttl time.Duration, log logger.Logger) (*Manager, error) {
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to init GCM: %w", err)
	}
	return &Manager{store: store, gcm: gcm, ttl: ttl, logger: log}, nil
}

// Create encrypts state and stores it under a fresh random token.
// Collision probability at 256 bits is treated as negligible; there is
// no collision check.
func (m *Manager) Create(ctx context.Context, userID string, state domain.CredentialState) (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	blob, err := m.encrypt(state)
	if err != nil {
		return "", err
	}

	rec := Record{
		UserID:    userID,
		CreatedAt: time.Now().Unix(),
		Blob:      blob,
	}
	if err := m.store.Set(ctx, token, rec, m.ttl); err != nil {
		return "", err
	}

	m.logger.Info("session created",
		logger.String("user_id", userID),
		logger.Duration("ttl", m.ttl))
	return token, nil
}

// Get returns the decrypted session, or ok=false for missing, expired,
// and undecryptable records alike. A record that fails decryption is
// proactively deleted.
func (m *Manager) Get(ctx context.Context, token string) (*Session, bool) {
	rec, ok, err := m.store.Get(ctx, token)
	if err != nil {
		m.logger.Warn("session backend read failed", logger.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	state, err := m.decrypt(rec.Blob)
	if err != nil {
		m.logger.Warn("session decryption failed, deleting record",
			logger.Error(err))
		if err := m.store.Delete(ctx, token); err != nil {
			m.logger.Warn("failed to delete corrupt session", logger.Error(err))
		}
		return nil, false
	}

	return &Session{
		ID:        token,
		UserID:    rec.UserID,
		CreatedAt: rec.CreatedAt,
		State:     state,
	}, true
}

// TTL reports the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Delete removes a session. Deleting an absent session is not an error.
func (m *Manager) Delete(ctx context.Context, token string) error {
	return m.store.Delete(ctx, token)
}

// Validate reports whether a session exists and has not expired.
func (m *Manager) Validate(ctx context.Context, token string) bool {
	ok, err := m.store.Exists(ctx, token)
	if err != nil {
		m.logger.Warn("session backend check failed", logger.Error(err))
		return false
	}
	return ok
}

func (m *Manager) encrypt(state domain.CredentialState) ([]byte, error) {
	plaintext, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize credential state: %w", err)
	}

	nonce := make([]byte, m.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return m.gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (m *Manager) decrypt(blob []byte) (domain.CredentialState, error) {
	var state domain.CredentialState
	if len(blob) < m.gcm.NonceSize() {
		return state, fmt.Errorf("ciphertext shorter than nonce")
	}

	nonce, ciphertext := blob[:m.gcm.NonceSize()], blob[m.gcm.NonceSize():]
	plaintext, err := m.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return state, fmt.Errorf("failed to decrypt credential state: %w", err)
	}
	if err := json.Unmarshal(plaintext, &state); err != nil {
		return state, fmt.Errorf("failed to deserialize credential state: %w", err)
	}
	return state, nil
}
