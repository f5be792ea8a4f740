package db

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "session:" // String: session:{token} -> staff internal id

// ErrNoSession is returned when a token has no active session, either because
// it was never issued, was destroyed on logout, or expired
var ErrNoSession = errors.New("no active session")

// SessionService handles login sessions stored in Redis
type SessionService struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewSessionService creates a new SessionService instance
func NewSessionService(client *redis.Client, ttl time.Duration) *SessionService {
	return &SessionService{Client: client, TTL: ttl}
}

// Helper to generate session key
func getSessionKey(token string) string {
	return sessionKeyPrefix + token
}

// Create establishes a new session for the given staff internal id and
// returns the opaque session token
func (s *SessionService) Create(ctx context.Context, staffID int64) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	if err := s.Client.Set(ctx, getSessionKey(token), staffID, s.TTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store session in Redis: %w", err)
	}
	return token, nil
}

// StaffID resolves a session token to the staff internal id it was issued
// for. Returns ErrNoSession for unknown or expired tokens.
func (s *SessionService) StaffID(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrNoSession
	}
	id, err := s.Client.Get(ctx, getSessionKey(token)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up session in Redis: %w", err)
	}
	return id, nil
}

// Destroy ends the session for the given token. Destroying a token that has
// no session is not an error.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.Client.Del(ctx, getSessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from Redis: %w", err)
	}
	return nil
}

// NewRedisClient creates and tests a Redis client connection
func NewRedisClient(addr, password string, database int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       database,
	})

	// Ping Redis to check connection
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}
