// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package session keeps the login state and one-shot flash messages in
// signed cookies.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/config"
)

const flashCookieName = "_flash"

// Data is the payload of the session cookie.
type Data struct {
	ExpiresAt time.Time
	UserID    string
	Email     string
	SessionID string
}

// FlashKind selects the toast style.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a message shown once after a redirect.
type Flash struct {
	Kind    FlashKind
	Message string
}

type Manager struct {
	codec      *securecookie.SecureCookie
	cookieName string
	maxAge     int
	secure     bool
}

// NewManager builds a manager from cfg. An empty hash key is replaced by a
// random one, which invalidates sessions on restart.
func NewManager(cfg *config.SessionConfig, secure bool) (*Manager, error) {
	hashKey, err := decodeKey(cfg.HashKey, "hash")
	if err != nil {
		return nil, err
	}
	if hashKey == nil {
		slog.Warn("no session hash key configured, sessions will not survive restarts")
		hashKey = make([]byte, 32)
		if _, err := rand.Read(hashKey); err != nil {
			return nil, fmt.Errorf("generate session hash key: %w", err)
		}
	}

	blockKey, err := decodeKey(cfg.BlockKey, "block")
	if err != nil {
		return nil, err
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(cfg.MaxAge)

	return &Manager{
		codec:      codec,
		cookieName: cfg.CookieName,
		maxAge:     cfg.MaxAge,
		secure:     secure,
	}, nil
}

func decodeKey(s, name string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid session %s key: %w", name, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid session %s key: must be 32 bytes, got %d", name, len(key))
	}
	return key, nil
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Create issues a session cookie for the user with a fresh session ID.
func (m *Manager) Create(userID, email string) (*http.Cookie, error) {
	data := Data{
		UserID:    userID,
		Email:     email,
		SessionID: uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Duration(m.maxAge) * time.Second),
	}
	encoded, err := m.codec.Encode(m.cookieName, data)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return m.cookie(m.cookieName, encoded, m.maxAge), nil
}

// Parse returns the session of r, or nil when it is missing, tampered
// with or expired.
func (m *Manager) Parse(r *http.Request) (*Data, error) {
	c, err := r.Cookie(m.cookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}

	var data Data
	if err := m.codec.Decode(m.cookieName, c.Value, &data); err != nil {
		return nil, nil //nolint:nilerr // an undecodable cookie is simply no session
	}
	if time.Now().After(data.ExpiresAt) {
		return nil, nil
	}
	return &data, nil
}

// Clear returns a cookie that deletes the session.
func (m *Manager) Clear() *http.Cookie {
	return m.cookie(m.cookieName, "", -1)
}

// SetFlash stores a flash for the next request.
func (m *Manager) SetFlash(w http.ResponseWriter, f Flash) {
	encoded, err := m.codec.Encode(flashCookieName, f)
	if err != nil {
		slog.Error("encode flash", "error", err)
		return
	}
	http.SetCookie(w, m.cookie(flashCookieName, encoded, 60))
}

// PopFlash reads and clears the pending flash.
func (m *Manager) PopFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, m.cookie(flashCookieName, "", -1))

	var f Flash
	if err := m.codec.Decode(flashCookieName, c.Value, &f); err != nil {
		return nil
	}
	return &f
}
