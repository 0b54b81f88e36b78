// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package secrets serves named server-side secrets such as third-party API keys.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/repository"
)

var (
	ErrNameRequired = errors.New("secret name is required")
	ErrNotFound     = errors.New("secret not found")
)

// Store is the persistence the service needs.
type Store interface {
	GetSecret(ctx context.Context, name string) (string, error)
	SetSecret(ctx context.Context, name, value string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get returns the value of name.
func (s *Service) Get(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	value, err := s.store.GetSecret(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return "", fmt.Errorf("get secret %s: %w", name, err)
	}
	return value, nil
}

// Set creates or replaces name.
func (s *Service) Set(ctx context.Context, name, value string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	return s.store.SetSecret(ctx, name, value)
}
