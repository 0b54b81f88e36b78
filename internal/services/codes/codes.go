// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package codes provisions, assigns and exports NFC codes.
package codes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/cache"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/metrics"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/repository"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/sse"
)

const (
	MaxGenerate = 500
	// AvailableLimit is how many free codes the admin cards show.
	AvailableLimit = 10
	listTTL        = 5 * time.Minute
)

var (
	ErrInvalidCount = errors.New("count must be between 1 and 500")
	ErrInvalidType  = errors.New("unknown code type")
	ErrInvalidCode  = errors.New("invalid code")
	ErrCodeAssigned = errors.New("code already assigned")
	ErrNotFound     = errors.New("code not found")
)

// Notifier pushes invalidation events to open admin pages.
type Notifier interface {
	SendToAdmins(msg string)
}

type Service struct {
	repo     *repository.Repository
	cache    *cache.Client
	notifier Notifier
	baseURL  string
	now      func() time.Time
}

// NewService wires the code service. cache and notifier may be nil.
func NewService(repo *repository.Repository, c *cache.Client, n Notifier, baseURL string) *Service {
	return &Service{
		repo:     repo,
		cache:    c,
		notifier: n,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		now:      time.Now,
	}
}

// CacheKey is the list cache key for a code type.
func CacheKey(t models.CodeType) string {
	if t == models.CodeTypeReview {
		return "reviewCodes"
	}
	return "nfcCodes"
}

func (s *Service) changed(ctx context.Context, t models.CodeType) {
	s.cache.Invalidate(ctx, CacheKey(t))
	if s.notifier != nil {
		s.notifier.SendToAdmins(sse.CodesChanged(string(t)))
	}
}

// List returns every code of type t, newest first, through the cache.
func (s *Service) List(ctx context.Context, t models.CodeType) ([]models.Code, error) {
	if !t.Valid() {
		return nil, ErrInvalidType
	}
	return cache.Fetch(ctx, s.cache, CacheKey(t), listTTL, func(ctx context.Context) ([]models.Code, error) {
		return s.repo.ListCodesByType(ctx, t)
	})
}

// Available returns up to limit codes that are neither assigned nor hidden.
func Available(codes []models.Code, limit int) []models.Code {
	free := lo.Filter(codes, func(c models.Code, _ int) bool {
		return !c.Assigned() && !c.IsHidden
	})
	if len(free) > limit {
		free = free[:limit]
	}
	return free
}

// HiddenUnassigned returns the hidden codes nobody holds yet.
func HiddenUnassigned(codes []models.Code) []models.Code {
	return lo.Filter(codes, func(c models.Code, _ int) bool {
		return !c.Assigned() && c.IsHidden
	})
}

// Unassigned drops assigned codes. Hidden codes are kept.
func Unassigned(codes []models.Code) []models.Code {
	return lo.Reject(codes, func(c models.Code, _ int) bool { return c.Assigned() })
}

// RecentActivations returns the last assigned profile codes.
func (s *Service) RecentActivations(ctx context.Context, limit int) ([]models.Code, error) {
	return s.repo.ListRecentActivations(ctx, limit)
}

// Get loads a code by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Code, error) {
	code, err := s.repo.GetCodeByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return code, err
}

// Lookup loads a code by its printed value.
func (s *Service) Lookup(ctx context.Context, value string) (*models.Code, error) {
	code, err := s.repo.GetCodeByCode(ctx, Normalize(value))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return code, err
}

// Normalize trims and uppercases user input.
func Normalize(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// SetHidden toggles whether a code shows in the available list.
func (s *Service) SetHidden(ctx context.Context, id string, hidden bool) (*models.Code, error) {
	code, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetCodeHidden(ctx, id, hidden); err != nil {
		return nil, fmt.Errorf("set hidden: %w", err)
	}
	code.IsHidden = hidden
	s.changed(ctx, code.Type)
	return code, nil
}

// Claim assigns the code typed by a user to that user.
func (s *Service) Claim(ctx context.Context, userID, value string) (*models.Code, error) {
	value = Normalize(value)
	if value == "" {
		return nil, ErrInvalidCode
	}

	code, err := s.repo.GetCodeByCode(ctx, value)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("lookup code: %w", err)
	}
	if code.Assigned() {
		return nil, ErrCodeAssigned
	}

	if err := s.repo.ClaimCode(ctx, code, userID, s.now()); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrCodeAssigned
		}
		return nil, fmt.Errorf("claim code: %w", err)
	}

	metrics.CodesClaimedTotal.WithLabelValues(string(code.Type)).Inc()
	slog.Info("code claimed", "code", code.Code, "type", code.Type, "user_id", userID)
	s.changed(ctx, code.Type)

	return s.repo.GetCodeByID(ctx, code.ID)
}

// UpdateReviewPlaque saves the plaque text and redirect target of a code
// the user owns.
func (s *Service) UpdateReviewPlaque(ctx context.Context, userID, id, title, description, redirectURL string) error {
	code, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !code.OwnedBy(userID) {
		return ErrNotFound
	}

	var target *string
	if redirectURL = strings.TrimSpace(redirectURL); redirectURL != "" {
		target = &redirectURL
	}
	if err := s.repo.UpdateReviewPlaque(ctx, id, strings.TrimSpace(title), strings.TrimSpace(description), target); err != nil {
		return fmt.Errorf("update review plaque: %w", err)
	}
	s.changed(ctx, models.CodeTypeReview)
	return nil
}
