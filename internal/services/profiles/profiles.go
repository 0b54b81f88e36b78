// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package profiles edits and serves the digital business cards.
package profiles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/repository"
)

var (
	ErrNotFound  = errors.New("profile not found")
	ErrForbidden = errors.New("profile belongs to another user")
)

// Input is the editable part of a profile as submitted by the edit form.
type Input struct { //nolint:govet // fieldalignment: mirrors the form order
	FullName        string `form:"full_name" validate:"max=100"`
	JobTitle        string `form:"job_title" validate:"max=100"`
	Company         string `form:"company" validate:"max=100"`
	Email           string `form:"email" validate:"omitempty,email,max=254"`
	Phone           string `form:"phone" validate:"max=50"`
	Website         string `form:"website" validate:"omitempty,url,max=2048"`
	Bio             string `form:"bio" validate:"max=1000"`
	FacebookURL     string `form:"facebook_url" validate:"omitempty,url,max=2048"`
	InstagramURL    string `form:"instagram_url" validate:"omitempty,url,max=2048"`
	TwitterURL      string `form:"twitter_url" validate:"omitempty,url,max=2048"`
	YoutubeURL      string `form:"youtube_url" validate:"omitempty,url,max=2048"`
	LinkedinURL     string `form:"linkedin_url" validate:"omitempty,url,max=2048"`
	ButtonColor     string `form:"button_color" validate:"omitempty,hexcolor"`
	ButtonTextColor string `form:"button_text_color" validate:"omitempty,hexcolor"`
}

func (in *Input) trim() {
	for _, f := range []*string{
		&in.FullName, &in.JobTitle, &in.Company, &in.Email, &in.Phone, &in.Website, &in.Bio,
		&in.FacebookURL, &in.InstagramURL, &in.TwitterURL, &in.YoutubeURL, &in.LinkedinURL,
		&in.ButtonColor, &in.ButtonTextColor,
	} {
		*f = strings.TrimSpace(*f)
	}
}

func (in *Input) apply(p *models.Profile) {
	p.FullName = in.FullName
	p.JobTitle = in.JobTitle
	p.Company = in.Company
	p.Email = in.Email
	p.Phone = in.Phone
	p.Website = in.Website
	p.Bio = in.Bio
	p.FacebookURL = in.FacebookURL
	p.InstagramURL = in.InstagramURL
	p.TwitterURL = in.TwitterURL
	p.YoutubeURL = in.YoutubeURL
	p.LinkedinURL = in.LinkedinURL
	p.ButtonColor = in.ButtonColor
	p.ButtonTextColor = in.ButtonTextColor
}

// InputFrom prefills the edit form from a stored profile.
func InputFrom(p *models.Profile) Input {
	return Input{
		FullName: p.FullName, JobTitle: p.JobTitle, Company: p.Company,
		Email: p.Email, Phone: p.Phone, Website: p.Website, Bio: p.Bio,
		FacebookURL: p.FacebookURL, InstagramURL: p.InstagramURL, TwitterURL: p.TwitterURL,
		YoutubeURL: p.YoutubeURL, LinkedinURL: p.LinkedinURL,
		ButtonColor: p.ButtonColor, ButtonTextColor: p.ButtonTextColor,
	}
}

// ButtonInput is a new profile button.
type ButtonInput struct {
	Label       string            `form:"label" validate:"required,max=60"`
	ActionType  models.ActionType `form:"action_type" validate:"required,oneof=link email call"`
	ActionValue string            `form:"action_value" validate:"required,max=2048"`
}

// Page is everything needed to render or edit one profile.
type Page struct {
	Code    *models.Code
	Profile *models.Profile
	Buttons []models.Button
}

type Service struct {
	repo     *repository.Repository
	validate *validator.Validate
}

func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// ListForUser returns the dashboard cards of a user.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.ProfileCard, error) {
	return s.repo.ListProfileCardsByUser(ctx, userID)
}

// Load resolves a public slug to its profile page.
func (s *Service) Load(ctx context.Context, slug string) (*Page, error) {
	code, err := s.repo.GetCodeBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err)
	}
	profile, err := s.repo.GetProfileByCodeID(ctx, code.ID)
	if err != nil {
		return nil, notFound(err)
	}
	buttons, err := s.repo.ListButtons(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("list buttons: %w", err)
	}
	return &Page{Code: code, Profile: profile, Buttons: buttons}, nil
}

// ForOwner loads a page only if userID owns the profile.
func (s *Service) ForOwner(ctx context.Context, userID, slug string) (*Page, error) {
	page, err := s.Load(ctx, slug)
	if err != nil {
		return nil, err
	}
	if page.Profile.UserID != userID {
		return nil, ErrForbidden
	}
	return page, nil
}

// Update validates in and writes it to the user's profile. Validation
// failures are returned as validator.ValidationErrors.
func (s *Service) Update(ctx context.Context, userID, slug string, in Input) (*models.Profile, error) {
	in.trim()
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	page, err := s.ForOwner(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	in.apply(page.Profile)
	if err := s.repo.UpdateProfile(ctx, page.Profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	slog.Info("profile updated", "profile_id", page.Profile.ID, "user_id", userID)
	return page.Profile, nil
}

// AddButton appends a button to the user's profile.
func (s *Service) AddButton(ctx context.Context, userID, slug string, in ButtonInput) (*models.Button, error) {
	in.Label = strings.TrimSpace(in.Label)
	in.ActionValue = strings.TrimSpace(in.ActionValue)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if err := s.validate.Var(in.ActionValue, valueRule(in.ActionType)); err != nil {
		return nil, err
	}

	page, err := s.ForOwner(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	b := &models.Button{
		ProfileID:   page.Profile.ID,
		Label:       in.Label,
		ActionType:  in.ActionType,
		ActionValue: in.ActionValue,
	}
	if err := s.repo.CreateButton(ctx, b); err != nil {
		return nil, fmt.Errorf("create button: %w", err)
	}
	return b, nil
}

func valueRule(t models.ActionType) string {
	switch t {
	case models.ActionLink:
		return "url"
	case models.ActionEmail:
		return "email"
	default:
		return "e164|printascii"
	}
}

// DeleteButton removes a button from the user's profile.
func (s *Service) DeleteButton(ctx context.Context, userID, slug string, id int64) error {
	page, err := s.ForOwner(ctx, userID, slug)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteButton(ctx, page.Profile.ID, id); err != nil {
		return notFound(err)
	}
	return nil
}

// RecordClick logs a button click. Failures are logged and swallowed.
func (s *Service) RecordClick(ctx context.Context, slug string, buttonID int64) {
	page, err := s.Load(ctx, slug)
	if err != nil {
		slog.Warn("click on unknown profile", "slug", slug, "error", err)
		return
	}
	if _, err := s.repo.GetButton(ctx, page.Profile.ID, buttonID); err != nil {
		slog.Warn("click on unknown button", "slug", slug, "button_id", buttonID, "error", err)
		return
	}
	if err := s.repo.RecordButtonClick(ctx, buttonID, page.Profile.ID); err != nil {
		slog.Warn("click log failed", "button_id", buttonID, "error", err)
	}
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
