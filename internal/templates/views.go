// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/places"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/profiles"
)

// FormErrors maps a form field name to its message.
type FormErrors map[string]string

// AuthForm backs the login and registration pages.
type AuthForm struct {
	Email        string
	Next         string
	Error        string
	Verification bool
}

type Dashboard struct {
	Greeting string
	Profiles []models.ProfileCard
	Plaques  []models.Code
}

type ProfileEdit struct {
	Code    *models.Code
	Profile *models.Profile
	Buttons []models.Button
	Form    profiles.Input
	Errors  FormErrors
}

type ProfileView struct {
	Slug       string
	Profile    *models.Profile
	Buttons    []models.Button
	Background string
	Foreground string
}

// CodeList is one admin card of available codes.
type CodeList struct {
	Type       models.CodeType
	Title      string
	Codes      []models.Code
	ShowHidden bool
}

type Admin struct {
	ProfileCodes CodeList
	ReviewCodes  CodeList
	Users        []models.UserWithRole
	Recent       []models.Code
}

// Activate is the claim page of an unassigned code.
type Activate struct {
	Code string
}

type Review struct {
	Code    *models.Code
	Fields  PlaceSelection
	Results PlaceResults
	Errors  FormErrors
}

type PlaceResults struct {
	Query  string
	Places []places.Place
	Error  string
}

// PlaceSelection fills the review form after a place was picked.
type PlaceSelection struct {
	Title       string
	Description string
	RedirectURL string
}

type Error struct {
	Status  int
	Message string
}

type Toast struct {
	Kind    string
	Message string
}
