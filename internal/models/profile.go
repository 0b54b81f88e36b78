// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

const (
	DefaultButtonColor     = "#8899ac"
	DefaultButtonTextColor = "#FFFFFF"
)

// Profile is the digital business card attached to a profile code.
type Profile struct { //nolint:govet // fieldalignment: readability over optimization
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	CodeID          string    `db:"code_id" json:"code_id"`
	FullName        string    `db:"full_name" json:"full_name"`
	JobTitle        string    `db:"job_title" json:"job_title"`
	Company         string    `db:"company" json:"company"`
	Email           string    `db:"email" json:"email"`
	Phone           string    `db:"phone" json:"phone"`
	Website         string    `db:"website" json:"website"`
	Bio             string    `db:"bio" json:"bio"`
	FacebookURL     string    `db:"facebook_url" json:"facebook_url"`
	InstagramURL    string    `db:"instagram_url" json:"instagram_url"`
	TwitterURL      string    `db:"twitter_url" json:"twitter_url"`
	YoutubeURL      string    `db:"youtube_url" json:"youtube_url"`
	LinkedinURL     string    `db:"linkedin_url" json:"linkedin_url"`
	ButtonColor     string    `db:"button_color" json:"button_color"`
	ButtonTextColor string    `db:"button_text_color" json:"button_text_color"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Colors returns the button colours with defaults applied.
func (p *Profile) Colors() (bg, fg string) {
	bg, fg = p.ButtonColor, p.ButtonTextColor
	if bg == "" {
		bg = DefaultButtonColor
	}
	if fg == "" {
		fg = DefaultButtonTextColor
	}
	return bg, fg
}

// ProfileCard is a dashboard row: a profile joined with its code.
type ProfileCard struct {
	Profile
	Code     string  `db:"code" json:"code"`
	URL      *string `db:"url" json:"url"`
	IsActive bool    `db:"is_active" json:"is_active"`
}

// ActionType is what a profile button does when tapped.
type ActionType string

const (
	ActionLink  ActionType = "link"
	ActionEmail ActionType = "email"
	ActionCall  ActionType = "call"
)

func (a ActionType) Valid() bool {
	return a == ActionLink || a == ActionEmail || a == ActionCall
}

type Button struct {
	ID          int64      `db:"id" json:"id"`
	ProfileID   string     `db:"profile_id" json:"profile_id"`
	Label       string     `db:"label" json:"label"`
	ActionType  ActionType `db:"action_type" json:"action_type"`
	ActionValue string     `db:"action_value" json:"action_value"`
	Position    int        `db:"position" json:"position"`
}

// Href builds the link target for the button.
func (b *Button) Href() string {
	switch b.ActionType {
	case ActionLink:
		return b.ActionValue
	case ActionEmail:
		return "mailto:" + b.ActionValue
	case ActionCall:
		return "tel:" + b.ActionValue
	default:
		return "#"
	}
}
