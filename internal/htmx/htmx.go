// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package htmx reads htmx request headers and sets htmx response headers.
package htmx

import (
	"net/http"
)

const (
	HeaderRequest    = "HX-Request"
	HeaderBoosted    = "HX-Boosted"
	HeaderCurrentURL = "HX-Current-URL"
	HeaderTarget     = "HX-Target"
	HeaderTrigger    = "HX-Trigger"
)

const (
	HeaderRedirect        = "HX-Redirect"
	HeaderRefresh         = "HX-Refresh"
	HeaderReswap          = "HX-Reswap"
	HeaderRetarget        = "HX-Retarget"
	HeaderTriggerResponse = "HX-Trigger"
)

// Request describes the htmx headers of an incoming request.
type Request struct {
	CurrentURL string
	Target     string
	Trigger    string
	IsHtmx     bool
	IsBoosted  bool
}

// ParseRequest extracts htmx information from request headers.
func ParseRequest(r *http.Request) *Request {
	return &Request{
		IsHtmx:     r.Header.Get(HeaderRequest) == "true",
		IsBoosted:  r.Header.Get(HeaderBoosted) == "true",
		CurrentURL: r.Header.Get(HeaderCurrentURL),
		Target:     r.Header.Get(HeaderTarget),
		Trigger:    r.Header.Get(HeaderTrigger),
	}
}

// IsPartial reports whether the request wants a fragment rather than a page.
// Boosted navigation still receives full pages.
func (r *Request) IsPartial() bool {
	return r.IsHtmx && !r.IsBoosted
}

// Redirect asks htmx to perform a full client-side navigation.
func Redirect(w http.ResponseWriter, url string) {
	w.Header().Set(HeaderRedirect, url)
	w.WriteHeader(http.StatusNoContent)
}

// Retarget swaps the response into selector instead of the requested target.
func Retarget(w http.ResponseWriter, selector, swap string) {
	w.Header().Set(HeaderRetarget, selector)
	if swap != "" {
		w.Header().Set(HeaderReswap, swap)
	}
}
