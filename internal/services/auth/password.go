// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"bufio"
	_ "embed"
	"fmt"
	"strings"
	"unicode"
)

//go:embed common_passwords.txt
var commonPasswordList string

var commonPasswords = loadCommonPasswords(commonPasswordList)

func loadCommonPasswords(list string) map[string]struct{} {
	set := make(map[string]struct{})
	sc := bufio.NewScanner(strings.NewReader(list))
	for sc.Scan() {
		if p := strings.ToLower(strings.TrimSpace(sc.Text())); p != "" {
			set[p] = struct{}{}
		}
	}
	return set
}

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// ValidationError is one failed password rule.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string { return e.Message }

// PasswordValidationError collects every failed rule.
type PasswordValidationError struct {
	Errors []ValidationError
}

func (e *PasswordValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "password validation failed"
	}
	return e.Errors[0].Message
}

// Messages returns the message of each failed rule.
func (e *PasswordValidationError) Messages() []string {
	out := make([]string, len(e.Errors))
	for i, v := range e.Errors {
		out[i] = v.Message
	}
	return out
}

type rule func(password string, attrs []string) *ValidationError

// PasswordValidator checks passwords against a fixed rule set.
type PasswordValidator struct {
	rules []rule
}

func NewPasswordValidator(minLength int) *PasswordValidator {
	return &PasswordValidator{rules: []rule{
		minLengthRule(minLength),
		numericRule,
		commonRule,
		similarityRule,
	}}
}

// Validate returns nil or a *PasswordValidationError. attrs are values
// the password must not resemble, such as the email address.
func (v *PasswordValidator) Validate(password string, attrs ...string) error {
	var errs []ValidationError
	for _, r := range v.rules {
		if e := r(password, attrs); e != nil {
			errs = append(errs, *e)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &PasswordValidationError{Errors: errs}
}

func minLengthRule(n int) rule {
	return func(p string, _ []string) *ValidationError {
		if len([]rune(p)) >= n {
			return nil
		}
		return &ValidationError{"min_length", fmt.Sprintf("Password must be at least %d characters long.", n)}
	}
}

func numericRule(p string, _ []string) *ValidationError {
	if p == "" || strings.IndexFunc(p, func(r rune) bool { return !unicode.IsDigit(r) }) >= 0 {
		return nil
	}
	return &ValidationError{"entirely_numeric", "Password cannot be entirely numeric."}
}

func commonRule(p string, _ []string) *ValidationError {
	if _, ok := commonPasswords[strings.ToLower(p)]; !ok {
		return nil
	}
	return &ValidationError{"common_password", "This password is too common."}
}

func similarityRule(p string, attrs []string) *ValidationError {
	lp := strings.ToLower(p)
	for _, attr := range attrs {
		for _, part := range attributeParts(attr) {
			if len(part) >= 3 && (strings.Contains(lp, part) || lcsRatio(lp, part) > 0.7) {
				return &ValidationError{"too_similar", "Password is too similar to your email address."}
			}
		}
	}
	return nil
}

// attributeParts splits an email into its full form and local part.
func attributeParts(attr string) []string {
	attr = strings.ToLower(strings.TrimSpace(attr))
	if attr == "" {
		return nil
	}
	parts := []string{attr}
	if local, _, ok := strings.Cut(attr, "@"); ok && local != "" {
		parts = append(parts, local)
	}
	return parts
}

func lcsRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else {
				cur[j] = max(prev[j], cur[j-1])
			}
		}
		prev, cur = cur, prev
	}
	return float64(prev[len(b)]) / float64(max(len(a), len(b)))
}
