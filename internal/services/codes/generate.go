// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package codes

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vinovest/sqlx"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/metrics"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
)

const (
	// 32 symbols without 0/O and 1/I, so a byte mod 32 is unbiased.
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	slugAlphabet = "abcdefghijkmnpqrstuvwxyz23456789"
	codeLength   = 8
	slugLength   = 10
	maxAttempts  = 20
)

var errExhausted = errors.New("could not find a free code")

// GenerateParams mirrors the generate_nfc_codes procedure arguments.
type GenerateParams struct {
	AdminID  string
	CodeType models.CodeType
	Count    int
}

func randomString(alphabet string, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}

func newCode(p GenerateParams) (*models.Code, error) {
	value, err := randomString(codeAlphabet, codeLength)
	if err != nil {
		return nil, err
	}
	code := &models.Code{Code: value, Type: p.CodeType}
	if p.AdminID != "" {
		code.CreatedBy = &p.AdminID
	}
	if p.CodeType == models.CodeTypeProfile {
		slug, err := randomString(slugAlphabet, slugLength)
		if err != nil {
			return nil, err
		}
		code.URL = &slug
	}
	return code, nil
}

// Generate creates Count fresh codes in one transaction. Either all codes
// are created or none.
func (s *Service) Generate(ctx context.Context, p GenerateParams) ([]models.Code, error) {
	if p.Count < 1 || p.Count > MaxGenerate {
		return nil, ErrInvalidCount
	}
	if !p.CodeType.Valid() {
		return nil, ErrInvalidType
	}

	created := make([]models.Code, 0, p.Count)

	err := s.repo.Tx(ctx, func(tx *sqlx.Tx) error {
		for range p.Count {
			code, err := s.insertUnique(ctx, tx, p)
			if err != nil {
				return err
			}
			created = append(created, *code)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generate codes: %w", err)
	}

	metrics.CodesGeneratedTotal.WithLabelValues(string(p.CodeType)).Add(float64(len(created)))
	slog.Info("codes generated", "count", len(created), "type", p.CodeType, "admin_id", p.AdminID)
	s.changed(ctx, p.CodeType)

	return created, nil
}

func (s *Service) insertUnique(ctx context.Context, tx *sqlx.Tx, p GenerateParams) (*models.Code, error) {
	for range maxAttempts {
		code, err := newCode(p)
		if err != nil {
			return nil, err
		}
		code.CreatedAt = s.now().UTC()
		ok, err := s.repo.InsertCodeTx(ctx, tx, code)
		if err != nil {
			return nil, err
		}
		if ok {
			return code, nil
		}
	}
	return nil, errExhausted
}
