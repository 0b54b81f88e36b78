// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/acme/autocert"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/config"
)

// TLSMode is the resolved way the server terminates TLS.
type TLSMode string

const (
	TLSModeOff    TLSMode = "off"
	TLSModeACME   TLSMode = "acme"
	TLSModeManual TLSMode = "manual"
)

var (
	ErrACMEEmail   = errors.New("ACME mode requires TLS_EMAIL to be set")
	ErrManualFiles = errors.New("manual TLS mode requires both cert-file and key-file")
	ErrPortsInUse  = errors.New("ACME mode requires ports 80 and 443")
	errUnknownMode = errors.New("unknown TLS mode")
)

type TLSResult struct {
	TLSConfig   *tls.Config
	HTTPHandler http.Handler // ACME challenge and redirect handler for :80
	Mode        TLSMode
}

// portCheck is replaced in tests.
var portCheck = isPortAvailable

// SetupTLS resolves cfg.TLS into a listener configuration.
func SetupTLS(cfg *config.Config) (*TLSResult, error) {
	mode, err := resolveTLSMode(cfg)
	if err != nil {
		return nil, err
	}

	switch mode {
	case TLSModeACME:
		if cfg.TLS.Email == "" {
			return nil, ErrACMEEmail
		}
		if !portCheck(80) || !portCheck(443) {
			return nil, ErrPortsInUse
		}
		if cfg.Server.Port != 443 {
			slog.Warn("ACME mode listens on 443, configured port is ignored", "configured_port", cfg.Server.Port)
		}
		return setupACME(cfg)
	case TLSModeManual:
		return setupManual(cfg)
	default:
		slog.Info("TLS mode: off")
		return &TLSResult{Mode: TLSModeOff}, nil
	}
}

// resolveTLSMode picks a mode. In auto mode a public host without cert
// files or ACME settings is assumed to sit behind a TLS proxy.
func resolveTLSMode(cfg *config.Config) (TLSMode, error) {
	switch strings.ToLower(cfg.TLS.Mode) {
	case "off":
		return TLSModeOff, nil
	case "acme":
		return TLSModeACME, nil
	case "manual":
		return TLSModeManual, nil
	case "auto", "":
	default:
		return "", fmt.Errorf("%w: %s", errUnknownMode, cfg.TLS.Mode)
	}

	host := cfg.Server.Host
	switch {
	case config.IsLocalhost(host):
		return TLSModeOff, nil
	case cfg.TLS.CertFile != "" && cfg.TLS.KeyFile != "":
		return TLSModeManual, nil
	case net.ParseIP(host) == nil && cfg.TLS.Email != "" && portCheck(80) && portCheck(443):
		return TLSModeACME, nil
	}
	slog.Warn("no TLS configured for a public host, expecting a TLS-terminating proxy", "host", host)
	return TLSModeOff, nil
}

func isPortAvailable(port int) bool {
	lc := &net.ListenConfig{}
	ln, err := lc.Listen(context.Background(), "tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
}

func setupACME(cfg *config.Config) (*TLSResult, error) {
	certDir := filepath.Join(cfg.TLS.CertDir, "acme")
	if err := os.MkdirAll(certDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create ACME cert directory: %w", err)
	}

	manager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Email:      cfg.TLS.Email,
		Cache:      autocert.DirCache(certDir),
		HostPolicy: autocert.HostWhitelist(cfg.Server.Host),
	}
	tlsConfig := manager.TLSConfig()
	tlsConfig.MinVersion = tls.VersionTLS12

	slog.Info("TLS mode: acme", "host", cfg.Server.Host, "email", cfg.TLS.Email)
	return &TLSResult{
		Mode:        TLSModeACME,
		TLSConfig:   tlsConfig,
		HTTPHandler: manager.HTTPHandler(nil),
	}, nil
}

func setupManual(cfg *config.Config) (*TLSResult, error) {
	if cfg.TLS.CertFile == "" || cfg.TLS.KeyFile == "" {
		return nil, ErrManualFiles
	}
	cert, err := tls.LoadX509KeyPair(cfg.TLS.CertFile, cfg.TLS.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate: %w", err)
	}

	slog.Info("TLS mode: manual", "cert", cfg.TLS.CertFile, "key", cfg.TLS.KeyFile)
	return &TLSResult{
		Mode: TLSModeManual,
		TLSConfig: &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		},
	}, nil
}
