// Package tls provides automatic certificate provisioning via ACME.
package tls

import (
	"context"
	cryptotls "crypto/tls"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/acme/autocert"
)

// ACMEConfig holds configuration for the ACME provider.
type ACMEConfig struct {
	Domains  []string // hosts certificates may be issued for
	CacheDir string   // directory persisting account keys and certificates
	Email    string   // optional contact address
}

// ACMEProvider obtains and renews certificates from Let's Encrypt.
type ACMEProvider struct {
	manager *autocert.Manager
	domains map[string]bool
	logger  zerolog.Logger
}

// NewACMEProvider creates an ACME provider restricted to cfg.Domains.
func NewACMEProvider(cfg ACMEConfig, logger zerolog.Logger) (*ACMEProvider, error) {
	if len(cfg.Domains) == 0 {
		return nil, errors.New("acme: at least one domain is required")
	}
	if cfg.CacheDir == "" {
		return nil, errors.New("acme: cache dir is required")
	}

	p := &ACMEProvider{
		domains: make(map[string]bool, len(cfg.Domains)),
		logger:  logger,
	}
	for _, d := range cfg.Domains {
		p.domains[strings.ToLower(strings.TrimSpace(d))] = true
	}

	p.manager = &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(cfg.CacheDir),
		HostPolicy: p.hostPolicy,
		Email:      cfg.Email,
	}

	logger.Info().
		Strs("domains", cfg.Domains).
		Str("cache_dir", cfg.CacheDir).
		Msg("acme provider initialized")
	return p, nil
}

func (p *ACMEProvider) hostPolicy(_ context.Context, host string) error {
	if p.domains[strings.ToLower(host)] {
		return nil
	}
	p.logger.Warn().Str("host", host).Msg("acme: rejected certificate request for unknown host")
	return errors.New("acme: host " + host + " not configured")
}

// TLSConfig returns a server TLS config backed by the provider.
func (p *ACMEProvider) TLSConfig() *cryptotls.Config {
	return p.manager.TLSConfig()
}

// HTTPHandler serves HTTP-01 challenges and passes other requests to fallback.
// A nil fallback redirects to HTTPS.
func (p *ACMEProvider) HTTPHandler(fallback http.Handler) http.Handler {
	return p.manager.HTTPHandler(fallback)
}
