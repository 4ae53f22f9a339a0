package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/caddyserver/certmagic"
)

// TLSOptions selects how serve obtains a certificate: PEM files when
// CertFile is set, ACME through CertMagic when Domain is set, plain
// HTTP otherwise.
type TLSOptions struct {
	Domain     string
	Email      string
	StorageDir string // defaults to $XDG_CACHE_HOME/sprout/certmagic
	CA         string // defaults to Let's Encrypt production
	CertFile   string
	KeyFile    string
}

// Enabled reports whether any TLS source is configured.
func (o TLSOptions) Enabled() bool {
	return o.Domain != "" || o.CertFile != "" || o.KeyFile != ""
}

// ChallengeWrapper wraps a fallback handler with an ACME HTTP-01
// challenge responder.
type ChallengeWrapper func(http.Handler) http.Handler

// BuildTLS returns the TLS config for o, plus the HTTP-01 challenge
// wrapper when CertMagic manages the certificate. Both are nil when TLS
// is not configured.
func BuildTLS(ctx context.Context, o TLSOptions) (*tls.Config, ChallengeWrapper, error) {
	if !o.Enabled() {
		return nil, nil, nil
	}
	if o.CertFile != "" || o.KeyFile != "" {
		conf, err := BuildFileTLS(o.CertFile, o.KeyFile)
		return conf, nil, err
	}
	return BuildCertMagicTLS(ctx, o)
}

// BuildCertMagicTLS provisions/loads certificates via CertMagic and returns a
// TLS config plus the wrapper that answers HTTP-01 challenges.
func BuildCertMagicTLS(ctx context.Context, o TLSOptions) (*tls.Config, ChallengeWrapper, error) {
	if o.Domain == "" {
		return nil, nil, errors.New("domain is required")
	}
	if o.StorageDir == "" {
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			o.StorageDir = filepath.Join(xdg, "sprout", "certmagic")
		} else {
			home, _ := os.UserHomeDir()
			o.StorageDir = filepath.Join(home, ".cache", "sprout", "certmagic")
		}
	}
	if err := os.MkdirAll(o.StorageDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("cert storage: %w", err)
	}

	cm := certmagic.NewDefault()
	cm.Storage = &certmagic.FileStorage{Path: o.StorageDir}
	issuer := certmagic.NewACMEIssuer(cm, certmagic.ACMEIssuer{
		CA:     ifEmpty(o.CA, certmagic.LetsEncryptProductionCA),
		Email:  o.Email,
		Agreed: true,
	})
	cm.Issuers = []certmagic.Issuer{issuer}

	if err := cm.ManageSync(ctx, []string{o.Domain}); err != nil {
		return nil, nil, err
	}

	conf := cm.TLSConfig()
	conf.NextProtos = append([]string{"h2", "http/1.1"}, conf.NextProtos...)
	conf.MinVersion = tls.VersionTLS12
	return conf, issuer.HTTPChallengeHandler, nil
}

func ifEmpty(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

// BuildFileTLS loads a certificate from PEM files for BYO certs.
func BuildFileTLS(certFile, keyFile string) (*tls.Config, error) {
	if certFile == "" || keyFile == "" {
		return nil, errors.New("both certFile and keyFile are required")
	}

	c, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("load keypair: %w", err)
	}

	now := time.Now()
	for i, b := range c.Certificate {
		cert, err := x509.ParseCertificate(b)
		if err != nil {
			return nil, fmt.Errorf("invalid certificate at index %d: %w", i, err)
		}
		if now.Before(cert.NotBefore) {
			return nil, fmt.Errorf("certificate not yet valid (starts %s)", cert.NotBefore)
		}
		if now.After(cert.NotAfter) {
			return nil, fmt.Errorf("certificate expired on %s", cert.NotAfter)
		}
	}

	return &tls.Config{
		Certificates: []tls.Certificate{c},
		NextProtos:   []string{"h2", "http/1.1"},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
