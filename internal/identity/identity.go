// Package identity adapts the external identity provider. The provider owns
// accounts and credentials; this backend only verifies bearer credentials it
// receives and manages the landlord authorization claim on provider records.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yourorg/freehold/internal/domain"
)

// Claims are the verified facts about a principal extracted from a credential.
type Claims struct {
	UID      string
	Email    string
	Landlord bool
}

// Verifier turns a bearer credential into verified principal claims.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// Admin manages authorization claims on the provider's identity records.
type Admin interface {
	SetLandlordClaim(ctx context.Context, uid string, landlord bool) error
}

// Config holds the provider endpoints and credentials.
type Config struct {
	// KeysURL serves the provider's current signing certificates as a JSON
	// object of key id to PEM, e.g. Google's securetoken metadata endpoint.
	KeysURL string
	// Issuer is the only accepted token issuer.
	Issuer string
	// AdminURL is the base URL for claim management calls.
	AdminURL string
	// APIKey authenticates claim management calls.
	APIKey string
	// KeyRefresh is how long downloaded signing keys are trusted before a
	// re-download. Zero means 6 hours.
	KeyRefresh time.Duration
	HTTPClient *http.Client
}

// tokenClaims is the wire shape of provider credentials.
type tokenClaims struct {
	Email    string `json:"email"`
	Landlord bool   `json:"landlord"`
	jwt.RegisteredClaims
}

// Provider implements Verifier and Admin against a live identity provider.
type Provider struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger

	mu        sync.RWMutex
	keys      map[string]any // kid -> *rsa.PublicKey
	fetchedAt time.Time
}

// NewProvider creates a provider adapter from explicit configuration.
func NewProvider(cfg Config, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.KeyRefresh <= 0 {
		cfg.KeyRefresh = 6 * time.Hour
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Provider{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// Verify validates the credential's signature and issuer against the
// provider's published keys and returns the principal claims. Every failure
// collapses to ErrUnauthenticated; callers must not distinguish.
func (p *Provider) Verify(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	keys, err := p.signingKeys(ctx)
	if err != nil {
		p.logger.Error("failed to load identity signing keys", slog.String("error", err.Error()))
		return nil, domain.ErrUnauthenticated
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		kid, _ := t.Header["kid"].(string)
		key, ok := keys[kid]
		if !ok {
			return nil, fmt.Errorf("unknown key id %q", kid)
		}
		return key, nil
	}, jwt.WithIssuer(p.cfg.Issuer))

	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthenticated
	}
	if claims.Email == "" {
		return nil, domain.ErrUnauthenticated
	}

	return &Claims{
		UID:      claims.Subject,
		Email:    claims.Email,
		Landlord: claims.Landlord,
	}, nil
}

// SetLandlordClaim writes the landlord authorization claim on the identity
// record behind uid.
func (p *Provider) SetLandlordClaim(ctx context.Context, uid string, landlord bool) error {
	if uid == "" {
		return errors.New("uid required")
	}

	body, err := json.Marshal(map[string]any{"landlord": landlord})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/accounts/%s/claims", strings.TrimRight(p.cfg.AdminURL, "/"), uid)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("claim update request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("claim update rejected: status %d", resp.StatusCode)
	}

	return nil
}

// signingKeys returns the cached provider keys, re-downloading when stale.
func (p *Provider) signingKeys(ctx context.Context) (map[string]any, error) {
	p.mu.RLock()
	if p.keys != nil && time.Since(p.fetchedAt) < p.cfg.KeyRefresh {
		keys := p.keys
		p.mu.RUnlock()
		return keys, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another request may have refreshed while we waited for the lock.
	if p.keys != nil && time.Since(p.fetchedAt) < p.cfg.KeyRefresh {
		return p.keys, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.KeysURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		// Stale keys beat no keys while the provider endpoint is down.
		if p.keys != nil {
			p.logger.Warn("key refresh failed, using stale keys", slog.String("error", err.Error()))
			return p.keys, nil
		}
		return nil, fmt.Errorf("key download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if p.keys != nil {
			return p.keys, nil
		}
		return nil, fmt.Errorf("key download rejected: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var pems map[string]string
	if err := json.Unmarshal(raw, &pems); err != nil {
		return nil, fmt.Errorf("malformed key document: %w", err)
	}

	keys := make(map[string]any, len(pems))
	for kid, pemData := range pems {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemData))
		if err != nil {
			p.logger.Warn("skipping unparseable signing key", slog.String("kid", kid))
			continue
		}
		keys[kid] = key
	}
	if len(keys) == 0 {
		return nil, errors.New("no usable signing keys in key document")
	}

	p.keys = keys
	p.fetchedAt = time.Now()
	p.logger.Debug("identity signing keys refreshed", slog.Int("count", len(keys)))

	return keys, nil
}

// ExtractToken pulls the credential out of an Authorization header.
func ExtractToken(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("invalid authorization header")
	}
	return parts[1], nil
}
