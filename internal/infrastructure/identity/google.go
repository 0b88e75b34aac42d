// Package identity verifies Google ID tokens through the tokeninfo endpoint.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"telehealth-directory/internal/domain/entity"
	"telehealth-directory/internal/domain/gateway"
	"telehealth-directory/internal/infrastructure/upstream"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredential = errors.New("identity credential rejected")
	ErrAudienceMismatch  = errors.New("identity credential issued for another client")
	ErrEmailUnverified   = errors.New("identity email is not verified")
)

type GoogleProvider struct {
	tokenInfoURL string
	clientID     string
	upstream     *upstream.Client
	log          *logrus.Logger
}

func NewGoogleProvider(tokenInfoURL, clientID string, up *upstream.Client, log *logrus.Logger) *GoogleProvider {
	return &GoogleProvider{
		tokenInfoURL: tokenInfoURL,
		clientID:     clientID,
		upstream:     up,
		log:          log,
	}
}

var _ gateway.IdentityProvider = (*GoogleProvider)(nil)

type tokenInfo struct {
	Email         string          `json:"email"`
	EmailVerified json.RawMessage `json:"email_verified"`
	Name          string          `json:"name"`
	Audience      string          `json:"aud"`
}

func (p *GoogleProvider) Verify(ctx context.Context, credential string) (*entity.Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, ErrInvalidCredential
	}

	reqURL := p.tokenInfoURL + "?" + url.Values{"id_token": {credential}}.Encode()
	body, err := p.upstream.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	})
	if err != nil {
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode < 500 {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	var info tokenInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("%w: %v", upstream.ErrMalformedResponse, err)
	}

	if p.clientID != "" && info.Audience != p.clientID {
		return nil, ErrAudienceMismatch
	}
	if info.Email == "" {
		return nil, ErrInvalidCredential
	}
	if !verified(info.EmailVerified) {
		return nil, ErrEmailUnverified
	}

	name := strings.TrimSpace(info.Name)
	if name == "" {
		name = info.Email
	}
	return &entity.Identity{Email: info.Email, Name: name}, nil
}

// verified accepts both the string and boolean encodings Google uses.
func verified(raw json.RawMessage) bool {
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return b
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.EqualFold(s, "true")
	}
	return false
}
