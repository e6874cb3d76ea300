package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"tidewatch/internal/domain"
	"tidewatch/internal/logger"
	"tidewatch/internal/utils"
)

// Exchanger trades upstream credentials for the opaque cookie state a
// logged-in browser would hold. Implementations never see that state
// again: the session layer encrypts it immediately after the exchange.
type Exchanger interface {
	Authenticate(ctx context.Context, username, password string) (domain.CredentialState, error)
}

// HTTPExchanger logs in by posting the credentials to the upstream
// login form and harvesting the cookies the response sets.
type HTTPExchanger struct {
	client   *http.Client
	loginURL string
	logger   logger.Logger
}

func NewHTTPExchanger(client *http.Client, loginURL string, log logger.Logger) *HTTPExchanger {
	return &HTTPExchanger{
		client:   client,
		loginURL: loginURL,
		logger:   log,
	}
}

func (e *HTTPExchanger) Authenticate(ctx context.Context, username, password string) (domain.CredentialState, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.CredentialState{}, fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.client.Do(req)
	if err != nil {
		return domain.CredentialState{}, fmt.Errorf("posting login: %w", err)
	}
	defer utils.Close(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		e.logger.Info("login rejected by upstream",
			logger.String("username", username),
			logger.Int("status", resp.StatusCode))
		return domain.CredentialState{}, fmt.Errorf("upstream rejected credentials: %w", domain.ErrAuthentication)
	case resp.StatusCode >= http.StatusBadRequest:
		return domain.CredentialState{}, fmt.Errorf("login returned %d: %w", resp.StatusCode, domain.ErrUpstream)
	}

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return domain.CredentialState{}, fmt.Errorf("login set no session cookies: %w", domain.ErrAuthentication)
	}

	state := domain.CredentialState{Cookies: make([]domain.Cookie, 0, len(cookies))}
	for _, c := range cookies {
		state.Cookies = append(state.Cookies, domain.Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
		})
	}

	e.logger.Info("login succeeded",
		logger.String("username", username),
		logger.Int("cookies", len(state.Cookies)))
	return state, nil
}
