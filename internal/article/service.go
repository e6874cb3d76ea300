package article

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"tidewatch/internal/domain"
	"tidewatch/internal/extract"
	"tidewatch/internal/logger"
	"tidewatch/internal/paywall"
	"tidewatch/internal/session"
	"tidewatch/internal/utils"
)

// userAgent is sent on every article request. Some upstreams serve a
// reduced page, or none at all, to clients without a browser-like UA.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const authRequiredMessage = "This article requires a subscription. Log in first to retrieve the full text."

// Service fetches article pages, classifies them for paywalls and
// extracts their content. Paywalled pages are re-fetched with the
// caller's session cookies when a valid session token is supplied.
type Service struct {
	client   *http.Client
	sessions *session.Manager
	logger   logger.Logger
}

func NewService(client *http.Client, sessions *session.Manager, log logger.Logger) *Service {
	return &Service{
		client:   client,
		sessions: sessions,
		logger:   log,
	}
}

// Fetch retrieves the article at url and returns a tagged result.
// Transport and upstream failures produce a StatusError result rather
// than an error; the caller always gets a renderable outcome.
func (s *Service) Fetch(ctx context.Context, url, sessionToken string) domain.ArticleResult {
	rawHTML, err := s.get(ctx, url, nil)
	if err != nil {
		s.logger.Error("article fetch failed",
			logger.String("url", url),
			logger.Error(err))
		return domain.ArticleResult{
			Status:  domain.StatusError,
			Message: err.Error(),
			URL:     url,
		}
	}

	verdict := paywall.Classify(rawHTML)
	if !verdict.Paywalled {
		rec := extract.Extract(rawHTML, url)
		return domain.ArticleResult{
			Status:  domain.StatusSuccess,
			Article: &rec,
			URL:     url,
		}
	}

	sess, ok := s.session(ctx, sessionToken)
	if !ok {
		s.logger.Info("paywalled article needs authentication",
			logger.String("url", url),
			logger.String("reason", verdict.Reason))
		return domain.ArticleResult{
			Status:  domain.StatusAuthRequired,
			Message: authRequiredMessage,
			Reason:  verdict.Reason,
			URL:     url,
		}
	}

	rawHTML, err = s.get(ctx, url, sess.State.Cookies)
	if err != nil {
		s.logger.Error("authenticated article fetch failed",
			logger.String("url", url),
			logger.Error(err))
		return domain.ArticleResult{
			Status:  domain.StatusError,
			Message: err.Error(),
			URL:     url,
		}
	}

	rec := extract.Extract(rawHTML, url)
	rec.Paywalled = true
	return domain.ArticleResult{
		Status:  domain.StatusSuccess,
		Article: &rec,
		URL:     url,
	}
}

func (s *Service) session(ctx context.Context, token string) (*session.Session, bool) {
	if token == "" || s.sessions == nil {
		return nil, false
	}
	return s.sessions.Get(ctx, token)
}

// get performs a browser-flavored GET and returns the response body.
// Cookies, when given, are replayed on the request.
func (s *Service) get(ctx context.Context, url string, cookies []domain.Cookie) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("fetching %s: upstream returned %d: %w", url, resp.StatusCode, domain.ErrUpstream)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return string(body), nil
}
