package paste

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/poketeam-kakao-bot-go/internal/util"
	apperrors "github.com/kapu/poketeam-kakao-bot-go/pkg/errors"
	"go.uber.org/zap"
)

const (
	fetchTimeout = 15 * time.Second
	userAgent    = "Mozilla/5.0 (compatible; PoketeamBot/1.0)"
)

// Fetcher retrieves a paste page and flattens it to plain text. The paste
// markup is rendered for humans and its tag structure is not a stable
// contract, so downstream matching works on the flattened text rather than on
// element positions.
type Fetcher struct {
	httpClient *http.Client
	breaker    *util.CircuitBreaker
	logger     *zap.Logger
}

func NewFetcher(breaker *util.CircuitBreaker, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: fetchTimeout,
		},
		breaker: breaker,
		logger:  logger,
	}
}

// FetchDocument returns the flattened text of the page at url. Any transport
// failure, non-2xx status or unparseable body comes back as a *FetchError so
// callers can map it to the retryable sentinel roster.
func (f *Fetcher) FetchDocument(ctx context.Context, url string) (string, error) {
	if f.breaker != nil && !f.breaker.CanExecute() {
		return "", apperrors.NewFetchError("paste host unavailable, circuit open", url, 0, nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", apperrors.NewFetchError("invalid paste request", url, 0, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.recordFailure()
		f.logger.Warn("Paste fetch failed", zap.String("url", url), zap.Error(err))
		return "", apperrors.NewFetchError("paste request failed", url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.recordFailure()
		f.logger.Warn("Paste fetch returned non-success status",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode))
		return "", apperrors.NewFetchError("paste request returned non-success status", url, resp.StatusCode, nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		f.recordFailure()
		return "", apperrors.NewFetchError("paste body unparseable", url, resp.StatusCode, err)
	}

	if f.breaker != nil {
		f.breaker.RecordSuccess()
	}

	return flattenDocument(doc), nil
}

func (f *Fetcher) recordFailure() {
	if f.breaker != nil {
		f.breaker.RecordFailure()
	}
}

// flattenDocument prefers the per-set <article> blocks pokepaste renders, so
// sidebar chrome stays out of the scanned text. Anything else degrades to the
// whole document text.
func flattenDocument(doc *goquery.Document) string {
	articles := doc.Find("article")
	if articles.Length() == 0 {
		return doc.Text()
	}

	var sb strings.Builder
	articles.Each(func(i int, sel *goquery.Selection) {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(sel.Text())
	})
	return sb.String()
}
