// Package services holds clients for external data providers.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"regexp"
	"strings"
	"time"

	"github.com/jernejstrasner/taxes/src/logger"
	"github.com/jernejstrasner/taxes/src/processors"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"

var crumbPattern = regexp.MustCompile(`"CrumbStore":\{"crumb":"(.*?)"\}`)

type yahooProfileResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Address1 string `json:"address1"`
				City     string `json:"city"`
				State    string `json:"state"`
				Zip      string `json:"zip"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"quoteSummary"`
}

// FinanceService looks up company details for dividend payers: the address
// from Yahoo Finance's asset profile and the ISIN from the Business Insider
// ticker suggester. Lookups are rate limited and memoized per run so a
// statement with many dividends from one payer costs one round trip.
type FinanceService struct {
	httpClient *http.Client
	crumb      string
	limiter    *rate.Limiter
	memo       *gocache.Cache
}

func NewFinanceService(timeout time.Duration) *FinanceService {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}

	s := &FinanceService{
		httpClient: &http.Client{Jar: jar, Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		memo:       gocache.New(gocache.NoExpiration, 0),
	}
	if err := s.initSession(); err != nil {
		logger.L.Warn("Yahoo Finance session setup failed, profile lookups may fail", "error", err)
	}
	return s
}

// Lookup returns whatever could be found for the symbol. Partial results
// are normal; the caller falls back field by field.
func (s *FinanceService) Lookup(symbol string) (processors.CompanyInfo, error) {
	// Exchange-suffixed symbols query under the bare ticker.
	ticker, _, _ := strings.Cut(symbol, ":")

	if cached, ok := s.memo.Get(ticker); ok {
		return cached.(processors.CompanyInfo), nil
	}
	if err := s.limiter.Wait(context.Background()); err != nil {
		return processors.CompanyInfo{}, err
	}

	var info processors.CompanyInfo
	address, err := s.fetchAddress(ticker)
	if err != nil {
		logger.L.Warn("Address lookup failed", "symbol", ticker, "error", err)
	} else {
		info.Address = address
	}
	isin, err := s.fetchISIN(ticker)
	if err != nil {
		logger.L.Warn("ISIN lookup failed", "symbol", ticker, "error", err)
	} else {
		info.ISIN = isin
	}

	s.memo.Set(ticker, info, gocache.NoExpiration)
	if info == (processors.CompanyInfo{}) {
		return info, fmt.Errorf("no company data found for %s", ticker)
	}
	return info, nil
}

// initSession visits a quote page to pick up cookies and the crumb the
// authenticated endpoints want.
func (s *FinanceService) initSession() error {
	body, err := s.get("https://finance.yahoo.com/quote/VHYL.L")
	if err != nil {
		return fmt.Errorf("initial Yahoo Finance request: %w", err)
	}
	matches := crumbPattern.FindStringSubmatch(string(body))
	if len(matches) < 2 {
		return fmt.Errorf("no crumb in Yahoo Finance response, the page structure may have changed")
	}
	s.crumb = matches[1]
	return nil
}

func (s *FinanceService) fetchAddress(ticker string) (string, error) {
	url := fmt.Sprintf(
		"https://query2.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=assetProfile&crumb=%s",
		ticker, s.crumb)
	body, err := s.get(url)
	if err != nil {
		return "", err
	}

	var profile yahooProfileResponse
	if err := json.Unmarshal(body, &profile); err != nil {
		return "", fmt.Errorf("decoding profile for %s: %w", ticker, err)
	}
	if profile.QuoteSummary.Error != nil || len(profile.QuoteSummary.Result) == 0 {
		return "", fmt.Errorf("no profile for %s", ticker)
	}

	p := profile.QuoteSummary.Result[0].AssetProfile
	var parts []string
	for _, part := range []string{p.Address1, p.City, p.State, p.Zip} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("profile for %s has no address", ticker)
	}
	return strings.Join(parts, ", "), nil
}

// fetchISIN asks the Business Insider ticker suggester, whose payload embeds
// "TICKER|ISIN" pairs.
func (s *FinanceService) fetchISIN(ticker string) (string, error) {
	url := fmt.Sprintf(
		"https://markets.businessinsider.com/ajax/SearchController_Suggest?max_results=25&query=%s",
		ticker)
	body, err := s.get(url)
	if err != nil {
		return "", err
	}

	marker := `"` + ticker + `|`
	idx := strings.Index(string(body), marker)
	if idx < 0 {
		return "", fmt.Errorf("no ISIN entry for %s", ticker)
	}
	start := idx + len(marker)
	if start+12 > len(body) {
		return "", fmt.Errorf("truncated ISIN entry for %s", ticker)
	}
	return string(body[start : start+12]), nil
}

func (s *FinanceService) get(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
