package listings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"property-search/config"
	"property-search/models"
	"property-search/utils"
)

const source = "listings"

// ErrNoListingsURL is returned when LISTINGS_URL is not configured.
var ErrNoListingsURL = errors.New("listings: LISTINGS_URL is not set")

// Scraper walks a real-estate portal's paginated result pages in headless
// Chrome and collects raw property cards.
type Scraper struct {
	cfg     *config.Config
	logger  *utils.Logger
	pool    *utils.WorkerPool
	visited *utils.ListingKeys
	retry   *utils.RetryConfig

	mu         sync.Mutex
	properties []*models.RawProperty
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:     cfg,
		logger:  logger,
		pool:    utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		visited: utils.NewListingKeys(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		properties: make([]*models.RawProperty, 0),
	}
}

// card is the shape returned by the in-page extraction script.
type card struct {
	Title     string `json:"title"`
	Price     string `json:"price"`
	Location  string `json:"location"`
	Type      string `json:"type"`
	Bedrooms  string `json:"bedrooms"`
	Bathrooms string `json:"bathrooms"`
	Area      string `json:"area"`
	Status    string `json:"status"`
	URL       string `json:"url"`
}

// detail is the shape returned by the detail page script.
type detail struct {
	Island      string   `json:"island"`
	Type        string   `json:"type"`
	Bedrooms    string   `json:"bedrooms"`
	Bathrooms   string   `json:"bathrooms"`
	Area        string   `json:"area"`
	Beach       string   `json:"beach"`
	Status      string   `json:"status"`
	Features    []string `json:"features"`
	Description string   `json:"description"`
}

// Scrape drives pagination and detail-page enrichment. It stops at the
// configured page count, at a page without cards, or when ctx is done.
func (s *Scraper) Scrape(ctx context.Context) ([]*models.RawProperty, error) {
	if s.cfg.ListingsURL == "" {
		return nil, ErrNoListingsURL
	}

	s.logger.Info("[listings] Starting import from %s: %d pages, %d listings/page",
		s.cfg.ListingsURL, s.cfg.PagesToScrape, s.cfg.ListingsPerPage)

	chromeBin := findChromeBinary(s.cfg.ChromeBin)
	s.logger.Info("[listings] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	currentURL := s.cfg.ListingsURL
	for page := 1; page <= s.cfg.PagesToScrape; page++ {
		if err := ctx.Err(); err != nil {
			return s.properties, fmt.Errorf("listings: interrupted on page %d: %w", page, err)
		}
		s.logger.Info("[listings] Scraping page %d: %s", page, currentURL)

		pageProps, nextURL, err := s.scrapePage(browserCtx, currentURL, page)
		if err != nil {
			s.logger.Error("[listings] Page %d failed: %v", page, err)
			break
		}
		if len(pageProps) == 0 {
			s.logger.Warn("[listings] Page %d returned 0 listings, stopping", page)
			break
		}

		s.enrich(browserCtx, pageProps)

		s.mu.Lock()
		s.properties = append(s.properties, pageProps...)
		total := len(s.properties)
		s.mu.Unlock()

		s.logger.Info("[listings] Page %d done, %d listings so far", page, total)

		if nextURL == "" {
			break
		}
		currentURL = nextURL
		time.Sleep(time.Duration(s.cfg.RateLimitMs) * time.Millisecond)
	}

	s.logger.Info("[listings] Import complete, %d raw listings", len(s.properties))
	return s.properties, nil
}

func (s *Scraper) scrapePage(browserCtx context.Context, pageURL string, pageNum int) ([]*models.RawProperty, string, error) {
	var props []*models.RawProperty
	var nextURL string

	err := s.retry.Do(fmt.Sprintf("scrape-page-%d", pageNum), func() error {
		ctx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 90*time.Second)
		defer cancelTimeout()

		var cards []card
		var next string

		err := chromedp.Run(ctx,
			chromedp.Navigate(pageURL),
			chromedp.Sleep(5*time.Second),
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(2*time.Second),
			chromedp.Evaluate(cardScript(s.cfg.ListingsPerPage), &cards),
			chromedp.Evaluate(nextPageScript, &next),
		)
		if err != nil {
			return fmt.Errorf("chromedp page scrape: %w", err)
		}

		s.logger.Debug("[listings] Page %d: found %d cards", pageNum, len(cards))
		props = s.collect(cards, time.Now())
		nextURL = next
		return nil
	})

	return props, nextURL, err
}

// collect turns page cards into raw properties, skipping URLs already seen
// in this run.
func (s *Scraper) collect(cards []card, scrapedAt time.Time) []*models.RawProperty {
	out := make([]*models.RawProperty, 0, len(cards))
	for _, c := range cards {
		url := strings.TrimSpace(c.URL)
		if url == "" {
			continue
		}
		if _, fresh := s.visited.Claim(url); !fresh {
			s.logger.Debug("[listings] Skipping duplicate: %s", url)
			continue
		}
		out = append(out, &models.RawProperty{
			Title:        c.Title,
			RawPrice:     c.Price,
			Location:     c.Location,
			Type:         c.Type,
			RawBedrooms:  c.Bedrooms,
			RawBathrooms: c.Bathrooms,
			RawArea:      c.Area,
			RawStatus:    c.Status,
			URL:          url,
			ScrapedAt:    scrapedAt,
			Source:       source,
		})
	}
	return out
}

// enrich visits every detail page through the worker pool. Pages not yet
// started when browserCtx ends are skipped.
func (s *Scraper) enrich(browserCtx context.Context, props []*models.RawProperty) {
	for _, prop := range props {
		p := prop
		err := s.pool.Submit(browserCtx, func(ctx context.Context) {
			d, err := s.scrapeDetail(ctx, p.URL)
			if err != nil {
				s.logger.Warn("[listings] Detail page failed for %s: %v", p.URL, err)
				return
			}
			mergeDetail(p, d)
			s.logger.Debug("[listings] Enriched: %s", p.Title)
		})
		if err != nil {
			s.logger.Warn("[listings] Enrichment stopped: %v", err)
			break
		}
	}
	s.pool.Wait()
}

func (s *Scraper) scrapeDetail(browserCtx context.Context, url string) (*detail, error) {
	var d detail

	err := s.retry.Do("detail-page", func() error {
		ctx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
		defer cancelTimeout()

		err := chromedp.Run(ctx,
			chromedp.Navigate(url),
			chromedp.Sleep(3*time.Second),
			chromedp.Evaluate(detailScript, &d),
		)
		if err != nil {
			return fmt.Errorf("chromedp detail extract: %w", err)
		}
		return nil
	})

	return &d, err
}

// mergeDetail fills the fields a result card leaves out. Card values win
// when both are present, except features and description which only the
// detail page has.
func mergeDetail(p *models.RawProperty, d *detail) {
	fill := func(dst *string, v string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = strings.TrimSpace(v)
		}
	}
	fill(&p.Island, d.Island)
	fill(&p.Type, d.Type)
	fill(&p.RawBedrooms, d.Bedrooms)
	fill(&p.RawBathrooms, d.Bathrooms)
	fill(&p.RawArea, d.Area)
	fill(&p.RawBeach, d.Beach)
	fill(&p.RawStatus, d.Status)
	if len(d.Features) > 0 {
		p.Features = d.Features
	}
	if d.Description != "" {
		p.Description = d.Description
	}
}

// findChromeBinary locates Chrome/Chromium. An explicit path wins.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
