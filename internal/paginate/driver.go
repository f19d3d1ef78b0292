// Package paginate walks a list of search result pages in a single browser
// session, extracting every page and accumulating the records in order.
package paginate

import (
	"context"
	"fmt"
	"time"

	"github.com/law-makers/leadcrawl/internal/extract"
	"github.com/law-makers/leadcrawl/pkg/models"
	"github.com/rs/zerolog"
)

// Browser is the part of a browser session the driver needs
type Browser interface {
	Navigate(ctx context.Context, url string) error
	ExecuteScript(ctx context.Context, script string) error
	HTML(ctx context.Context) (string, error)
	Close() error
}

// Extractor turns rendered HTML into records
type Extractor interface {
	ExtractHTML(html string) ([]models.Record, error)
}

// Sink receives the records of each page and backs them up
type Sink interface {
	Append(records []models.Record)
	Snapshot(pageIndex, pageCount int) (string, error)
}

// Limiter caps how fast pages are requested
type Limiter interface {
	Wait(ctx context.Context, url string) error
}

// URLBuilder returns the URL of a page identifier
type URLBuilder func(page int) (string, error)

// Sleeper pauses for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the default Sleeper
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Waits are the fixed pauses around every page
type Waits struct {
	// BetweenPages runs before every page, the first one included.
	BetweenPages time.Duration
	AfterLoad    time.Duration
	AfterScroll  time.Duration
}

// Readiness polls the page until the fragment selector matches. A zero
// Timeout disables polling.
type Readiness struct {
	Selector string
	Timeout  time.Duration
	Interval time.Duration
}

// Options configures a Driver
type Options struct {
	Waits Waits
	URL   URLBuilder
	// Scroll is executed after the page settles to trigger lazy loading.
	Scroll  string
	Sleep   Sleeper
	Limiter Limiter
	Ready   *Readiness
	// OnPage is called after every completed page.
	OnPage func(PageResult)
	Logger zerolog.Logger
}

// PageResult describes one completed page
type PageResult struct {
	// Index is the 1-based position of the page in the run.
	Index    int
	Count    int
	Page     int
	URL      string
	Records  int
	Total    int
	Snapshot string
}

// Result summarises a run
type Result struct {
	Pages     int
	Records   int
	Snapshots []string
}

// Driver processes pages strictly one after another
type Driver struct {
	browser   Browser
	extractor Extractor
	sink      Sink
	opts      Options
	total     int
}

// New creates a Driver
func New(browser Browser, extractor Extractor, sink Sink, opts Options) *Driver {
	if opts.Sleep == nil {
		opts.Sleep = Sleep
	}
	if opts.Ready != nil && opts.Ready.Interval <= 0 {
		ready := *opts.Ready
		ready.Interval = 500 * time.Millisecond
		opts.Ready = &ready
	}
	return &Driver{
		browser:   browser,
		extractor: extractor,
		sink:      sink,
		opts:      opts,
	}
}

// Run processes pages in order. A navigation or render failure stops the
// run; the records of the pages before it stay in the sink and its latest
// snapshot.
func (d *Driver) Run(ctx context.Context, pages []int) (Result, error) {
	var res Result
	if d.opts.URL == nil {
		return res, fmt.Errorf("%w: no page URL builder", ErrNavigate)
	}
	d.total = 0
	for i, page := range pages {
		pr, err := d.runPage(ctx, i+1, len(pages), page)
		if err != nil {
			return res, err
		}

		res.Pages++
		res.Records += pr.Records
		if pr.Snapshot != "" {
			res.Snapshots = append(res.Snapshots, pr.Snapshot)
		}
		if d.opts.OnPage != nil {
			d.opts.OnPage(pr)
		}
	}
	return res, nil
}

func (d *Driver) runPage(ctx context.Context, index, count, page int) (PageResult, error) {
	pr := PageResult{Index: index, Count: count, Page: page}
	logger := d.opts.Logger.With().Int("page", page).Int("index", index).Int("of", count).Logger()

	d.enter(&logger, PhaseIdle)
	if err := d.opts.Sleep(ctx, d.opts.Waits.BetweenPages); err != nil {
		return pr, &PageError{Page: page, Phase: PhaseIdle, Err: err}
	}

	url, err := d.opts.URL(page)
	if err != nil {
		return pr, pageError(page, PhaseIdle, "", ErrNavigate, err)
	}
	pr.URL = url

	if d.opts.Limiter != nil {
		if err := d.opts.Limiter.Wait(ctx, url); err != nil {
			return pr, &PageError{Page: page, Phase: PhaseIdle, URL: url, Err: err}
		}
	}

	d.enter(&logger, PhaseLoading)
	logger.Info().Str("url", url).Msg("Loading page")
	if err := d.browser.Navigate(ctx, url); err != nil {
		return pr, pageError(page, PhaseLoading, url, ErrNavigate, err)
	}

	d.enter(&logger, PhaseSettling)
	if err := d.opts.Sleep(ctx, d.opts.Waits.AfterLoad); err != nil {
		return pr, &PageError{Page: page, Phase: PhaseSettling, URL: url, Err: err}
	}

	d.enter(&logger, PhaseScrolling)
	if d.opts.Scroll != "" {
		if err := d.browser.ExecuteScript(ctx, d.opts.Scroll); err != nil {
			if ctx.Err() != nil {
				return pr, &PageError{Page: page, Phase: PhaseScrolling, URL: url, Err: ctx.Err()}
			}
			logger.Warn().Err(fmt.Errorf("%w: %w", ErrScroll, err)).Msg("There was an error scrolling down")
		}
	}
	if err := d.opts.Sleep(ctx, d.opts.Waits.AfterScroll); err != nil {
		return pr, &PageError{Page: page, Phase: PhaseScrolling, URL: url, Err: err}
	}

	if d.opts.Ready != nil && d.opts.Ready.Timeout > 0 {
		if err := d.awaitResults(ctx, &logger); err != nil {
			return pr, &PageError{Page: page, Phase: PhaseScrolling, URL: url, Err: err}
		}
	}

	d.enter(&logger, PhaseExtracting)
	html, err := d.browser.HTML(ctx)
	if err != nil {
		return pr, pageError(page, PhaseExtracting, url, ErrRender, err)
	}
	records, err := d.extractor.ExtractHTML(html)
	if err != nil {
		return pr, pageError(page, PhaseExtracting, url, ErrRender, err)
	}

	d.sink.Append(records)
	d.total += len(records)
	pr.Records = len(records)
	pr.Total = d.total
	d.enter(&logger, PhaseAccumulated)
	logger.Info().Int("records", len(records)).Int("total", d.total).Msg("Found results")

	snapshot, err := d.sink.Snapshot(index, count)
	if err != nil {
		logger.Error().Err(err).Msg("Snapshot failed, continuing")
	}
	pr.Snapshot = snapshot

	d.enter(&logger, PhaseDone)
	return pr, nil
}

// awaitResults polls until the fragment selector matches or the timeout
// runs out. Running out is not an error; whatever is on the page gets
// extracted.
func (d *Driver) awaitResults(ctx context.Context, logger *zerolog.Logger) error {
	ready := d.opts.Ready
	locator := extract.Locator{Selector: ready.Selector}

	for waited := time.Duration(0); ; waited += ready.Interval {
		html, err := d.browser.HTML(ctx)
		if err == nil && locator.Count(html) > 0 {
			return nil
		}
		if waited >= ready.Timeout {
			logger.Warn().Dur("timeout", ready.Timeout).Msg("Results did not appear in time")
			return nil
		}
		if err := d.opts.Sleep(ctx, ready.Interval); err != nil {
			return err
		}
	}
}

func (d *Driver) enter(logger *zerolog.Logger, phase Phase) {
	logger.Debug().Stringer("phase", phase).Msg("Page phase")
}
