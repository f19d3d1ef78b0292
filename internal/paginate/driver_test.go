package paginate

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/law-makers/leadcrawl/internal/extract"
	"github.com/law-makers/leadcrawl/pkg/models"
	"github.com/rs/zerolog"
)

// recorder collects the browser calls and sleeps of a run in order
type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) sleep(_ context.Context, d time.Duration) error {
	r.add("sleep %s", d)
	return nil
}

type fakeBrowser struct {
	rec         *recorder
	pages       map[string]string
	current     string
	navigateErr map[string]error
	scriptErr   error
	htmlErr     error
	htmlCalls   int
	// readyAfter makes HTML return an empty page for the first n calls.
	readyAfter int
}

func (b *fakeBrowser) Navigate(_ context.Context, url string) error {
	b.rec.add("navigate %s", url)
	if err := b.navigateErr[url]; err != nil {
		return err
	}
	b.current = url
	return nil
}

func (b *fakeBrowser) ExecuteScript(_ context.Context, script string) error {
	b.rec.add("script %s", script)
	return b.scriptErr
}

func (b *fakeBrowser) HTML(context.Context) (string, error) {
	b.rec.add("html")
	b.htmlCalls++
	if b.htmlErr != nil {
		return "", b.htmlErr
	}
	if b.htmlCalls <= b.readyAfter {
		return "<html><body></body></html>", nil
	}
	return b.pages[b.current], nil
}

func (b *fakeBrowser) Close() error { return nil }

type memorySink struct {
	rec         *recorder
	records     []models.Record
	snapshotErr error
}

func (s *memorySink) Append(records []models.Record) {
	s.records = append(s.records, records...)
}

func (s *memorySink) Snapshot(i, n int) (string, error) {
	s.rec.add("snapshot %d/%d (%d records)", i, n, len(s.records))
	if s.snapshotErr != nil {
		return "", s.snapshotErr
	}
	return fmt.Sprintf("snap_%d_on_%d.csv", i, n), nil
}

func page(names ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><ol>")
	for _, n := range names {
		fmt.Fprintf(&b, "<li><a>%s</a></li>", n)
	}
	b.WriteString("</ol></body></html>")
	return b.String()
}

func urlFor(p int) (string, error) {
	return fmt.Sprintf("https://x/search?page=%d", p), nil
}

func newFixture() (*recorder, *fakeBrowser, *memorySink, *extract.PageExtractor) {
	rec := &recorder{}
	browser := &fakeBrowser{
		rec: rec,
		pages: map[string]string{
			"https://x/search?page=1": page("a", "b"),
			"https://x/search?page=2": page("c"),
			"https://x/search?page=3": page(),
		},
	}
	sink := &memorySink{rec: rec}
	extractor := extract.NewPageExtractor(
		extract.Locator{Selector: "ol > li"},
		extract.MustRuleset(extract.Rule{Name: "name", Selector: "a", Extract: extract.Text}),
		zerolog.Nop(),
	)
	return rec, browser, sink, extractor
}

func names(records []models.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		v, _ := r.Get("name")
		out[i] = v.Str
	}
	return out
}

// TestRunSequence checks the exact order of waits, browser calls and
// snapshots, including the throttle before the first page.
func TestRunSequence(t *testing.T) {
	rec, browser, sink, extractor := newFixture()

	d := New(browser, extractor, sink, Options{
		Waits:  Waits{BetweenPages: 5 * time.Second, AfterLoad: 3 * time.Second, AfterScroll: 2 * time.Second},
		URL:    urlFor,
		Scroll: "scroll()",
		Sleep:  rec.sleep,
		Logger: zerolog.Nop(),
	})

	res, err := d.Run(context.Background(), []int{1, 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{
		"sleep 5s", "navigate https://x/search?page=1", "sleep 3s", "script scroll()", "sleep 2s", "html",
		"snapshot 1/2 (2 records)",
		"sleep 5s", "navigate https://x/search?page=2", "sleep 3s", "script scroll()", "sleep 2s", "html",
		"snapshot 2/2 (3 records)",
	}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events:\n got  %q\n want %q", rec.events, want)
	}

	if got := names(sink.records); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("accumulated = %v", got)
	}
	if res.Pages != 2 || res.Records != 3 || len(res.Snapshots) != 2 {
		t.Errorf("result = %+v", res)
	}
}

// TestRunAccumulatesInPageOrder verifies that a run over [p1, p2] yields
// exactly the records of p1 followed by those of p2.
func TestRunAccumulatesInPageOrder(t *testing.T) {
	_, browser, sink, extractor := newFixture()

	var seen []PageResult
	d := New(browser, extractor, sink, Options{
		URL:    urlFor,
		Sleep:  func(context.Context, time.Duration) error { return nil },
		OnPage: func(pr PageResult) { seen = append(seen, pr) },
	})

	if _, err := d.Run(context.Background(), []int{2, 3, 1}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := names(sink.records); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Errorf("accumulated = %v", got)
	}

	if len(seen) != 3 {
		t.Fatalf("OnPage called %d times", len(seen))
	}
	if seen[1].Page != 3 || seen[1].Records != 0 || seen[1].Total != 1 || seen[1].Index != 2 {
		t.Errorf("second page result = %+v", seen[1])
	}
}

func TestScrollFailureIsNotFatal(t *testing.T) {
	_, browser, sink, extractor := newFixture()
	browser.scriptErr = errors.New("element not found")

	d := New(browser, extractor, sink, Options{
		URL:    urlFor,
		Scroll: "scroll()",
		Sleep:  func(context.Context, time.Duration) error { return nil },
	})

	res, err := d.Run(context.Background(), []int{1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Records != 2 {
		t.Errorf("records = %d, want 2", res.Records)
	}
}

func TestSnapshotFailureIsNotFatal(t *testing.T) {
	_, browser, sink, extractor := newFixture()
	sink.snapshotErr = errors.New("disk full")

	d := New(browser, extractor, sink, Options{
		URL:   urlFor,
		Sleep: func(context.Context, time.Duration) error { return nil },
	})

	res, err := d.Run(context.Background(), []int{1, 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Pages != 2 || len(sink.records) != 3 || len(res.Snapshots) != 0 {
		t.Errorf("result = %+v, records = %d", res, len(sink.records))
	}
}

func TestNavigationFailureStopsRun(t *testing.T) {
	_, browser, sink, extractor := newFixture()
	browser.navigateErr = map[string]error{"https://x/search?page=2": errors.New("net::ERR_TIMED_OUT")}

	d := New(browser, extractor, sink, Options{
		URL:   urlFor,
		Sleep: func(context.Context, time.Duration) error { return nil },
	})

	res, err := d.Run(context.Background(), []int{1, 2, 3})
	if !errors.Is(err, ErrNavigate) {
		t.Fatalf("err = %v, want ErrNavigate", err)
	}

	var pe *PageError
	if !errors.As(err, &pe) || pe.Page != 2 || pe.Phase != PhaseLoading {
		t.Errorf("page error = %+v", pe)
	}
	if res.Pages != 1 || len(sink.records) != 2 {
		t.Errorf("pages before the failure must be kept: %+v, %d records", res, len(sink.records))
	}
}

func TestRenderFailureStopsRun(t *testing.T) {
	_, browser, sink, extractor := newFixture()
	browser.htmlErr = errors.New("target closed")

	d := New(browser, extractor, sink, Options{
		URL:   urlFor,
		Sleep: func(context.Context, time.Duration) error { return nil },
	})

	if _, err := d.Run(context.Background(), []int{1}); !errors.Is(err, ErrRender) {
		t.Fatalf("err = %v, want ErrRender", err)
	}
}

func TestCancelledContextStopsBetweenPages(t *testing.T) {
	_, browser, sink, extractor := newFixture()

	ctx, cancel := context.WithCancel(context.Background())
	d := New(browser, extractor, sink, Options{
		URL:    urlFor,
		Sleep:  Sleep,
		OnPage: func(PageResult) { cancel() },
	})

	res, err := d.Run(ctx, []int{1, 2})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res.Pages != 1 {
		t.Errorf("pages = %d, want 1", res.Pages)
	}
}

func TestReadinessPolling(t *testing.T) {
	rec, browser, sink, extractor := newFixture()
	browser.readyAfter = 2

	d := New(browser, extractor, sink, Options{
		URL:   urlFor,
		Sleep: rec.sleep,
		Ready: &Readiness{Selector: "ol > li", Timeout: 5 * time.Second, Interval: time.Second},
	})

	if _, err := d.Run(context.Background(), []int{1}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	polls := 0
	for _, e := range rec.events {
		if e == "html" {
			polls++
		}
	}
	// Two empty polls, the successful poll, then the extraction read.
	if polls != 4 {
		t.Errorf("html calls = %d, want 4 (%q)", polls, rec.events)
	}
	if len(sink.records) != 2 {
		t.Errorf("records = %d, want 2", len(sink.records))
	}
}

func TestReadinessTimeoutStillExtracts(t *testing.T) {
	rec, browser, sink, extractor := newFixture()
	browser.readyAfter = 100

	d := New(browser, extractor, sink, Options{
		URL:   urlFor,
		Sleep: rec.sleep,
		Ready: &Readiness{Selector: "ol > li", Timeout: 2 * time.Second, Interval: time.Second},
	})

	res, err := d.Run(context.Background(), []int{1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Pages != 1 || res.Records != 0 {
		t.Errorf("result = %+v", res)
	}
}

type countingLimiter struct {
	urls []string
}

func (l *countingLimiter) Wait(_ context.Context, url string) error {
	l.urls = append(l.urls, url)
	return nil
}

func TestLimiterConsultedPerPage(t *testing.T) {
	_, browser, sink, extractor := newFixture()
	limiter := &countingLimiter{}

	d := New(browser, extractor, sink, Options{
		URL:     urlFor,
		Sleep:   func(context.Context, time.Duration) error { return nil },
		Limiter: limiter,
	})

	if _, err := d.Run(context.Background(), []int{1, 2}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"https://x/search?page=1", "https://x/search?page=2"}
	if !reflect.DeepEqual(limiter.urls, want) {
		t.Errorf("limiter urls = %v", limiter.urls)
	}
}
