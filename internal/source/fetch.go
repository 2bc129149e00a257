package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Options configures timeouts and the retry strategy for remote sources.
type Options struct {
	Timeout          time.Duration
	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
	RetryMaxDelay    time.Duration
	// Sheet selects the workbook sheet for .xlsx sources.
	Sheet     string
	UserAgent string
}

// DefaultOptions returns the defaults used when a field is left zero.
func DefaultOptions() Options {
	return Options{
		Timeout:          60 * time.Second,
		RetryMaxAttempts: 3,
		RetryBaseDelay:   500 * time.Millisecond,
		RetryMaxDelay:    4 * time.Second,
		UserAgent:        "enrollboard",
	}
}

// Fetcher loads rows from a URL or a local file.
type Fetcher struct {
	httpClient *http.Client
	opt        Options
}

// NewFetcher fills zero options with defaults.
func NewFetcher(opt Options) *Fetcher {
	def := DefaultOptions()
	if opt.Timeout <= 0 {
		opt.Timeout = def.Timeout
	}
	if opt.RetryMaxAttempts <= 0 {
		opt.RetryMaxAttempts = def.RetryMaxAttempts
	}
	if opt.RetryBaseDelay <= 0 {
		opt.RetryBaseDelay = def.RetryBaseDelay
	}
	if opt.RetryMaxDelay <= 0 {
		opt.RetryMaxDelay = def.RetryMaxDelay
	}
	if opt.UserAgent == "" {
		opt.UserAgent = def.UserAgent
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: opt.Timeout},
		opt:        opt,
	}
}

// Fetch reads and decodes the rows at location. http(s) URLs are fetched with
// retries; anything else is treated as a local file path.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]Row, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.New("source location is empty")
	}
	if isRemote(location) {
		return f.fetchRemote(ctx, location)
	}
	return f.readFile(location)
}

func isRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func (f *Fetcher) readFile(p string) ([]Row, error) {
	p = strings.TrimPrefix(p, "file://")
	opt := DecodeOptions{Name: p, Sheet: f.opt.Sheet}
	dec, err := decoderFor(opt)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer fh.Close()
	return dec.Decode(fh, opt)
}

func (f *Fetcher) fetchRemote(ctx context.Context, location string) ([]Row, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("parse source url: %w", err)
	}
	backoff := f.opt.RetryBaseDelay
	var lastErr error
	for attempt := 1; attempt <= f.opt.RetryMaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, retryAfter, err := f.attempt(ctx, u)
		if err == nil {
			return rows, nil
		}
		lastErr = err
		if !retryable(err) || attempt == f.opt.RetryMaxAttempts {
			break
		}
		sleep := retryAfter
		if sleep <= 0 {
			sleep = withJitter(backoff)
			backoff *= 2
		}
		if sleep > f.opt.RetryMaxDelay {
			sleep = f.opt.RetryMaxDelay
		}
		if err := sleepCtx(ctx, sleep); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// attempt performs one request. The duration is the server's Retry-After, if any.
func (f *Fetcher) attempt(ctx context.Context, u *url.URL) ([]Row, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/csv;q=0.9, */*;q=0.5")
	req.Header.Set("User-Agent", f.opt.UserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, &UnreachableError{Host: u.Host, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
		se := &StatusError{
			StatusCode: resp.StatusCode,
			URL:        u.String(),
			RequestID:  extractRequestID(resp),
			Body:       strings.TrimSpace(string(body)),
		}
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := parseRetryAfterSeconds(ra); err == nil && secs > 0 {
				se.RetryAfter = time.Duration(secs) * time.Second
			}
		}
		return nil, se.RetryAfter, se
	}

	opt := DecodeOptions{Name: u.Path, ContentType: resp.Header.Get("Content-Type"), Sheet: f.opt.Sheet}
	dec, err := decoderFor(opt)
	if err != nil {
		// Open-data endpoints without an extension serve JSON.
		dec = jsonDecoder{}
	}
	rows, err := dec.Decode(resp.Body, opt)
	if err != nil {
		if isRetryableNetErr(err) {
			return nil, 0, &UnreachableError{Host: u.Host, Err: err}
		}
		return nil, 0, err
	}
	return rows, 0, nil
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	var ue *UnreachableError
	if errors.As(err, &ue) {
		return isRetryableNetErr(ue.Err)
	}
	return false
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	var oerr *net.OpError
	if errors.As(err, &oerr) {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// parseRetryAfterSeconds interprets a Retry-After value as seconds or an HTTP date.
func parseRetryAfterSeconds(v string) (int, error) {
	if s, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		return s, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return int(d.Seconds()), nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}

func extractRequestID(resp *http.Response) string {
	for _, k := range []string{"X-Request-Id", "X-Socrata-Requestid", "X-Amzn-Requestid"} {
		if v := resp.Header.Get(k); v != "" {
			return v
		}
	}
	return ""
}

// withJitter returns d with +/- 20% jitter applied.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 500 * time.Millisecond
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if out <= 0 {
		return d
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Remote binds a Fetcher to one location. It satisfies dataset.Source.
type Remote struct {
	Fetcher  *Fetcher
	Location string
}

// Rows fetches and decodes the location.
func (r Remote) Rows(ctx context.Context) ([]map[string]any, error) {
	return r.Fetcher.Fetch(ctx, r.Location)
}

func (r Remote) String() string { return r.Location }
