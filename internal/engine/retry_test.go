package engine

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"
)

// fastRetry keeps backoff waits negligible for tests.
var fastRetry = RetryConfig{
	MaxRetries:  3,
	InitialWait: time.Millisecond,
	MaxWait:     5 * time.Millisecond,
	Multiplier:  2.0,
}

func TestRetryDoSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	got, err := RetryDo(context.Background(), fastRetry, func() (string, error) {
		calls++
		if calls < 3 {
			return "", &net.OpError{Op: "dial", Err: errors.New("refused")}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("RetryDo: %v", err)
	}
	if got != "ok" || calls != 3 {
		t.Errorf("got %q after %d calls, want ok after 3", got, calls)
	}
}

func TestRetryDoStopsOnNonRetryable(t *testing.T) {
	calls := 0
	boom := errors.New("bad request")
	_, err := RetryDo(context.Background(), fastRetry, func() (int, error) {
		calls++
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want the original error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("made %d calls on a non-retryable error, want 1", calls)
	}
}

func TestRetryDoExhaustsRetries(t *testing.T) {
	calls := 0
	_, err := RetryDo(context.Background(), fastRetry, func() (int, error) {
		calls++
		return 0, &net.DNSError{Err: "lookup failed", IsTemporary: true}
	})
	if err == nil {
		t.Fatal("want error after exhausting retries")
	}
	if calls != fastRetry.MaxRetries+1 {
		t.Errorf("made %d calls, want %d", calls, fastRetry.MaxRetries+1)
	}
}

func TestRetryDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RetryDo(ctx, fastRetry, func() (int, error) {
		t.Fatal("fn must not run with a cancelled context")
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
}

func TestRetryHTTPRetriesOnStatus(t *testing.T) {
	statuses := []int{503, 429, 200}
	calls := 0
	resp, err := RetryHTTP(context.Background(), fastRetry, func() (*http.Response, error) {
		status := statuses[calls]
		calls++
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader("")),
		}, nil
	})
	if err != nil {
		t.Fatalf("RetryHTTP: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 || calls != 3 {
		t.Errorf("status %d after %d calls, want 200 after 3", resp.StatusCode, calls)
	}
}

func TestRetryHTTPPassesThroughClientErrors(t *testing.T) {
	calls := 0
	resp, err := RetryHTTP(context.Background(), fastRetry, func() (*http.Response, error) {
		calls++
		return &http.Response{
			StatusCode: 404,
			Body:       io.NopCloser(strings.NewReader("")),
		}, nil
	})
	if err != nil {
		t.Fatalf("RetryHTTP: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 404 || calls != 1 {
		t.Errorf("status %d after %d calls, want immediate 404", resp.StatusCode, calls)
	}
}

func TestIsRetryableStatus(t *testing.T) {
	for _, code := range []int{429, 500, 502, 503, 504} {
		if !isRetryableStatus(code) {
			t.Errorf("status %d should be retryable", code)
		}
	}
	for _, code := range []int{200, 301, 400, 401, 403, 404} {
		if isRetryableStatus(code) {
			t.Errorf("status %d should not be retryable", code)
		}
	}
}
