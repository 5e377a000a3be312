// Package cds implements the retrieval client for the Copernicus Climate
// Data Store web API. Retrieval is a job flow: submit the request to the
// dataset's resource endpoint, poll the resulting task until it completes,
// then download the produced artifact to the target directory.
package cds

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/SurfyPenguin/cds-weather-api/internal/config"
	"github.com/SurfyPenguin/cds-weather-api/internal/observability"
	"github.com/SurfyPenguin/cds-weather-api/internal/request"
)

// ErrTaskFailed indicates the archive accepted the request but the retrieval
// task finished in the failed state.
var ErrTaskFailed = errors.New("retrieval task failed")

// Task states reported by the archive.
const (
	stateQueued    = "queued"
	stateRunning   = "running"
	stateCompleted = "completed"
	stateFailed    = "failed"
)

// Client submits retrieval requests to the CDS web API and downloads the
// produced artifact. It implements request.Retriever and owns all network
// concerns: authentication, throttling, and poll backoff.
type Client struct {
	key       string
	baseURL   string
	targetDir string

	// apiClient carries the per-call timeout; downloadClient must not,
	// because artifact downloads routinely outlive any sane call timeout.
	// Both are bounded by the retrieval context.
	apiClient      *http.Client
	downloadClient *http.Client

	limiter         *rate.Limiter
	breaker         *gobreaker.CircuitBreaker
	pollInterval    time.Duration
	pollMaxInterval time.Duration

	logger  *slog.Logger
	metrics *observability.Metrics
	active  atomic.Bool
}

var _ request.Retriever = (*Client)(nil)

// NewClient creates a CDS retrieval client from the service configuration.
func NewClient(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		key:            cfg.APIKey,
		baseURL:        strings.TrimRight(cfg.APIURL, "/"),
		targetDir:      cfg.TargetDir,
		apiClient:      &http.Client{Timeout: cfg.RequestTimeout},
		downloadClient: &http.Client{},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "cds-api",
			Timeout: 30 * time.Second,
		}),
		pollInterval:    cfg.PollInterval,
		pollMaxInterval: cfg.PollMaxInterval,
		logger:          logger,
		metrics:         metrics,
	}
}

// taskStatus is the archive's task representation, returned by both the
// submission and polling endpoints.
type taskStatus struct {
	RequestID string `json:"request_id"`
	State     string `json:"state"`
	Location  string `json:"location,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Retrieve runs the full submit-poll-download cycle and returns the local
// path of the downloaded artifact.
func (c *Client) Retrieve(ctx context.Context, dataset string, payload map[string]any) (string, error) {
	c.active.Store(true)
	defer c.active.Store(false)
	c.metrics.ActiveRetrievals.Inc()
	defer c.metrics.ActiveRetrievals.Dec()

	start := time.Now()

	task, err := c.submit(ctx, dataset, payload)
	if err != nil {
		c.metrics.Retrievals.WithLabelValues("error").Inc()
		return "", err
	}
	c.metrics.RequestsSubmitted.Inc()
	c.logger.Info("request submitted", "dataset", dataset, "request_id", task.RequestID, "state", task.State)

	location, err := c.awaitCompletion(ctx, task)
	if err != nil {
		if errors.Is(err, ErrTaskFailed) {
			c.metrics.Retrievals.WithLabelValues("failed").Inc()
		} else {
			c.metrics.Retrievals.WithLabelValues("error").Inc()
		}
		return "", err
	}

	path, err := c.download(ctx, location, dataset, task.RequestID, payload)
	if err != nil {
		c.metrics.Retrievals.WithLabelValues("error").Inc()
		return "", err
	}

	elapsed := time.Since(start)
	c.metrics.Retrievals.WithLabelValues("completed").Inc()
	c.metrics.RetrievalDuration.Observe(elapsed.Seconds())
	c.logger.Info("retrieval complete", "dataset", dataset, "path", path, "duration", elapsed)
	return path, nil
}

// CheckReadiness reports whether a retrieval is currently in flight, for the
// health listener's /readyz endpoint.
func (c *Client) CheckReadiness(_ context.Context) error {
	if !c.active.Load() {
		return errors.New("no retrieval in progress")
	}
	return nil
}

func (c *Client) submit(ctx context.Context, dataset string, payload map[string]any) (taskStatus, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return taskStatus{}, fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return taskStatus{}, fmt.Errorf("encode request: %w", err)
	}

	u := fmt.Sprintf("%s/resources/%s", c.baseURL, url.PathEscape(dataset))
	var task taskStatus
	if err := c.doJSON(ctx, http.MethodPost, u, bytes.NewReader(body), &task); err != nil {
		return taskStatus{}, fmt.Errorf("submit request: %w", err)
	}
	if task.RequestID == "" {
		return taskStatus{}, errors.New("submit request: archive returned no request id")
	}
	return task, nil
}

// awaitCompletion polls the task until it reaches a terminal state, backing
// off from the initial interval by 1.5x per cycle up to the configured cap.
func (c *Client) awaitCompletion(ctx context.Context, task taskStatus) (string, error) {
	interval := c.pollInterval
	for {
		switch task.State {
		case stateCompleted:
			if task.Location == "" {
				return "", fmt.Errorf("task %s completed without a download location", task.RequestID)
			}
			return task.Location, nil
		case stateFailed:
			msg := task.Message
			if msg == "" {
				msg = "no failure reason given"
			}
			return "", fmt.Errorf("task %s: %s: %w", task.RequestID, msg, ErrTaskFailed)
		case stateQueued, stateRunning:
			// keep polling
		default:
			return "", fmt.Errorf("task %s: unknown state %q", task.RequestID, task.State)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}
		interval = min(interval*3/2, c.pollMaxInterval)

		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
		c.metrics.PollCycles.Inc()

		u := fmt.Sprintf("%s/tasks/%s", c.baseURL, url.PathEscape(task.RequestID))
		next := taskStatus{RequestID: task.RequestID}
		if err := c.doJSON(ctx, http.MethodGet, u, nil, &next); err != nil {
			return "", fmt.Errorf("poll task %s: %w", task.RequestID, err)
		}
		if next.RequestID == "" {
			next.RequestID = task.RequestID
		}
		c.logger.Debug("task polled", "request_id", next.RequestID, "state", next.State)
		task = next
	}
}

func (c *Client) download(ctx context.Context, location, dataset, requestID string, payload map[string]any) (string, error) {
	// Locations may be absolute or relative to the API base.
	u := location
	if strings.HasPrefix(location, "/") {
		u = c.baseURL + location
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("create download request: %w", err)
	}
	req.Header.Set("PRIVATE-TOKEN", c.key)

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download artifact: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("download artifact: status %d: %s", resp.StatusCode, body)
	}

	path := filepath.Join(c.targetDir, fmt.Sprintf("%s-%s.%s", dataset, requestID, artifactExt(payload)))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create artifact file: %w", err)
	}

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close artifact file: %w", err)
	}

	c.metrics.DownloadBytes.Add(float64(n))
	c.logger.Info("artifact downloaded", "path", path, "bytes", n)
	return path, nil
}

// doJSON performs an authenticated API call through the circuit breaker and
// decodes the JSON response into out.
func (c *Client) doJSON(ctx context.Context, method, fullURL string, body io.Reader, out any) error {
	result, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("PRIVATE-TOKEN", c.key)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.apiClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return nil, fmt.Errorf("archive API error: status %d: %s", resp.StatusCode, respBody)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		return data, nil
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(result.([]byte), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// artifactExt derives the downloaded file's extension from the request's
// packaging and data format.
func artifactExt(payload map[string]any) string {
	if v, ok := payload["download_format"].(string); ok && v == request.DownloadZip {
		return "zip"
	}
	if v, ok := payload["data_format"].(string); ok && v == request.FormatGRIB {
		return "grib"
	}
	return "nc"
}
