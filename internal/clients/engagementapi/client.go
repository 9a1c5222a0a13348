package engagementapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/apierr"
	"github.com/yungbote/scholarlink/internal/platform/ctxutil"
	"github.com/yungbote/scholarlink/internal/platform/logger"
	"github.com/yungbote/scholarlink/internal/session"
)

const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2

	maxResponseBytes = 4 << 20
)

type Options struct {
	BaseURL string

	// Timeout bounds each attempt. Zero means DefaultTimeout.
	Timeout time.Duration
	// MaxRetries applies to GET requests only; mutations are sent once.
	MaxRetries int
	// RetryInitialInterval seeds the exponential backoff between GET attempts.
	RetryInitialInterval time.Duration

	HTTPClient *http.Client
	Log        *logger.Logger
}

// Client talks to the engagement REST API on behalf of one session at a time.
type Client struct {
	baseURL      string
	timeout      time.Duration
	maxRetries   int
	retryInitial time.Duration
	httpClient   *http.Client
	log          *logger.Logger
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	retryInitial := opts.RetryInitialInterval
	if retryInitial <= 0 {
		retryInitial = 250 * time.Millisecond
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	return &Client{
		baseURL:      baseURL,
		timeout:      timeout,
		maxRetries:   maxRetries,
		retryInitial: retryInitial,
		httpClient:   hc,
		log:          logger.OrNop(opts.Log).With("client", "EngagementAPI"),
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// ---- Matches ----

func (c *Client) ListMatches(ctx context.Context, sess session.Session) ([]types.MatchResult, error) {
	var resp matchesResponse
	if err := c.doJSON(ctx, sess, http.MethodGet, "/matches", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Matches, nil
}

func (c *Client) AnalyzeMatch(ctx context.Context, sess session.Session, opportunityID uuid.UUID) (types.MatchPreview, error) {
	var resp previewResponse
	if err := c.doJSON(ctx, sess, http.MethodPost, "/analyze-match/"+opportunityID.String(), nil, &resp); err != nil {
		return types.MatchPreview{}, err
	}
	if resp.Preview.OpportunityID == uuid.Nil {
		resp.Preview.OpportunityID = opportunityID
	}
	return resp.Preview, nil
}

// ---- Applications ----

func (c *Client) SubmitApplication(ctx context.Context, sess session.Session, draft ApplicationDraft) (types.Application, error) {
	var resp applicationResponse
	if err := c.doJSON(ctx, sess, http.MethodPost, "/applications", draft, &resp); err != nil {
		return types.Application{}, err
	}
	return resp.Application, nil
}

func (c *Client) ListMyApplications(ctx context.Context, sess session.Session) ([]types.Application, error) {
	var resp applicationsResponse
	if err := c.doJSON(ctx, sess, http.MethodGet, "/applications/mine", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Applications, nil
}

func (c *Client) ListMentorApplications(ctx context.Context, sess session.Session) ([]types.Application, error) {
	var resp applicationsResponse
	if err := c.doJSON(ctx, sess, http.MethodGet, "/applications/mentor", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Applications, nil
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, sess session.Session, applicationID uuid.UUID, status types.ApplicationStatus) (types.Application, error) {
	var resp applicationResponse
	path := "/applications/" + applicationID.String() + "/status"
	if err := c.doJSON(ctx, sess, http.MethodPatch, path, statusUpdate{Status: string(status)}, &resp); err != nil {
		return types.Application{}, err
	}
	return resp.Application, nil
}

// ---- Improvement plans ----

func (c *Client) GenerateImprovementPlan(ctx context.Context, sess session.Session, opportunityID uuid.UUID) (types.ImprovementPlan, error) {
	var resp planResponse
	if err := c.doJSON(ctx, sess, http.MethodPost, "/improvement-plans/"+opportunityID.String(), nil, &resp); err != nil {
		return types.ImprovementPlan{}, err
	}
	return resp.Plan, nil
}

func (c *Client) ListMyImprovementPlans(ctx context.Context, sess session.Session) ([]types.ImprovementPlan, error) {
	var resp plansResponse
	if err := c.doJSON(ctx, sess, http.MethodGet, "/improvement-plans/mine", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Plans, nil
}

func (c *Client) UpdatePlanItemStatus(ctx context.Context, sess session.Session, itemID uuid.UUID, status types.PlanItemStatus) (types.PlanItem, error) {
	var resp itemResponse
	if err := c.doJSON(ctx, sess, http.MethodPatch, "/plan-items/"+itemID.String(), statusUpdate{Status: string(status)}, &resp); err != nil {
		return types.PlanItem{}, err
	}
	return resp.Item, nil
}

// ---- Research gaps ----

func (c *Client) DiscoverResearchGaps(ctx context.Context, sess session.Session, mentorID, studentID uuid.UUID) ([]types.ResearchGap, error) {
	var resp gapsResponse
	path := "/research-gaps/" + mentorID.String() + "/" + studentID.String()
	if err := c.doJSON(ctx, sess, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Gaps, nil
}

func (c *Client) SaveResearchGap(ctx context.Context, sess session.Session, req SaveGapRequest) (types.SavedResearchGap, error) {
	var resp savedGapResponse
	if err := c.doJSON(ctx, sess, http.MethodPost, "/saved-research-gaps", req, &resp); err != nil {
		return types.SavedResearchGap{}, err
	}
	return resp.Gap, nil
}

func (c *Client) ListSavedResearchGaps(ctx context.Context, sess session.Session) ([]types.SavedResearchGap, error) {
	var resp savedGapsResponse
	if err := c.doJSON(ctx, sess, http.MethodGet, "/saved-research-gaps", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Gaps, nil
}

func (c *Client) DeleteSavedResearchGap(ctx context.Context, sess session.Session, id uuid.UUID) error {
	return c.doJSON(ctx, sess, http.MethodDelete, "/saved-research-gaps/"+id.String(), nil, nil)
}

// ---------------- HTTP helpers ----------------

func (c *Client) doJSON(ctx context.Context, sess session.Session, method, path string, body, out any) error {
	ctx = ctxutil.Default(ctx)
	token, err := sess.BearerToken(ctx)
	if err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return apierr.Wrap(apierr.KindValidation, "encode request", err)
		}
	}

	if method != http.MethodGet || c.maxRetries == 0 {
		return apierr.Classify(c.once(ctx, token, method, path, payload, out))
	}

	attempt := 0
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := c.once(ctx, token, method, path, payload, out)
		if err == nil {
			return struct{}{}, nil
		}
		err = apierr.Classify(err)
		if !apierr.Retryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		c.log.Debug("retrying request", "method", method, "path", path, "attempt", attempt, "error", err)
		return struct{}{}, err
	},
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(uint(c.maxRetries+1)),
	)
	return apierr.Classify(err)
}

func (c *Client) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInitial
	b.MaxInterval = 5 * time.Second
	return b
}

func (c *Client) once(ctx context.Context, token, method, path string, payload []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apierr.Wrap(apierr.KindValidation, "build request", err)
	}
	c.setHeaders(ctx, req, token, payload != nil)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "error", err)
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}
	c.log.Debug("request done", "method", method, "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseHTTPError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apierr.Wrap(apierr.KindNetwork, "malformed response", err)
	}
	return nil
}

func (c *Client) setHeaders(ctx context.Context, req *http.Request, token string, hasBody bool) {
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	reqID := uuid.NewString()
	if td := ctxutil.GetTraceData(ctx); td != nil {
		if td.RequestID != "" {
			reqID = td.RequestID
		}
		if td.TraceID != "" {
			req.Header.Set("X-Trace-Id", td.TraceID)
		}
	}
	req.Header.Set("X-Request-Id", reqID)
}
