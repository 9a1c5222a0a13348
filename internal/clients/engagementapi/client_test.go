package engagementapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/apierr"
	"github.com/yungbote/scholarlink/internal/session"
)

func testClient(t *testing.T, h http.Handler, opts Options) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts.BaseURL = srv.URL + "/api"
	if opts.RetryInitialInterval == 0 {
		opts.RetryInitialInterval = time.Millisecond
	}
	c, err := New(opts)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func studentSession() session.Session {
	return session.New(uuid.New(), session.RoleStudent, session.StaticToken("student-token"))
}

func TestListMatchesSendsBearerAndDecodes(t *testing.T) {
	var gotAuth, gotReqID string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/matches" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-Id")
		_, _ = io.WriteString(w, `{"matches":[{"opportunity_id":"`+uuid.NewString()+`","match_score":91,"semantic_score":88,"alignment_score":94,"explanation":"strong NLP overlap","missing_skills":["CUDA"]},{"match_score":40}]}`)
	}), Options{})

	got, err := c.ListMatches(context.Background(), studentSession())
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if gotAuth != "Bearer student-token" {
		t.Fatalf("authorization=%q", gotAuth)
	}
	if gotReqID == "" {
		t.Fatalf("missing X-Request-Id")
	}
	if len(got) != 2 || got[0].MatchScore != 91 || got[1].MatchScore != 40 {
		t.Fatalf("unexpected matches: %+v", got)
	}
	if !reflect.DeepEqual(got[0].MissingSkills, []string{"CUDA"}) {
		t.Fatalf("missing skills: %+v", got[0].MissingSkills)
	}
}

func TestMissingCredentialNeverReachesNetwork(t *testing.T) {
	var calls int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}), Options{})

	_, err := c.ListMatches(context.Background(), session.Session{UserID: uuid.New()})
	if !errors.Is(err, apierr.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("request was sent without credential")
	}
}

func TestSubmitDuplicateIsClassified(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var draft ApplicationDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			t.Errorf("decode draft: %v", err)
		}
		if draft.CoverLetter != "hello" {
			t.Errorf("cover letter=%q", draft.CoverLetter)
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"You have already applied to this opportunity"}`)
	}), Options{})

	_, err := c.SubmitApplication(context.Background(), studentSession(), ApplicationDraft{
		OpportunityID: uuid.New(),
		CoverLetter:   "hello",
	})
	if !errors.Is(err, apierr.ErrDuplicateApplication) {
		t.Fatalf("expected duplicate application error, got %v", err)
	}
}

func TestUnauthorizedIsAuthError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"token expired","code":"unauthorized"}}`)
	}), Options{MaxRetries: 3})

	_, err := c.ListMyApplications(context.Background(), studentSession())
	if !errors.Is(err, apierr.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if got := apierr.UserMessage(err, ""); got != "token expired" {
		t.Fatalf("message=%q", got)
	}
}

func TestGetRetriesTransientFailures(t *testing.T) {
	var calls int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"plans":[]}`)
	}), Options{MaxRetries: 2})

	plans, err := c.ListMyImprovementPlans(context.Background(), studentSession())
	if err != nil {
		t.Fatalf("ListMyImprovementPlans: %v", err)
	}
	if len(plans) != 0 {
		t.Fatalf("expected no plans, got %d", len(plans))
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("calls=%d want 3", got)
	}
}

func TestMutationsAreNotRetried(t *testing.T) {
	var calls int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}), Options{MaxRetries: 5})

	_, err := c.UpdatePlanItemStatus(context.Background(), studentSession(), uuid.New(), types.ItemInProgress)
	if !errors.Is(err, apierr.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("calls=%d want 1", got)
	}
}

func TestTimeoutSurfacesAsNetworkError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}), Options{Timeout: 50 * time.Millisecond})

	_, err := c.AnalyzeMatch(context.Background(), studentSession(), uuid.New())
	if !errors.Is(err, apierr.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestSavedGapsTravelAsStringBlob(t *testing.T) {
	papers := types.PaperList{"Graph Attention Networks", "Neural Message Passing for Quantum Chemistry"}
	var sent SaveGapRequest
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
				t.Errorf("decode: %v", err)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"gap": map[string]any{
				"id":             uuid.NewString(),
				"title":          sent.Title,
				"related_papers": sent.RelatedPapers,
			}})
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{"gaps": []map[string]any{{
				"id":             uuid.NewString(),
				"title":          sent.Title,
				"related_papers": sent.RelatedPapers,
			}}})
		}
	}), Options{})

	gap := types.ResearchGap{Title: "GNNs for molecules", RelatedPapers: papers}
	saved, err := c.SaveResearchGap(context.Background(), studentSession(), NewSaveGapRequest(uuid.New(), uuid.New(), gap))
	if err != nil {
		t.Fatalf("SaveResearchGap: %v", err)
	}
	if !strings.HasPrefix(sent.RelatedPapers, "[") {
		t.Fatalf("related papers not sent as serialized string: %q", sent.RelatedPapers)
	}
	if !reflect.DeepEqual(saved.RelatedPapers, papers) {
		t.Fatalf("saved papers=%#v", saved.RelatedPapers)
	}

	listed, err := c.ListSavedResearchGaps(context.Background(), studentSession())
	if err != nil {
		t.Fatalf("ListSavedResearchGaps: %v", err)
	}
	if len(listed) != 1 || !reflect.DeepEqual(listed[0].RelatedPapers, papers) {
		t.Fatalf("listed=%+v", listed)
	}
}

func TestParseHTTPErrorShapes(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
		kind   apierr.Kind
		msg    string
	}{
		"nested":   {http.StatusConflict, `{"error":{"message":"stale","code":"invalid_transition"}}`, apierr.KindConflict, "stale"},
		"flat":     {http.StatusBadRequest, `{"error":"cover letter is required"}`, apierr.KindValidation, "cover letter is required"},
		"message":  {http.StatusBadRequest, `{"message":"duplicate application"}`, apierr.KindDuplicateApplication, "duplicate application"},
		"non-json": {http.StatusBadGateway, `<html>bad gateway</html>`, apierr.KindNetwork, ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := parseHTTPError(tc.status, []byte(tc.body))
			if apierr.KindOf(err) != tc.kind {
				t.Fatalf("kind=%q want %q (%v)", apierr.KindOf(err), tc.kind, err)
			}
			if got := apierr.UserMessage(err, ""); got != tc.msg {
				t.Fatalf("message=%q want %q", got, tc.msg)
			}
		})
	}
}
