package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/scholarlink/internal/platform/apierr"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[string]struct {
		err    error
		status int
		code   string
		msg    string
	}{
		"explicit": {&apierr.Error{Kind: apierr.KindDuplicateApplication, Status: 400, Code: apierr.CodeDuplicateApplication, Message: "already applied"}, 400, apierr.CodeDuplicateApplication, "already applied"},
		"by kind":  {apierr.Conflict("stale"), http.StatusConflict, "", "stale"},
		"internal": {&apierr.Error{Kind: apierr.KindNetwork, Status: 500, Message: "db exploded"}, 500, "", "Internal Server Error"},
		"plain":    {errors.New("boom"), 500, apierr.CodeInternal, "internal error"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			RespondServiceError(c, tc.err)
			if rec.Code != tc.status {
				t.Fatalf("status=%d want %d", rec.Code, tc.status)
			}
			var env ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tc.code || env.Error.Message != tc.msg {
				t.Fatalf("envelope=%+v", env.Error)
			}
		})
	}
}
