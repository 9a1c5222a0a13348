package engagementapi

import (
	"encoding/json"
	"strings"

	"github.com/yungbote/scholarlink/internal/platform/apierr"
)

// parseHTTPError reads the backend error envelope. Older endpoints answer with a bare
// {"message": ...} or {"error": "..."}; those shapes are accepted too.
func parseHTTPError(status int, raw []byte) error {
	var env struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Code    string          `json:"code"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return apierr.FromHTTP(status, "", "")
	}

	code := strings.TrimSpace(env.Code)
	msg := strings.TrimSpace(env.Message)
	if len(env.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		var flat string
		switch {
		case json.Unmarshal(env.Error, &nested) == nil:
			if m := strings.TrimSpace(nested.Message); m != "" {
				msg = m
			}
			if c := strings.TrimSpace(nested.Code); c != "" {
				code = c
			}
		case json.Unmarshal(env.Error, &flat) == nil && strings.TrimSpace(flat) != "":
			msg = strings.TrimSpace(flat)
		}
	}
	return apierr.FromHTTP(status, code, msg)
}
