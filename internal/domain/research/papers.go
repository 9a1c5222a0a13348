package research

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// PaperList is the normalized form of related paper titles. Some endpoints send a JSON
// array, others send the array serialized into a string; both decode to the same list.
type PaperList []string

func (p *PaperList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = nil
		return nil
	}
	if b[0] == '[' {
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return fmt.Errorf("related papers: %w", err)
		}
		*p = exact(list)
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("related papers: %w", err)
	}
	*p = ParsePaperList(raw)
	return nil
}

// ParsePaperList decodes a serialized blob. A JSON array is taken as-is; anything else
// is treated as newline-separated titles, trimmed with blank lines dropped.
func ParsePaperList(raw string) PaperList {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return exact(list)
		}
	}
	return clean(strings.Split(raw, "\n"))
}

// Blob serializes the list into the opaque string used for transport and storage.
func (p PaperList) Blob() string {
	if len(p) == 0 {
		return "[]"
	}
	b, err := json.Marshal([]string(p))
	if err != nil {
		return "[]"
	}
	return string(b)
}

func (p PaperList) Value() (driver.Value, error) {
	return p.Blob(), nil
}

func (p *PaperList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = nil
	case string:
		*p = ParsePaperList(v)
	case []byte:
		*p = ParsePaperList(string(v))
	default:
		return fmt.Errorf("related papers: unsupported column type %T", src)
	}
	return nil
}

func exact(in []string) PaperList {
	if len(in) == 0 {
		return nil
	}
	return PaperList(in)
}

func clean(in []string) PaperList {
	out := make(PaperList, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
