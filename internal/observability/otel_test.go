package observability

import (
	"context"
	"reflect"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	got := parseHeaders(" api-key = abc , bad, x=, tenant=scholarlink")
	want := map[string]string{"api-key": "abc", "tenant": "scholarlink"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("headers=%v", got)
	}
	if parseHeaders("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestSampleRatioClamps(t *testing.T) {
	cases := map[string]float64{"": 0.1, "junk": 0.1, "-1": 0, "2": 1, "0.5": 0.5}
	for raw, want := range cases {
		t.Setenv("OTEL_SAMPLER_RATIO", raw)
		if got := otelSampleRatio(); got != want {
			t.Errorf("ratio(%q)=%v want %v", raw, got, want)
		}
	}
}

func TestInitOTelDisabledReturnsNoopShutdown(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")
	shutdown := InitOTel(context.Background(), nil, OtelConfig{})
	if shutdown == nil {
		t.Fatal("nil shutdown")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
