package research

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestPaperListDecodesBothShapes(t *testing.T) {
	want := PaperList{"Attention Is All You Need", "BERT: Pre-training of Deep Bidirectional Transformers"}

	cases := map[string]string{
		"array":  `{"related_papers":["Attention Is All You Need","BERT: Pre-training of Deep Bidirectional Transformers"]}`,
		"string": `{"related_papers":"[\"Attention Is All You Need\",\"BERT: Pre-training of Deep Bidirectional Transformers\"]"}`,
		"lines":  `{"related_papers":"Attention Is All You Need\nBERT: Pre-training of Deep Bidirectional Transformers\n"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var out struct {
				RelatedPapers PaperList `json:"related_papers"`
			}
			if err := json.Unmarshal([]byte(raw), &out); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !reflect.DeepEqual(out.RelatedPapers, want) {
				t.Fatalf("got %#v want %#v", out.RelatedPapers, want)
			}
		})
	}
}

func TestPaperListBlobRoundTrip(t *testing.T) {
	in := PaperList{"b", "a", "c, with comma", `quoted "title"`}
	got := ParsePaperList(in.Blob())
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("round trip changed list: got %#v want %#v", got, in)
	}
}

func TestPaperListEmpty(t *testing.T) {
	if got := (PaperList)(nil).Blob(); got != "[]" {
		t.Fatalf("blob=%q", got)
	}
	if got := ParsePaperList("  "); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
	var p PaperList
	if err := p.Scan([]byte(`["x"]`)); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(p) != 1 || p[0] != "x" {
		t.Fatalf("scan result %#v", p)
	}
	if err := p.Scan(42); err == nil {
		t.Fatalf("expected error for int column")
	}
}

func TestPaperListKeepsArrayEntriesExactly(t *testing.T) {
	lists := []PaperList{
		{"A", "", "B"},
		{"  padded title  "},
	}
	for _, in := range lists {
		if got := ParsePaperList(in.Blob()); !reflect.DeepEqual(got, in) {
			t.Fatalf("blob round trip: got %#v want %#v", got, in)
		}

		b, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var fromArray PaperList
		if err := json.Unmarshal(b, &fromArray); err != nil {
			t.Fatalf("unmarshal array: %v", err)
		}
		if !reflect.DeepEqual(fromArray, in) {
			t.Fatalf("array round trip: got %#v want %#v", fromArray, in)
		}

		s, err := json.Marshal(in.Blob())
		if err != nil {
			t.Fatalf("marshal blob: %v", err)
		}
		var fromString PaperList
		if err := json.Unmarshal(s, &fromString); err != nil {
			t.Fatalf("unmarshal string: %v", err)
		}
		if !reflect.DeepEqual(fromString, in) {
			t.Fatalf("string round trip: got %#v want %#v", fromString, in)
		}
	}

	if got := ParsePaperList("  first \n\n second\n"); !reflect.DeepEqual(got, PaperList{"first", "second"}) {
		t.Fatalf("line fallback: got %#v", got)
	}
}
