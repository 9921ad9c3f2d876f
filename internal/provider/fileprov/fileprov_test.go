package fileprov

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Olamide1/leadengine/internal/lead"
	"github.com/Olamide1/leadengine/internal/provider"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFetch_FiltersByQuery(t *testing.T) {
	path := writeFixture(t, `[
		{"title": "Reddington Hospital", "link": "https://reddingtonhospital.com", "snippet": "hospital in Lagos", "address": "Victoria Island, Lagos", "phone": "+234 1 271 5400"},
		{"title": "Acme Bakery", "link": "https://acmebakery.ng", "snippet": "fresh bread", "address": "Ikeja, Lagos"},
		{"title": "Missing Link", "link": "", "snippet": "dropped"}
	]`)

	p := &Provider{Path: path}
	got, err := p.Fetch(context.Background(), lead.Intent{RawQuery: "hospitals in Lagos", CleanedQuery: "hospital"}, 10)
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Reddington Hospital" {
		t.Fatalf("unexpected results: %+v", got)
	}
	if got[0].Phone == "" || got[0].Address == "" {
		t.Fatalf("phone/address columns must survive: %+v", got[0])
	}
}

func TestFetch_MissingPathIsFatal(t *testing.T) {
	p := &Provider{}
	_, err := p.Fetch(context.Background(), lead.Intent{RawQuery: "q"}, 10)
	if !provider.IsKind(err, provider.KindFatal) {
		t.Fatalf("expected fatal, got %v", err)
	}

	p = &Provider{Path: "/nonexistent/results.json"}
	_, err = p.Fetch(context.Background(), lead.Intent{RawQuery: "q"}, 10)
	if !provider.IsKind(err, provider.KindFatal) {
		t.Fatalf("expected fatal for missing file, got %v", err)
	}
}

func TestFetch_LimitHonored(t *testing.T) {
	path := writeFixture(t, `[
		{"title": "A Clinic", "link": "https://a.ng", "snippet": "clinic"},
		{"title": "B Clinic", "link": "https://b.ng", "snippet": "clinic"},
		{"title": "C Clinic", "link": "https://c.ng", "snippet": "clinic"}
	]`)
	p := &Provider{Path: path}
	got, err := p.Fetch(context.Background(), lead.Intent{RawQuery: "clinic"}, 2)
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit not honored, got %d", len(got))
	}
}
