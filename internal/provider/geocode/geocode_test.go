package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Olamide1/leadengine/internal/lead"
	"github.com/Olamide1/leadengine/internal/provider"
)

func placesHandler(places []map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(places)
	}
}

func hospital(name, displayName string, extratags map[string]string) map[string]any {
	return map[string]any{
		"display_name": displayName,
		"category":     "amenity",
		"type":         "hospital",
		"name":         name,
		"extratags":    extratags,
	}
}

func TestFetch_StrictLocationFilter(t *testing.T) {
	srv := httptest.NewServer(placesHandler([]map[string]any{
		hospital("Reddington Hospital", "Reddington Hospital, Victoria Island, Lagos, Nigeria", map[string]string{"website": "https://reddingtonhospital.com"}),
		hospital("Apollo Hospital", "Apollo Hospital, Mumbai, Maharashtra, India", nil),
	}))
	defer srv.Close()

	g := &Geocoder{Mirrors: []string{srv.URL}}
	got, err := g.Fetch(context.Background(), lead.Intent{RawQuery: "hospitals in Lagos", Location: "Lagos", CountryCode: "ng"}, 10)
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected only the Lagos hospital, got %d results", len(got))
	}
	if got[0].Title != "Reddington Hospital" {
		t.Fatalf("unexpected result: %+v", got[0])
	}
	if got[0].Phone != "" && got[0].Address == "" {
		t.Fatalf("address should carry the display name: %+v", got[0])
	}
}

func TestFetch_DropsGeographicFeatures(t *testing.T) {
	srv := httptest.NewServer(placesHandler([]map[string]any{
		{
			"display_name": "Lagos Lagoon, Lagos, Nigeria",
			"category":     "natural",
			"type":         "water",
			"name":         "Lagos Lagoon",
		},
		hospital("St. Nicholas Hospital", "St. Nicholas Hospital, Lagos Island, Lagos, Nigeria", nil),
	}))
	defer srv.Close()

	g := &Geocoder{Mirrors: []string{srv.URL}}
	got, err := g.Fetch(context.Background(), lead.Intent{RawQuery: "q", Location: "Lagos"}, 10)
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "St. Nicholas Hospital" {
		t.Fatalf("lagoon must be dropped, got %+v", got)
	}
}

func TestFetch_ResolveLaterLinkWhenNoWebsite(t *testing.T) {
	srv := httptest.NewServer(placesHandler([]map[string]any{
		hospital("Ikeja General Hospital", "Ikeja General Hospital, Ikeja, Lagos, Nigeria", map[string]string{"phone": "+234 800 000 0000"}),
	}))
	defer srv.Close()

	g := &Geocoder{Mirrors: []string{srv.URL}}
	got, err := g.Fetch(context.Background(), lead.Intent{RawQuery: "q", Location: "Lagos"}, 10)
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	link := got[0].Link
	if !strings.HasPrefix(link, "https://www.google.com/search?q=") {
		t.Fatalf("expected resolve-later search link, got %q", link)
	}
	if !strings.Contains(link, "Ikeja+General+Hospital") {
		t.Fatalf("link must embed the business name, got %q", link)
	}
	if got[0].Phone != "+234 800 000 0000" {
		t.Fatalf("phone not extracted: %+v", got[0])
	}
}

func TestFetch_MirrorRaceFirstSuccessWins(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
			return
		}
		placesHandler(nil)(w, r)
	}))
	defer slow.Close()
	fast := httptest.NewServer(placesHandler([]map[string]any{
		hospital("Fast Clinic", "Fast Clinic, Lagos, Nigeria", map[string]string{"website": "https://fastclinic.ng"}),
	}))
	defer fast.Close()

	g := &Geocoder{Mirrors: []string{slow.URL, fast.URL}}
	start := time.Now()
	got, err := g.Fetch(context.Background(), lead.Intent{RawQuery: "q", Location: "Lagos"}, 10)
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected the fast mirror's result, got %d", len(got))
	}
	if time.Since(start) > 3*time.Second {
		t.Fatal("race did not cancel the slow mirror")
	}
}

func TestFetch_AllMirrorsDownIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := &Geocoder{Mirrors: []string{srv.URL}}
	_, err := g.Fetch(context.Background(), lead.Intent{RawQuery: "q"}, 10)
	if !provider.IsKind(err, provider.KindTransient) {
		t.Fatalf("expected transient, got %v", err)
	}
}

func TestFetch_CountryFilterWithoutLocation(t *testing.T) {
	mk := func(name, display, cc string) map[string]any {
		p := hospital(name, display, nil)
		p["address"] = map[string]any{"country_code": cc}
		return p
	}
	srv := httptest.NewServer(placesHandler([]map[string]any{
		mk("NG Clinic", "NG Clinic, Abuja, Nigeria", "ng"),
		mk("IN Clinic", "IN Clinic, Mumbai, India", "in"),
	}))
	defer srv.Close()

	g := &Geocoder{Mirrors: []string{srv.URL}}
	got, err := g.Fetch(context.Background(), lead.Intent{RawQuery: "q", CountryCode: "ng"}, 10)
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "NG Clinic" {
		t.Fatalf("country filter failed, got %+v", got)
	}
}
