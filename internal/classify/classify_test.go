package classify

import (
	"testing"

	"github.com/Olamide1/leadengine/internal/lead"
)

func newTestClassifier() *Classifier {
	return New(DefaultTables(), DefaultGeoPolicy)
}

func TestClassify_Deterministic(t *testing.T) {
	c := newTestClassifier()
	r := lead.RawResult{Title: "St. Nicholas Hospital", Link: "https://saintnicholashospital.com", Address: "57 Campbell St, Lagos Island, Lagos"}
	it := lead.Intent{Location: "Lagos", CountryCode: "ng"}

	first := c.Classify(r, it)
	second := c.Classify(r, it)
	if first != second {
		t.Fatalf("classification not deterministic: %+v vs %+v", first, second)
	}
	if !first.Accepted() {
		t.Fatalf("expected acceptance, got %+v", first)
	}
}

func TestClassify_StrictGeography(t *testing.T) {
	c := newTestClassifier()
	it := lead.Intent{Location: "Lagos", CountryCode: "ng"}

	wrong := c.Classify(lead.RawResult{
		Title:   "Apollo Hospital",
		Link:    "https://apollohospitals.com",
		Address: "Mumbai, India",
	}, it)
	if wrong.Accepted() {
		t.Fatal("result with Mumbai address must be rejected for a Lagos intent")
	}
	if wrong.LocationMatch {
		t.Fatalf("expected location mismatch, got %+v", wrong)
	}

	right := c.Classify(lead.RawResult{
		Title:   "Reddington Hospital",
		Link:    "https://reddingtonhospital.com",
		Address: "Victoria Island, Lagos",
	}, it)
	if !right.Accepted() {
		t.Fatalf("Lagos address must pass, got %+v", right)
	}
}

func TestClassify_DirectoryDenylist(t *testing.T) {
	c := newTestClassifier()
	it := lead.Intent{}

	v := c.Classify(lead.RawResult{Title: "Plumbers", Link: "https://www.yellowpages.com/x", Address: "somewhere"}, it)
	if !v.IsDirectory {
		t.Fatalf("yellowpages must classify as directory, got %+v", v)
	}

	// Allow-list override beats the "hub" substring false positive.
	v = c.Classify(lead.RawResult{Title: "HubSpot", Link: "https://hubspot.com", Address: "Cambridge, MA"}, it)
	if v.IsDirectory {
		t.Fatalf("hubspot.com is allow-listed, got %+v", v)
	}
}

func TestClassify_PathAndTitleHeuristics(t *testing.T) {
	c := newTestClassifier()
	it := lead.Intent{}

	v := c.Classify(lead.RawResult{Title: "Plumbing", Link: "https://example.com/top-10-plumbers", Address: "x"}, it)
	if !v.IsDirectory {
		t.Fatal("'/top-' path must classify as directory")
	}

	v = c.Classify(lead.RawResult{Title: "Top 10 Plumbing Companies in Lagos", Link: "https://someblog.com/post", Address: "x"}, it)
	if !v.IsDirectory {
		t.Fatal("listicle title must classify as directory")
	}
}

func TestClassify_SocialMedia(t *testing.T) {
	c := newTestClassifier()
	v := c.Classify(lead.RawResult{Title: "Some Salon", Link: "https://www.facebook.com/somesalon", Address: "x"}, lead.Intent{})
	if !v.IsSocialMedia {
		t.Fatalf("facebook link must classify as social, got %+v", v)
	}
}

func TestClassify_BareWebsiteFallback(t *testing.T) {
	c := newTestClassifier()
	// No geography requested, no address on the result: a direct
	// own-domain link is the only accepted positive signal.
	it := lead.Intent{}

	own := c.Classify(lead.RawResult{Title: "Acme Plumbing", Link: "https://acmeplumbing.ng"}, it)
	if !own.Accepted() {
		t.Fatalf("own-domain link should be enough, got %+v", own)
	}

	searchLink := c.Classify(lead.RawResult{Title: "Acme Plumbing", Link: "https://www.google.com/search?q=acme"}, it)
	if searchLink.Accepted() {
		t.Fatalf("search-engine link with no other signal must be rejected, got %+v", searchLink)
	}
}

func TestClassify_ResolveLaterLinkNotADirectory(t *testing.T) {
	c := newTestClassifier()
	// Geocoded businesses without a website carry a search-engine URL as a
	// placeholder; the "/search?" path hint must not reject them.
	it := lead.Intent{Location: "Lagos", CountryCode: "ng"}
	v := c.Classify(lead.RawResult{
		Title:   "Ikeja General Hospital",
		Link:    "https://www.google.com/search?q=Ikeja+General+Hospital+Lagos",
		Address: "Ikeja, Lagos, Nigeria",
	}, it)
	if v.IsDirectory {
		t.Fatalf("placeholder search link misclassified as directory: %+v", v)
	}
	if !v.Accepted() {
		t.Fatalf("expected acceptance, got %+v", v)
	}
}

func TestClassify_CountryImpliedByLocation(t *testing.T) {
	c := newTestClassifier()
	// Addresses frequently omit the country; a matched location stands in
	// for it.
	it := lead.Intent{Location: "Lagos", CountryCode: "ng"}
	v := c.Classify(lead.RawResult{Title: "Clinic", Link: "https://clinic.ng", Address: "Ikeja, Lagos"}, it)
	if !v.Accepted() {
		t.Fatalf("Lagos address without 'Nigeria' must still pass, got %+v", v)
	}
}

func TestIsGeographicFeature(t *testing.T) {
	cases := map[string]bool{
		"Lagos Lagoon, lake, Lagos":        true,
		"administrative boundary of Ojo":   true,
		"Mama Cass Restaurant, Ikeja":      false,
		"First Bank Branch, Marina, Lagos": false,
	}
	for name, want := range cases {
		if got := IsGeographicFeature(name); got != want {
			t.Errorf("IsGeographicFeature(%q) = %v, want %v", name, got, want)
		}
	}
}
