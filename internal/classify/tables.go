package classify

// Tables holds the data-driven heuristics the classifier runs on. They are
// injected rather than hardcoded so deployments can tune deny/allow lists
// without touching control flow.
type Tables struct {
	// DirectoryDomains is a substring denylist of listing/aggregator/
	// marketplace hosts that are never the lead's own site.
	DirectoryDomains []string
	// AllowedDomains overrides the denylist for hosts that would otherwise
	// false-positive on a substring (e.g. a product whose name contains
	// "hub"). Takes precedence over DirectoryDomains.
	AllowedDomains []string
	// DirectoryPathHints are URL path fragments typical of listicles and
	// category pages.
	DirectoryPathHints []string
	// DirectoryTitleHints are lower-cased title fragments typical of
	// "Top 10 X" style pages.
	DirectoryTitleHints []string
	// SocialDomains are social/platform hosts; a profile page is not a
	// business website.
	SocialDomains []string
	// SearchEngineHosts are hosts whose links carry no own-domain signal
	// for the business-plausibility fallback.
	SearchEngineHosts []string
}

// GeoPolicy tunes how strictly geography is enforced. The strict/permissive
// boundary between "specific" and "generic" queries is a policy knob, not
// fixed logic.
type GeoPolicy struct {
	// RequireLocationMatch rejects results whose address/display name does
	// not contain the requested location when one was supplied.
	RequireLocationMatch bool
	// RequireCountryMatch does the same for the requested country.
	RequireCountryMatch bool
	// AcceptBareWebsite lets a result with no address or category signal
	// through when it carries a direct own-domain link.
	AcceptBareWebsite bool
}

// DefaultGeoPolicy is strict on whatever geography the intent actually
// specified and permissive otherwise.
var DefaultGeoPolicy = GeoPolicy{
	RequireLocationMatch: true,
	RequireCountryMatch:  true,
	AcceptBareWebsite:    true,
}

// DefaultTables returns the built-in heuristic tables.
func DefaultTables() Tables {
	return Tables{
		DirectoryDomains: []string{
			"yellowpages", "yelp.", "tripadvisor", "trustpilot",
			"glassdoor", "indeed.", "clutch.co", "crunchbase",
			"capterra", "g2.com", "goodfirms", "sortlist",
			"businesslist", "vconnect", "finelib", "connectnigeria",
			"hotfrog", "cylex", "brownbook", "foursquare",
			"yellowpages.com", "yell.com", "thomsonlocal",
			"europages", "kompass.com", "alibaba.", "aliexpress",
			"amazon.", "jumia.", "konga.", "etsy.",
			"wikipedia.org", "wikidata.org", "quora.com", "reddit.com",
			"medium.com", "blogspot.", "wordpress.com",
			"booking.com", "expedia", "hotels.com", "airbnb.",
			"zillow", "realtor.com", "rightmove", "property24",
			"justdial", "sulekha", "indiamart", "tradeindia",
			"manta.com", "bbb.org", "chamberofcommerce",
			"find-and-update.company-information.service.gov.uk",
			"opencorporates", "dnb.com", "zoominfo",
			"sedo.com", "godaddy.com", "hugedomains", "dan.com",
			"afternic", "namecheap",
			// Catch-alls for "biz hub" style listing sites; real products
			// with hub in the name ride on the allow-list instead.
			"hub",
		},
		AllowedDomains: []string{
			"hubspot.com", "github.com", "githubusercontent.com",
			"gitlab.com", "mailchimp.com",
		},
		DirectoryPathHints: []string{
			"/top-", "/best-", "/category/", "/categories/",
			"/listings/", "/listing/", "/directory/", "/companies/",
			"/browse/", "/search?", "/classifieds/", "/reviews/",
			"/top10", "/top-10", "/vendors/", "/agencies/",
		},
		DirectoryTitleHints: []string{
			"top 10", "top 20", "top 50", "best 10",
			"companies in", "providers in", "list of",
			"directory", "compare ", "reviews of", " vs ",
			"agencies in", "firms in", "businesses in",
		},
		SocialDomains: []string{
			"facebook.com", "fb.com", "instagram.com", "twitter.com",
			"x.com", "linkedin.com", "tiktok.com", "youtube.com",
			"pinterest.", "snapchat.com", "threads.net", "t.me",
			"telegram.me", "wa.me", "whatsapp.com",
		},
		SearchEngineHosts: []string{
			"google.com", "www.google.com", "bing.com", "www.bing.com",
			"duckduckgo.com", "search.yahoo.com", "yandex.com",
			"baidu.com",
		},
	}
}

// countryNames maps ISO 3166-1 alpha-2 codes to the English names matched
// against result addresses. Not exhaustive; covers markets the source
// system targets plus common spellings.
var countryNames = map[string][]string{
	"ng": {"nigeria"},
	"gh": {"ghana"},
	"ke": {"kenya"},
	"za": {"south africa"},
	"eg": {"egypt"},
	"us": {"united states", "usa", "u.s."},
	"gb": {"united kingdom", "uk", "england", "scotland", "wales"},
	"ca": {"canada"},
	"au": {"australia"},
	"in": {"india"},
	"de": {"germany", "deutschland"},
	"fr": {"france"},
	"es": {"spain", "españa"},
	"it": {"italy", "italia"},
	"nl": {"netherlands", "nederland"},
	"br": {"brazil", "brasil"},
	"mx": {"mexico", "méxico"},
	"ae": {"united arab emirates", "uae", "dubai", "abu dhabi"},
	"sa": {"saudi arabia"},
	"sg": {"singapore"},
	"ph": {"philippines"},
	"id": {"indonesia"},
	"pk": {"pakistan"},
	"bd": {"bangladesh"},
}

// geoFeatureWords flag structured-geocoder entries that are geography, not
// businesses (lakes, wards, boundaries) when they leak into keyword search.
var geoFeatureWords = []string{
	"lake", "lagoon", "water", "river", "creek", "mountain", "hill", "island",
	"administrative", "boundary", "suburb", "neighbourhood",
	"county", "municipality", "ward", "district of", "peninsula",
	"forest", "reserve", "park,", "wetland",
}
