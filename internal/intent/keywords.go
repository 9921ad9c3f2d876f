package intent

import "strings"

// industryKeywords maps canonical industry terms to the word stems that
// identify them in a cleaned query. Plural forms are matched by stem so
// "hospitals" hits "hospital".
var industryKeywords = map[string][]string{
	"hospitals":       {"hospital", "clinic", "medical center", "medical centre"},
	"hotels":          {"hotel", "guest house", "guesthouse", "lodge", "resort"},
	"restaurants":     {"restaurant", "eatery", "cafe", "café", "bistro"},
	"schools":         {"school", "college", "academy", "university"},
	"law firms":       {"law firm", "lawyer", "attorney", "solicitor", "legal"},
	"real estate":     {"real estate", "realtor", "property", "estate agent"},
	"construction":    {"construction", "builder", "contractor"},
	"logistics":       {"logistics", "courier", "freight", "haulage", "shipping"},
	"pharmacies":      {"pharmacy", "pharmacie", "chemist", "drugstore"},
	"banks":           {"bank", "microfinance"},
	"insurance":       {"insurance", "insurer", "underwriter"},
	"salons":          {"salon", "hairdresser", "barber", "spa", "beauty"},
	"gyms":            {"gym", "fitness", "wellness"},
	"dentists":        {"dentist", "dental"},
	"accounting":      {"accounting", "accountant", "audit", "bookkeep"},
	"software":        {"software", "tech company", "it company", "saas"},
	"marketing":       {"marketing", "advertising", "pr agency", "branding"},
	"farms":           {"farm", "agricultur", "agro"},
	"fashion":         {"fashion", "boutique", "tailor", "clothing"},
	"auto repair":     {"auto repair", "mechanic", "car service", "autoshop"},
	"car dealerships": {"car dealer", "auto dealer", "car sales"},
	"printing":        {"printing", "printer", "print shop"},
	"event planning":  {"event plann", "event management", "caterer", "catering"},
	"security":        {"security company", "security service", "guard service"},
	"travel agencies": {"travel agen", "tour operator", "tours"},
}

// synonymTable expands an industry term into near-synonym search terms so
// backends with exact-match behavior still find adjacent businesses.
var synonymTable = map[string][]string{
	"salons":          {"barber shop", "hair salon", "beauty salon"},
	"hairdresser":     {"barber", "salon"},
	"hospitals":       {"clinic", "medical centre"},
	"restaurants":     {"cafe", "eatery"},
	"hotels":          {"guest house", "lodging"},
	"law firms":       {"attorneys", "legal services"},
	"schools":         {"academies", "colleges"},
	"pharmacies":      {"chemists", "drugstores"},
	"gyms":            {"fitness centres"},
	"real estate":     {"property agents", "estate agents"},
	"logistics":       {"courier services", "freight forwarders"},
	"software":        {"it services", "tech companies"},
	"auto repair":     {"mechanics", "car workshops"},
	"travel agencies": {"tour operators"},
}

// keywordIndustry resolves an industry term from the cleaned query using
// the stem table. Returns empty when nothing matches.
func keywordIndustry(cleaned string) string {
	q := strings.ToLower(cleaned)
	if q == "" {
		return ""
	}
	best := ""
	bestLen := 0
	for industry, stems := range industryKeywords {
		for _, stem := range stems {
			// Longest stem wins so "medical centre" beats "centre".
			if strings.Contains(q, stem) && len(stem) > bestLen {
				best = industry
				bestLen = len(stem)
			}
		}
	}
	return best
}

// staticSynonyms returns the built-in expansion set for an industry.
func staticSynonyms(industry string) []string {
	return synonymTable[strings.ToLower(strings.TrimSpace(industry))]
}

// codeForCountry maps a country name mentioned in a query to its ISO code.
func codeForCountry(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nigeria":
		return "ng"
	case "ghana":
		return "gh"
	case "kenya":
		return "ke"
	case "south africa":
		return "za"
	case "united states", "usa", "america":
		return "us"
	case "united kingdom", "uk", "england":
		return "gb"
	case "canada":
		return "ca"
	case "india":
		return "in"
	case "australia":
		return "au"
	case "germany":
		return "de"
	case "france":
		return "fr"
	}
	return ""
}
