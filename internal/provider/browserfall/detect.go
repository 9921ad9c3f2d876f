package browserfall

import "strings"

// blockSignatures maps a challenge source to the page fragments that
// identify it. Checked before parsing so a CAPTCHA wall fails fast instead
// of being retried blindly.
var blockSignatures = map[string][]string{
	"captcha": {
		"g-recaptcha", "h-captcha", "cf-turnstile",
		"please verify you are a human", "solve the captcha",
	},
	"cloudflare": {
		"cf-browser-verification", "attention required! | cloudflare",
		"checking your browser before accessing",
	},
	"rate-limit": {
		"unusual traffic from your computer network",
		"our systems have detected unusual traffic",
		"too many requests",
	},
	"bot-wall": {
		"detected unusual activity", "access denied", "perimeterx",
		"datadome",
	},
}

// detectBlock reports whether the rendered page is a challenge/block page
// and which signature family matched.
func detectBlock(html string) (source string, blocked bool) {
	lower := strings.ToLower(html)
	for src, sigs := range blockSignatures {
		for _, sig := range sigs {
			if strings.Contains(lower, sig) {
				return src, true
			}
		}
	}
	return "", false
}
