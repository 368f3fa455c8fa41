package http

import (
	"strings"

	"github.com/fwojciec/dossier"
)

// protectionMarkers is the vocabulary of each bot-defense signal.
var protectionMarkers = []struct {
	flag    dossier.Protection
	markers []string
}{
	{dossier.ProtectionChallenge, []string{"cloudflare", "checking your browser", "ddos protection"}},
	{dossier.ProtectionCaptcha, []string{"captcha", "verify you are human", "robot check"}},
	{dossier.ProtectionRateLimit, []string{"rate limit", "too many requests", "please wait"}},
	{dossier.ProtectionGeoBlock, []string{"not available in your region", "geoblocked", "access denied"}},
}

// DetectProtection reports the bot-defense signals present in body. The
// result is informational and never fails a fetch.
func DetectProtection(body string) dossier.Protection {
	text := strings.ToLower(body)
	var p dossier.Protection
	for _, m := range protectionMarkers {
		for _, marker := range m.markers {
			if strings.Contains(text, marker) {
				p |= m.flag
				break
			}
		}
	}
	return p
}
