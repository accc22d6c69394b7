package extract

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/echomi/echomi-ai-platform/internal/otp"
)

// Speech-to-text mangles company names, so exact matching is backed by
// Jaro-Winkler over individual tokens.
const fuzzyThreshold = 0.88

func companyRule(raw, lower string, ex *Extraction) {
	if name := otp.CompanyFromBody(lower); name != "" {
		ex.Company = name
		return
	}
	ex.Company = fuzzyCompany(lower)
}

func knownCompany(token string) string {
	for _, name := range otp.KnownCompanies() {
		if token == name {
			return name
		}
	}
	return ""
}

// Generic delivery vocabulary sits phonetically close to some courier
// names ("delivery" vs "delhivery"), so it never enters fuzzy matching.
var fuzzySkip = map[string]bool{
	"delivery": true, "deliver": true, "delivering": true, "order": true,
	"parcel": true, "package": true, "courier": true, "partner": true,
}

func fuzzyCompany(lower string) string {
	bestScore := 0.0
	bestName := ""
	for _, token := range strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	}) {
		if len(token) < 4 || fuzzySkip[token] {
			continue
		}
		for _, name := range otp.KnownCompanies() {
			if s := matchr.JaroWinkler(token, name, false); s > bestScore {
				bestScore = s
				bestName = name
			}
		}
	}
	if bestScore >= fuzzyThreshold {
		return bestName
	}
	return ""
}
