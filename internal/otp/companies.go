package otp

import "strings"

// companyProfile describes how a delivery company shows up in SMS
// traffic: the label embedded in DLT sender ids and the markers that
// appear in message bodies.
type companyProfile struct {
	name        string
	senderHints []string
	bodyHints   []string
}

var companyProfiles = []companyProfile{
	{"zomato", []string{"zomato", "zmt"}, []string{"zomato"}},
	{"swiggy", []string{"swiggy", "swgy"}, []string{"swiggy", "instamart"}},
	{"blinkit", []string{"blinkit", "blkit", "grofrs"}, []string{"blinkit", "grofers"}},
	{"zepto", []string{"zepto", "zpto"}, []string{"zepto"}},
	{"bigbasket", []string{"bigbasket", "bgbskt", "bbsket"}, []string{"bigbasket", "bbnow"}},
	{"amazon", []string{"amazon", "amzn"}, []string{"amazon"}},
	{"flipkart", []string{"flipkart", "fkrt", "flpkrt"}, []string{"flipkart", "ekart"}},
	{"myntra", []string{"myntra", "mntra"}, []string{"myntra"}},
	{"meesho", []string{"meesho", "msho"}, []string{"meesho"}},
	{"dunzo", []string{"dunzo", "dnzo"}, []string{"dunzo"}},
	{"dominos", []string{"dominos", "dmnos"}, []string{"dominos", "domino's"}},
	{"delhivery", []string{"delhivery", "dlhvry"}, []string{"delhivery"}},
	{"bluedart", []string{"bluedart", "bldart"}, []string{"blue dart", "bluedart"}},
}

// KnownCompanies lists every company the alias tables recognize.
func KnownCompanies() []string {
	names := make([]string, 0, len(companyProfiles))
	for _, p := range companyProfiles {
		names = append(names, p.name)
	}
	return names
}

// CompanyFromSender resolves a DLT sender id like "AX-ZOMATO" or
// "VM-ZMT-S" to a company name. Empty when nothing matches.
func CompanyFromSender(sender string) string {
	s := normalize(sender)
	if s == "" {
		return ""
	}
	for _, p := range companyProfiles {
		for _, hint := range p.senderHints {
			if strings.Contains(s, hint) {
				return p.name
			}
		}
	}
	return ""
}

// CompanyFromBody resolves a company from markers inside the message
// body. Empty when nothing matches.
func CompanyFromBody(body string) string {
	b := strings.ToLower(body)
	if b == "" {
		return ""
	}
	for _, p := range companyProfiles {
		for _, hint := range p.bodyHints {
			if strings.Contains(b, hint) {
				return p.name
			}
		}
	}
	return ""
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
