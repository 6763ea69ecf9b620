package email

var gmailDomains = map[string]struct{}{
	"gmail.com":      {},
	"googlemail.com": {},
}

var disposableDomains = map[string]struct{}{
	"mailinator.com":         {},
	"guerrillamail.com":      {},
	"tempmail.com":           {},
	"throwaway.email":        {},
	"10minutemail.com":       {},
	"sharklasers.com":        {},
	"guerrillamailblock.com": {},
	"spam4.me":               {},
	"maildrop.cc":            {},
	"yopmail.com":            {},
	"trashmail.com":          {},
}

var freeProviderDomains = map[string]struct{}{
	"gmail.com":      {},
	"googlemail.com": {},
	"yahoo.com":      {},
	"yahoo.co.uk":    {},
	"hotmail.com":    {},
	"outlook.com":    {},
	"live.com":       {},
	"msn.com":        {},
	"aol.com":        {},
	"icloud.com":     {},
	"mail.com":       {},
	"protonmail.com": {},
	"zoho.com":       {},
}

var providerNames = map[string]string{
	"gmail.com":      "Gmail",
	"googlemail.com": "Gmail",
	"yahoo.com":      "Yahoo",
	"yahoo.co.uk":    "Yahoo",
	"hotmail.com":    "Hotmail",
	"outlook.com":    "Outlook",
	"live.com":       "Microsoft",
	"msn.com":        "MSN",
	"aol.com":        "AOL",
	"icloud.com":     "iCloud",
	"me.com":         "iCloud",
	"mac.com":        "iCloud",
	"protonmail.com": "ProtonMail",
	"zoho.com":       "Zoho",
}

// domainTypos maps common misspellings to the intended domain.
var domainTypos = map[string]string{
	"gmial.com":   "gmail.com",
	"gmai.com":    "gmail.com",
	"gmil.com":    "gmail.com",
	"yahooo.com":  "yahoo.com",
	"yaho.com":    "yahoo.com",
	"hotmial.com": "hotmail.com",
	"hotmai.com":  "hotmail.com",
	"outloo.com":  "outlook.com",
	"outlok.com":  "outlook.com",
}

// ProviderOther is reported for well-formed addresses on unlisted domains.
const ProviderOther = "Other"
