// Package pricing computes one-time deployment fees and guesses a visitor's
// region from request headers.
package pricing

import (
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currencies.
const (
	NGN = "NGN"
	USD = "USD"
)

const feeNote = "One-time deployment fee"

// africanCountries are billed in naira.
var africanCountries = []string{"nigeria", "ghana", "kenya", "south africa", "tanzania", "uganda"}

// Requirements describe what an institution wants deployed.
type Requirements struct {
	Country           string `json:"country"`
	NeedsCBT          bool   `json:"needs_ctb"`
	NeedsLiveClasses  bool   `json:"needs_live_classes"`
	EstimatedStudents int    `json:"estimated_students"`
}

// Fee is a formatted deployment quote.
type Fee struct {
	Amount         string `json:"amount"`
	Value          int64  `json:"-"`
	Currency       string `json:"currency"`
	CurrencySymbol string `json:"currency_symbol"`
	Range          string `json:"range"`
	Note           string `json:"note"`
}

// IsAfrican reports whether a country is billed in naira.
func IsAfrican(country string) bool {
	c := strings.ToLower(strings.TrimSpace(country))
	for _, a := range africanCountries {
		if c == a {
			return true
		}
	}
	return false
}

// CalculateFee prices a deployment.
func CalculateFee(req Requirements) Fee {
	both := req.NeedsCBT && req.NeedsLiveClasses
	liveOnly := !both && req.NeedsLiveClasses

	if IsAfrican(req.Country) {
		fee := int64(5_000_000)
		switch {
		case both:
			fee += 2_000_000
		case liveOnly:
			fee += 1_500_000
		}
		switch {
		case req.EstimatedStudents > 1000:
			fee += 2_000_000
		case req.EstimatedStudents > 500:
			fee += 1_000_000
		case req.EstimatedStudents > 200:
			fee += 500_000
		}
		return Fee{
			Amount:         "₦" + thousands(fee),
			Value:          fee,
			Currency:       NGN,
			CurrencySymbol: "₦",
			Range:          "₦5,000,000 - ₦10,000,000",
			Note:           feeNote,
		}
	}

	fee := int64(10_000)
	switch {
	case both:
		fee += 3_000
	case liveOnly:
		fee += 2_000
	}
	return Fee{
		Amount:         "$" + thousands(fee),
		Value:          fee,
		Currency:       USD,
		CurrencySymbol: "$",
		Range:          "$10,000 - $15,000",
		Note:           feeNote,
	}
}

// amounts groups digits the way fee quotes are printed.
var amounts = message.NewPrinter(language.English)

// thousands formats n with comma separators.
func thousands(n int64) string {
	return amounts.Sprintf("%d", n)
}

// Location is a coarse region guess for pricing.
type Location struct {
	Country  string `json:"country"`
	Currency string `json:"currency"`
	IP       string `json:"ip"`
}

var (
	africanLanguages = []string{"yo", "ha", "ig", "sw", "am", "fr", "ar"}
	africanPrefixes  = []string{"41.", "105.", "197.", "154.", "102."}
)

// ClientIP returns the first X-Forwarded-For hop, or the remote address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// DetectLocation guesses the visitor region from Accept-Language and IP.
// Language codes are matched as substrings, so it errs towards naira pricing.
func DetectLocation(r *http.Request) Location {
	lang := strings.ToLower(r.Header.Get("Accept-Language"))
	ip := ClientIP(r)
	loc := Location{Country: "International", Currency: USD, IP: ip}

	switch {
	case strings.Contains(lang, "ng") || containsAny(lang, africanLanguages):
		loc.Country, loc.Currency = "Nigeria", NGN
	case containsAny(lang, africanCountries):
		loc.Country, loc.Currency = "Africa", NGN
	case hasAnyPrefix(ip, africanPrefixes):
		loc.Country, loc.Currency = "Africa", NGN
	}
	return loc
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
