package runtime

import (
	"regexp"
	"strings"

	"github.com/javanetict/jnsuite/pkg/domain"
)

// IsRelevant reports whether an utterance belongs to the product conversation.
// Anything else is answered with the out-of-scope redirect.
func IsRelevant(utterance string) bool {
	lower := strings.ToLower(utterance)
	switch {
	case containsAny(lower, salesKeywords),
		containsAny(lower, domainKeywords),
		isDigits(strings.TrimSpace(lower)),
		containsAny(lower, greetingTokens),
		containsAny(lower, farewellTokens):
		return true
	}
	return false
}

var digitRun = regexp.MustCompile(`[0-9]+`)

// Extract pulls industry, country and numeric volume out of an utterance.
// The returned delta only carries what was found, so merging it never
// clears earlier answers.
func Extract(utterance string, prior *domain.SessionState) domain.StateDelta {
	lower := strings.ToLower(utterance)
	var delta domain.StateDelta

	if name, ok := matchIndustry(lower); ok {
		delta.UserIndustry = domain.Ptr(name)
	}

	for _, c := range countries {
		if strings.Contains(lower, c) {
			delta.UserCountry = domain.Ptr(titleCase(c))
			break
		}
	}

	if n := digitRun.FindString(utterance); n != "" {
		delta.UserVolume = domain.Ptr(n)
		if prior != nil && prior.LastIntent == domain.TagUniversityType {
			delta.FacultyCount = domain.Ptr(n)
		}
	}

	return delta
}

func matchIndustry(lower string) (string, bool) {
	for _, ind := range industries {
		if containsAny(lower, ind.keywords) {
			return ind.name, true
		}
	}
	return "", false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// titleCase upper-cases the first letter of every space separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
