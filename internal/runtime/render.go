package runtime

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/javanetict/jnsuite/pkg/domain"
)

// Compose builds the reply text for a matched node.
// state carries this turn's extraction; priorIntent is the tag matched on
// the previous turn.
func Compose(node domain.Node, raw string, state *domain.SessionState, priorIntent string) string {
	text := node.Response()
	if text == "" {
		text = emptyNodeResponse
	}

	if node.Tag == domain.TagGenerateProposal {
		text += personalizedProposal(state)
	}

	trimmed := strings.TrimSpace(raw)
	if isDigits(trimmed) {
		text += volumeSentence(trimmed, priorIntent == domain.TagUniversityType)
	}
	return text
}

// personalizedProposal is appended only when both industry and country are known.
func personalizedProposal(state *domain.SessionState) string {
	if state == nil || state.UserIndustry == "" || state.UserCountry == "" {
		return ""
	}
	industry := titleCase(state.UserIndustry)
	country := state.UserCountry
	volume := state.UserVolume

	var b strings.Builder
	b.WriteString("\n\n🎯 **Based on our conversation:**\n")
	fmt.Fprintf(&b, "• Industry: %s\n", industry)
	fmt.Fprintf(&b, "• Location: %s\n", country)
	if volume != "" {
		fmt.Fprintf(&b, "• Estimated Users: %s\n", volume)
	}
	b.WriteString("\n💡 **Personalized Proposal Link:**\n")
	fmt.Fprintf(&b, "%s?industry=%s&country=%s", proposalURL,
		url.QueryEscape(strings.ToLower(industry)), url.QueryEscape(strings.ToLower(country)))
	if volume != "" {
		fmt.Fprintf(&b, "&users=%s", url.QueryEscape(volume))
	}
	b.WriteString("\n\nThis link will pre-fill your information for faster proposal generation!")
	return b.String()
}

// volumeSentence acknowledges a bare number. Values too large for an int
// land in the top tier.
func volumeSentence(digits string, university bool) string {
	n, err := strconv.Atoi(digits)
	if err != nil {
		n = int(^uint(0) >> 1)
	}
	if university {
		switch {
		case n <= 3:
			return "\n\nPerfect! We have specialized packages for smaller universities."
		case n <= 10:
			return "\n\nExcellent! That's an ideal size for our platform's capabilities."
		default:
			return "\n\nGreat! We specialize in large-scale university deployments with multi-faculty support."
		}
	}
	switch {
	case n < 500:
		return "\n\nPerfect! We have packages specifically designed for smaller institutions."
	case n <= 5000:
		return "\n\nGreat! That's a typical size we work with. Our platform scales perfectly for your needs."
	default:
		return "\n\nExcellent! We specialize in large-scale deployments and can ensure optimal performance."
	}
}

// Suggest derives at most three follow-up prompts for the matched node.
func Suggest(node domain.Node, c *domain.Catalog, priorIntent string) []string {
	var raw []string
	switch {
	case node.Tag == domain.TagUserVolume:
		if priorIntent == domain.TagUniversityType {
			raw = volumeSuggestionsUniversity
		} else {
			raw = volumeSuggestions
		}
	case curatedSuggestions[node.Tag] != nil:
		raw = curatedSuggestions[node.Tag]
	default:
		for _, tag := range node.Followups {
			f, ok := c.Lookup(tag)
			if !ok || len(f.Patterns) == 0 {
				continue
			}
			raw = append(raw, f.Patterns[0])
		}
	}
	return normalizeSuggestions(raw)
}

// normalizeSuggestions removes case-insensitive duplicates, collapses the
// "generate proposal" phrasings to one canonical casing and truncates.
func normalizeSuggestions(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, maxSuggestions)
	for _, s := range in {
		key := strings.ToLower(strings.TrimSpace(s))
		if seen[key] {
			continue
		}
		seen[key] = true
		if key == strings.ToLower(canonicalProposal) {
			s = canonicalProposal
		}
		out = append(out, s)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// Delta computes the state update for a matched node. The node's own
// fields are combined over the extraction delta so extracted entities
// persist and the turn wins where both set a field.
func Delta(node domain.Node, extracted domain.StateDelta, prior *domain.SessionState, now time.Time) domain.StateDelta {
	d := domain.StateDelta{
		LastIntent:      domain.Ptr(node.Tag),
		LastInteraction: domain.Ptr(now),
		MessageCount:    domain.Ptr(prior.MessageCount + 1),
	}

	for _, f := range node.Flags {
		d.SetFlag(f)
	}
	switch node.Tag {
	case domain.TagDemo:
		d.SetFlag(domain.FlagDemoShown)
	case domain.TagDemoYes, domain.TagLeadCapture:
		d.SetFlag(domain.FlagReadyForSales)
	case domain.TagGenerateProposal:
		d.SetFlag(domain.FlagProposalRequested)
	}
	return extracted.Combine(d)
}
