package runtime

import (
	"strings"

	"github.com/javanetict/jnsuite/pkg/domain"
)

// Tier orders the cascade. Lower tiers are tried first.
type Tier int

const (
	TierOverride Tier = iota + 1
	TierContinuation
	TierPattern
	TierKeyword
	TierDefault
)

func (t Tier) String() string {
	switch t {
	case TierOverride:
		return "override"
	case TierContinuation:
		return "continuation"
	case TierPattern:
		return "pattern"
	case TierKeyword:
		return "keyword"
	case TierDefault:
		return "default"
	}
	return "unknown"
}

// Input is what a rule sees for one turn.
type Input struct {
	// Utterance is the trimmed, lower-cased message.
	Utterance string
	// State is the prior session state with this turn's extraction merged in.
	State   *domain.SessionState
	Catalog *domain.Catalog
}

// Rule proposes a target tag when its predicate holds.
type Rule struct {
	Tier  Tier
	Name  string
	Match func(in Input) (string, bool)
}

// Rules is the node-matching cascade. The first rule whose proposed tag
// exists in the catalog wins.
var Rules = []Rule{
	{Tier: TierOverride, Name: "sales-continuity", Match: salesContinuity},
	{Tier: TierContinuation, Name: "post-demo-walkthrough", Match: postDemoWalkthrough},
	{Tier: TierContinuation, Name: "university-numeric", Match: universityNumeric},
	{Tier: TierPattern, Name: "pattern", Match: patternScan},
	{Tier: TierKeyword, Name: "keyword", Match: keywordScan},
	{Tier: TierDefault, Name: "default-greeting", Match: defaultGreeting},
}

// Classify runs the cascade and returns the matched node with the name of
// the rule that selected it. ok is false when no rule produced a node the
// catalog knows about.
func Classify(rules []Rule, in Input) (node domain.Node, rule string, ok bool) {
	for _, r := range rules {
		tag, hit := r.Match(in)
		if !hit {
			continue
		}
		if n, found := in.Catalog.Lookup(tag); found {
			return n, r.Name, true
		}
	}
	return domain.Node{}, "", false
}

func salesContinuity(in Input) (string, bool) {
	if !salesFlowTags[in.State.LastIntent] || !containsAny(in.Utterance, continuityKeywords) {
		return "", false
	}
	u := in.Utterance
	switch {
	case strings.Contains(u, "schedule") || strings.Contains(u, "call"):
		return domain.TagScheduleCall, true
	case strings.Contains(u, "whatsapp"):
		return domain.TagWhatsAppContact, true
	case strings.Contains(u, "email") || strings.Contains(u, salesEmail):
		return domain.TagSendEmail, true
	}
	return domain.TagLeadCapture, true
}

func postDemoWalkthrough(in Input) (string, bool) {
	if in.State.HasFlag(domain.FlagDemoShown) && containsAny(in.Utterance, walkthroughPhrases) {
		return domain.TagDemoYes, true
	}
	return "", false
}

func universityNumeric(in Input) (string, bool) {
	if in.State.LastIntent == domain.TagUniversityType && isDigits(in.Utterance) {
		return domain.TagUserVolume, true
	}
	return "", false
}

// patternScan walks the catalog in order and compares each pattern with the
// utterance: equal, pattern inside utterance, or utterance inside pattern.
// Containment is plain substring matching in both directions, so a short
// utterance such as "hi" hits the first node with a pattern containing it
// ("High school"). Catalog order decides between overlapping nodes.
func patternScan(in Input) (string, bool) {
	for _, n := range in.Catalog.Nodes() {
		for _, p := range n.Patterns {
			pl := strings.ToLower(p)
			if pl == "" {
				continue
			}
			if pl == in.Utterance || strings.Contains(in.Utterance, pl) || strings.Contains(pl, in.Utterance) {
				if n.Tag == domain.TagDemo && in.State.HasFlag(domain.FlagDemoShown) {
					if _, ok := in.Catalog.Lookup(domain.TagLeadCapture); ok {
						return domain.TagLeadCapture, true
					}
				}
				return n.Tag, true
			}
		}
	}
	return "", false
}

func keywordScan(in Input) (string, bool) {
	for _, k := range keywordIntents {
		if !strings.Contains(in.Utterance, k.keyword) {
			continue
		}
		if _, ok := in.Catalog.Lookup(k.tag); ok {
			return k.tag, true
		}
	}
	return "", false
}

func defaultGreeting(Input) (string, bool) {
	return domain.TagGreeting, true
}
