package runtime

import (
	"sort"

	"github.com/javanetict/jnsuite/pkg/domain"
)

// Every keyword table the engine consults lives in this file. Entries are
// lower-case and matched as substrings of the lower-cased utterance.

const (
	whatsAppNumber = "+2347030673089"
	phoneNumber    = "+2349128688164"
	salesEmail     = "info@javanetict.com"
	proposalURL    = "https://www.javanetict.com/proposal"
)

// salesKeywords always pass the relevance filter.
var salesKeywords = []string{
	"schedule", "call", "phone", phoneNumber, whatsAppNumber,
	"whatsapp", "email", salesEmail, "contact", "sales",
	"talk to", "meeting", "book", "arrange", "discuss",
}

// domainKeywords mark an utterance as being about the product.
var domainKeywords = []string{
	"javanet", "edtech", "cbt", "test", "exam", "virtual", "classroom",
	"learning", "assess", "school", "university", "training", "government",
	"company", "price", "cost", "fee", "module", "feature", "demo",
	"proposal", "platform", "software", "system", "online", "education",
	"teaching", "student", "teacher", "faculty", "institution", "academy",
	"center", "how much", "what is", "tell me", "show me", "help",
	"faculties", "users", "students", "nigeria", "ghana", "uk", "usa",
	"country", "deployment", "implementation",
}

var greetingTokens = []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening"}

var farewellTokens = []string{"bye", "goodbye", "thanks", "thank you", "that's all"}

// salesFlowTags are the intents after which contact keywords keep the
// visitor inside the sales flow.
var salesFlowTags = map[string]bool{
	domain.TagLeadCapture:     true,
	domain.TagDemoYes:         true,
	domain.TagSendEmail:       true,
	domain.TagWhatsAppContact: true,
	domain.TagScheduleCall:    true,
}

// continuityKeywords trigger the sales-continuity override.
var continuityKeywords = []string{
	"schedule", "call", "phone", phoneNumber, whatsAppNumber,
	"whatsapp", "email", salesEmail, "contact", "sales",
}

var walkthroughPhrases = []string{
	"yes i want walkthrough", "yes walkthrough", "i want guided",
	"with sales team", "walkthrough",
}

type industry struct {
	name     string
	keywords []string
}

// industries are checked in order; the first industry with a matching
// keyword is recorded.
var industries = []industry{
	{name: "school", keywords: []string{"school", "secondary", "primary"}},
	{name: "university", keywords: []string{"university", "college", "faculty", "campus"}},
	{name: "training", keywords: []string{"training", "academy", "tutor", "coach", "training center"}},
	{name: "government", keywords: []string{"government", "ministry", "public", "state"}},
	{name: "company", keywords: []string{"company", "business", "enterprise", "startup"}},
}

var countries = []string{"nigeria", "ghana", "usa", "uk", "canada", "kenya", "south africa"}

type keywordIntent struct {
	keyword string
	tag     string
}

// keywordIntents is the priority keyword table. init sorts it so longer
// phrases are tried first; ties keep declaration order.
var keywordIntents = []keywordIntent{
	{"javanet", domain.TagAboutJavaNet},
	{"what is", domain.TagAboutJavaNet},
	{"tell me about", domain.TagAboutJavaNet},
	{"school", domain.TagSchoolType},
	{"university", domain.TagUniversityType},
	{"college", domain.TagUniversityType},
	{"training center", domain.TagTrainingType},
	{"training centre", domain.TagTrainingType},
	{"training", domain.TagTrainingType},
	{"academy", domain.TagTrainingType},
	{"government", domain.TagGovernmentType},
	{"ministry", domain.TagGovernmentType},
	{"company", domain.TagCompanyType},
	{"business", domain.TagCompanyType},
	{"startup", domain.TagCompanyType},
	{"module", domain.TagModules},
	{"feature", domain.TagModules},
	{"include", domain.TagModules},
	{"what do i get", domain.TagModules},
	{"cbt test", domain.TagCBTTests},
	{"cbt exam", domain.TagCBTTests},
	{"cbt", domain.TagCBTTests},
	{"test", domain.TagCBTTests},
	{"exam", domain.TagCBTTests},
	{"assess", domain.TagCBTTests},
	{"virtual classroom", domain.TagVirtualClassroom},
	{"live virtual", domain.TagVirtualClassroom},
	{"virtual", domain.TagVirtualClassroom},
	{"classroom", domain.TagVirtualClassroom},
	{"learning", domain.TagVirtualClassroom},
	{"online class", domain.TagVirtualClassroom},
	{"price", domain.TagPricing},
	{"cost", domain.TagPricing},
	{"how much", domain.TagPricing},
	{"fee", domain.TagPricing},
	{"deployment fee", domain.TagPricing},
	{"nigeria", domain.TagDeploymentCountry},
	{"ghana", domain.TagDeploymentCountry},
	{"usa", domain.TagDeploymentCountry},
	{"uk", domain.TagDeploymentCountry},
	{"canada", domain.TagDeploymentCountry},
	{"user", domain.TagUserVolume},
	{"student", domain.TagUserVolume},
	{"how many", domain.TagUserVolume},
	{"faculty", domain.TagUserVolume},
	{"faculties", domain.TagUserVolume},
	{"demo", domain.TagDemo},
	{"show", domain.TagDemo},
	{"view", domain.TagDemo},
	{"link", domain.TagDemo},
	{"contact", domain.TagLeadCapture},
	{"sales", domain.TagLeadCapture},
	{"talk to", domain.TagLeadCapture},
	{"meeting", domain.TagScheduleCall},
	{"quote", domain.TagGenerateProposal},
	{"proposal", domain.TagGenerateProposal},
	{"generate", domain.TagGenerateProposal},
	{"create", domain.TagGenerateProposal},
	{"custom quote", domain.TagGenerateProposal},
	{"email", domain.TagSendEmail},
	{"send email", domain.TagSendEmail},
	{salesEmail, domain.TagSendEmail},
	{"whatsapp", domain.TagWhatsAppContact},
	{"chat", domain.TagWhatsAppContact},
	{"message", domain.TagWhatsAppContact},
	{"schedule", domain.TagScheduleCall},
	{"call", domain.TagScheduleCall},
	{"book", domain.TagScheduleCall},
	{"phone", domain.TagScheduleCall},
	{phoneNumber, domain.TagScheduleCall},
	{whatsAppNumber, domain.TagWhatsAppContact},
	{"hi", domain.TagGreeting},
	{"hello", domain.TagGreeting},
	{"hey", domain.TagGreeting},
	{"good morning", domain.TagGreeting},
	{"good afternoon", domain.TagGreeting},
	{"good evening", domain.TagGreeting},
	{"bye", domain.TagGoodbye},
	{"goodbye", domain.TagGoodbye},
	{"thank", domain.TagGoodbye},
	{"thanks", domain.TagGoodbye},
}

func init() {
	sort.SliceStable(keywordIntents, func(i, j int) bool {
		return len(keywordIntents[i].keyword) > len(keywordIntents[j].keyword)
	})
}

// curatedSuggestions replace followup-derived suggestions for these tags.
var curatedSuggestions = map[string][]string{
	domain.TagModules:          {"CBT Tests", "Live Virtual Classroom", "Generate Proposal"},
	domain.TagDemo:             {"Talk to sales team", "Generate proposal"},
	domain.TagGenerateProposal: {"Discuss with sales team", "View demo links"},
	domain.TagLeadCapture:      {"Schedule a call", "WhatsApp chat", "Send email"},
	domain.TagDemoYes:          {"Schedule a call", "WhatsApp chat", "Send email"},
	domain.TagPricing:          {"Generate proposal", "Show me demo links"},
	domain.TagSendEmail:        {"WhatsApp chat", "Schedule a call", "Talk to sales team"},
	domain.TagWhatsAppContact:  {"Send email", "Schedule a call", "Talk to sales team"},
	domain.TagScheduleCall:     {"WhatsApp chat", "Send email", "Talk to sales team"},
	domain.TagCBTTests:         {"Virtual Classroom", "Generate Proposal", "View CBT Demo"},
	domain.TagVirtualClassroom: {"CBT Tests", "Generate Proposal", "View Classroom Demo"},
	domain.TagAboutJavaNet:     {"What modules are included?", "How much does it cost?", "Generate Proposal"},
	domain.TagGreeting:         {"What modules are included?", "How much does it cost?", "Generate Proposal"},
}

// user_volume suggestions depend on whether the visitor came from the university branch.
var (
	volumeSuggestionsUniversity = []string{"Show me demo links", "Generate proposal", "Talk to sales team"}
	volumeSuggestions           = []string{"Show me demo links", "Generate proposal"}
)

const canonicalProposal = "Generate Proposal"

const maxSuggestions = 3

var outOfScopeSuggestions = []string{
	"What is JavaNet edTech Suite?",
	"What modules are included?",
	"Generate proposal",
	"Show me demo links",
}

const outOfScopeResponse = "I'm sorry, that's outside the scope of this conversation about JavaNet edTech Suite.\n\n" +
	"Please contact our sales team for assistance with other inquiries:\n\n" +
	"📱 **WhatsApp:** " + whatsAppNumber + "\n" +
	"📞 **Phone:** " + phoneNumber + "\n" +
	"📧 **Email:** " + salesEmail + "\n\n" +
	"How can I help you with JavaNet edTech Suite?"

const unknownResponse = "I'm here to help you with JavaNet edTech Suite! You can ask me about:\n\n" +
	"• What JavaNet is\n" +
	"• Available modules and features\n" +
	"• Pricing for different regions\n" +
	"• Live demos\n" +
	"• Generating custom proposals\n" +
	"• Contacting our sales team\n\n" +
	"What would you like to know?"

const emptyNodeResponse = "I understand. How can I help you further?"
