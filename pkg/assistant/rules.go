package assistant

import (
	"strings"
)

type canned struct {
	keyword string
	answer  string
}

// cannedAnswers are checked in order; the first keyword contained in the
// message wins.
var cannedAnswers = []canned{
	{"hello", "Hello! I'm JN Assistant from JavaNet EdTech Suite. How can I help you with our education technology solutions today?"},
	{"hi", "Hi there! I'm here to assist you with JavaNet's custom edtech platform. Are you interested in our CBT testing system or live interactive classrooms?"},
	{"price", "We offer one-time deployment fees: ₦5-10 million for African institutions, $10,000 for international institutions. Contact us for a custom quote."},
	{"cost", "Our one-time deployment fee ranges from ₦5-10 million for African countries to $10,000 - $25,000 for international institutions."},
	{"demo", "You can try our live demo at https://www.ischool.ng/ or use our interactive platform simulator on the website. Would you like me to guide you through the demo features?"},
	{"cbt", "Our Computer-Based Testing system includes: automated grading, question banks, anti-cheat monitoring, detailed analytics, and certificate generation. All fully customizable with your branding."},
	{"live class", "Our Live Interactive Classroom features: virtual whiteboard, screen sharing, session recording, breakout rooms, teacher-student matching, and real-time collaboration tools."},
	{"nigeria", "For Nigerian institutions, we offer one-time deployment fees starting from ₦5 million. Many schools across Nigeria use our platform. You can see examples at ischool.ng."},
	{"africa", "For African institutions, we offer one-time deployment fees ranging from ₦5-10 million depending on requirements."},
	{"international", "For international institutions outside Africa, we offer a one-time deployment fee of $10,000 USD."},
	{"custom", "Yes! Our platform is 100% white-label. We customize it with your logo, colors, and domain name. It will look and feel like your own in-house developed platform."},
	{"proposal", "I can help you generate a custom proposal! Please use our proposal generator on the website, or tell me about your institution and I'll guide you through the process."},
	{"contact", "You can contact us at info@javanetict.com or call +234 703067 3089. Would you like to schedule a consultation call with our team?"},
	{"time", "Deployment typically takes 2-4 weeks depending on customization requirements. We handle everything from setup to training your staff."},
	{"integration", "Our platform can integrate with existing systems like student management systems, payment gateways, and learning management systems. We provide API access for custom integrations."},
	{"support", "We offer 24/7 technical support, regular updates, and dedicated account management. Our support team is based in Nigeria with international coverage."},
}

const defaultAnswer = "Thank you for your message! I'm JN Assistant from JavaNet EdTech Suite. I can help you with:\n\n" +
	"1. Information about our CBT testing system\n" +
	"2. Details about our live interactive classrooms\n" +
	"3. Customization and branding options\n" +
	"4. Deployment fees\n" +
	"5. Platform demonstration\n\n" +
	"What would you like to know more about?"

// RuleBased answers from the canned keyword table. Pricing answers carry
// the fee estimate for the visitor's region when one is known.
func RuleBased(message string, c Context) string {
	lower := strings.ToLower(message)
	for _, a := range cannedAnswers {
		if !strings.Contains(lower, a.keyword) {
			continue
		}
		if (a.keyword == "price" || a.keyword == "cost") && c.Fee.Amount != "" && c.Country != "" {
			return a.answer + "\n\nFor " + c.Country + ", the estimated deployment fee is " + c.Fee.Amount + "."
		}
		return a.answer
	}
	return defaultAnswer
}
