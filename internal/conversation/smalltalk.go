package conversation

import (
	"regexp"
	"strings"
)

const (
	GreetingReply   = "👋 Hello! I can help you manage and book meetings. Just ask!"
	ThanksReply     = "😊 You're very welcome. Happy to help!"
	StatusReply     = "I'm great, thanks for asking! How can I assist with your meetings today?"
	CapabilityReply = "🤖 I'm a meeting assistant. You can ask me to 'book a meeting tomorrow at 10 AM' or 'check availability this Friday'."
)

type cannedReply struct {
	pattern *regexp.Regexp
	reply   string
}

// smallTalk is checked in order; the first matching pattern wins.
var smallTalk = []cannedReply{
	{pattern: regexp.MustCompile(`\b(hi|hello|hey)\b`), reply: GreetingReply},
	{pattern: regexp.MustCompile(`\b(thanks|thank you)\b`), reply: ThanksReply},
	{pattern: regexp.MustCompile(`how are you`), reply: StatusReply},
}

// CannedReply answers without a language model. It never returns an empty string.
func CannedReply(text string) string {
	lower := strings.ToLower(text)
	for _, c := range smallTalk {
		if c.pattern.MatchString(lower) {
			return c.reply
		}
	}
	return CapabilityReply
}
