// Package intent classifies chat messages into the scheduling flows.
package intent

import "strings"

// Intent is the flow a message is routed to.
type Intent string

const (
	Book         Intent = "book"
	Check        Intent = "check"
	Unclassified Intent = "unclassified"
)

// Rule maps trigger substrings to an intent.
type Rule struct {
	Intent   Intent
	Triggers []string
}

// DefaultRules is evaluated in order; booking verbs outrank availability nouns.
var DefaultRules = []Rule{
	{Intent: Book, Triggers: []string{"book", "schedule", "set meeting", "arrange", "reserve"}},
	{Intent: Check, Triggers: []string{"available", "free", "slots", "vacant", "availability"}},
}

// Router matches messages against an ordered rule table.
type Router struct {
	rules []Rule
}

// NewRouter builds a router. With no rules it uses DefaultRules.
func NewRouter(rules ...Rule) *Router {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	normalized := make([]Rule, 0, len(rules))
	for _, r := range rules {
		triggers := make([]string, 0, len(r.Triggers))
		for _, t := range r.Triggers {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				triggers = append(triggers, t)
			}
		}
		normalized = append(normalized, Rule{Intent: r.Intent, Triggers: triggers})
	}
	return &Router{rules: normalized}
}

// Classify returns the intent of the first rule with a trigger contained in
// text, compared case-insensitively.
func (r *Router) Classify(text string) Intent {
	lower := strings.ToLower(text)
	for _, rule := range r.rules {
		for _, trigger := range rule.Triggers {
			if strings.Contains(lower, trigger) {
				return rule.Intent
			}
		}
	}
	return Unclassified
}

// Classify routes text with DefaultRules.
func Classify(text string) Intent {
	return defaultRouter.Classify(text)
}

var defaultRouter = NewRouter()
