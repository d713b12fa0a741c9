// Package matcher decides whether a typed command satisfies a level's
// expected command.
//
// Matching is an exact comparison after whitespace normalization, followed
// by an ordered table of narrow tolerance rules. The first rule that applies
// decides the verdict; if none applies the answer is wrong.
package matcher

import "strings"

// Rule names reported by Explain for the fixed framing around the rule table.
const (
	RuleNoExpected = "no-expected"
	RuleExact      = "exact"
	RuleNone       = "none"
)

// Normalize trims surrounding whitespace and collapses every inner run of
// whitespace into a single space. Case and punctuation are left alone.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Candidate is a normalized (user, expected) pair handed to each rule.
type Candidate struct {
	User     string
	Expected string

	UserTokens     []string
	ExpectedTokens []string
}

func newCandidate(user, expected string) Candidate {
	u := Normalize(user)
	e := Normalize(expected)
	return Candidate{
		User:           u,
		Expected:       e,
		UserTokens:     strings.Fields(u),
		ExpectedTokens: strings.Fields(e),
	}
}

// UserBase returns the first user token, or "" for empty input.
func (c Candidate) UserBase() string {
	if len(c.UserTokens) == 0 {
		return ""
	}
	return c.UserTokens[0]
}

// ExpectedBase returns the first expected token, or "".
func (c Candidate) ExpectedBase() string {
	if len(c.ExpectedTokens) == 0 {
		return ""
	}
	return c.ExpectedTokens[0]
}

// Rule is one tolerance override. Applies selects the rule; Verdict is only
// consulted when Applies returned true.
type Rule struct {
	Name    string
	Applies func(Candidate) bool
	Verdict func(Candidate) bool
}

// Matcher evaluates user input against an expected command.
type Matcher struct {
	rules []Rule
}

// New returns a Matcher that consults rules in order after the exact-match check.
func New(rules ...Rule) *Matcher {
	return &Matcher{rules: append([]Rule(nil), rules...)}
}

// Default returns a Matcher with DefaultRules.
func Default() *Matcher {
	return New(DefaultRules()...)
}

// Rules returns a copy of the matcher's rule table.
func (m *Matcher) Rules() []Rule {
	return append([]Rule(nil), m.rules...)
}

// Matches reports whether userInput satisfies expected. A nil, empty or
// all-whitespace expected command never matches.
func (m *Matcher) Matches(userInput string, expected *string) bool {
	if expected == nil {
		return false
	}
	return m.MatchString(userInput, *expected)
}

// MatchString is Matches with a plain string; "" means no expected command.
func (m *Matcher) MatchString(userInput, expected string) bool {
	ok, _ := m.Explain(userInput, expected)
	return ok
}

// Explain returns the verdict along with the name of the rule that decided it.
func (m *Matcher) Explain(userInput, expected string) (bool, string) {
	c := newCandidate(userInput, expected)
	if c.Expected == "" {
		return false, RuleNoExpected
	}
	if c.User == c.Expected {
		return true, RuleExact
	}

	for _, r := range m.rules {
		if r.Applies(c) {
			return r.Verdict(c), r.Name
		}
	}
	return false, RuleNone
}
