package matcher

// DefaultRules returns the stock tolerance table: bare "ls" and bare
// "history" accept trailing arguments, and "nano <file>" also accepts
// "vi <file>".
func DefaultRules() []Rule {
	return []Rule{
		BareCommandRule("ls"),
		BareCommandRule("history"),
		EditorRule("nano", "nano", "vi"),
	}
}

// BareCommandRule accepts any invocation of cmd, with or without arguments,
// when the expected command is exactly cmd with no arguments. The tolerance
// is one-directional: an expected "ls -la" still requires an exact match.
func BareCommandRule(cmd string) Rule {
	return Rule{
		Name: "bare:" + cmd,
		Applies: func(c Candidate) bool {
			return c.Expected == cmd && c.UserBase() == cmd
		},
		Verdict: func(Candidate) bool { return true },
	}
}

// EditorRule lets any of the given editors stand in for the expected editor,
// provided both sides name the same file as their first argument. When
// either side has no file argument the rule does not apply.
func EditorRule(expected string, editors ...string) Rule {
	allowed := make(map[string]bool, len(editors))
	for _, e := range editors {
		allowed[e] = true
	}
	return Rule{
		Name: "editor:" + expected,
		Applies: func(c Candidate) bool {
			return c.ExpectedBase() == expected &&
				allowed[c.UserBase()] &&
				len(c.UserTokens) >= 2 &&
				len(c.ExpectedTokens) >= 2
		},
		Verdict: func(c Candidate) bool {
			return c.UserTokens[1] == c.ExpectedTokens[1]
		},
	}
}
