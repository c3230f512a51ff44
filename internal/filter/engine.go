// Package filter decides which partner feed entries are imported as food
// offers.
//
// A rule is written as [scope:][re:]value. The scope is name, description
// or omitted for both; the re: prefix makes value a case-insensitive
// regular expression, otherwise it is matched as a case-insensitive
// substring.
package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// Scope selects the entry text a rule looks at.
type Scope string

const (
	ScopeAll         Scope = "all"
	ScopeName        Scope = "name"
	ScopeDescription Scope = "description"
)

// Rule is one parsed include or exclude rule.
type Rule struct {
	Exclude bool
	Scope   Scope
	Word    string
	Pattern *regexp.Regexp
}

// Entry is the text of a partner feed entry.
type Entry struct {
	Name        string
	Description string
}

// ParseRule parses a single rule.
func ParseRule(s string, exclude bool) (Rule, error) {
	r := Rule{Exclude: exclude, Scope: ScopeAll}
	value := strings.TrimSpace(s)
	if scope, rest, ok := strings.Cut(value, ":"); ok {
		switch Scope(strings.ToLower(scope)) {
		case ScopeName, ScopeDescription, ScopeAll:
			r.Scope = Scope(strings.ToLower(scope))
			value = rest
		}
	}
	if pattern, ok := strings.CutPrefix(value, "re:"); ok {
		re, err := ValidateRegex(pattern)
		if err != nil {
			return Rule{}, fmt.Errorf("rule %q: %w", s, err)
		}
		r.Pattern = re
		return r, nil
	}
	if value == "" {
		return Rule{}, fmt.Errorf("rule %q: empty value", s)
	}
	r.Word = strings.ToLower(value)
	return r, nil
}

// ParseRules parses include and exclude rule lists.
func ParseRules(include, exclude []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(include)+len(exclude))
	for _, s := range include {
		r, err := ParseRule(s, false)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	for _, s := range exclude {
		r, err := ParseRule(s, true)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Match checks whether an entry passes the given rules.
// If no rules are provided, the entry always passes.
// Include rules use OR logic (at least one must match).
// Exclude rules use AND logic (none must match).
func Match(e Entry, rules []Rule) bool {
	hasIncludes := false
	anyIncludeMatched := false

	for _, r := range rules {
		if r.Exclude {
			if r.matches(e) {
				return false
			}
			continue
		}
		hasIncludes = true
		if r.matches(e) {
			anyIncludeMatched = true
		}
	}

	return !hasIncludes || anyIncludeMatched
}

func (r Rule) matches(e Entry) bool {
	text := textForScope(e, r.Scope)
	if r.Pattern != nil {
		return r.Pattern.MatchString(text)
	}
	return strings.Contains(text, r.Word)
}

func textForScope(e Entry, scope Scope) string {
	switch scope {
	case ScopeName:
		return strings.ToLower(e.Name)
	case ScopeDescription:
		return strings.ToLower(e.Description)
	default:
		return strings.ToLower(e.Name + " " + e.Description)
	}
}

// ValidateRegex compiles a case-insensitive pattern.
func ValidateRegex(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex: %w", err)
	}
	return re, nil
}
