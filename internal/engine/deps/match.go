package deps

import "regexp"

// targetMatcher decides whether an edge's target is of interest. At
// most one matcher is installed per filter; nil means "no restriction".
type targetMatcher interface {
	matches(d Dependency) bool
}

// regexMatcher accepts targets whose class name fully matches the
// configured expression.
type regexMatcher struct {
	pattern *regexp.Regexp
}

func (m regexMatcher) matches(d Dependency) bool {
	return m.pattern.MatchString(string(d.Target))
}

// packageMatcher accepts targets whose package is in the configured
// set. The set is frozen at build time.
type packageMatcher struct {
	packages map[string]bool
}

func (m packageMatcher) matches(d Dependency) bool {
	return m.packages[d.Target.PackageName()]
}

// anchored rewrites p so that matching means matching the whole input.
// Every pattern in a filter is a full match, not a search.
func anchored(p *regexp.Regexp) *regexp.Regexp {
	if p == nil {
		return nil
	}
	return regexp.MustCompile(`\A(?:` + p.String() + `)\z`)
}
