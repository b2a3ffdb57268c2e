package domain

import (
	m "gooze.dev/pkg/viewspy/internal/model"
	"gooze.dev/pkg/viewspy/pkg/keys"
)

// injectionCoverage checks the signalling sites against the values a fixture
// injects. A project without fixture-satisfiable sites scores 1.
//
// Environment objects are never counted: a fixture cannot build them, so they
// are listed as code-injected instead.
func injectionCoverage(sites []m.Site, injected map[string]any) m.Coverage {
	var coverage m.Coverage

	seen := make(map[string]struct{})

	for _, site := range sites {
		if !site.Pattern.Signals() {
			continue
		}

		if site.Pattern == keys.PatternEnvironmentObject {
			coverage.CodeInjected = append(coverage.CodeInjected, site)
			continue
		}

		if !site.Injectable() {
			coverage.Unresolved = append(coverage.Unresolved, site)
			continue
		}

		if _, ok := seen[site.Key]; ok {
			continue
		}

		seen[site.Key] = struct{}{}
		coverage.Required = append(coverage.Required, site)

		value, ok := injected[site.Key]

		switch {
		case !ok:
			coverage.Missing = append(coverage.Missing, site)
		case !assignable(site.Type, value):
			coverage.Mismatched = append(coverage.Mismatched, site)
		}
	}

	if len(coverage.Required) == 0 {
		coverage.Score = 1
		return coverage
	}

	coverage.Score = float64(coverage.Covered()) / float64(len(coverage.Required))

	return coverage
}

// assignable mirrors the read-time type assertion: a decoded value satisfies
// a site only when its dynamic type is the site's type. Unknown site types
// and the empty interface accept anything.
func assignable(typeName string, value any) bool {
	if typeName == "" || typeName == "interface {}" {
		return true
	}

	return keys.TypeNameOf(value) == typeName
}
