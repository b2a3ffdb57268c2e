package model

// Coverage summarises how well a fixture satisfies the signalling sites of a
// project. Only patterns that raise a missing-injection signal count.
type Coverage struct {
	Fixture Path
	// Required holds one site per distinct signalling key.
	Required []Site
	Missing  []Site
	// Mismatched holds required sites whose fixture value has a different
	// type than the wrapper reads, so the read would still come up empty.
	Mismatched []Site
	// CodeInjected lists environment object sites. A fixture cannot satisfy
	// them; the test must inject the object in code.
	CodeInjected []Site
	// Unresolved lists signalling sites whose key could not be derived
	// statically. They are reported but never fail a check.
	Unresolved []Site
	Score      float64
}

// Covered returns the number of required keys the fixture satisfies.
func (c Coverage) Covered() int {
	return len(c.Required) - len(c.Missing) - len(c.Mismatched)
}

// Failed reports whether any required key is absent or mistyped.
func (c Coverage) Failed() bool {
	return len(c.Missing) > 0 || len(c.Mismatched) > 0
}
