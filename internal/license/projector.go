package license

// ProjectFeatures derives the effective feature set from a resolved state.
// Total function: a nil feature pointer (no-license state) projects to the
// minimal default set, so call sites never branch on nil.
func ProjectFeatures(state State) Features {
	if state.Features == nil {
		return DefaultFeatures()
	}
	return *state.Features
}
