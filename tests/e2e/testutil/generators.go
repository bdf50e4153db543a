package testutil

import "pgregory.net/rapid"

// Shared rapid generators so e2e tests do not each define their own.

// NoteTitleGenerator generates valid note titles (non-empty strings).
func NoteTitleGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z][A-Za-z0-9 ]{4,49}`)
}

// NoteBodyGenerator generates note bodies, empty included.
func NoteBodyGenerator() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.Just(""),
		rapid.StringMatching(`[A-Za-z0-9 .,!?]{1,200}`),
	)
}

// TagGenerator generates lowercase tag labels.
func TagGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-z]{3,10}`)
}

// PrincipalGenerator generates caller identities.
func PrincipalGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-z]{4,12}`)
}
