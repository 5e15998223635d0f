package agenda

import "regexp"

// idPrefix keeps identifiers from starting with a digit or being empty.
const idPrefix = "N"

var nonAlnumRe = regexp.MustCompile(`[^A-Za-z0-9]+`)

// ID returns the node identifier for label. Every run of characters other than
// ASCII letters and digits collapses to a single underscore:
//
//	ID("Alpha Beta") == "NAlpha_Beta"
//	ID("!!!")        == "N_"
//	ID("")           == "N"
func ID(label string) string {
	return idPrefix + nonAlnumRe.ReplaceAllString(label, "_")
}
