// Package dedupe decides whether the current candidate post was already
// repurposed on a previous run.
package dedupe

// ShouldSkip compares the candidate document's source URL with the
// last-published marker's URL. It skips only when force is unset and
// both URLs are non-empty and equal; a missing marker or any empty URL
// means publish.
func ShouldSkip(candidateURL, markerURL string, force bool) bool {
	if force {
		return false
	}
	if candidateURL == "" || markerURL == "" {
		return false
	}
	return candidateURL == markerURL
}
