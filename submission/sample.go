package submission

import (
	"math/rand/v2"
	"slices"
)

// SampleFolders returns up to max randomly chosen folders, never repeating
// one within the result. A non-positive max, or max at or above the number of
// folders, returns every folder. The input slice is not modified.
func SampleFolders(folders []string, max int) []string {
	shuffled := slices.Clone(folders)
	if max <= 0 || max >= len(folders) {
		return shuffled
	}
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:max]
}
