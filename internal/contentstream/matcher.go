package contentstream

import (
	"strings"

	"github.com/a3tai/pdf-autotag/internal/model"
)

// Matching heuristic parameters. The matcher prefers leaving a run
// unmarked over guessing: ambiguous or repeated text simply stays
// unwrapped.
const (
	minSimilarity = 0.3 // scores at or below this never match
	prefixScore   = 0.8 // score granted by the prefix rule
	prefixLength  = 20  // characters of item text considered for the prefix rule
)

// Assignment pairs one text run with the index of the structure item it
// matched, or -1 when no item qualified.
type Assignment struct {
	Run       TextRun
	ItemIndex int
}

// MatchRuns greedily pairs text runs, in document order, with the page's
// structure items. Each item is consumed by at most one run and each run
// matches at most one item; table items never participate.
func MatchRuns(runs []TextRun, items []model.StructureItem) []Assignment {
	used := make(map[int]bool, len(items))
	assignments := make([]Assignment, 0, len(runs))

	for _, run := range runs {
		idx := findBestMatch(run.Text, items, used)
		if idx >= 0 {
			used[idx] = true
		}
		assignments = append(assignments, Assignment{Run: run, ItemIndex: idx})
	}
	return assignments
}

// findBestMatch scores every unconsumed candidate item against the run
// text. Case-insensitive exact equality wins immediately; otherwise the
// best of the containment word-overlap score and the prefix score must
// exceed minSimilarity.
func findBestMatch(runText string, items []model.StructureItem, used map[int]bool) int {
	runText = strings.TrimSpace(runText)
	if runText == "" {
		return -1
	}
	runLower := strings.ToLower(runText)

	best := -1
	bestScore := 0.0

	for idx := range items {
		if used[idx] {
			continue
		}
		itemText := items[idx].MatchText()
		if itemText == "" {
			continue
		}
		itemLower := strings.ToLower(itemText)

		if runLower == itemLower {
			return idx
		}

		score := 0.0
		if strings.Contains(runLower, itemLower) || strings.Contains(itemLower, runLower) {
			score = wordSetOverlap(runLower, itemLower)
		}
		if strings.HasPrefix(runLower, itemPrefix(itemLower)) && prefixScore > score {
			score = prefixScore
		}

		if score > bestScore {
			bestScore = score
			best = idx
		}
	}

	if bestScore > minSimilarity {
		return best
	}
	return -1
}

// itemPrefix truncates the item text to its first prefixLength characters.
func itemPrefix(itemLower string) string {
	r := []rune(itemLower)
	if len(r) <= prefixLength {
		return itemLower
	}
	return string(r[:prefixLength])
}

// wordSetOverlap is the size of the intersection of the two strings'
// distinct token sets divided by the size of the larger set.
func wordSetOverlap(a, b string) float64 {
	aw := distinctWords(a)
	bw := distinctWords(b)

	larger := len(aw)
	if len(bw) > larger {
		larger = len(bw)
	}
	if larger == 0 {
		return 0
	}

	common := 0
	for w := range aw {
		if bw[w] {
			common++
		}
	}
	return float64(common) / float64(larger)
}

func distinctWords(s string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		words[w] = true
	}
	return words
}
