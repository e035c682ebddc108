package quiz

import (
	"fmt"
	"math/rand/v2"
)

// Choices builds the answer set for a title round: the correct title, a
// same-group distractor when one exists, and random unique titles from
// the pool, shuffled. The returned slice always holds exactly 4 visually
// distinct strings, one of which is the correct title.
func Choices(correct Track, pool []Track, r *rand.Rand) ([]string, error) {
	set := map[string]bool{correct.Title: true}

	// A track sharing the similar group makes a deliberately confusable
	// distractor, so it gets first claim on a slot.
	if correct.SimilarGroup != "" {
		var group []string
		for _, t := range pool {
			if t.ID != correct.ID && t.SimilarGroup == correct.SimilarGroup && !set[t.Title] {
				group = append(group, t.Title)
			}
		}
		if len(group) > 0 {
			set[group[r.IntN(len(group))]] = true
		}
	}

	rest := make([]string, 0, len(pool))
	for _, t := range pool {
		if t.ID != correct.ID && !set[t.Title] {
			rest = append(rest, t.Title)
		}
	}
	r.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })

	for _, title := range rest {
		if len(set) == minPool {
			break
		}
		// Duplicate titles across tracks collapse in the set, which is
		// exactly the dedupe we want; keep drawing until full.
		set[title] = true
	}

	if len(set) < minPool {
		return nil, fmt.Errorf("%w: only %d distinct titles", ErrInsufficientCatalog, len(set))
	}

	out := make([]string, 0, minPool)
	for title := range set {
		out = append(out, title)
	}
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	return out, nil
}

// ComposerChoices builds the answer set for a composer-guess round: the
// fixed vocabulary, shuffled. The correct composer must be a member,
// which catalog filtering already guarantees.
func ComposerChoices(correct Track, vocab []string, r *rand.Rand) ([]string, error) {
	if !contains(vocab, correct.Composer) {
		return nil, fmt.Errorf("composer %q is not in the candidate vocabulary", correct.Composer)
	}

	out := make([]string, len(vocab))
	copy(out, vocab)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	return out, nil
}
