package quiz

import (
	"math/rand/v2"

	"github.com/mind-engage/mindengage-quiz/internal/question"
)

// Shuffler permutes n elements in place through swap. Implementations must be
// unbiased across all permutations; *rand.Rand from math/rand/v2 qualifies.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type ShuffleFunc func(n int, swap func(i, j int))

func (f ShuffleFunc) Shuffle(n int, swap func(i, j int)) { f(n, swap) }

// DefaultShuffler is a Fisher-Yates shuffle over the global math/rand/v2 source.
var DefaultShuffler Shuffler = ShuffleFunc(rand.Shuffle)

// IdentityShuffler leaves the order untouched.
var IdentityShuffler Shuffler = ShuffleFunc(func(int, func(i, j int)) {})

// Choice maps a displayed position back to the question's canonical label.
type Choice struct {
	DisplayLabel   question.Label `json:"label"`
	Text           string         `json:"text"`
	CanonicalLabel question.Label `json:"-"`
}

// BuildChoices permutes the four options of q and relabels them A-D in the
// resulting order.
func BuildChoices(q question.Question, s Shuffler) [4]Choice {
	var out [4]Choice
	for i, l := range question.Labels {
		out[i] = Choice{DisplayLabel: l, Text: q.Options[i], CanonicalLabel: l}
	}
	s.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	for i := range out {
		out[i].DisplayLabel = question.LabelAt(i)
	}
	return out
}

func findByDisplay(cs [4]Choice, l question.Label) (Choice, bool) {
	for _, c := range cs {
		if c.DisplayLabel == l {
			return c, true
		}
	}
	return Choice{}, false
}

func findByCanonical(cs [4]Choice, l question.Label) (Choice, bool) {
	for _, c := range cs {
		if c.CanonicalLabel == l {
			return c, true
		}
	}
	return Choice{}, false
}
