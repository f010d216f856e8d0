package dagsrulle

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"k8s.io/klog/v2"
)

// Story is the derived narrative for one day: a title, a short free-verse
// poem, and frequency-ranked keywords. Cheap to recompute, never cached.
type Story struct {
	Title    string
	Poem     string
	Keywords []string
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"of": true, "in": true, "on": true, "at": true, "with": true, "to": true,
	"from": true, "for": true, "is": true, "are": true, "this": true,
	"that": true, "it": true, "its": true, "into": true, "by": true,
	"as": true, "over": true, "under": true, "up": true, "down": true,
	"near": true, "around": true, "between": true, "during": true,
	"my": true, "our": true, "your": true, "their": true, "his": true,
	"her": true, "them": true, "you": true, "we": true, "i": true,
}

// BuildStory synthesizes the day's narrative from the ordered captions.
// poemCaptions are the context-enriched variants sent to the text service;
// captions feed the local keyword heuristic. A failed poem call is an error,
// since the poem drives the final shot's content and duration.
func BuildStory(ctx context.Context, gen TextGen, captions []string, poemCaptions []string, s Settings) (*Story, error) {
	limited := poemCaptions
	if len(limited) > s.MaxCaptions {
		limited = limited[:s.MaxCaptions]
	}

	poem, err := gen.Generate(ctx, poemPrompt(limited))
	if err != nil {
		return nil, fmt.Errorf("poem: %w", err)
	}
	poem = strings.TrimSpace(poem)

	keywords := extractKeywords(captions, s.MaxKeywords)
	title := buildTitle(keywords)

	klog.Infof("story: %q with keywords %v", title, keywords)
	return &Story{Title: title, Poem: poem, Keywords: keywords}, nil
}

func poemPrompt(captions []string) string {
	var b strings.Builder
	for _, c := range captions {
		fmt.Fprintf(&b, "- %s\n", c)
	}

	return fmt.Sprintf(`You're writing the closing voice-over poem for a cinematic 'day in the life'
trailer. The lines below are descriptions of photos and video moments
from the person's day:

%s
Write a warm, slightly cinematic free-verse poem of 3-4 short lines.
Rules:
- Do NOT mention 'photos', 'videos', 'camera', or 'captions'
- Talk as if you watched the day unfold directly
- Focus on feelings, small details, and transitions from morning to night
- Keep language simple and human, not overly flowery or cheesy.`, b.String())
}

// extractKeywords counts word frequency across captions, skipping stop
// words and words shorter than three letters. Ranking is reproducible: ties
// keep first-seen order.
func extractKeywords(captions []string, max int) []string {
	counts := map[string]int{}
	firstSeen := map[string]int{}
	n := 0

	for _, caption := range captions {
		for _, w := range strings.Fields(strings.ToLower(caption)) {
			w = strings.Map(func(r rune) rune {
				if unicode.IsLetter(r) {
					return r
				}
				return -1
			}, w)

			if w == "" || stopWords[w] || len(w) <= 2 {
				continue
			}

			if _, ok := counts[w]; !ok {
				firstSeen[w] = n
				n++
			}
			counts[w]++
		}
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return firstSeen[words[i]] < firstSeen[words[j]]
	})

	if len(words) > max {
		words = words[:max]
	}
	return words
}

func buildTitle(keywords []string) string {
	top := keywords
	if len(top) > 3 {
		top = top[:3]
	}

	caps := make([]string, 0, len(top))
	for _, w := range top {
		caps = append(caps, capitalize(w))
	}

	if len(caps) == 0 {
		return "A Day of Moments"
	}
	return "A Day of " + strings.Join(caps, ", ")
}

func capitalize(w string) string {
	rs := []rune(w)
	if len(rs) == 0 {
		return w
	}
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}
