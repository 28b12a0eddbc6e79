// Package analytics derives read-only views over a knowledge base and a known
// set. Every function is best-effort: a failed lookup yields an empty or
// false result instead of an error.
package analytics

import (
	"learnpath/internal/kb"
)

// Pair is an unordered topic pair stored with A < B.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

func makePair(x, y string) Pair {
	if y < x {
		x, y = y, x
	}
	return Pair{A: x, B: y}
}

// Blocked is a topic with at least one prerequisite outside the known set.
type Blocked struct {
	Topic   string   `json:"topic"`
	Missing []string `json:"missing"`
}

// EqualDurationPairs returns the pairs of the goal's topics that share a
// duration, at most limit of them. limit <= 0 means unbounded.
func EqualDurationPairs(k *kb.KnowledgeBase, goal string, limit int) []Pair {
	ids, err := k.TopicsOfGoal(goal)
	if err != nil {
		return nil
	}
	return pairsBy(ids, limit, func(a, b string) bool {
		return k.Duration(a) == k.Duration(b)
	})
}

// EqualDifficultyPairs returns pairs across the whole KB that share a
// difficulty, at most limit of them.
func EqualDifficultyPairs(k *kb.KnowledgeBase, limit int) []Pair {
	diff := make(map[string]kb.Difficulty, k.Len())
	for _, t := range k.Topics() {
		diff[t.ID] = t.Difficulty
	}
	return pairsBy(k.AllTopics(), limit, func(a, b string) bool {
		return diff[a] == diff[b]
	})
}

func pairsBy(ids []string, limit int, same func(a, b string) bool) []Pair {
	out := []Pair{}
	seen := make(map[Pair]bool)
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			if ids[i] == ids[j] || !same(ids[i], ids[j]) {
				continue
			}
			p := makePair(ids[i], ids[j])
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
			if limit > 0 && len(out) >= limit {
				return out
			}
		}
	}
	return out
}

// FirstAvailable returns the first topic in KB order that is not known and
// whose prerequisites are all known.
func FirstAvailable(k *kb.KnowledgeBase, known map[string]bool) (string, bool) {
	for _, t := range k.Topics() {
		if known[t.ID] {
			continue
		}
		if len(missing(t, known)) == 0 {
			return t.ID, true
		}
	}
	return "", false
}

// ExistsAvailable reports whether any unknown topic has every prerequisite
// known.
func ExistsAvailable(k *kb.KnowledgeBase, known map[string]bool) bool {
	_, ok := FirstAvailable(k, known)
	return ok
}

// Unlearnable lists, in KB order, the topics with a prerequisite outside the
// known set together with the missing prerequisites.
func Unlearnable(k *kb.KnowledgeBase, known map[string]bool) []Blocked {
	out := []Blocked{}
	for _, t := range k.Topics() {
		if m := missing(t, known); len(m) > 0 {
			out = append(out, Blocked{Topic: t.ID, Missing: m})
		}
	}
	return out
}

func missing(t kb.Topic, known map[string]bool) []string {
	var out []string
	for _, p := range t.Prerequisites {
		if !known[p] {
			out = append(out, p)
		}
	}
	return out
}

// AllPrerequisitesKnown reports whether every prerequisite of topic is
// known. It is vacuously true for a topic without prerequisites and false
// for an unknown topic.
func AllPrerequisitesKnown(k *kb.KnowledgeBase, topic string, known map[string]bool) bool {
	prereqs, err := k.Prerequisites(topic)
	if err != nil {
		return false
	}
	for _, p := range prereqs {
		if !known[p] {
			return false
		}
	}
	return true
}

// DurationBuckets splits the KB into topics shorter than threshold and
// topics at or above it, both in KB order.
func DurationBuckets(k *kb.KnowledgeBase, threshold int) (short, long []string) {
	short, long = []string{}, []string{}
	for _, t := range k.Topics() {
		if t.Duration < threshold {
			short = append(short, t.ID)
		} else {
			long = append(long, t.ID)
		}
	}
	return short, long
}

// GoalShortIntersection returns the goal's topics that fall in the short
// bucket, in goal order.
func GoalShortIntersection(k *kb.KnowledgeBase, goal string, threshold int) []string {
	ids, err := k.TopicsOfGoal(goal)
	if err != nil {
		return []string{}
	}
	out := []string{}
	for _, id := range ids {
		if k.HasTopic(id) && k.Duration(id) < threshold {
			out = append(out, id)
		}
	}
	return out
}
