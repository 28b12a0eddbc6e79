package analytics

import (
	"learnpath/internal/kb"
	"learnpath/internal/logging"

	"go.uber.org/zap"
)

// DefaultClosureLimit bounds a single closure when the caller passes none.
const DefaultClosureLimit = 256

// PrerequisiteClosure returns every transitive prerequisite of topic, each
// listed after its own prerequisites. A prerequisite already on the current
// walk is skipped, so cyclic data terminates. At most limit ids are returned.
func PrerequisiteClosure(k *kb.KnowledgeBase, topic string, limit int) []string {
	if !k.HasTopic(topic) {
		return []string{}
	}
	if limit <= 0 {
		limit = DefaultClosureLimit
	}

	out := []string{}
	added := map[string]bool{}
	inProgress := map[string]bool{topic: true}

	var visit func(id string)
	visit = func(id string) {
		prereqs, err := k.Prerequisites(id)
		if err != nil {
			return
		}
		for _, p := range prereqs {
			if len(out) >= limit {
				return
			}
			if added[p] || inProgress[p] {
				continue
			}
			inProgress[p] = true
			visit(p)
			delete(inProgress, p)
			if len(out) < limit && !added[p] {
				added[p] = true
				out = append(out, p)
			}
		}
	}
	visit(topic)

	if len(out) >= limit {
		logging.AnalyticsDebug("closure truncated", zap.String("topic", topic), zap.Int("limit", limit))
	}
	return out
}

// ClosureMap computes the closure of the first maxTopics ids.
func ClosureMap(k *kb.KnowledgeBase, ids []string, maxTopics, limit int) map[string][]string {
	out := make(map[string][]string)
	for _, id := range ids {
		if maxTopics > 0 && len(out) >= maxTopics {
			break
		}
		if _, dup := out[id]; dup || !k.HasTopic(id) {
			continue
		}
		out[id] = PrerequisiteClosure(k, id, limit)
	}
	return out
}
