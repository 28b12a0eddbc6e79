package analytics

import "learnpath/internal/kb"

// Stats summarizes a planned sequence of topics.
type Stats struct {
	TotalHours   int            `json:"total_hours"`
	TopicCount   int            `json:"topic_count"`
	ByDifficulty map[string]int `json:"by_difficulty"`
	ByCategory   map[string]int `json:"by_category"`
}

// PathStats totals hours and counts topics per difficulty and category.
func PathStats(topics []kb.Topic) Stats {
	s := Stats{
		TopicCount:   len(topics),
		ByDifficulty: make(map[string]int),
		ByCategory:   make(map[string]int),
	}
	for _, t := range topics {
		s.TotalHours += t.Duration
		s.ByDifficulty[string(t.Difficulty)]++
		if t.Category != "" {
			s.ByCategory[t.Category]++
		}
	}
	return s
}
