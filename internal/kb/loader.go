package kb

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"learnpath/internal/logging"
	"learnpath/internal/types"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed default_kb.yaml
var defaultKB []byte

// document is the on-disk YAML layout.
type document struct {
	Version    string             `yaml:"version"`
	Topics     []Topic            `yaml:"topics"`
	Goals      []Goal             `yaml:"goals"`
	Strategies []strategyDocument `yaml:"strategies"`
}

type strategyDocument struct {
	Root         string                `yaml:"root"`
	Alternatives []alternativeDocument `yaml:"alternatives"`
}

type alternativeDocument struct {
	Requires []string `yaml:"requires"`
	Cost     int      `yaml:"cost"`
}

// Parse decodes a YAML knowledge base and runs the full load-time
// validation, including the cycle check.
func Parse(data []byte) (*KnowledgeBase, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}

	var strategies []Strategy
	for _, sd := range doc.Strategies {
		for _, alt := range sd.Alternatives {
			strategies = append(strategies, Strategy{Root: sd.Root, Requires: alt.Requires, Cost: alt.Cost})
		}
	}
	for i := range doc.Topics {
		doc.Topics[i].Difficulty = Difficulty(strings.ToLower(string(doc.Topics[i].Difficulty)))
	}

	return build(doc.Version, doc.Topics, doc.Goals, strategies)
}

func build(version string, topics []Topic, goals []Goal, strategies []Strategy) (*KnowledgeBase, error) {
	if len(topics) == 0 {
		return nil, fmt.Errorf("invalid knowledge base: no topics: %w", types.ErrInvalidInput)
	}
	k, err := New(version, topics, goals, strategies)
	if err != nil {
		return nil, fmt.Errorf("invalid knowledge base: %w", err)
	}
	if err := k.CheckAcyclic(); err != nil {
		return nil, fmt.Errorf("invalid knowledge base: %w", err)
	}
	logging.KB("knowledge base loaded",
		zap.String("version", version),
		zap.Int("topics", len(k.topics)),
		zap.Int("goals", len(k.goals)),
		zap.Int("roots", len(k.roots)))
	return k, nil
}

// LoadFile reads and validates a YAML knowledge base file.
func LoadFile(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the embedded knowledge base.
func Default() (*KnowledgeBase, error) {
	return Parse(defaultKB)
}

// Marshal encodes k in the YAML layout Parse accepts.
func Marshal(k *KnowledgeBase) ([]byte, error) {
	doc := document{Version: k.version, Topics: k.Topics(), Goals: k.Goals()}
	for _, root := range k.roots {
		sd := strategyDocument{Root: root}
		for _, s := range k.strategies[root] {
			sd.Alternatives = append(sd.Alternatives, alternativeDocument{Requires: s.Requires, Cost: s.Cost})
		}
		doc.Strategies = append(doc.Strategies, sd)
	}
	return yaml.Marshal(doc)
}
