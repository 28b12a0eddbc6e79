package engine

import (
	"context"
	"fmt"

	"learnpath/internal/config"
	"learnpath/internal/kb"
	"learnpath/internal/types"
)

// LoadKB loads the knowledge base named by c.
func LoadKB(ctx context.Context, c config.KBConfig) (*kb.KnowledgeBase, error) {
	switch c.Source {
	case "", config.SourceEmbedded:
		return kb.Default()
	case config.SourceYAML:
		return kb.LoadFile(c.Path)
	case config.SourceSQLite:
		return kb.LoadSQLite(ctx, c.Path)
	default:
		return nil, fmt.Errorf("kb source %q: %w", c.Source, types.ErrInvalidInput)
	}
}
