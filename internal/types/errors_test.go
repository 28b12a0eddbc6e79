package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"not found", fmt.Errorf("topic %q: %w", "rust", ErrNotFound), KindNotFound},
		{"invalid", fmt.Errorf("time budget: %w", ErrInvalidInput), KindInvalidInput},
		{"unsatisfiable", fmt.Errorf("astar: %w", ErrUnsatisfiable), KindUnsatisfiable},
		{"cycle", fmt.Errorf("plan: %w", ErrCycleDetected), KindCycleDetected},
		{"other", errors.New("disk on fire"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorKind_Corrective(t *testing.T) {
	assert.True(t, KindNotFound.Corrective())
	assert.True(t, KindInvalidInput.Corrective())
	assert.False(t, KindUnsatisfiable.Corrective())
	assert.False(t, KindCycleDetected.Corrective())
}
