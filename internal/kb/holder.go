package kb

import (
	"sync/atomic"
)

// Holder publishes the current knowledge base snapshot. Readers call Load
// once per request and use that snapshot throughout.
type Holder struct {
	current atomic.Pointer[KnowledgeBase]
	reloads atomic.Int64
}

// NewHolder returns a holder publishing k.
func NewHolder(k *KnowledgeBase) *Holder {
	h := &Holder{}
	h.current.Store(k)
	return h
}

// Load returns the current snapshot.
func (h *Holder) Load() *KnowledgeBase {
	return h.current.Load()
}

// Swap publishes k and returns the previous snapshot.
func (h *Holder) Swap(k *KnowledgeBase) *KnowledgeBase {
	h.reloads.Add(1)
	return h.current.Swap(k)
}

// Reloads returns how many times Swap has been called.
func (h *Holder) Reloads() int64 {
	return h.reloads.Load()
}
