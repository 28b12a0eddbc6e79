package engine

import (
	"errors"
	"fmt"
	"strings"

	"learnpath/internal/kb"
	"learnpath/internal/types"

	"github.com/go-playground/validator/v10"
)

// requestValidate checks caller input. "topicid" is a lower-case atom.
var requestValidate *validator.Validate

func init() {
	requestValidate = validator.New()
	_ = requestValidate.RegisterValidation("topicid", func(fl validator.FieldLevel) bool {
		return kb.ValidID(fl.Field().String())
	})
}

// Request is the input to Recommend. Identifiers are trimmed and lower-cased
// before validation; empty entries in Known and Completed are dropped.
type Request struct {
	Goal       string   `json:"goal" validate:"required,topicid"`
	Known      []string `json:"known" validate:"dive,topicid"`
	Completed  []string `json:"completed" validate:"dive,topicid"`
	TimeBudget int      `json:"time_budget" validate:"gte=0"`
	Level      string   `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Style      string   `json:"style" validate:"omitempty,oneof=practical theoretical visual mixed"`
}

// SearchRequest is the input to point-to-point searches.
type SearchRequest struct {
	Start    string `json:"start" validate:"required,topicid"`
	Goal     string `json:"goal" validate:"required,topicid"`
	MaxDepth int    `json:"max_depth" validate:"gte=0"`
}

func (r *Request) normalize() {
	r.Goal = kb.NormalizeID(r.Goal)
	r.Known = normalizeList(r.Known)
	r.Completed = normalizeList(r.Completed)
	r.Level = kb.NormalizeID(r.Level)
	r.Style = kb.NormalizeID(r.Style)
}

func (r *SearchRequest) normalize() {
	r.Start = kb.NormalizeID(r.Start)
	r.Goal = kb.NormalizeID(r.Goal)
}

func normalizeList(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := kb.NormalizeID(id); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// validate runs struct validation and wraps failures in ErrInvalidInput.
func validate(v any) error {
	err := requestValidate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %s (%v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
		return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), types.ErrInvalidInput)
	}
	return fmt.Errorf("%v: %w", err, types.ErrInvalidInput)
}
