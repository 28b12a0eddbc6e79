// Package kbtest provides small knowledge base fixtures for tests.
package kbtest

import (
	"testing"

	"learnpath/internal/kb"
)

// Topic is shorthand for building a kb.Topic.
func Topic(id string, duration int, diff kb.Difficulty, prereqs ...string) kb.Topic {
	return kb.Topic{
		ID:            id,
		Prerequisites: prereqs,
		Duration:      duration,
		Difficulty:    diff,
		Category:      "test",
		Description:   id + " topic",
	}
}

// MustNew builds a knowledge base without the cycle check and fails the
// test on validation errors.
func MustNew(t testing.TB, topics []kb.Topic, goals []kb.Goal, strategies []kb.Strategy) *kb.KnowledgeBase {
	t.Helper()
	k, err := kb.New("test", topics, goals, strategies)
	if err != nil {
		t.Fatalf("invalid fixture: %v", err)
	}
	return k
}

// Triangle is a -> {b, c} with goal g = {b, c}.
//
//	a: dur 2, no prerequisites
//	b: dur 3, prerequisite a
//	c: dur 3, prerequisite a
func Triangle(t testing.TB) *kb.KnowledgeBase {
	return MustNew(t,
		[]kb.Topic{
			Topic("a", 2, kb.Beginner),
			Topic("b", 3, kb.Intermediate, "a"),
			Topic("c", 3, kb.Intermediate, "a"),
		},
		[]kb.Goal{{Name: "g", Topics: []string{"b", "c"}}},
		nil,
	)
}

// Ladder has a cheap direct route and an expensive detour from start to
// finish, plus a goal that links start to the detour.
//
//	start(1) -> cheap(2) -> finish(2)
//	start(1) -> pricey(9) -> finish
//	start(1) -> side(4) -> pricey
func Ladder(t testing.TB) *kb.KnowledgeBase {
	return MustNew(t,
		[]kb.Topic{
			Topic("start", 1, kb.Beginner),
			Topic("side", 4, kb.Beginner, "start"),
			Topic("pricey", 9, kb.Advanced, "start", "side"),
			Topic("cheap", 2, kb.Beginner, "start"),
			Topic("finish", 2, kb.Intermediate, "pricey", "cheap"),
		},
		[]kb.Goal{
			{Name: "route", Topics: []string{"finish"}},
			{Name: "detour", Topics: []string{"start", "pricey"}},
		},
		nil,
	)
}

// Cyclic has x and y requiring each other, reachable from goal loop.
func Cyclic(t testing.TB) *kb.KnowledgeBase {
	return MustNew(t,
		[]kb.Topic{
			Topic("base", 1, kb.Beginner),
			Topic("x", 2, kb.Beginner, "base", "y"),
			Topic("y", 2, kb.Beginner, "x"),
			Topic("z", 3, kb.Intermediate, "x"),
		},
		[]kb.Goal{{Name: "loop", Topics: []string{"z"}}},
		[]kb.Strategy{
			{Root: "spin", Requires: []string{"spun"}},
			{Root: "spun", Requires: []string{"spin"}},
			{Root: "escape", Requires: []string{"spin"}},
			{Root: "escape", Requires: []string{"base", "x"}, Cost: 5},
		},
	)
}

// Stacks is a small AND/OR fixture.
//
//	web: [front, back] cost 1  |  [mono] cost 0
//	front: [html] | [html, js] cost 1 (never cheaper)
//	back: [api]
func Stacks(t testing.TB) *kb.KnowledgeBase {
	return MustNew(t,
		[]kb.Topic{
			Topic("html", 2, kb.Beginner),
			Topic("js", 5, kb.Beginner, "html"),
			Topic("api", 4, kb.Intermediate, "js"),
			Topic("mono", 20, kb.Advanced, "api"),
		},
		[]kb.Goal{{Name: "dev", Topics: []string{"api", "mono"}}},
		[]kb.Strategy{
			{Root: "web", Requires: []string{"front", "back"}, Cost: 1},
			{Root: "web", Requires: []string{"mono"}},
			{Root: "front", Requires: []string{"html"}},
			{Root: "front", Requires: []string{"html", "js"}, Cost: 1},
			{Root: "back", Requires: []string{"api"}},
		},
	)
}
