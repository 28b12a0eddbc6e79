package logging

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CategoryAudit carries structured request audit events.
const CategoryAudit Category = "audit"

// AuditEventType names an audit event; it is also the fact's action atom.
type AuditEventType string

const (
	// Request lifecycle -> request_event/5
	AuditRequestStart AuditEventType = "request_start"
	AuditRequestEnd   AuditEventType = "request_end"

	// Session facts -> fact_event/4
	AuditFactDeclare AuditEventType = "fact_declare"
	AuditFactForget  AuditEventType = "fact_forget"
	AuditFactReset   AuditEventType = "fact_reset"

	// Searches -> search_event/6
	AuditSearchRun AuditEventType = "search_run"

	// Knowledge base -> kb_event/4
	AuditKBReload AuditEventType = "kb_reload"
)

// AuditEvent is one audit record. Fact holds the event rendered as a
// Datalog-style fact so audit logs can be loaded back into a rule engine.
type AuditEvent struct {
	Timestamp  int64          `json:"ts"`
	EventType  AuditEventType `json:"event"`
	SessionID  string         `json:"session"`
	Target     string         `json:"target"`
	Action     string         `json:"action"`
	Success    bool           `json:"success"`
	DurationMs int64          `json:"dur_ms"`
	Count      int            `json:"count"`
	Error      string         `json:"error"`
	Fact       string         `json:"fact"`
}

// AuditLogger writes audit events scoped to one session.
type AuditLogger struct {
	sessionID string
}

// AuditWithSession creates an audit logger scoped to a session.
func AuditWithSession(sessionID string) *AuditLogger {
	return &AuditLogger{sessionID: sessionID}
}

// Log fills defaults, renders the fact and writes the event.
func (a *AuditLogger) Log(event AuditEvent) {
	l := Get(CategoryAudit)
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	if event.SessionID == "" {
		event.SessionID = a.sessionID
	}
	event.Fact = auditFact(event)

	l.Info(string(event.EventType),
		zap.Int64("ts", event.Timestamp),
		zap.String("session", event.SessionID),
		zap.String("target", event.Target),
		zap.String("action", event.Action),
		zap.Bool("success", event.Success),
		zap.Int64("dur_ms", event.DurationMs),
		zap.Int("count", event.Count),
		zap.String("error", event.Error),
		zap.String("fact", event.Fact),
	)
}

func auditFact(e AuditEvent) string {
	switch e.EventType {
	case AuditRequestStart, AuditRequestEnd:
		return fmt.Sprintf("request_event(%d, /%s, \"%s\", \"%s\", %v).",
			e.Timestamp, e.EventType, escapeString(e.SessionID), escapeString(e.Target), e.Success)
	case AuditFactDeclare, AuditFactForget, AuditFactReset:
		return fmt.Sprintf("fact_event(%d, /%s, \"%s\", %d).",
			e.Timestamp, e.EventType, escapeString(e.SessionID), e.Count)
	case AuditSearchRun:
		return fmt.Sprintf("search_event(%d, /%s, \"%s\", %v, %d, %d).",
			e.Timestamp, escapeString(e.Action), escapeString(e.Target), e.Success, e.Count, e.DurationMs)
	case AuditKBReload:
		return fmt.Sprintf("kb_event(%d, \"%s\", %v, \"%s\").",
			e.Timestamp, escapeString(e.Target), e.Success, escapeString(e.Error))
	default:
		return fmt.Sprintf("audit_event(%d, /%s, \"%s\").",
			e.Timestamp, e.EventType, escapeString(e.Target))
	}
}

// escapeString quotes s for a fact string literal.
func escapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/10)

	for _, c := range s {
		switch c {
		case '"':
			b.WriteString("\\\"")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// RequestStart records the start of a request for target.
func (a *AuditLogger) RequestStart(target string) {
	a.Log(AuditEvent{EventType: AuditRequestStart, Target: target, Success: true})
}

// RequestEnd records how a request finished.
func (a *AuditLogger) RequestEnd(target string, topics int, elapsed time.Duration, err error) {
	ev := AuditEvent{
		EventType:  AuditRequestEnd,
		Target:     target,
		Success:    err == nil,
		Count:      topics,
		DurationMs: elapsed.Milliseconds(),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	a.Log(ev)
}

// FactsDeclared records a successful declare of n facts.
func (a *AuditLogger) FactsDeclared(n int) {
	a.Log(AuditEvent{EventType: AuditFactDeclare, Success: true, Count: n})
}

// FactForgotten records the retraction of a known topic.
func (a *AuditLogger) FactForgotten(topic string) {
	a.Log(AuditEvent{EventType: AuditFactForget, Target: topic, Success: true, Count: 1})
}

// FactsReset records a session reset that cleared n facts.
func (a *AuditLogger) FactsReset(n int) {
	a.Log(AuditEvent{EventType: AuditFactReset, Success: true, Count: n})
}

// SearchRun records one search. count is nodes expanded or paths found.
func (a *AuditLogger) SearchRun(algorithm, target string, count int, elapsed time.Duration, err error) {
	ev := AuditEvent{
		EventType:  AuditSearchRun,
		Action:     algorithm,
		Target:     target,
		Success:    err == nil,
		Count:      count,
		DurationMs: elapsed.Milliseconds(),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	a.Log(ev)
}

// KBReload records a knowledge base reload of path.
func (a *AuditLogger) KBReload(path string, err error) {
	ev := AuditEvent{EventType: AuditKBReload, Target: path, Success: err == nil}
	if err != nil {
		ev.Error = err.Error()
	}
	a.Log(ev)
}
