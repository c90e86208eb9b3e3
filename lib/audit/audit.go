// METADATA
//
// Package audit - Append-Only Decision Trail
//
// For the structure this comment follows, see this repository's 4-block
// convention: Purpose & Function, Core Design, Key Features, Dependencies.
//
// Component Type: LIBRARY - structured JSONL log writer/reader
// Role: Records every decision each hook makes, one JSON line per entry,
// and lets a session's trail be read back in order
//
// Purpose & Function
//
// Purpose: Every approve, block, and log-only decision across the three
// hooks is written as one JSONL line under the session's audit directory,
// so a session's full decision history can be reconstructed afterward.
//
// Core Design: Append-only, single producer per session - a write never
// reads or rewrites prior lines, only appends one new line in a single
// write call.
// ReadSession streams the file back in the order it was written.
//
// Key Features:
//   - One JSON object per line, never multi-line records
//   - NewEntry builds a consistent envelope across all three hook types
//   - ReadSession surfaces a clear error for a missing session file rather
//     than returning an empty trail silently
//
// Dependencies: encoding/json, bufio and os from the standard library;
// github.com/google/uuid for entry ids; go.uber.org/zap via
// quadrupleverify/lib/diagnostics for write warnings;
// quadrupleverify/lib/fsatomic for the append primitive.
//
// The structured, per-line JSON log-entry shape is adapted from a rotated
// multi-purpose activity log into a strictly append-only, single-producer-
// per-session audit trail.
package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"quadrupleverify/lib/diagnostics"
	"quadrupleverify/lib/fsatomic"
	"quadrupleverify/lib/rules"

	"go.uber.org/zap"
)

// Decision is the outer result recorded for one hook invocation.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionBlock   Decision = "block"
	DecisionLogOnly Decision = "logOnly"
)

// Event names the hook point an entry was produced for.
type Event string

const (
	EventPreTool  Event = "preTool"
	EventPostTool Event = "postTool"
	EventStop     Event = "stop"
)

// Entry is one audit record.
type Entry struct {
	ID        string            `json:"id"`
	Timestamp string            `json:"timestamp"`
	SessionID string            `json:"sessionId"`
	Event     Event             `json:"event"`
	Tool      string            `json:"tool"`
	Decision  Decision          `json:"decision"`
	Violations []rules.Violation `json:"violations"`
	Metadata  map[string]any    `json:"metadata,omitempty"`
}

// NewEntry stamps id and timestamp for a new entry.
func NewEntry(sessionID string, event Event, tool string, decision Decision, violations []rules.Violation, metadata map[string]any) Entry {
	return Entry{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		SessionID:  sessionID,
		Event:      event,
		Tool:       tool,
		Decision:   decision,
		Violations: violations,
		Metadata:   metadata,
	}
}

// Path returns the audit-log path for a session under auditDir.
func Path(auditDir, sessionID string) string {
	return filepath.Join(auditDir, sessionID+".jsonl")
}

// Write appends entry as one JSON-object-per-line to auditDir's file for
// entry.SessionID. Any IO or marshal error is swallowed after one stderr
// diagnostic - the audit writer must never raise out of its function.
func Write(auditDir string, entry Entry) {
	data, err := json.Marshal(entry)
	if err != nil {
		diagnostics.Warn("audit entry failed to marshal", zap.Error(err))
		return
	}
	path := Path(auditDir, entry.SessionID)
	if err := fsatomic.AppendLine(path, data); err != nil {
		diagnostics.Warn("audit entry failed to write", zap.String("path", path), zap.Error(err))
	}
}

// ReadSession parses a session's JSONL file back into its entries. A pure
// library read path for local inspection, not a new CLI surface.
func ReadSession(auditDir, sessionID string) ([]Entry, error) {
	f, err := os.Open(Path(auditDir, sessionID))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, scanner.Err()
}
