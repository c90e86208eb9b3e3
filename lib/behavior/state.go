// METADATA
//
// Package behavior - Cross-Call Session State
//
// For the structure this comment follows, see this repository's 4-block
// convention: Purpose & Function, Core Design, Key Features, Dependencies.
//
// Component Type: LIBRARY - per-session state file + pattern detector
// Role: Persists what happened earlier in a session (files read/written,
// retries, edits) and detects the behavioral patterns that span calls
//
// Purpose & Function
//
// Purpose: A single hook invocation only ever sees one tool call. This
// package is the memory that lets the post-tool hook notice things that
// only show up across several calls - a write without a prior read, a
// brute-force retry loop, an edit/revert cycle.
//
// Core Design: State is loaded, mutated in memory, and saved back through
// lib/fsatomic's read-modify-write-with-atomic-rename contract, so a
// crash mid-write never corrupts the session file. Bounded history
// (capped, FIFO) keeps the state file from growing unbounded across a long
// session.
//
// Key Features:
//   - Six independent pattern detectors, each a pure function of state plus
//     the current call
//   - AppendEntry enforces the history cap and FIFO eviction
//   - AddBudget accumulates the session's running prompt-budget total
//     across all four injection sources
//
// Dependencies: encoding/json from the standard library;
// quadrupleverify/lib/fsatomic for the atomic persistence contract.
//
// The session-state file shape is rewritten here to use the atomic
// read-modify-write contract in place of a plain, non-atomic file write
// (see the fsatomic entry in this repository's grounding ledger for why
// that is a genuine redesign rather than an adapted copy).
package behavior

import (
	"encoding/json"

	"quadrupleverify/lib/fsatomic"
)

const (
	historyCap          = 50
	editHistoryFilesCap = 10
	editSnapshotCharCap  = 500
	retryHistoryCap     = 20
	correctionHistoryCap = 10
)

// Entry is one recorded tool invocation.
type Entry struct {
	Tool            string `json:"tool"`
	TimestampMS     int64  `json:"timestamp"`
	FilePath        string `json:"filePath,omitempty"`
	Command         string `json:"command,omitempty"`
	URL             string `json:"url,omitempty"`
	PermChangedPath string `json:"permChangedPath,omitempty"`
}

// EffectivenessCounter tracks, per rule id, how often a violation was fixed
// vs. ignored within this session. Session-scoped only, by design - no
// cross-session persistence.
type EffectivenessCounter struct {
	Fixed   int `json:"fixed"`
	Ignored int `json:"ignored"`
	Total   int `json:"total"`
}

// CorrectionSnapshot records one blocked attempt against a path.
type CorrectionSnapshot struct {
	TimestampMS int64    `json:"ts"`
	Violations  []string `json:"violations"`
}

// CorrectionState is the per-file self-correction counter.
type CorrectionState struct {
	Attempts int                  `json:"attempts"`
	History  []CorrectionSnapshot `json:"history"`
}

// SourceBudget is the per-source-tag token counter.
type SourceBudget struct {
	Tokens int `json:"tokens"`
	Count  int `json:"count"`
}

// Budget is the per-session prompt-budget counter.
type Budget struct {
	TotalTokens int                     `json:"totalTokens"`
	Sources     map[string]SourceBudget `json:"sources"`
}

// State is the full per-session document.
type State struct {
	History       []Entry                         `json:"history"`
	FilesRead     map[string]bool                 `json:"filesRead"`
	FilesWritten  map[string]bool                 `json:"filesWritten"`
	EditHistory   map[string][]string              `json:"editHistory"`
	RetryHistory  []string                        `json:"retryHistory"`
	Effectiveness map[string]EffectivenessCounter `json:"effectiveness"`
	Correction    map[string]CorrectionState       `json:"correction"`
	Budget        Budget                          `json:"budget"`
}

// Empty returns a freshly initialized, zero-value session state.
func Empty() *State {
	return &State{
		FilesRead:     map[string]bool{},
		FilesWritten:  map[string]bool{},
		EditHistory:   map[string][]string{},
		Effectiveness: map[string]EffectivenessCounter{},
		Correction:    map[string]CorrectionState{},
		Budget:        Budget{Sources: map[string]SourceBudget{}},
	}
}

// Load reads state from path. A missing, empty, or corrupt file is treated
// as an empty state rather than surfaced as an error to the caller.
func Load(path string) *State {
	data, err := fsatomic.ReadFile(path)
	if err != nil || len(data) == 0 {
		return Empty()
	}
	st := Empty()
	if err := json.Unmarshal(data, st); err != nil {
		return Empty()
	}
	if st.FilesRead == nil {
		st.FilesRead = map[string]bool{}
	}
	if st.FilesWritten == nil {
		st.FilesWritten = map[string]bool{}
	}
	if st.EditHistory == nil {
		st.EditHistory = map[string][]string{}
	}
	if st.Effectiveness == nil {
		st.Effectiveness = map[string]EffectivenessCounter{}
	}
	if st.Correction == nil {
		st.Correction = map[string]CorrectionState{}
	}
	if st.Budget.Sources == nil {
		st.Budget.Sources = map[string]SourceBudget{}
	}
	return st
}

// Save writes state to path using the atomic-rename contract.
func Save(path string, st *State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return fsatomic.WriteFile(path, data, 0o644)
}

// AppendEntry pushes e onto the history deque, evicting the oldest entry
// when the cap (50) is exceeded - FIFO.
func (s *State) AppendEntry(e Entry) {
	s.History = append(s.History, e)
	if len(s.History) > historyCap {
		s.History = s.History[len(s.History)-historyCap:]
	}
}

// RecordEdit appends a (length-capped) snapshot of content to path's edit
// history, capped at 10 snapshots per file.
func (s *State) RecordEdit(path, content string) {
	if len(content) > editSnapshotCharCap {
		content = content[:editSnapshotCharCap]
	}
	hist := s.EditHistory[path]
	hist = append(hist, content)
	if len(hist) > editHistoryFilesCap {
		hist = hist[len(hist)-editHistoryFilesCap:]
	}
	s.EditHistory[path] = hist
}

// RecordRetry appends command to the retry history, capped at 20.
func (s *State) RecordRetry(command string) {
	s.RetryHistory = append(s.RetryHistory, command)
	if len(s.RetryHistory) > retryHistoryCap {
		s.RetryHistory = s.RetryHistory[len(s.RetryHistory)-retryHistoryCap:]
	}
}

// RecordCorrectionAttempt increments path's attempt counter and appends the
// violation-id list to its history, capped at 10.
func (s *State) RecordCorrectionAttempt(path string, violationIDs []string, nowMS int64) CorrectionState {
	c := s.Correction[path]
	c.Attempts++
	c.History = append(c.History, CorrectionSnapshot{TimestampMS: nowMS, Violations: violationIDs})
	if len(c.History) > correctionHistoryCap {
		c.History = c.History[len(c.History)-correctionHistoryCap:]
	}
	s.Correction[path] = c
	return c
}

// AddBudget adds tokens to the total and to source's per-source counter.
func (s *State) AddBudget(source string, tokens int) {
	s.Budget.TotalTokens += tokens
	sb := s.Budget.Sources[source]
	sb.Tokens += tokens
	sb.Count++
	s.Budget.Sources[source] = sb
}
