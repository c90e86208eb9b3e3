package audit

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenReadSessionRoundTrips(t *testing.T) {
	dir := t.TempDir()
	e1 := NewEntry("sess-1", EventPreTool, "Bash", DecisionApprove, nil, nil)
	e2 := NewEntry("sess-1", EventPostTool, "Edit", DecisionLogOnly, nil, map[string]any{"k": "v"})

	Write(dir, e1)
	Write(dir, e2)

	entries, err := ReadSession(dir, "sess-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, e1.ID, entries[0].ID)
	assert.Equal(t, e2.ID, entries[1].ID)
	assert.Equal(t, DecisionLogOnly, entries[1].Decision)
}

func TestReadSessionMissingFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadSession(dir, "does-not-exist")
	assert.Error(t, err)
}

func TestWriteNeverCorruptsPriorLines(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 20; i++ {
		Write(dir, NewEntry("sess-2", EventStop, "Bash", DecisionApprove, nil,
			map[string]any{"seq": fmt.Sprintf("%d", i)}))
	}
	entries, err := ReadSession(dir, "sess-2")
	require.NoError(t, err)
	require.Len(t, entries, 20)
	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("%d", i), e.Metadata["seq"])
	}
}

// TestAppendOnlyProperty verifies that writing N entries in sequence never
// truncates or reorders entries already on disk — the file only ever
// grows, one line per write, in write order.
func TestAppendOnlyProperty(t *testing.T) {
	dir := t.TempDir()
	sessionID := "sess-append-only"
	var wantIDs []string
	for i := 0; i < 30; i++ {
		e := NewEntry(sessionID, EventPreTool, "Bash", DecisionApprove, nil, nil)
		wantIDs = append(wantIDs, e.ID)
		Write(dir, e)

		entries, err := ReadSession(dir, sessionID)
		require.NoError(t, err)
		require.Len(t, entries, i+1)
		for j, want := range wantIDs {
			assert.Equal(t, want, entries[j].ID)
		}
	}

	path := filepath.Join(dir, sessionID+".jsonl")
	assert.FileExists(t, path)
}
