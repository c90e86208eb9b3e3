package behavior

import (
	"regexp"
	"strings"

	"quadrupleverify/lib/sensitivity"
)

// METADATA: the six cross-call behavioral pattern detectors this package
// runs against session state, named below.
//
// Pattern names one of those detections.
type Pattern string

const (
	PatternWriteWithoutRead    Pattern = "write-without-read"
	PatternRapidDestructive    Pattern = "rapid-destructive"
	PatternExfiltrationSequence Pattern = "exfiltration-sequence"
	PatternPermissionEscalation Pattern = "permission-escalation"
	PatternEditRevertLoop      Pattern = "edit-revert-loop"
	PatternBruteForceRetry     Pattern = "brute-force-retry"
)

const (
	rapidDestructiveWindowMS    = 30_000
	exfiltrationWindowMS        = 60_000
	permissionEscalationWindowMS = 60_000
)

var destructivePattern = regexp.MustCompile(`(?i)\brm\s+-[a-z]*r[a-z]*f|\bchmod\s+-R\b|\bdd\s+if=|\bmkfs\b|\bgit\s+push\s+--force\b|\bgit\s+reset\s+--hard\b`)

var outboundNetworkPattern = regexp.MustCompile(`(?i)\b(curl|wget|nc|ncat|scp|ssh)\b`)

var execPrefixPattern = regexp.MustCompile(`(?i)^\s*(\./|bash\s|sh\s|python3?\s|node\s)`)

var chmodChownPattern = regexp.MustCompile(`(?i)\b(chmod|chown)\b`)

// DetectWriteWithoutRead reports whether an Edit targeting path has not
// been read during this session.
func DetectWriteWithoutRead(s *State, toolName, path string) bool {
	if toolName != "Edit" || path == "" {
		return false
	}
	return !s.FilesRead[path]
}

// DetectRapidDestructive reports whether at least 3 history entries
// matching the destructive-command catalog fall within a rolling 30s
// window ending at nowMS.
func DetectRapidDestructive(s *State, nowMS int64) bool {
	count := 0
	for _, e := range s.History {
		if e.Command == "" {
			continue
		}
		if nowMS-e.TimestampMS > rapidDestructiveWindowMS {
			continue
		}
		if destructivePattern.MatchString(e.Command) {
			count++
		}
	}
	return count >= 3
}

// DetectExfiltrationSequence reports whether an outbound network command or
// WebFetch/WebSearch occurred within 60s after a read of a sensitive path.
func DetectExfiltrationSequence(s *State, nowMS int64) bool {
	var lastSensitiveReadMS int64 = -1
	for _, e := range s.History {
		if e.Tool == "Read" && e.FilePath != "" && sensitivity.IsSensitivePath(e.FilePath) {
			lastSensitiveReadMS = e.TimestampMS
			continue
		}
		isOutbound := (e.Tool == "Bash" && outboundNetworkPattern.MatchString(e.Command)) ||
			e.Tool == "WebFetch" || e.Tool == "WebSearch"
		if isOutbound && lastSensitiveReadMS >= 0 {
			delta := e.TimestampMS - lastSensitiveReadMS
			if delta >= 0 && delta <= exfiltrationWindowMS {
				return true
			}
		}
	}
	return false
}

// DetectPermissionEscalation reports whether a path whose permissions were
// changed via chmod/chown within the last 60s was subsequently executed.
func DetectPermissionEscalation(s *State, nowMS int64) bool {
	changed := map[string]int64{}
	for _, e := range s.History {
		if e.Tool == "Bash" && chmodChownPattern.MatchString(e.Command) && e.PermChangedPath != "" {
			changed[e.PermChangedPath] = e.TimestampMS
		}
		if e.Tool == "Bash" && execPrefixPattern.MatchString(e.Command) {
			for path, ts := range changed {
				if strings.Contains(e.Command, path) {
					delta := e.TimestampMS - ts
					if delta >= 0 && delta <= permissionEscalationWindowMS {
						return true
					}
				}
			}
		}
	}
	return false
}

// DetectEditRevertLoop reports whether path's last 5 edit snapshots contain
// 3 with pairwise character-bigram Jaccard similarity exceeding 0.8.
func DetectEditRevertLoop(s *State, path string) bool {
	hist := s.EditHistory[path]
	if len(hist) < 3 {
		return false
	}
	window := hist
	if len(window) > 5 {
		window = window[len(window)-5:]
	}
	for i := 0; i < len(window); i++ {
		for j := i + 1; j < len(window); j++ {
			if bigramJaccard(window[i], window[j]) <= 0.8 {
				continue
			}
			for k := j + 1; k < len(window); k++ {
				if bigramJaccard(window[i], window[k]) > 0.8 && bigramJaccard(window[j], window[k]) > 0.8 {
					return true
				}
			}
		}
	}
	return false
}

// DetectBruteForceRetry reports whether the 4 most recent retry-history
// entries are identical Bash commands.
func DetectBruteForceRetry(s *State) bool {
	n := len(s.RetryHistory)
	if n < 4 {
		return false
	}
	last := s.RetryHistory[n-4:]
	for i := 1; i < len(last); i++ {
		if last[i] != last[0] {
			return false
		}
	}
	return true
}

// bigramJaccard computes the Jaccard similarity of the character-bigram
// sets of a and b.
func bigramJaccard(a, b string) float64 {
	setA := bigrams(a)
	setB := bigrams(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	intersection := 0
	for bg := range setA {
		if setB[bg] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func bigrams(s string) map[string]bool {
	out := map[string]bool{}
	r := []rune(s)
	for i := 0; i+1 < len(r); i++ {
		out[string(r[i:i+2])] = true
	}
	return out
}

// DetectAll runs every detector and returns the patterns that fired.
func DetectAll(s *State, toolName, path string, nowMS int64) []Pattern {
	var out []Pattern
	if DetectWriteWithoutRead(s, toolName, path) {
		out = append(out, PatternWriteWithoutRead)
	}
	if DetectRapidDestructive(s, nowMS) {
		out = append(out, PatternRapidDestructive)
	}
	if DetectExfiltrationSequence(s, nowMS) {
		out = append(out, PatternExfiltrationSequence)
	}
	if DetectPermissionEscalation(s, nowMS) {
		out = append(out, PatternPermissionEscalation)
	}
	if path != "" && DetectEditRevertLoop(s, path) {
		out = append(out, PatternEditRevertLoop)
	}
	if DetectBruteForceRetry(s) {
		out = append(out, PatternBruteForceRetry)
	}
	return out
}
