package mcp

import (
	"time"

	"github.com/kaleidemoskop/demodash/internal/logging"
)

// AuditFile is the audit log name inside the audit directory.
const AuditFile = "audit.jsonl"

// AuditEntry is one tool call. Selection fields are those the caller sent,
// before clamping.
type AuditEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Tool       string    `json:"tool"`
	DurationMs int64     `json:"duration_ms"`
	Status     string    `json:"status"` // "success" or "error"
	Error      string    `json:"error,omitempty"`

	Scenario  string `json:"scenario,omitempty"`
	Year      int    `json:"year,omitempty"`
	Benchmark bool   `json:"benchmark,omitempty"`
	History   bool   `json:"history,omitempty"`
	Tick      bool   `json:"tick,omitempty"`
}

// AuditLogger appends tool calls to audit.jsonl. A nil AuditLogger is a no-op.
type AuditLogger struct {
	out *logging.JSONL
}

// NewAuditLogger opens dir/audit.jsonl for append.
func NewAuditLogger(dir string) (*AuditLogger, error) {
	out, err := logging.OpenJSONL(dir, AuditFile)
	if err != nil {
		return nil, err
	}
	return &AuditLogger{out: out}, nil
}

// Log appends entry. Write failures are dropped.
func (a *AuditLogger) Log(entry AuditEntry) {
	if a == nil {
		return
	}
	_ = a.out.Append(entry)
}

// Close closes the audit file. Safe to call on nil receiver.
func (a *AuditLogger) Close() error {
	if a == nil {
		return nil
	}
	return a.out.Close()
}

func selectionEntry(in SelectionInput) AuditEntry {
	return AuditEntry{
		Scenario:  in.Scenario,
		Year:      in.Year,
		Benchmark: in.Benchmark,
		History:   in.History,
	}
}

// auditTool completes entry with timing and outcome and records it.
func (s *Server) auditTool(tool string, start time.Time, err error, entry AuditEntry) {
	entry.Timestamp = start
	entry.Tool = tool
	entry.DurationMs = time.Since(start).Milliseconds()
	entry.Status = "success"
	if err != nil {
		entry.Status = "error"
		entry.Error = err.Error()
	}

	s.logger.Debug("mcp tool call", "tool", tool, "status", entry.Status, "duration", time.Since(start))
	s.auditLogger.Log(entry)
}
