// Package mcp provides an MCP (Model Context Protocol) server exposing the
// dashboard derivations as tools.
package mcp

import (
	"context"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kaleidemoskop/demodash/internal/dataset"
	"github.com/kaleidemoskop/demodash/internal/pathutil"
	"github.com/kaleidemoskop/demodash/internal/ratelimit"
)

// Server wraps the MCP SDK server around one set of loaded tables.
type Server struct {
	server       *sdk.Server
	tables       *dataset.Tables
	toolLimiters ratelimit.ToolLimiters
	auditLogger  *AuditLogger
	logger       *slog.Logger
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "demodash")
	Version string // Server version
	Tables  *dataset.Tables

	// AuditDir receives audit.jsonl. Empty disables auditing.
	AuditDir string

	Logger *slog.Logger
}

// NewServer creates a new MCP server with the dashboard tools registered.
func NewServer(cfg *Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		server:       mcpServer,
		tables:       cfg.Tables,
		toolLimiters: ratelimit.NewToolLimiters(),
		logger:       logger,
	}
	if cfg.AuditDir != "" {
		audit, err := NewAuditLogger(cfg.AuditDir)
		if err != nil {
			logger.Warn("audit log disabled", "dir", pathutil.RedactPath(cfg.AuditDir), "error", err)
		}
		s.auditLogger = audit
	}

	s.registerTools()
	return s
}

// Run serves over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", "scenarios", len(s.tables.Scenarios()))
	return s.server.Run(ctx, &sdk.StdioTransport{})
}

// Close releases the audit log.
func (s *Server) Close() error {
	return s.auditLogger.Close()
}
