package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/careerctx/internal/audit"
	"github.com/ziadkadry99/careerctx/internal/documents"
	"github.com/ziadkadry99/careerctx/internal/facts"
	"github.com/ziadkadry99/careerctx/internal/retrieval"
	"github.com/ziadkadry99/careerctx/internal/weighting"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes document retrieval tools.
type Server struct {
	assembler *retrieval.Assembler
	docs      *documents.Store
	weights   *weighting.Calculator
	facts     *facts.Store
	audit     *audit.Store
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server. factStore may be nil, in which case
// get_company_facts reports that research is unavailable. auditStore may be
// nil.
func NewServer(assembler *retrieval.Assembler, docs *documents.Store, weights *weighting.Calculator, factStore *facts.Store, auditStore *audit.Store) *Server {
	s := &Server{
		assembler: assembler,
		docs:      docs,
		weights:   weights,
		facts:     factStore,
		audit:     auditStore,
	}

	s.mcp = server.NewMCPServer(
		"careerctx",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(retrieveContextTool, s.handleRetrieveContext)
	s.mcp.AddTool(listDocumentWeightsTool, s.handleListDocumentWeights)
	s.mcp.AddTool(setDocumentWeightTool, s.handleSetDocumentWeight)
	s.mcp.AddTool(getCompanyFactsTool, s.handleGetCompanyFacts)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
