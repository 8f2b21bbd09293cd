package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/careerctx/internal/audit"
	"github.com/ziadkadry99/careerctx/internal/documents"
	"github.com/ziadkadry99/careerctx/internal/retrieval"
	"github.com/ziadkadry99/careerctx/internal/weighting"
)

func (s *Server) handleRetrieveContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	frags := s.assembler.Retrieve(ctx, query, request.GetInt("top_k", 0))
	if len(frags) == 0 {
		return mcp.NewToolResultText("No relevant context found. Add documents with `careerctx ingest` first."), nil
	}
	return mcp.NewToolResultText(retrieval.Format(frags)), nil
}

func (s *Server) handleListDocumentWeights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := s.docs.ListDocuments(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing documents failed: %v", err)), nil
	}
	if len(docs) == 0 {
		return mcp.NewToolResultText("No documents stored."), nil
	}
	return mcp.NewToolResultText(formatWeights(s.weights.RankDocuments(docs))), nil
}

func (s *Server) handleSetDocumentWeight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: document_id"), nil
	}
	weight, err := request.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: weight"), nil
	}

	before, err := s.docs.Get(ctx, id)
	if errors.Is(err, documents.ErrNotFound) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading document failed: %v", err)), nil
	}

	err = s.docs.SetManualWeight(ctx, id, weight)
	switch {
	case errors.Is(err, documents.ErrInvalidWeight), errors.Is(err, documents.ErrNotFound):
		return mcp.NewToolResultError(err.Error()), nil
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("updating weight failed: %v", err)), nil
	}
	s.audit.RecordWeightChange(ctx, audit.ActorAgent, id, before.ManualWeight, weight)

	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading document failed: %v", err)), nil
	}
	return mcp.NewToolResultText(formatWeights([]weighting.Breakdown{s.weights.Breakdown(*doc)})), nil
}

func (s *Server) handleGetCompanyFacts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	company, err := request.RequireString("company")
	if err != nil || strings.TrimSpace(company) == "" {
		return mcp.NewToolResultError("missing required parameter: company"), nil
	}
	if s.facts == nil {
		return mcp.NewToolResultError("company research is not available"), nil
	}

	current, err := s.facts.Current(ctx, company)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading facts failed: %v", err)), nil
	}
	if len(current) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No facts stored for %q.", company)), nil
	}

	var sb strings.Builder
	for _, f := range current {
		fmt.Fprintf(&sb, "%s (%s, v%d): %s\n", f.Key, f.Source, f.Version, f.Value)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatWeights(rows []weighting.Breakdown) string {
	var sb strings.Builder
	for _, b := range rows {
		fmt.Fprintf(&sb, "%s  %s  %s\n", b.DocumentID, b.Type.Label(), b.Filename)
		recency := "off"
		if b.RecencyEnabled {
			recency = fmt.Sprintf("%.3f", b.RecencyMultiplier)
		}
		fmt.Fprintf(&sb, "  weight %.3f = base %.2f x type %.2f x recency %s x manual %.2f (age %d days, dated %s)\n",
			b.Weight, b.BaseWeight, b.TypeWeight, recency, b.ManualWeight, b.AgeDays, b.EffectiveDate.Format("2006-01-02"))
	}
	return sb.String()
}
