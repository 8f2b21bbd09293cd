package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/careerctx/internal/audit"
	"github.com/ziadkadry99/careerctx/internal/chunker"
	"github.com/ziadkadry99/careerctx/internal/config"
	"github.com/ziadkadry99/careerctx/internal/db"
	"github.com/ziadkadry99/careerctx/internal/documents"
	"github.com/ziadkadry99/careerctx/internal/embeddings"
	"github.com/ziadkadry99/careerctx/internal/facts"
	"github.com/ziadkadry99/careerctx/internal/retrieval"
	"github.com/ziadkadry99/careerctx/internal/scoring"
	"github.com/ziadkadry99/careerctx/internal/weighting"
)

var fixedNow = time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)

func setupTestServer(t *testing.T) (*Server, *documents.Store, *facts.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	c := config.DefaultConfig()
	docStore := documents.NewStore(database)
	factStore := facts.NewStore(database)
	calc := weighting.New(c.Weighting, nil, func() time.Time { return fixedNow })
	scorer := scoring.New(c.Scoring.Weights, c.Scoring.Quality, calc)
	cache := embeddings.NewCache(embeddings.NewHashingEmbedder(64), c.Cache.MaxSize, time.Second)
	asm := retrieval.New(docStore, factStore, cache, chunker.New(c.Chunking.Size, c.Chunking.Overlap), scorer, c.Retrieval)

	return NewServer(asm, docStore, calc, factStore, audit.NewStore(database)), docStore, factStore
}

func callTool(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// extractText gets the text content from a CallToolResult.
func extractText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool     mcp.Tool
		wantName string
	}{
		{retrieveContextTool, "retrieve_context"},
		{listDocumentWeightsTool, "list_document_weights"},
		{setDocumentWeightTool, "set_document_weight"},
		{getCompanyFactsTool, "get_company_facts"},
	}
	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestHandleRetrieveContext(t *testing.T) {
	srv, docs, factStore := setupTestServer(t)
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		result, err := srv.handleRetrieveContext(ctx, callTool(map[string]any{"query": "anything"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Error("empty results should not be an error")
		}
	})

	if _, err := docs.Create(ctx, documents.Document{
		Type: documents.TypeCV, Filename: "2024-01-10_CV_Acme.txt",
		Content: "Data scientist building forecasting models.", IngestedAt: fixedNow,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := factStore.Save(ctx, facts.Fact{Company: "Acme", Key: "industry", Value: "Aerospace"}); err != nil {
		t.Fatal(err)
	}

	t.Run("with documents and facts", func(t *testing.T) {
		result, err := srv.handleRetrieveContext(ctx, callTool(map[string]any{"query": "data scientist at Acme", "top_k": 1}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := extractText(result)
		if !strings.Contains(text, "[From CV]: Data scientist") {
			t.Errorf("missing CV fragment in %q", text)
		}
		if !strings.Contains(text, "[From COMPANY RESEARCH: Acme]: industry: Aerospace") {
			t.Errorf("missing fact fragment in %q", text)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		result, _ := srv.handleRetrieveContext(ctx, callTool(map[string]any{}))
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})
}

func TestHandleDocumentWeights(t *testing.T) {
	srv, docs, _ := setupTestServer(t)
	ctx := context.Background()

	result, _ := srv.handleListDocumentWeights(ctx, callTool(nil))
	if result.IsError || !strings.Contains(extractText(result), "No documents") {
		t.Errorf("unexpected empty listing %q", extractText(result))
	}

	doc, err := docs.Create(ctx, documents.Document{Type: documents.TypeOther, Filename: "notes.txt", Content: "x", IngestedAt: fixedNow})
	if err != nil {
		t.Fatal(err)
	}

	result, _ = srv.handleSetDocumentWeight(ctx, callTool(map[string]any{"document_id": doc.ID, "weight": 3.0}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractText(result))
	}
	if !strings.Contains(extractText(result), "manual 3.00") {
		t.Errorf("expected manual 3.00 in %q", extractText(result))
	}

	trail, err := srv.audit.Query(ctx, audit.QueryFilter{SubjectID: doc.ID})
	if err != nil || len(trail) != 1 || trail[0].ActorType != audit.ActorAgent || trail[0].NewValue != "3" {
		t.Errorf("expected one agent audit entry, got %+v (err %v)", trail, err)
	}

	result, _ = srv.handleSetDocumentWeight(ctx, callTool(map[string]any{"document_id": doc.ID, "weight": 0.0}))
	if !result.IsError {
		t.Error("expected error for zero weight")
	}
	result, _ = srv.handleSetDocumentWeight(ctx, callTool(map[string]any{"document_id": "missing", "weight": 2.0}))
	if !result.IsError {
		t.Error("expected error for unknown document")
	}

	result, _ = srv.handleListDocumentWeights(ctx, callTool(nil))
	if text := extractText(result); !strings.Contains(text, doc.ID) || !strings.Contains(text, "OTHER") {
		t.Errorf("listing lacks the document: %q", text)
	}
}

func TestHandleGetCompanyFacts(t *testing.T) {
	srv, _, factStore := setupTestServer(t)
	ctx := context.Background()

	result, _ := srv.handleGetCompanyFacts(ctx, callTool(map[string]any{"company": "Initech"}))
	if result.IsError || !strings.Contains(extractText(result), "No facts") {
		t.Errorf("unexpected result %q", extractText(result))
	}

	factStore.Save(ctx, facts.Fact{Company: "Initech", Key: "size", Value: "50"})
	factStore.Save(ctx, facts.Fact{Company: "Initech", Key: "size", Value: "80"})

	result, _ = srv.handleGetCompanyFacts(ctx, callTool(map[string]any{"company": "initech"}))
	if text := extractText(result); !strings.Contains(text, "size (user, v2): 80") {
		t.Errorf("expected latest version, got %q", text)
	}

	result, _ = srv.handleGetCompanyFacts(ctx, callTool(map[string]any{}))
	if !result.IsError {
		t.Error("expected error for missing company")
	}
}
