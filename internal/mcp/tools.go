package mcp

import "github.com/mark3labs/mcp-go/mcp"

var retrieveContextTool = mcp.NewTool("retrieve_context",
	mcp.WithDescription("Retrieve the most relevant fragments of the user's CVs, cover letters and profile imports for a query, weighted by document type and recency."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("What the context is for, e.g. a job title and company"),
	),
	mcp.WithNumber("top_k",
		mcp.Description("Maximum number of document fragments (default from config)"),
	),
)

var listDocumentWeightsTool = mcp.NewTool("list_document_weights",
	mcp.WithDescription("List every stored document with its trust weight and the factors behind it, heaviest first."),
)

var setDocumentWeightTool = mcp.NewTool("set_document_weight",
	mcp.WithDescription("Set the manual weight override of a document. 1 is neutral."),
	mcp.WithString("document_id",
		mcp.Required(),
		mcp.Description("ID of the document"),
	),
	mcp.WithNumber("weight",
		mcp.Required(),
		mcp.Description("Multiplier between 1e-06 and 1e+06, 1 is neutral"),
	),
)

var getCompanyFactsTool = mcp.NewTool("get_company_facts",
	mcp.WithDescription("Get the current research facts stored for a company."),
	mcp.WithString("company",
		mcp.Required(),
		mcp.Description("Company name"),
	),
)
