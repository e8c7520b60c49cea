package agent

import (
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/provider"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

// buildTools computes the tool set for one request. The set is non-empty
// only when the capability requires tools AND the caller opted in; it is
// computed once per request and never mutated afterwards.
func buildTools(capability Capability, req *schema.Request) []provider.Tool {
	if !capability.RequiresTools {
		return nil
	}
	if req.Options == nil || !req.Options.UseTools {
		return nil
	}

	return []provider.Tool{
		{
			Name:        "search_documents",
			Description: "Search the configured document sources for passages relevant to a query.",
			Parameters: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query.",
				},
				"max_results": map[string]any{
					"type":        "integer",
					"description": "Maximum number of passages to return.",
				},
			},
		},
		{
			Name:        "list_sources",
			Description: "List the document sources currently available for retrieval.",
			Parameters:  map[string]any{},
		},
	}
}
