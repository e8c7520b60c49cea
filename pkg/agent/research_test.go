package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/provider"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

func TestExtractCitations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "markdown link",
			content: "See [the RFC](https://example.com/rfc9110) for details.",
			want:    []string{"the RFC (https://example.com/rfc9110)"},
		},
		{
			name:    "numbered references",
			content: "Facts below.\n[1]: Smith et al., 2023\n[2] Jones, 2024",
			want:    []string{"Smith et al., 2023", "Jones, 2024"},
		},
		{
			name:    "attribution phrase",
			content: "According to The Operator Manual, torque must be checked weekly.",
			want:    []string{"The Operator Manual"},
		},
		{
			name:    "bare url",
			content: "More at https://example.com/docs.",
			want:    []string{"https://example.com/docs"},
		},
		{
			name:    "no citations",
			content: "Nothing here points anywhere.",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCitations(tt.content)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractCitations() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("citation[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtractCitationsDeduplicatesAndCaps(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 5; i++ {
		sb.WriteString("https://example.com/same ")
	}
	if got := ExtractCitations(sb.String()); len(got) != 1 {
		t.Errorf("duplicates survived: %v", got)
	}

	sb.Reset()
	for i := 0; i < 30; i++ {
		sb.WriteString("https://example.com/page")
		sb.WriteByte(byte('a' + i%26))
		sb.WriteString("\n")
	}
	if got := len(ExtractCitations(sb.String())); got > 20 {
		t.Errorf("len(citations) = %d, want at most 20", got)
	}
}

func TestResearchForcesCitationRetrieval(t *testing.T) {
	a := NewResearchAgent(provider.NewMockProvider(), nil)

	forced := a.forceCitations(&schema.Request{Query: "find sources"})
	if !forced.Context.RequireCitations {
		t.Error("citations must be required")
	}
	if forced.Context.MaxResults < 5 {
		t.Errorf("max results = %d, want at least 5", forced.Context.MaxResults)
	}

	// A caller asking for more results keeps its larger budget.
	forced = a.forceCitations(&schema.Request{
		Query:   "find sources",
		Context: &schema.RequestContext{MaxResults: 8},
	})
	if forced.Context.MaxResults != 8 {
		t.Errorf("max results = %d, want caller's 8", forced.Context.MaxResults)
	}
}

func TestResearchExecuteExtractsCitations(t *testing.T) {
	p := provider.NewMockProvider(provider.WithMockResponses(map[string]string{
		"rail safety": "Safety limits are documented at https://example.com/safety.",
	}))
	a := NewResearchAgent(p, nil)

	resp, err := a.Execute(context.Background(), &schema.Request{Query: "rail safety standards"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Metadata.Citations) != 1 {
		t.Fatalf("citations = %v, want one URL", resp.Metadata.Citations)
	}
}

func TestResearchToolsRequireOptIn(t *testing.T) {
	a := NewResearchAgent(provider.NewMockProvider(), nil)

	if tools := a.Tools(&schema.Request{Query: "q"}); tools != nil {
		t.Errorf("tools without opt-in = %v, want nil", tools)
	}

	tools := a.Tools(&schema.Request{Query: "q", Options: &schema.RequestOptions{UseTools: true}})
	if len(tools) != 2 {
		t.Fatalf("len(tools) = %d, want search and list tools", len(tools))
	}
	if tools[0].Name != "search_documents" || tools[1].Name != "list_sources" {
		t.Errorf("unexpected tool names: %s, %s", tools[0].Name, tools[1].Name)
	}
}
