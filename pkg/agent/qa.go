package agent

import (
	"context"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/provider"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/retrieval"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/schema"
)

// QAAgent answers factual questions. It adds no behavior beyond the shared
// base contract.
type QAAgent struct {
	base
}

// NewQAAgent creates the question-answering worker.
func NewQAAgent(p provider.Provider, r retrieval.Retriever) *QAAgent {
	return &QAAgent{base: base{
		agentType: TypeQA,
		capability: Capability{
			Name:               "Question Answering",
			Description:        "Answers factual questions, grounded in retrieved passages when sources are attached.",
			SupportsStreaming:  true,
			RequiresTools:      false,
			DefaultMaxTokens:   2048,
			DefaultTemperature: 0.3,
		},
		provider:  p,
		retriever: r,
	}}
}

// Instructions produces the QA system instructions.
func (a *QAAgent) Instructions(_ *schema.Request) string {
	return "You are a precise question-answering assistant. " +
		"Answer directly and concisely. When context passages are provided, " +
		"ground your answer in them and say so when they do not cover the question."
}

// Tools returns no tools; the QA capability does not require them.
func (a *QAAgent) Tools(req *schema.Request) []provider.Tool {
	return buildTools(a.capability, req)
}

// Execute produces a complete answer.
func (a *QAAgent) Execute(ctx context.Context, req *schema.Request) (*schema.Response, error) {
	return a.run(ctx, req, a.Instructions(req), a.Tools(req))
}

// ExecuteStream streams the answer.
func (a *QAAgent) ExecuteStream(ctx context.Context, req *schema.Request, onChunk func(string)) (*schema.Response, error) {
	return a.runStream(ctx, req, a.Instructions(req), a.Tools(req), onChunk)
}
