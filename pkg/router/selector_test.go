package router

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/agent"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/classifier"
	"github.com/RyanLisse/hgg-roborail-rag-sub002/pkg/retrieval"
)

func classification(intent classifier.Intent, level classifier.Level, factors classifier.Factors) classifier.Classification {
	return classifier.Classification{
		Intent:     intent,
		Complexity: classifier.Complexity{Level: level, Factors: factors},
	}
}

func TestSelectAgentPriorityRules(t *testing.T) {
	tests := []struct {
		name    string
		intent  classifier.Intent
		level   classifier.Level
		factors classifier.Factors
		want    agent.Type
	}{
		{"summarization goes to rewrite", classifier.IntentSummarization, classifier.LevelComplex, classifier.Factors{}, agent.TypeRewrite},
		{"rewriting goes to rewrite", classifier.IntentRewriting, classifier.LevelSimple, classifier.Factors{}, agent.TypeRewrite},
		{"planning goes to planner", classifier.IntentPlanning, classifier.LevelSimple, classifier.Factors{}, agent.TypePlanner},
		{"research goes to research", classifier.IntentResearch, classifier.LevelSimple, classifier.Factors{}, agent.TypeResearch},
		{"analysis goes to research", classifier.IntentAnalysis, classifier.LevelModerate, classifier.Factors{}, agent.TypeResearch},
		{"complex comparison goes to research", classifier.IntentComparison, classifier.LevelComplex, classifier.Factors{}, agent.TypeResearch},
		{"simple comparison goes to qa", classifier.IntentComparison, classifier.LevelSimple, classifier.Factors{}, agent.TypeQA},
		{"simple question goes to qa", classifier.IntentQuestionAnswering, classifier.LevelSimple, classifier.Factors{}, agent.TypeQA},
		{"moderate chat goes to qa", classifier.IntentGeneralChat, classifier.LevelModerate, classifier.Factors{}, agent.TypeQA},
		{
			"complex multi-step question goes to planner",
			classifier.IntentQuestionAnswering, classifier.LevelComplex,
			classifier.Factors{RequiresMultipleSteps: true}, agent.TypePlanner,
		},
		{
			"complex question without steps goes to research",
			classifier.IntentQuestionAnswering, classifier.LevelComplex,
			classifier.Factors{}, agent.TypeResearch,
		},
		{
			"synthesis question goes to research even when moderate",
			classifier.IntentQuestionAnswering, classifier.LevelModerate,
			classifier.Factors{NeedsSynthesis: true}, agent.TypeResearch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select("query", classification(tt.intent, tt.level, tt.factors), retrieval.DefaultSources)
			if got.Agent != tt.want {
				t.Errorf("Select().Agent = %s, want %s", got.Agent, tt.want)
			}
		})
	}
}

func TestSelectInvariants(t *testing.T) {
	levels := []classifier.Level{classifier.LevelSimple, classifier.LevelModerate, classifier.LevelComplex}
	sourceSets := [][]string{
		nil,
		{retrieval.SourceMemory},
		{retrieval.SourceOpenAI, retrieval.SourceMemory},
		{retrieval.SourceOpenAI, retrieval.SourceNeon, retrieval.SourceMemory, "extra"},
	}

	for _, intent := range classifier.Intents {
		for _, level := range levels {
			for _, sources := range sourceSets {
				got := Select("some query", classification(intent, level, classifier.Factors{}), sources)

				if got.Agent == "" {
					t.Fatalf("%s/%s: no agent selected", intent, level)
				}
				if got.Fallback == got.Agent {
					t.Errorf("%s/%s: fallback equals selected agent", intent, level)
				}
				if got.Fallback == "" {
					t.Errorf("%s/%s: no fallback assigned", intent, level)
				}
				if len(got.SuggestedSources) == 0 {
					t.Errorf("%s/%s: suggested sources empty", intent, level)
				}
				if got.Confidence < 0.7 || got.Confidence > 1.0 {
					t.Errorf("%s/%s: confidence %f outside [0.7, 1.0]", intent, level, got.Confidence)
				}
				if got.Reasoning == "" {
					t.Errorf("%s/%s: reasoning empty", intent, level)
				}
			}
		}
	}
}

func TestSelectConfidenceBoosts(t *testing.T) {
	simple := classification(classifier.IntentQuestionAnswering, classifier.LevelSimple, classifier.Factors{})

	// Base + simple-QA boost, no domain keyword.
	plain := Select("tell me about gearboxes", simple, retrieval.DefaultSources)
	if math.Abs(plain.Confidence-0.8) > 1e-9 {
		t.Errorf("plain confidence = %f, want 0.8", plain.Confidence)
	}

	// Domain keyword adds another boost.
	keyword := Select("what is a gearbox", simple, retrieval.DefaultSources)
	if math.Abs(keyword.Confidence-1.0) > 1e-9 {
		t.Errorf("keyword confidence = %f, want 1.0", keyword.Confidence)
	}

	// Rewrite with keyword but no simple-QA boost.
	rewrite := Select("please rewrite this paragraph",
		classification(classifier.IntentRewriting, classifier.LevelSimple, classifier.Factors{}),
		retrieval.DefaultSources)
	if math.Abs(rewrite.Confidence-0.9) > 1e-9 {
		t.Errorf("rewrite confidence = %f, want 0.9", rewrite.Confidence)
	}
}

func TestSuggestSources(t *testing.T) {
	available := []string{retrieval.SourceNeon, retrieval.SourceOpenAI, retrieval.SourceMemory, "extra"}

	tests := []struct {
		name       string
		classified classifier.Classification
		want       []string
	}{
		{
			name:       "research gets up to three",
			classified: classification(classifier.IntentResearch, classifier.LevelModerate, classifier.Factors{}),
			want:       []string{retrieval.SourceNeon, retrieval.SourceOpenAI, retrieval.SourceMemory},
		},
		{
			name:       "qa prefers the primary source alone",
			classified: classification(classifier.IntentQuestionAnswering, classifier.LevelSimple, classifier.Factors{}),
			want:       []string{retrieval.SourceOpenAI},
		},
		{
			name:       "others get up to two",
			classified: classification(classifier.IntentPlanning, classifier.LevelSimple, classifier.Factors{}),
			want:       []string{retrieval.SourceNeon, retrieval.SourceOpenAI},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select("query", tt.classified, available)
			if diff := cmp.Diff(tt.want, got.SuggestedSources); diff != "" {
				t.Errorf("suggested sources mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	c := classification(classifier.IntentResearch, classifier.LevelComplex, classifier.Factors{NeedsSynthesis: true})

	first := Select("investigate rail tolerances", c, retrieval.DefaultSources)
	second := Select("investigate rail tolerances", c, retrieval.DefaultSources)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("identical inputs produced different decisions:\n%s", diff)
	}
}
