package classifier

import "strings"

// Intent is the closed enumeration of task categories a query can map to.
type Intent string

const (
	IntentQuestionAnswering Intent = "question_answering"
	IntentSummarization     Intent = "summarization"
	IntentRewriting         Intent = "rewriting"
	IntentPlanning          Intent = "planning"
	IntentResearch          Intent = "research"
	IntentComparison        Intent = "comparison"
	IntentAnalysis          Intent = "analysis"
	IntentGeneralChat       Intent = "general_chat"
)

// Intents lists every valid intent.
var Intents = []Intent{
	IntentQuestionAnswering,
	IntentSummarization,
	IntentRewriting,
	IntentPlanning,
	IntentResearch,
	IntentComparison,
	IntentAnalysis,
	IntentGeneralChat,
}

// ParseIntent maps a string to a known intent, reporting whether it matched.
func ParseIntent(value string) (Intent, bool) {
	candidate := Intent(strings.ToLower(strings.TrimSpace(value)))
	for _, intent := range Intents {
		if candidate == intent {
			return intent, true
		}
	}
	return IntentQuestionAnswering, false
}

// intentKeyword maps a label substring to an intent. Evaluated in order so
// more specific fragments win over generic ones.
type intentKeyword struct {
	fragment string
	intent   Intent
}

// intentKeywords normalizes raw classifier labels. Matching is
// case-insensitive substring containment.
var intentKeywords = []intentKeyword{
	{"summar", IntentSummarization},
	{"rewrit", IntentRewriting},
	{"rephras", IntentRewriting},
	{"plan", IntentPlanning},
	{"research", IntentResearch},
	{"investigat", IntentResearch},
	{"compar", IntentComparison},
	{"analy", IntentAnalysis},
	{"question", IntentQuestionAnswering},
	{"factual", IntentQuestionAnswering},
	{"chat", IntentGeneralChat},
	{"convers", IntentGeneralChat},
}

// NormalizeIntent maps a raw completion label to an intent. Unmatched labels
// fall back to question answering so routing always proceeds.
func NormalizeIntent(label string) Intent {
	lowered := strings.ToLower(label)
	for _, kw := range intentKeywords {
		if strings.Contains(lowered, kw.fragment) {
			return kw.intent
		}
	}
	return IntentQuestionAnswering
}
