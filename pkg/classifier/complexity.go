package classifier

import (
	"regexp"
	"strings"
)

// Level buckets a complexity score.
type Level string

const (
	LevelSimple   Level = "simple"
	LevelModerate Level = "moderate"
	LevelComplex  Level = "complex"
)

// Level boundaries.
const (
	simpleThreshold   = 0.3
	moderateThreshold = 0.6
)

// Factors records the signals that contributed to a complexity score.
type Factors struct {
	WordCount             int  `json:"word_count"`
	QuestionCount         int  `json:"question_count"`
	TechnicalTerms        int  `json:"technical_terms"`
	RequiresMultipleSteps bool `json:"requires_multiple_steps"`
	NeedsExternalData     bool `json:"needs_external_data"`
	NeedsSynthesis        bool `json:"needs_synthesis"`
}

// Complexity is the heuristic difficulty assessment of a query.
type Complexity struct {
	Level   Level   `json:"level"`
	Score   float64 `json:"score"`
	Factors Factors `json:"factors"`
}

// Technical-term pattern families. Kept as separate package-level tables so
// each family is independently testable.
var (
	// protocolTermPattern matches protocol and format acronyms.
	protocolTermPattern = regexp.MustCompile(`(?i)\b(https?|ftp|smtp|tcp|udp|dns|ssl|tls|ssh|json|xml|yaml|csv|sql|api|rest|grpc|graphql|html|css|oauth|jwt)\b`)

	// domainTermPattern matches general technical domain nouns.
	domainTermPattern = regexp.MustCompile(`(?i)\b(algorithm|database|framework|architecture|infrastructure|deployment|encryption|authentication|compiler|concurrency|microservice|container|kubernetes|pipeline|embedding|calibration|firmware|protocol|runtime|middleware)s?\b`)

	// acronymPattern matches bare multi-letter acronyms (CPU, RAG, PLC).
	acronymPattern = regexp.MustCompile(`\b[A-Z]{2,6}\b`)
)

// Multi-step signal patterns: sequencing words, numbered lists, how-to phrasing.
var (
	sequencingPattern   = regexp.MustCompile(`(?i)\b(first|then|next|finally|afterwards?|subsequently|step[- ]by[- ]step|followed by)\b`)
	numberedListPattern = regexp.MustCompile(`(?m)^\s*\d+[.)]\s`)
	howToPattern        = regexp.MustCompile(`(?i)\bhow (to|do|can|should)\b`)
)

// External-data signal patterns: recency, price/statistics, comparison words.
var (
	recencyPattern    = regexp.MustCompile(`(?i)\b(latest|current|recent|today|now|this (year|month|week)|up[- ]to[- ]date|news)\b`)
	statisticsPattern = regexp.MustCompile(`(?i)\b(price|cost|market|statistics?|figures?|trends?|percentage|rate)\b`)
	comparisonPattern = regexp.MustCompile(`(?i)\b(compare[ds]?|comparison|versus|vs\.?|difference between|better than)\b`)
)

// Synthesis signal patterns: evaluation, pros/cons, relationships, depth.
var (
	evaluationPattern   = regexp.MustCompile(`(?i)\b(analy[sz]e|analysis|evaluate|evaluation|assess|critique|review)\b`)
	prosConsPattern     = regexp.MustCompile(`(?i)\b(pros and cons|advantages and disadvantages|trade[- ]?offs?|strengths and weaknesses)\b`)
	relationshipPattern = regexp.MustCompile(`(?i)\b(relationship|correlat(e|ion)|impact of|effect of|influence of)\b`)
	depthPattern        = regexp.MustCompile(`(?i)\b(comprehensive|in[- ]depth|thorough|holistic|synthesi[sz]e)\b`)
)

// Score weights. Each contribution is capped before summation.
const (
	wordWeight        = 0.3 // words/50, capped
	questionWeight    = 0.2 // 0.1 per question, capped
	technicalWeight   = 0.2 // 0.05 per term, capped
	multiStepBonus    = 0.15
	externalDataBonus = 0.10
	synthesisBonus    = 0.15
)

// AnalyzeComplexity computes the heuristic complexity of a query. It is a
// pure function of the query text: no external calls, no caching.
func AnalyzeComplexity(query string) Complexity {
	factors := Factors{
		WordCount:             len(strings.Fields(query)),
		QuestionCount:         strings.Count(query, "?"),
		TechnicalTerms:        countTechnicalTerms(query),
		RequiresMultipleSteps: sequencingPattern.MatchString(query) || numberedListPattern.MatchString(query) || howToPattern.MatchString(query),
		NeedsExternalData:     recencyPattern.MatchString(query) || statisticsPattern.MatchString(query) || comparisonPattern.MatchString(query),
		NeedsSynthesis:        evaluationPattern.MatchString(query) || prosConsPattern.MatchString(query) || relationshipPattern.MatchString(query) || depthPattern.MatchString(query),
	}

	score := capped(float64(factors.WordCount)/50, wordWeight)
	score += capped(0.1*float64(factors.QuestionCount), questionWeight)
	score += capped(0.05*float64(factors.TechnicalTerms), technicalWeight)
	if factors.RequiresMultipleSteps {
		score += multiStepBonus
	}
	if factors.NeedsExternalData {
		score += externalDataBonus
	}
	if factors.NeedsSynthesis {
		score += synthesisBonus
	}
	if score > 1.0 {
		score = 1.0
	}

	return Complexity{
		Level:   levelForScore(score),
		Score:   score,
		Factors: factors,
	}
}

func levelForScore(score float64) Level {
	switch {
	case score <= simpleThreshold:
		return LevelSimple
	case score <= moderateThreshold:
		return LevelModerate
	default:
		return LevelComplex
	}
}

func countTechnicalTerms(query string) int {
	count := len(protocolTermPattern.FindAllString(query, -1))
	count += len(domainTermPattern.FindAllString(query, -1))

	// Bare acronyms that the other families already matched are not counted
	// twice; uppercase protocol mentions would otherwise double.
	for _, acronym := range acronymPattern.FindAllString(query, -1) {
		if protocolTermPattern.MatchString(acronym) {
			continue
		}
		count++
	}
	return count
}

func capped(value, max float64) float64 {
	if value > max {
		return max
	}
	return value
}
