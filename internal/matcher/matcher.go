// Package matcher resolves a free-text user request to the best-matching
// corpus example, with a confidence score and the strategy that produced it.
package matcher

import (
	"log/slog"
	"strings"

	"github.com/msmohankumar/nx-codebot/internal/corpus"
	"github.com/msmohankumar/nx-codebot/internal/intent"
)

// Strategy identifies which matching strategy produced a result.
type Strategy string

const (
	StrategyExactName                        Strategy = "exact_name"
	StrategyKeyword                          Strategy = "keyword"
	StrategyVectorSimilarity                 Strategy = "vector_similarity"
	StrategyVectorSimilarityWithKeywordBoost Strategy = "vector_similarity_keyword_boost"
)

// Matching constants. Confidence values are fixed per strategy, not derived
// from any formula.
const (
	ExactNameConfidence = 0.95
	KeywordConfidence   = 0.85
	RescueConfidence    = 0.75
	KeywordBoost        = 0.30
	BoostCap            = 0.95
	RescueThreshold     = 0.5

	// shortQueryWords is the word count below which a query is expanded with
	// domain boilerplate before vectorizing. Very short queries produce
	// unstable similarity scores.
	shortQueryWords = 5
)

// shortQueryPadding is appended to short queries before vector search.
const shortQueryPadding = "NXOpen CAD feature modeling operation part geometry"

// Result is the outcome of one match query. Document is nil when no strategy
// produced a match (empty corpus or no signal). Confidence is in [0,1] and is
// a user-facing signal, never a hard gate.
type Result struct {
	Document   *corpus.Document
	Confidence float64
	Strategy   Strategy
}

// Matched reports whether a document was found.
func (r Result) Matched() bool {
	return r.Document != nil
}

// Match resolves request against the corpus using four strategies in strict
// priority order; the first strategy that produces a result wins:
//
//  1. exact name: the request mentions a document's full filename, or the
//     whole request is contained in a stripped name; fixed confidence 0.95
//  2. keyword: the extracted keyword is a substring of a document name;
//     fixed confidence 0.85
//  3. vector similarity: top cosine hit, boosted by +0.30 (capped at 0.95)
//     when the keyword occurs in the winning document's text
//  4. rescue: a weak vector score (< 0.5) falls back to a linear keyword scan
//     over names and texts; fixed confidence 0.75
//
// An empty corpus always yields an unmatched Result, never an error.
func Match(c *corpus.Corpus, request string) Result {
	if c.Len() == 0 {
		return Result{}
	}

	if r, ok := matchExactName(c, request); ok {
		return r
	}

	keyword := intent.ExtractKeyword(request)
	if r, ok := matchKeyword(c, keyword); ok {
		return r
	}

	r, ok := matchVector(c, request, keyword)
	if !ok {
		// No vector signal at all; the rescue scan is the last resort.
		if rescued, found := rescueScan(c, keyword, r); found {
			return rescued
		}
		return Result{}
	}
	if r.Confidence < RescueThreshold && keyword != "" {
		if rescued, found := rescueScan(c, keyword, r); found {
			return rescued
		}
	}
	return r
}

// matchExactName fires when the request mentions a document by name: either
// the full filename occurs in the request ("run block.py") or the whole
// request occurs inside the stripped name ("block"). Looser mentions of the
// stripped name inside a longer sentence are left to the keyword strategy.
// First match in corpus order wins.
func matchExactName(c *corpus.Corpus, request string) (Result, bool) {
	lowerReq := strings.TrimSpace(strings.ToLower(request))
	if lowerReq == "" {
		return Result{}, false
	}
	for i := range c.Docs {
		fullName := strings.ToLower(c.Docs[i].Name)
		stripped := strippedName(c.Docs[i].Name)
		if stripped == "" {
			continue
		}
		if strings.Contains(lowerReq, fullName) || strings.Contains(stripped, lowerReq) {
			return Result{
				Document:   &c.Docs[i],
				Confidence: ExactNameConfidence,
				Strategy:   StrategyExactName,
			}, true
		}
	}
	return Result{}, false
}

// matchKeyword fires when the request keyword is a substring of a document
// name. First match in corpus order wins.
func matchKeyword(c *corpus.Corpus, keyword string) (Result, bool) {
	if keyword == "" {
		return Result{}, false
	}
	for i := range c.Docs {
		if strings.Contains(strings.ToLower(c.Docs[i].Name), keyword) {
			return Result{
				Document:   &c.Docs[i],
				Confidence: KeywordConfidence,
				Strategy:   StrategyKeyword,
			}, true
		}
	}
	return Result{}, false
}

// matchVector queries the similarity index with the (possibly expanded)
// request and blends the raw cosine score with a keyword boost.
func matchVector(c *corpus.Corpus, request, keyword string) (Result, bool) {
	query := request
	if len(strings.Fields(request)) < shortQueryWords {
		query = request + " " + shortQueryPadding
	}

	hits := c.Index.Query(query)
	if len(hits) == 0 {
		return Result{}, false
	}

	top := hits[0]
	doc := &c.Docs[top.Doc]
	confidence := top.Score
	strategy := StrategyVectorSimilarity

	if keyword != "" && strings.Contains(strings.ToLower(doc.Text), keyword) {
		confidence = min(BoostCap, confidence+KeywordBoost)
		strategy = StrategyVectorSimilarityWithKeywordBoost
	}

	slog.Debug("vector match",
		"document", doc.Name,
		"raw_score", top.Score,
		"confidence", confidence,
		"strategy", strategy,
	)

	return Result{Document: doc, Confidence: confidence, Strategy: strategy}, true
}

// rescueScan linear-scans for the keyword in document names and texts. A
// keyword hit is more trustworthy than a weak vector score, so it overrides
// the vector result with fixed confidence 0.75. When the keyword appears
// nowhere, the vector result (however weak) stands.
func rescueScan(c *corpus.Corpus, keyword string, vectorResult Result) (Result, bool) {
	if keyword == "" {
		return vectorResult, vectorResult.Matched()
	}
	for i := range c.Docs {
		if strings.Contains(strings.ToLower(c.Docs[i].Name), keyword) ||
			strings.Contains(strings.ToLower(c.Docs[i].Text), keyword) {
			return Result{
				Document:   &c.Docs[i],
				Confidence: RescueConfidence,
				Strategy:   StrategyKeyword,
			}, true
		}
	}
	return vectorResult, vectorResult.Matched()
}

// strippedName lowercases a document name and removes its extension.
func strippedName(name string) string {
	lower := strings.ToLower(name)
	if idx := strings.LastIndex(lower, "."); idx > 0 {
		lower = lower[:idx]
	}
	return lower
}
