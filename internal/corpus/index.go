package corpus

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

const (
	// maxPhraseLen is the longest multi-word phrase indexed as a single term.
	maxPhraseLen = 3

	// maxDocFreqRatio drops terms appearing in more than this fraction of
	// documents. Terms that occur everywhere carry no ranking signal.
	maxDocFreqRatio = 0.95
)

// stopWords is the standard English stop-word set applied before phrase
// construction.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "have": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"this": {}, "to": {}, "was": {}, "were": {}, "will": {}, "with": {},
	"i": {}, "me": {}, "my": {}, "we": {}, "you": {}, "your": {}, "do": {},
	"does": {}, "not": {}, "no": {}, "so": {}, "if": {}, "then": {},
	"please": {}, "can": {}, "could": {}, "would": {}, "should": {},
	"want": {}, "need": {}, "make": {}, "using": {}, "use": {},
}

// Index is a TF-IDF similarity index over a fixed document list.
// vectors[i] corresponds to Corpus.Docs[i]. Rebuilding from the same
// document list produces an identical index.
type Index struct {
	termIDs map[string]int
	idf     []float64
	vectors []sparseVec
}

// sparseVec is an L2-normalised sparse term-weight vector.
type sparseVec map[int]float64

// Hit is one ranked query result: a document position and its cosine score.
type Hit struct {
	Doc   int
	Score float64
}

// BuildIndex constructs term statistics and one weighted vector per document.
// For an empty document list it returns an empty index whose Query always
// reports no hits.
func BuildIndex(docs []Document) *Index {
	ix := &Index{termIDs: make(map[string]int)}
	if len(docs) == 0 {
		return ix
	}

	// Document frequency over all candidate terms.
	docTerms := make([]map[string]int, len(docs))
	docFreq := make(map[string]int)
	for i, d := range docs {
		counts := termCounts(d.Name + " " + d.Text)
		docTerms[i] = counts
		for term := range counts {
			docFreq[term]++
		}
	}

	// Vocabulary: keep terms with df >= 1 and df <= 95% of documents.
	// The lower bound on the cutoff keeps single-document corpora indexable.
	maxDF := int(maxDocFreqRatio * float64(len(docs)))
	if maxDF < 1 {
		maxDF = 1
	}
	terms := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df > maxDF {
			continue
		}
		terms = append(terms, term)
	}
	sort.Strings(terms) // stable term IDs for reproducible builds

	ix.idf = make([]float64, len(terms))
	for id, term := range terms {
		ix.termIDs[term] = id
		// Smoothed IDF; never zero, so in-vocabulary terms always contribute.
		ix.idf[id] = math.Log(float64(1+len(docs))/float64(1+docFreq[term])) + 1
	}

	ix.vectors = make([]sparseVec, len(docs))
	for i := range docs {
		ix.vectors[i] = ix.vectorize(docTerms[i])
	}
	return ix
}

// Query transforms text into the index vector space and returns cosine
// similarity against every document vector, highest score first. Terms not in
// the vocabulary are ignored. Results are deterministic for fixed inputs:
// equal scores are broken by ascending document position.
func (ix *Index) Query(text string) []Hit {
	if len(ix.vectors) == 0 {
		return nil
	}
	qv := ix.vectorize(termCounts(text))
	if len(qv) == 0 {
		return nil
	}

	hits := make([]Hit, len(ix.vectors))
	for i, dv := range ix.vectors {
		hits[i] = Hit{Doc: i, Score: dot(qv, dv)}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].Doc < hits[b].Doc
	})
	return hits
}

// vectorize builds an L2-normalised TF-IDF vector from raw term counts.
func (ix *Index) vectorize(counts map[string]int) sparseVec {
	v := make(sparseVec)
	for term, tf := range counts {
		id, ok := ix.termIDs[term]
		if !ok {
			continue
		}
		v[id] = float64(tf) * ix.idf[id]
	}

	var sum float64
	for _, w := range v {
		sum += w * w
	}
	if sum == 0 {
		return nil
	}
	norm := math.Sqrt(sum)
	for id, w := range v {
		v[id] = w / norm
	}
	return v
}

func dot(a, b sparseVec) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for id, w := range a {
		sum += w * b[id]
	}
	return sum
}

// termCounts tokenizes text and counts every phrase of 1 to maxPhraseLen
// consecutive non-stop-word tokens.
func termCounts(text string) map[string]int {
	tokens := tokenize(text)
	counts := make(map[string]int, len(tokens))
	for i := range tokens {
		for n := 1; n <= maxPhraseLen && i+n <= len(tokens); n++ {
			counts[strings.Join(tokens[i:i+n], " ")]++
		}
	}
	return counts
}

// tokenize lowercases text, splits on non-alphanumeric runes, and removes
// stop words.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
