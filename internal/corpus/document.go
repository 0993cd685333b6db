// Package corpus loads NXOpen example scripts and builds a similarity
// index over them for request-to-example matching.
package corpus

// Document is one indexed example: a unique name and its full source text.
// Documents are immutable once loaded.
type Document struct {
	Name string
	Text string
}

// Corpus is an ordered collection of Documents plus the similarity index
// built over them. Build once per corpus load; read-only afterwards.
// Ordering matters only as a tie-break during matching.
type Corpus struct {
	Docs  []Document
	Index *Index
}

// New builds a Corpus (including its index) from an ordered document list.
// An empty document list yields a usable corpus whose index returns no hits.
func New(docs []Document) *Corpus {
	return &Corpus{
		Docs:  docs,
		Index: BuildIndex(docs),
	}
}

// Len returns the number of documents.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Docs)
}

// Names returns document names in corpus order.
func (c *Corpus) Names() []string {
	names := make([]string, len(c.Docs))
	for i, d := range c.Docs {
		names[i] = d.Name
	}
	return names
}
