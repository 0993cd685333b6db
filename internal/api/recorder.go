package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/msmohankumar/nx-codebot/internal/pipeline"
	"github.com/msmohankumar/nx-codebot/internal/storage"
)

// generationRecorder persists pipeline results to storage. Failed runs are
// recorded too, with their status and error text.
type generationRecorder struct {
	store *storage.Store
}

// NewRecorder wraps store as a pipeline recorder.
func NewRecorder(store *storage.Store) pipeline.Recorder {
	return &generationRecorder{store: store}
}

func (r *generationRecorder) RecordGeneration(res pipeline.Result) error {
	g := storage.Generation{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
		Request:     res.Request,
		Prompt:      res.Prompt,
		RawResponse: res.RawResponse,
		Code:        res.Code,
		Score:       res.Quality.Score,
		Status:      string(res.Status),
		DurationMs:  res.Duration.Milliseconds(),
	}
	if res.Match.Matched() {
		g.MatchedExample = res.Match.Document.Name
		g.Strategy = string(res.Match.Strategy)
		g.Confidence = res.Match.Confidence
	}
	if res.Err != nil {
		g.ErrorText = res.Err.Error()
	}
	return r.store.InsertGeneration(g)
}
