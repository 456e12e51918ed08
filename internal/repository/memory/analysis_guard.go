package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// AnalysisGuard tracks documents with an analysis currently in flight so the
// worker can drop duplicate jobs (e.g. a re-analysis requested while the
// first pass is still running). Entries expire on their own in case a worker
// dies without releasing.
type AnalysisGuard struct {
	cache *cache.Cache
}

func NewAnalysisGuard() *AnalysisGuard {
	// Default expiration bounds a stuck analysis; purge sweeps expired
	// entries every few minutes.
	c := cache.New(10*time.Minute, 2*time.Minute)
	return &AnalysisGuard{
		cache: c,
	}
}

// TryAcquire marks the document as in-analysis. Returns false if a run is
// already in flight.
func (g *AnalysisGuard) TryAcquire(documentId uuid.UUID) bool {
	err := g.cache.Add(documentId.String(), struct{}{}, cache.DefaultExpiration)
	return err == nil
}

func (g *AnalysisGuard) Release(documentId uuid.UUID) {
	g.cache.Delete(documentId.String())
}
