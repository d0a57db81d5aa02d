package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/deploydeck/deploydeck-backend/internal/logger"
)

// CacheLayer is one independently clearable cache backend.
type CacheLayer interface {
	Name() string
	Clear(ctx context.Context) error
}

type cacheLayerFunc struct {
	name  string
	clear func(ctx context.Context) error
}

func (l cacheLayerFunc) Name() string                    { return l.name }
func (l cacheLayerFunc) Clear(ctx context.Context) error { return l.clear(ctx) }

// NewCacheLayer wraps a clear function as a named layer.
func NewCacheLayer(name string, clear func(ctx context.Context) error) CacheLayer {
	return cacheLayerFunc{name: name, clear: clear}
}

// ClearResult lists which layers cleared and which failed. Every attempted
// layer lands in exactly one of the two lists.
type ClearResult struct {
	Cleared []string `json:"cleared"`
	Failed  []string `json:"failed"`
}

// ClearOutcome is the three-way classification presentation layers use.
type ClearOutcome string

const (
	ClearOutcomeSuccess ClearOutcome = "success"
	ClearOutcomeWarning ClearOutcome = "warning"
	ClearOutcomeError   ClearOutcome = "error"
)

// ClassifyClearOutcome folds the result and the call-level error into one of
// three presentation states: error when the call itself failed, warning when
// some layers failed, success otherwise.
func ClassifyClearOutcome(result ClearResult, err error) ClearOutcome {
	if err != nil {
		return ClearOutcomeError
	}
	if len(result.Failed) > 0 {
		return ClearOutcomeWarning
	}
	return ClearOutcomeSuccess
}

type CacheService struct {
	layers []CacheLayer
}

func NewCacheService(layers ...CacheLayer) *CacheService {
	return &CacheService{layers: layers}
}

// ClearAllCachesComplete clears every registered layer independently; one
// layer's failure never stops the remaining layers. It returns an error only
// when clearing could not be attempted at all.
func (s *CacheService) ClearAllCachesComplete(ctx context.Context) (ClearResult, error) {
	result := ClearResult{Cleared: []string{}, Failed: []string{}}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	for _, layer := range s.layers {
		if err := s.clearLayer(ctx, layer); err != nil {
			logger.Error("cache layer clear failed",
				zap.String("layer", layer.Name()),
				zap.Error(err))
			result.Failed = append(result.Failed, layer.Name())
			continue
		}
		result.Cleared = append(result.Cleared, layer.Name())
	}
	return result, nil
}

// clearLayer normalizes a panicking layer into an ordinary failure entry.
func (s *CacheService) clearLayer(ctx context.Context, layer CacheLayer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cache layer panic: %v", r)
		}
	}()
	return layer.Clear(ctx)
}
