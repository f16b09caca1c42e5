package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/binvault/internal/domain/model"
	"github.com/ericfisherdev/binvault/internal/domain/port/driven"
	"github.com/ericfisherdev/binvault/internal/metrics"
)

// BinService is the uniform list/create interface over whichever store the
// StoreProvider selects. It depends only on port interfaces.
type BinService struct {
	stores  *StoreProvider
	ids     *IDGenerator
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewBinService creates a BinService. m may be nil to disable metrics.
func NewBinService(stores *StoreProvider, ids *IDGenerator, m *metrics.Metrics, logger *slog.Logger) *BinService {
	if ids == nil {
		ids = NewIDGenerator(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BinService{
		stores:  stores,
		ids:     ids,
		now:     time.Now,
		metrics: m,
		logger:  logger,
	}
}

// Backend names the store that will serve the next operation.
func (s *BinService) Backend() string {
	return s.stores.Backend()
}

// RemoteConfigured reports whether a remote store is currently configured.
func (s *BinService) RemoteConfigured() bool {
	return s.stores.HasRemote()
}

// ListBins returns every stored bin in insertion order. An absent collection
// is an empty slice, never an error.
func (s *BinService) ListBins(ctx context.Context) ([]model.Bin, error) {
	store := s.stores.Current()
	start := time.Now()

	bins, err := store.List(ctx)
	s.observe(store.Name(), metrics.OperationList, start, err)
	if err != nil {
		return nil, fmt.Errorf("listing bins from %s store: %w", store.Name(), err)
	}
	if bins == nil {
		bins = []model.Bin{}
	}

	return bins, nil
}

// CreateBin validates input, assigns an ID and creation time, and appends the
// bin to the current store. Validation failures return before any storage
// access and match model.ErrInvalidBin.
func (s *BinService) CreateBin(ctx context.Context, input model.NewBin) (model.Bin, error) {
	store := s.stores.Current()

	if err := input.Validate(); err != nil {
		s.count(store.Name(), metrics.OperationCreate, metrics.OutcomeInvalid)
		return model.Bin{}, err
	}

	bin := input.Build(s.ids.Next(), s.now())
	start := time.Now()

	err := store.Append(ctx, bin)
	s.observe(store.Name(), metrics.OperationCreate, start, err)
	if err != nil {
		if errors.Is(err, driven.ErrConflict) {
			// The bin is lost; the caller is expected to resubmit.
			s.logger.Warn("bin create lost to concurrent write", "backend", store.Name(), "id", bin.ID, "error", err)
		}
		return model.Bin{}, fmt.Errorf("storing bin in %s store: %w", store.Name(), err)
	}

	s.logger.Info("bin created", "backend", store.Name(), "id", bin.ID)

	return bin, nil
}

// GetBin returns the bin with the given ID, or (nil, nil) if none exists.
func (s *BinService) GetBin(ctx context.Context, id string) (*model.Bin, error) {
	store := s.stores.Current()
	start := time.Now()

	bins, err := store.List(ctx)
	s.observe(store.Name(), metrics.OperationGet, start, err)
	if err != nil {
		return nil, fmt.Errorf("looking up bin %s in %s store: %w", id, store.Name(), err)
	}

	for i := range bins {
		if bins[i].ID == id {
			return &bins[i], nil
		}
	}

	return nil, nil
}

func (s *BinService) observe(backend, operation string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.StoreDuration.WithLabelValues(backend, operation).Observe(time.Since(start).Seconds())
	s.count(backend, operation, outcomeOf(err))
}

func (s *BinService) count(backend, operation, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.StoreOperations.WithLabelValues(backend, operation, outcome).Inc()
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, driven.ErrConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, driven.ErrCorruptStore):
		return metrics.OutcomeCorrupt
	default:
		return metrics.OutcomeError
	}
}
