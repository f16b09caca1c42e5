package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/binvault/internal/domain/model"
)

// Sentinel errors returned by BinStore implementations.
var (
	// ErrConflict indicates the store rejected a write because the data
	// changed since it was read (stale revision or duplicate ID).
	ErrConflict = errors.New("bin store conflict")

	// ErrCorruptStore indicates the persisted collection could not be parsed.
	ErrCorruptStore = errors.New("bin store is corrupt")
)

// BinStore defines the driven port for bin persistence.
// List returns an empty slice, not an error, when nothing has been stored yet.
// Append persists one new bin at the end of the collection.
type BinStore interface {
	Name() string
	List(ctx context.Context) ([]model.Bin, error)
	Append(ctx context.Context, bin model.Bin) error
}
