package neurocache

import (
	"errors"
	"fmt"

	"github.com/hemansnation/NeuroCache/internal/storage"
)

var (
	// ErrStorage marks any failure of the underlying storage engine.
	ErrStorage = errors.New("neurocache: storage fault")

	// ErrSerialization marks metadata that could not be encoded as JSON.
	// It also matches ErrStorage.
	ErrSerialization = fmt.Errorf("%w: metadata not serializable", ErrStorage)

	// ErrClosed is returned by every operation on a closed Memory.
	// It also matches ErrStorage.
	ErrClosed = fmt.Errorf("%w: memory is closed", ErrStorage)

	// ErrEmptyKey is returned by Remember when key is "".
	ErrEmptyKey = errors.New("neurocache: empty key")
)

// classify wraps a storage-layer error in the matching sentinel.
func classify(err error) error {
	if errors.Is(err, storage.ErrSerialization) {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
