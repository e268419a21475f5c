package scan

import (
	"context"
	"fmt"
)

// MaxBatchSize is the largest number of records the store accepts in one
// update request.
const MaxBatchSize = 10

// Chunk splits items into consecutive slices of at most size elements,
// preserving order.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = MaxBatchSize
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}

// ChunkError reports a dispatch that stopped part way. Applied chunks were
// written and are not rolled back.
type ChunkError struct {
	Applied int
	Total   int
	Err     error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("batch %d of %d failed: %v", e.Applied+1, e.Total, e.Err)
}

func (e *ChunkError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// Dispatch sends items in chunks of size, one chunk at a time, stopping at
// the first failure.
func Dispatch[T any](ctx context.Context, items []T, size int, send func(ctx context.Context, index int, chunk []T) error) error {
	chunks := Chunk(items, size)
	for i, c := range chunks {
		if err := ctx.Err(); err != nil {
			return &ChunkError{Applied: i, Total: len(chunks), Err: err}
		}
		if err := send(ctx, i, c); err != nil {
			return &ChunkError{Applied: i, Total: len(chunks), Err: err}
		}
	}
	return nil
}
