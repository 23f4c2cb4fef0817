// Package datasource defines where converter input bytes come from.
package datasource

import (
	"context"
	"io"
)

// Source opens the raw input stream. Callers close the returned reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
