package output

import (
	"context"

	"github.com/crimson-sun/sentiment/internal/model"
)

// Output defines the interface for classified record destinations.
type Output interface {
	Write(ctx context.Context, rec model.Record) error
	Close() error
}
