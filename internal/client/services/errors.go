package services

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoMoreAnimals means the remote list has no further pages. It is a
	// terminal condition, not a failure.
	ErrNoMoreAnimals = errors.New("no more animals")

	// ErrCancelled is returned by work that a newer request superseded.
	ErrCancelled = fmt.Errorf("superseded: %w", context.Canceled)
)

// ExhaustedError reports which page came back empty.
type ExhaustedError struct {
	Page int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, ErrNoMoreAnimals)
}

func (e *ExhaustedError) Is(target error) bool { return target == ErrNoMoreAnimals }

// FirstPage reports whether the very first page was empty, i.e. the list
// has no animals at all rather than having run out.
func (e *ExhaustedError) FirstPage() bool { return e.Page <= 1 }

// superseded maps an error seen under ctx to ErrCancelled when ctx was
// cancelled by a newer request.
func superseded(ctx context.Context, err error) error {
	if errors.Is(context.Cause(ctx), ErrCancelled) {
		return ErrCancelled
	}
	return err
}
