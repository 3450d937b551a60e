package syncing

import (
	"context"
	"io"
	"time"

	"github.com/cheggaaa/pb/v3"
)

func newBar(total int, show bool) *pb.ProgressBar {
	bar := pb.New(total)
	if !show {
		bar.SetWriter(io.Discard)
		return bar
	}
	return bar.Start()
}

// pause waits d unless ctx ends first.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
