package video

import (
	"context"
	"fmt"
	"time"

	"videotutor-api/internal/domain/entity"
	"videotutor-api/internal/domain/repository"
)

// StatusEvent is one observation of a video's processing status.
type StatusEvent struct {
	VideoID   string                  `json:"videoId"`
	Status    entity.ProcessingStatus `json:"status"`
	Timestamp time.Time               `json:"timestamp"`
}

// StatusWatcher lets callers follow a video's progress without hammering the
// database themselves. Each Watch call gets its own goroutine and channel, so
// concurrent subscribers to the same video are independent.
type StatusWatcher struct {
	videos   repository.VideoRepository
	interval time.Duration
}

func NewStatusWatcher(videos repository.VideoRepository, interval time.Duration) *StatusWatcher {
	return &StatusWatcher{videos: videos, interval: interval}
}

// Watch emits the current status immediately, then polls at the configured
// interval and emits on every change. The channel closes after a terminal
// status (COMPLETED or FAILED) or when ctx is cancelled.
func (w *StatusWatcher) Watch(ctx context.Context, videoID string) (<-chan StatusEvent, error) {
	video, err := w.videos.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, fmt.Errorf("video %s not found", videoID)
	}

	events := make(chan StatusEvent, 1)
	last := video.Status
	events <- StatusEvent{VideoID: videoID, Status: last, Timestamp: time.Now()}

	go func() {
		defer close(events)
		if last.IsTerminal() {
			return
		}

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				current, err := w.videos.FindByID(ctx, videoID)
				if err != nil || current == nil {
					// transient read failure, keep polling
					continue
				}
				if current.Status != last {
					last = current.Status
					select {
					case events <- StatusEvent{VideoID: videoID, Status: last, Timestamp: time.Now()}:
					case <-ctx.Done():
						return
					}
				}
				if last.IsTerminal() {
					return
				}
			}
		}
	}()

	return events, nil
}
