package notify

import (
	"context"
	"time"

	rediscommon "github.com/astro-cL99/pediatria-sub001/internal/common/redis"

	"github.com/go-redis/redis/v8"
)

// DefaultStream Redis stream receiving handover events
const DefaultStream = "handover:imports"

// StreamNotifier appends events to a Redis stream
type StreamNotifier struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewStreamNotifier(client *redis.Client, stream string) *StreamNotifier {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamNotifier{client: client, stream: stream, maxLen: 10000}
}

var _ Notifier = (*StreamNotifier)(nil)

func (s *StreamNotifier) NotifyImport(ctx context.Context, ev ImportCompleted) error {
	_, err := rediscommon.PublishToStream(ctx, s.client, s.stream, s.maxLen, map[string]interface{}{
		"type":        TypeImportCompleted,
		"import_id":   ev.ImportID,
		"source":      ev.Source,
		"at":          ev.At.UTC().Format(time.RFC3339),
		"success":     ev.Success,
		"failed":      ev.Failed,
		"skipped":     ev.Skipped,
		"errors":      ev.Errors,
		"transitions": ev.Transitions,
	})
	return err
}

func (s *StreamNotifier) NotifyBed(ctx context.Context, tr BedTransition) error {
	_, err := rediscommon.PublishToStream(ctx, s.client, s.stream, s.maxLen, map[string]interface{}{
		"type":       TypeBedTransition,
		"transition": tr,
	})
	return err
}
