package events

import (
	"log/slog"
	"time"
)

// DefaultPublishRetries is used by services when publishing after a commit
const DefaultPublishRetries = 3

// PublishWithRetry attempts to publish an event with retry logic.
// It makes up to maxRetries attempts with exponential backoff and returns
// the error from the final attempt if all of them fail.
func PublishWithRetry(client EventPublisher, event Event, maxRetries int) error {
	if client == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	var lastErr error
	baseDelay := 50 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := client.SendEvent(event)
		if err == nil {
			if attempt > 0 {
				slog.Debug("event published after retry",
					"attempt", attempt+1,
					"entity", event.Entity,
					"board_id", event.BoardID)
			}
			return nil
		}

		lastErr = err

		if attempt < maxRetries-1 {
			// 50ms, 100ms, 200ms
			delay := baseDelay * (1 << attempt)
			slog.Debug("event publish failed, retrying",
				"attempt", attempt+1,
				"max_retries", maxRetries,
				"retry_delay", delay,
				"error", err)
			time.Sleep(delay)
		}
	}

	slog.Warn("event publish failed after all retries",
		"attempts", maxRetries,
		"entity", event.Entity,
		"board_id", event.BoardID,
		"error", lastErr)

	return lastErr
}

// PublishChange is the fire-and-forget form used by services after a commit.
// Failures are logged and never returned.
func PublishChange(client EventPublisher, boardID int, entity Entity, entityID string) {
	_ = PublishWithRetry(client, Event{
		Type:     EventBoardChanged,
		BoardID:  boardID,
		Entity:   entity,
		EntityID: entityID,
	}, DefaultPublishRetries)
}
