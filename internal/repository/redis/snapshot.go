package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/cepsu/cFork-OPR/pkg/grimdark"
)

// Key patterns for live battle feeds.
func snapshotKey(battleID string) string { return "battle:" + battleID + ":snapshot" }
func feedChannel(battleID string) string { return "battle:" + battleID + ":feed" }

// PublishSnapshot stores the latest snapshot and fans it out to feed
// subscribers.
func (c *Client) PublishSnapshot(ctx context.Context, battleID string, snap json.RawMessage) error {
	if err := c.rdb.Set(ctx, snapshotKey(battleID), []byte(snap), 0).Err(); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	if err := c.rdb.Publish(ctx, feedChannel(battleID), []byte(snap)).Err(); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the last stored snapshot, or nil when absent.
func (c *Client) LatestSnapshot(ctx context.Context, battleID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, snapshotKey(battleID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return json.RawMessage(data), nil
}

// DeleteSnapshot removes a finished battle's live data.
func (c *Client) DeleteSnapshot(ctx context.Context, battleID string) error {
	return c.rdb.Del(ctx, snapshotKey(battleID)).Err()
}

// Publisher streams one battle's snapshots into Redis, implementing the
// engine's Renderer. One-way: the engine never reads anything back. Publish
// failures are logged and dropped so the battle never blocks on the feed.
type Publisher struct {
	client   *Client
	battleID string
}

// NewPublisher creates a Renderer that feeds the given battle's channel.
func NewPublisher(client *Client, battleID string) *Publisher {
	return &Publisher{client: client, battleID: battleID}
}

func (p *Publisher) StateChanged(snap *grimdark.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		log.Warn().Err(err).Str("battleId", p.battleID).Msg("Snapshot marshal failed")
		return
	}
	if err := p.client.PublishSnapshot(context.Background(), p.battleID, data); err != nil {
		log.Warn().Err(err).Str("battleId", p.battleID).Msg("Snapshot publish failed")
	}
}
