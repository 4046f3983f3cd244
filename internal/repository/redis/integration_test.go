//go:build integration

package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cepsu/cFork-OPR/internal/testutil"
)

var testRDB *goredis.Client

func setup(t *testing.T) *Client {
	t.Helper()
	if testRDB == nil {
		testRDB = testutil.SetupRedis(t)
	}
	testutil.CleanupRedis(t, testRDB)
	return &Client{rdb: testRDB}
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	battleID := "test-battle-1"

	snap := json.RawMessage(`{"round":2,"activeSide":"Red","clusters":[{"id":1,"models":4}]}`)

	if err := c.PublishSnapshot(ctx, battleID, snap); err != nil {
		t.Fatalf("publish snapshot: %v", err)
	}

	got, err := c.LatestSnapshot(ctx, battleID)
	if err != nil {
		t.Fatalf("latest snapshot: %v", err)
	}
	if got == nil {
		t.Fatal("expected non-nil snapshot")
	}

	var fetched map[string]any
	json.Unmarshal(got, &fetched)
	if fetched["round"].(float64) != 2 {
		t.Fatalf("snapshot round-trip failed: %s", string(got))
	}
}

func TestSnapshotMissing(t *testing.T) {
	c := setup(t)
	ctx := context.Background()

	got, err := c.LatestSnapshot(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("latest missing snapshot: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for missing snapshot")
	}
}

func TestSnapshotOverwrite(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	battleID := "test-battle-2"

	c.PublishSnapshot(ctx, battleID, json.RawMessage(`{"round":1}`))
	c.PublishSnapshot(ctx, battleID, json.RawMessage(`{"round":2}`))

	got, err := c.LatestSnapshot(ctx, battleID)
	if err != nil {
		t.Fatalf("latest snapshot: %v", err)
	}

	var fetched map[string]any
	json.Unmarshal(got, &fetched)
	if fetched["round"].(float64) != 2 {
		t.Fatalf("expected latest snapshot to win, got %s", string(got))
	}
}

func TestSnapshotDelete(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	battleID := "test-battle-3"

	c.PublishSnapshot(ctx, battleID, json.RawMessage(`{"round":4}`))

	if err := c.DeleteSnapshot(ctx, battleID); err != nil {
		t.Fatalf("delete snapshot: %v", err)
	}

	got, err := c.LatestSnapshot(ctx, battleID)
	if err != nil {
		t.Fatalf("latest after delete: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil after delete")
	}
}

func TestFeedDelivery(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	battleID := "test-battle-4"

	sub := testRDB.Subscribe(ctx, feedChannel(battleID))
	defer sub.Close()

	// Wait for the subscription to be live before publishing.
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	snap := json.RawMessage(`{"round":3,"activeSide":"Blue"}`)
	if err := c.PublishSnapshot(ctx, battleID, snap); err != nil {
		t.Fatalf("publish snapshot: %v", err)
	}

	recvCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(recvCtx)
	if err != nil {
		t.Fatalf("receive feed message: %v", err)
	}
	if msg.Payload != string(snap) {
		t.Fatalf("expected %s on feed, got %s", snap, msg.Payload)
	}
}
