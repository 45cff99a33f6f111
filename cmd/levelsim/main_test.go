package main

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/scrollbrawl/config"
)

func TestRunCompletesWithQuickKills(t *testing.T) {
	res, err := run(config.Defaults(), zap.NewNop(), "forest_1", 500*time.Millisecond, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if !res.completed {
		t.Fatalf("expected forest_1 to complete: %+v", res)
	}
	if res.defeated != 6 {
		t.Fatalf("expected 6 defeated, got %d", res.defeated)
	}
	if res.damage != 0 {
		t.Fatalf("no enemy should reach the player, took %.1f damage", res.damage)
	}
}

func TestRunUnknownLevel(t *testing.T) {
	if _, err := run(config.Defaults(), zap.NewNop(), "no_such_level", time.Second, time.Second); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}
