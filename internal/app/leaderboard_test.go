package app_test

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"classquiz-service/internal/app"
	"classquiz-service/internal/domain"
)

func TestRankOrderingAndTies(t *testing.T) {
	students := []domain.User{
		{ID: "u3", DisplayName: "Cara", Points: 50},
		{ID: "u1", DisplayName: "Alice", Points: 80},
		{ID: "u2", DisplayName: "Bob", Points: 80},
		{ID: "u5", DisplayName: "Dup", Points: 50},
		{ID: "u4", DisplayName: "Dup", Points: 50},
	}

	entries := app.Rank(students)

	wantIDs := []string{"u1", "u2", "u3", "u4", "u5"}
	for i, e := range entries {
		if e.UserID != wantIDs[i] {
			t.Fatalf("position %d: got %s, want %s (entries=%+v)", i, e.UserID, wantIDs[i], entries)
		}
		if e.Rank != i+1 {
			t.Fatalf("position %d: rank %d", i, e.Rank)
		}
	}

	// Re-ranking an unchanged list is reproducible.
	if again := app.Rank(students); !reflect.DeepEqual(entries, again) {
		t.Fatalf("ranking not deterministic:\n%+v\n%+v", entries, again)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	students := []domain.User{
		{ID: "u2", DisplayName: "Bob", Points: 10},
		{ID: "u1", DisplayName: "Alice", Points: 90},
	}
	app.Rank(students)
	if students[0].ID != "u2" {
		t.Fatalf("input slice reordered: %+v", students)
	}
}

func TestLeaderboardLimitKeepsViewerRow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.settings.limited = true
	f.settings.limit = 2

	for id, pts := range map[string]int{"s1": 300, "s2": 200, "s3": 100} {
		if _, err := f.users.CreditPoints(ctx, id, pts); err != nil {
			t.Fatalf("credit %s: %v", id, err)
		}
	}

	lb, err := f.service.Leaderboard(ctx, "s3", true)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(lb.Entries) != 3 {
		t.Fatalf("expected top 2 plus the viewer, got %+v", lb.Entries)
	}
	last := lb.Entries[2]
	if last.UserID != "s3" || last.Rank != 3 {
		t.Fatalf("viewer row must keep its true rank below the cut: %+v", last)
	}

	// Admins never appear on the board.
	for _, e := range lb.Entries {
		if e.UserID == "admin" {
			t.Fatalf("admin leaked into leaderboard: %+v", lb.Entries)
		}
	}

	// Without the limited flag the full board comes back.
	lb, err = f.service.Leaderboard(ctx, "s3", false)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(lb.Entries) != 3 {
		t.Fatalf("expected full board, got %+v", lb.Entries)
	}
}

func TestSubscribeLeaderboardBroadcastsOnScoring(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ch, cancel, err := f.service.SubscribeLeaderboard(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	initial := <-ch
	for _, e := range initial.Entries {
		if e.Points != 0 {
			t.Fatalf("expected zeroed initial snapshot, got %+v", initial.Entries)
		}
	}

	if _, err := f.service.SubmitAnswer(ctx, "s1", "q1", json.RawMessage(`"paris"`), time.Now()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case lb := <-ch:
		if lb.Entries[0].UserID != "s1" || lb.Entries[0].Points != 100 {
			t.Fatalf("expected s1 on top with 100 points, got %+v", lb.Entries)
		}
	case <-time.After(time.Second):
		t.Fatalf("no leaderboard broadcast after a correct submission")
	}
}

func TestSubscribeCancelIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, cancel, err := f.service.SubscribeLeaderboard(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	cancel()
	cancel() // second call must not panic on the closed channel

	// Scoring after unsubscribe must not block or panic.
	if _, err := f.service.SubmitAnswer(ctx, "s1", "q1", json.RawMessage(`"paris"`), time.Now()); err != nil {
		t.Fatalf("submit: %v", err)
	}
}
