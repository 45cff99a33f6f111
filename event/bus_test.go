package event

import (
	"testing"

	"github.com/milk9111/scrollbrawl/prefabs"
)

func TestPublishOrderAndTopics(t *testing.T) {
	b := NewBus()

	var order []string
	Subscribe(b, func(LevelCompleted) { order = append(order, "first") })
	Subscribe(b, func(ev LevelCompleted) { order = append(order, "second:"+ev.LevelID) })
	Subscribe(b, func(PlayerDied) { order = append(order, "died") })

	Publish(b, LevelCompleted{LevelID: "1-1"})

	want := []string{"first", "second:1-1"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("handler %d: expected %q, got %q", i, want[i], order[i])
		}
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	b := NewBus()
	Publish(b, PlayerDied{})
	if b.Subscribers(TopicPlayerDied) != 0 {
		t.Fatalf("publishing must not create topics")
	}

	var nilBus *Bus
	Publish(nilBus, PlayerDied{})
}

func TestUnsubscribe(t *testing.T) {
	tests := []struct {
		name      string
		remove    []int
		wantCalls []int
	}{
		{"none", nil, []int{0, 1, 2}},
		{"middle", []int{1}, []int{0, 2}},
		{"all", []int{0, 1, 2}, nil},
		{"twice", []int{2, 2}, []int{0, 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBus()
			var calls []int
			subs := make([]Subscription, 3)
			for i := range subs {
				idx := i
				subs[i] = Subscribe(b, func(EnemyDefeated) { calls = append(calls, idx) })
			}
			for _, r := range tc.remove {
				b.Unsubscribe(subs[r])
			}

			Publish(b, EnemyDefeated{Enemy: &prefabs.EnemySpec{ID: "slime"}})

			if len(calls) != len(tc.wantCalls) {
				t.Fatalf("expected calls %v, got %v", tc.wantCalls, calls)
			}
			for i := range calls {
				if calls[i] != tc.wantCalls[i] {
					t.Fatalf("expected calls %v, got %v", tc.wantCalls, calls)
				}
			}
		})
	}
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	b := NewBus()
	var calls int
	var second Subscription
	Subscribe(b, func(PlayerDamaged) {
		calls++
		b.Unsubscribe(second)
	})
	second = Subscribe(b, func(PlayerDamaged) { calls++ })

	Publish(b, PlayerDamaged{Amount: 1})
	if calls != 2 {
		t.Fatalf("handlers removed mid-publish still run for that publish, got %d calls", calls)
	}

	Publish(b, PlayerDamaged{Amount: 1})
	if calls != 3 {
		t.Fatalf("expected removal to apply to the next publish, got %d calls", calls)
	}
}

func TestSubscriptionTopic(t *testing.T) {
	b := NewBus()
	sub := Subscribe(b, func(PlayerDamaged) {})
	if !sub.Valid() || sub.Topic() != TopicPlayerDamaged {
		t.Fatalf("unexpected subscription %+v", sub)
	}
	if Subscribe[PlayerDied](b, nil).Valid() {
		t.Fatalf("nil handler must not subscribe")
	}
	if TopicPlayerDamaged.String() != "player_damaged" {
		t.Fatalf("unexpected topic name %q", TopicPlayerDamaged.String())
	}
}
