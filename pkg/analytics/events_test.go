package analytics

import (
	"testing"
	"time"
)

func TestTrackEvent(t *testing.T) {
	engine, _ := newTestEngine()

	ok := engine.TrackEvent(EventRecord{UserID: "user-1", EventType: "page_view"})
	if !ok {
		t.Fatal("Expected event to be tracked")
	}

	_, _, events := engine.Counts()
	if events != 1 {
		t.Errorf("Expected 1 event, got %d", events)
	}
}

func TestTrackEvent_StampsZeroTimestamp(t *testing.T) {
	engine, _ := newTestEngine()

	engine.RegisterUser("user-1", true)
	engine.TrackEvent(EventRecord{UserID: "user-1", EventType: "page_view"})

	// The event got the clock's current time, so it sits inside any window
	if rate := engine.CalculateEngagementRate(7); rate != 100 {
		t.Errorf("Expected freshly stamped event inside window, got rate=%f", rate)
	}
}

func TestTrackEvent_Rejections(t *testing.T) {
	engine, _ := newTestEngine()

	if engine.TrackEvent(EventRecord{UserID: "", EventType: "page_view"}) {
		t.Error("Expected empty user id to be rejected")
	}
	if engine.TrackEvent(EventRecord{UserID: "user-1", EventType: ""}) {
		t.Error("Expected empty event type to be rejected")
	}

	_, _, events := engine.Counts()
	if events != 0 {
		t.Errorf("Expected 0 events after rejections, got %d", events)
	}
}

func TestTrackEvent_KeepsCallerTimestamp(t *testing.T) {
	engine, clock := newTestEngine()
	ts := clock.current.AddDate(0, 0, -10)

	engine.TrackEvent(EventRecord{UserID: "user-1", EventType: "page_view", Timestamp: ts})
	engine.RegisterUser("user-1", true)

	// An event backdated 10 days leaves the user outside a 7-day window
	if rate := engine.CalculateEngagementRate(7); rate != 0 {
		t.Errorf("Expected backdated event outside window, got rate=%f", rate)
	}
	if rate := engine.CalculateEngagementRate(14); rate != 100 {
		t.Errorf("Expected backdated event inside 14-day window, got rate=%f", rate)
	}
}

func TestGetTopEvents(t *testing.T) {
	engine, _ := newTestEngine()

	for i := 0; i < 3; i++ {
		engine.TrackEvent(EventRecord{UserID: "user-1", EventType: "click"})
	}
	for i := 0; i < 2; i++ {
		engine.TrackEvent(EventRecord{UserID: "user-2", EventType: "view"})
	}
	engine.TrackEvent(EventRecord{UserID: "user-3", EventType: "purchase"})

	top := engine.GetTopEvents(2)

	if len(top) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(top))
	}
	if top[0].EventType != "click" || top[0].Count != 3 {
		t.Errorf("Expected click=3 first, got %s=%d", top[0].EventType, top[0].Count)
	}
	if top[1].EventType != "view" || top[1].Count != 2 {
		t.Errorf("Expected view=2 second, got %s=%d", top[1].EventType, top[1].Count)
	}
}

func TestGetTopEvents_TieBreak(t *testing.T) {
	engine, _ := newTestEngine()

	// b and a tie on 2, c trails with 1; ties resolve alphabetically
	engine.TrackEvent(EventRecord{UserID: "u", EventType: "b"})
	engine.TrackEvent(EventRecord{UserID: "u", EventType: "b"})
	engine.TrackEvent(EventRecord{UserID: "u", EventType: "a"})
	engine.TrackEvent(EventRecord{UserID: "u", EventType: "a"})
	engine.TrackEvent(EventRecord{UserID: "u", EventType: "c"})

	counts := engine.GetEventCounts()

	expected := []EventCount{{"a", 2}, {"b", 2}, {"c", 1}}
	if len(counts) != len(expected) {
		t.Fatalf("Expected %d entries, got %d", len(expected), len(counts))
	}
	for i, want := range expected {
		if counts[i] != want {
			t.Errorf("Entry %d: expected %+v, got %+v", i, want, counts[i])
		}
	}
}

func TestGetTopEvents_LimitSemantics(t *testing.T) {
	engine, _ := newTestEngine()

	engine.TrackEvent(EventRecord{UserID: "u", EventType: "click"})
	engine.TrackEvent(EventRecord{UserID: "u", EventType: "view"})

	if top := engine.GetTopEvents(0); len(top) != 0 {
		t.Errorf("Expected empty list for limit=0, got %d entries", len(top))
	}
	if top := engine.GetTopEvents(-5); len(top) != 0 {
		t.Errorf("Expected empty list for negative limit, got %d entries", len(top))
	}
	if top := engine.GetTopEvents(10); len(top) != 2 {
		t.Errorf("Expected limit past the end to return everything, got %d entries", len(top))
	}
	if counts := engine.GetEventCounts(); len(counts) != 2 {
		t.Errorf("Expected full ranking of 2 entries, got %d", len(counts))
	}
}

func TestGetEventCounts_Empty(t *testing.T) {
	engine, _ := newTestEngine()

	counts := engine.GetEventCounts()
	if counts == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(counts) != 0 {
		t.Errorf("Expected 0 entries, got %d", len(counts))
	}
}

func TestGetTopEvents_Deterministic(t *testing.T) {
	engine, _ := newTestEngine()

	types := []string{"view", "click", "search", "purchase", "view", "click"}
	for i, eventType := range types {
		engine.TrackEvent(EventRecord{
			UserID:    "user-1",
			EventType: eventType,
			Timestamp: time.Date(2026, 1, 30, 10, i, 0, 0, time.UTC),
		})
	}

	first := engine.GetEventCounts()
	for i := 0; i < 10; i++ {
		again := engine.GetEventCounts()
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("Ranking changed between calls: %+v vs %+v", first, again)
			}
		}
	}
}
