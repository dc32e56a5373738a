package analytics

import (
	"sort"
)

// TrackEvent appends a behavioral event. It returns false without
// mutating the log when the user ID or event type is empty. Events
// carry their own timestamp; a zero timestamp is stamped with the
// current time at the boundary.
func (e *Engine) TrackEvent(event EventRecord) bool {
	if event.UserID == "" || event.EventType == "" {
		return false
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = e.now()
	}
	e.events = append(e.events, event)
	return true
}

// GetEventCounts returns every event type with its occurrence count,
// ordered by descending count. Ties are broken ascending alphabetically
// by event type so the ranking is deterministic.
func (e *Engine) GetEventCounts() []EventCount {
	byType := make(map[string]int)
	for _, event := range e.events {
		byType[event.EventType]++
	}

	counts := make([]EventCount, 0, len(byType))
	for eventType, count := range byType {
		counts = append(counts, EventCount{EventType: eventType, Count: count})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].EventType < counts[j].EventType
	})

	return counts
}

// GetTopEvents returns the first limit entries of the event-type
// ranking. A non-positive limit yields an empty list.
func (e *Engine) GetTopEvents(limit int) []EventCount {
	if limit <= 0 {
		return []EventCount{}
	}

	counts := e.GetEventCounts()
	if limit < len(counts) {
		counts = counts[:limit]
	}
	return counts
}
