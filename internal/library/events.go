package library

import (
	"github.com/musicpartmate/partmate/internal/model"
)

// EventType identifies which mutation a library event describes.
type EventType string

const (
	// EventSongAdded fires after a song was appended and persisted.
	EventSongAdded EventType = "song_added"

	// EventSongRemoved fires after a song was removed and the store saved.
	EventSongRemoved EventType = "song_removed"

	// EventSongUpdated fires after a song was replaced and the store saved.
	EventSongUpdated EventType = "song_updated"
)

// Event describes one successful library mutation. Song is the stored
// entry the mutation affected.
type Event struct {
	Type EventType
	Song *model.Song
}

// Subscription is the handle returned by Subscribe. Unsubscribe stops
// delivery; calling it more than once is harmless.
type Subscription struct {
	lib *Library
	id  int
}

// Unsubscribe removes the listener from the library.
func (s *Subscription) Unsubscribe() {
	if s.lib == nil {
		return
	}
	s.lib.removeListener(s.id)
	s.lib = nil
}

type listener struct {
	id int
	fn func(Event)
}

// Subscribe registers fn to be called after every successful mutation.
// Listeners run synchronously on the mutating call, in subscription
// order. A panicking listener is recovered and logged; it never stops
// dispatch to the remaining listeners or surfaces to the caller.
func (l *Library) Subscribe(fn func(Event)) *Subscription {
	l.nextListenerID++
	l.listeners = append(l.listeners, listener{id: l.nextListenerID, fn: fn})
	return &Subscription{lib: l, id: l.nextListenerID}
}

func (l *Library) removeListener(id int) {
	for i, entry := range l.listeners {
		if entry.id == id {
			l.listeners = append(l.listeners[:i], l.listeners[i+1:]...)
			return
		}
	}
}

// notify dispatches an event to every listener, isolating panics so
// one misbehaving observer cannot block the others.
func (l *Library) notify(event Event) {
	for _, entry := range l.listeners {
		l.dispatch(entry, event)
	}
}

func (l *Library) dispatch(entry listener, event Event) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Warn("observer panicked on %s: %v", event.Type, r)
		}
	}()
	entry.fn(event)
}
