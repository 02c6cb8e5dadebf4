package store

import "sync"

// Collection names used in events.
const (
	CollectionAll          = "all"
	CollectionChapters     = "chapters"
	CollectionBookmarks    = "bookmarks"
	CollectionNotes        = "notes"
	CollectionTestimonials = "testimonials"
)

// Event actions.
const (
	ActionRefreshed     = "refreshed"
	ActionRefreshFailed = "refresh_failed"
	ActionAdded         = "added"
	ActionUpdated       = "updated"
	ActionRemoved       = "removed"
	ActionSubmitted     = "submitted"
)

// Event tells subscribers that a collection changed.
type Event struct {
	Collection string `json:"collection"`
	Action     string `json:"action"`
	ID         string `json:"id,omitempty"`
}

const subscriberBuffer = 32

// Subscribe registers for change events. The returned cancel func
// unregisters and closes the channel; it is safe to call more than once.
// A subscriber that does not keep up misses events.
func (s *Store) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subsMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Store) publish(ev Event) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
