package cart

import (
	"encoding/json"
	"sync"

	"github.com/jmoiron/sqlx"
)

// Store reads and writes the cart slot for a session. Writes are
// last-writer-wins; there is no compare-and-swap, so two concurrent writers
// can clobber each other.
type Store interface {
	Get(slot string) []Entry
	Set(slot string, items []Entry) error
}

// Notifier fans a cart-changed signal out to same-process subscribers.
type Notifier struct {
	mu   sync.Mutex
	subs []func(slot string)
}

func (n *Notifier) Subscribe(fn func(slot string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, fn)
}

func (n *Notifier) Publish(slot string) {
	n.mu.Lock()
	subs := make([]func(string), len(n.subs))
	copy(subs, n.subs)
	n.mu.Unlock()
	for _, fn := range subs {
		fn(slot)
	}
}

// SlotStore persists each cart as one JSON blob keyed by session id and
// publishes a change signal after every successful write.
type SlotStore struct {
	db     *sqlx.DB
	Events *Notifier
}

func NewSlotStore(db *sqlx.DB) *SlotStore {
	return &SlotStore{db: db, Events: &Notifier{}}
}

// Get returns the stored entries. A missing or malformed value produces an
// empty sequence, never an error.
func (s *SlotStore) Get(slot string) []Entry {
	var data string
	if err := s.db.Get(&data, `SELECT data FROM cart_slots WHERE session_id = ?`, slot); err != nil {
		return nil
	}
	var items []Entry
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil
	}
	return items
}

func (s *SlotStore) Set(slot string, items []Entry) error {
	if items == nil {
		items = []Entry{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO cart_slots(session_id, data, updated_at)
		VALUES(?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(session_id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`, slot, string(b))
	if err != nil {
		return err
	}
	s.Events.Publish(slot)
	return nil
}
