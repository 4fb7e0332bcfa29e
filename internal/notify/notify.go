// Package notify carries the subscription contract shared by the state
// holders, plus the user-facing notices they emit.
package notify

import "sync"

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a short message meant to be shown to the user as-is.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func Info(msg string) Notice    { return Notice{Level: LevelInfo, Message: msg} }
func Success(msg string) Notice { return Notice{Level: LevelSuccess, Message: msg} }
func Error(msg string) Notice   { return Notice{Level: LevelError, Message: msg} }

// Hub fans events out to subscribers synchronously, in subscription order.
// Subscribers must not call back into the holder that owns the hub.
type Hub[E any] struct {
	mu   sync.Mutex
	next int
	ids  []int
	subs map[int]func(E)
}

// Subscribe registers fn and returns a function that removes it.
func (h *Hub[E]) Subscribe(fn func(E)) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = map[int]func(E){}
	}
	id := h.next
	h.next++
	h.subs[id] = fn
	h.ids = append(h.ids, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			for i, v := range h.ids {
				if v == id {
					h.ids = append(h.ids[:i], h.ids[i+1:]...)
					break
				}
			}
		})
	}
}

func (h *Hub[E]) Publish(e E) {
	h.mu.Lock()
	fns := make([]func(E), 0, len(h.ids))
	for _, id := range h.ids {
		fns = append(fns, h.subs[id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Len reports the number of live subscribers.
func (h *Hub[E]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.ids)
}
