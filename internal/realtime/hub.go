package realtime

import (
	"sync"

	"github.com/plately/plately-backend/internal/logger"
)

// Hub fans bus messages out to in-process subscribers, keyed by channel
// (the recipient user id). Slow subscribers drop messages rather than
// blocking the dispatcher.
type Hub struct {
	log  *logger.Logger
	mu   sync.RWMutex
	subs map[string]map[chan Message]struct{}
}

func NewHub(baseLog *logger.Logger) *Hub {
	return &Hub{
		log:  baseLog.With("service", "RealtimeHub"),
		subs: make(map[string]map[chan Message]struct{}),
	}
}

// Subscribe registers a listener for one channel. The returned cancel func
// must be called when the listener goes away.
func (h *Hub) Subscribe(channel string) (<-chan Message, func()) {
	ch := make(chan Message, 16)

	h.mu.Lock()
	if h.subs[channel] == nil {
		h.subs[channel] = make(map[chan Message]struct{})
	}
	h.subs[channel][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[channel]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, channel)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Dispatch delivers a message to every subscriber of its channel. Wired as
// the bus forwarder callback.
func (h *Hub) Dispatch(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[msg.Channel] {
		select {
		case ch <- msg:
		default:
			h.log.Warn("subscriber too slow, dropping event", "channel", msg.Channel, "event", msg.Event)
		}
	}
}
