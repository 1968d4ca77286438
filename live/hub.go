// Package live is a publish/subscribe layer over food request changes.
// It stands in for a document store's live query listeners: a dashboard
// subscribes with a filter and receives every matching change until it
// cancels. Cancellation is mandatory: a subscription that is never
// cancelled keeps receiving updates and holds its hub slot forever.
package live

import (
	"sync"

	"foodbridge-api/logger"
	"foodbridge-api/models"

	"go.uber.org/zap"
)

// subscriptionBuffer bounds how many undelivered events a slow
// subscriber may hold before the oldest is dropped. Dropping beats
// blocking a mutation on a stuck SSE client.
const subscriptionBuffer = 16

// FilterSpec selects which request changes a subscription receives.
// Nil/empty fields match everything. Statuses is an inclusion-in-set
// filter, combinable with the equality fields.
type FilterSpec struct {
	RestaurantID *uint
	AcceptedBy   *uint
	Statuses     []models.RequestStatus
}

// Matches reports whether a request document satisfies the filter.
func (f FilterSpec) Matches(req models.FoodRequest) bool {
	if f.RestaurantID != nil && req.RestaurantID != *f.RestaurantID {
		return false
	}
	if f.AcceptedBy != nil && (req.AcceptedBy == nil || *req.AcceptedBy != *f.AcceptedBy) {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if req.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Subscription is a live handle onto the hub. Events arrive on C in
// publish order. Cancel releases the handle; calling it twice is safe.
type Subscription struct {
	C chan models.FoodRequest

	filter FilterSpec
	hub    *Hub
	once   sync.Once
}

// Cancel detaches the subscription from the hub and closes C.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.C)
	})
}

// Hub fans out request changes to all matching subscriptions.
type Hub struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a new listener for changes matching the filter.
func (h *Hub) Subscribe(filter FilterSpec) *Subscription {
	sub := &Subscription{
		C:      make(chan models.FoodRequest, subscriptionBuffer),
		filter: filter,
		hub:    h,
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.C)
		return sub
	}
	h.subs[sub] = struct{}{}
	return sub
}

// Publish delivers a changed request to every matching subscription.
// Delivery order per subscriber follows publish order. A subscriber
// whose buffer is full loses its oldest event.
func (h *Hub) Publish(req models.FoodRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for sub := range h.subs {
		if !sub.filter.Matches(req) {
			continue
		}
		select {
		case sub.C <- req:
		default:
			select {
			case <-sub.C:
				logger.Warn("slow live subscriber, dropping oldest event",
					zap.String("request_id", req.ID))
			default:
			}
			sub.C <- req
		}
	}
}

// SubscriberCount reports how many subscriptions are currently attached.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close cancels every remaining subscription. Used at shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := make([]*Subscription, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.subs = make(map[*Subscription]struct{})
	h.closed = true
	h.mu.Unlock()

	for _, sub := range subs {
		sub.once.Do(func() { close(sub.C) })
	}
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
}
