package handlers

import (
	"net/http"

	"foodbridge-api/live"
	"foodbridge-api/logger"
	"foodbridge-api/middleware"
	"foodbridge-api/models"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StreamMyRequests pushes live updates of the restaurant's own board:
// an initial snapshot, then one update event per change to any of its
// requests.
func (a *API) StreamMyRequests(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	a.streamRequests(c,
		live.FilterSpec{RestaurantID: &ownerID},
		func() ([]models.FoodRequest, error) { return a.Engine.ListByOwner(ownerID) },
	)
}

// StreamPendingRequests pushes live updates of the global acceptance
// queue. The subscription deliberately has no status filter: an update
// whose status is no longer pending is the signal to drop that card
// from the board.
func (a *API) StreamPendingRequests(c *gin.Context) {
	a.streamRequests(c,
		live.FilterSpec{},
		func() ([]models.FoodRequest, error) { return a.Engine.ListPending() },
	)
}

// StreamMyAcceptedRequests pushes live updates of the NGO's accepted
// and collected requests.
func (a *API) StreamMyAcceptedRequests(c *gin.Context) {
	ngoID := middleware.GetUserID(c)
	a.streamRequests(c,
		live.FilterSpec{
			AcceptedBy: &ngoID,
			Statuses:   []models.RequestStatus{models.StatusAccepted, models.StatusCompleted},
		},
		func() ([]models.FoodRequest, error) { return a.Engine.ListAcceptedBy(ngoID) },
	)
}

// streamRequests is the shared SSE loop: subscribe, resolve the initial
// query, emit a snapshot event, then forward changes until the client
// goes away. Subscribing before the snapshot query means a mutation
// committing in between is delivered as an update rather than lost; a
// change present in both snapshot and update is benign because events
// carry full documents. The subscription is cancelled on every exit
// path; a leaked listener would keep receiving updates forever.
func (a *API) streamRequests(c *gin.Context, filter live.FilterSpec, initial func() ([]models.FoodRequest, error)) {
	sub := a.Hub.Subscribe(filter)
	defer sub.Cancel()

	reqs, err := initial()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load requests"})
		return
	}

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	if err := sse.Encode(c.Writer, sse.Event{Event: "snapshot", Data: reqs}); err != nil {
		return
	}
	c.Writer.Flush()

	logger.Debug("live stream opened", zap.Uint("user_id", middleware.GetUserID(c)))

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			logger.Debug("live stream closed by client")
			return
		case req, ok := <-sub.C:
			if !ok {
				return
			}
			if err := sse.Encode(c.Writer, sse.Event{Event: "update", Data: req}); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}
