package app

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/reservations/stream?date=YYYY-MM-DD&court_id=1
//
// Server-sent events: one "snapshot" event with the full current list on
// subscribe and after every underlying change, until the client disconnects.
func (a *App) StreamReservationsHandler(c *gin.Context) {
	date, courtID := c.Query("date"), c.Query("court_id")
	if !ValidDate(date) || !ValidCourtID(courtID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and court_id required"})
		return
	}
	ch, cancel := a.Hub.SubscribeDateCourt(date, courtID)
	defer cancel()
	a.streamSnapshots(c, ch)
}

// GET /api/reservations/mine/stream
func (a *App) StreamMyReservationsHandler(c *gin.Context) {
	ch, cancel := a.Hub.SubscribeUser(currentUserID(c))
	defer cancel()
	a.streamSnapshots(c, ch)
}

func (a *App) streamSnapshots(c *gin.Context, ch <-chan []Reservation) {
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case snap, ok := <-ch:
			if !ok {
				return false
			}
			// Empty snapshots still go out: a deleted last reservation must
			// reach the client.
			if snap == nil {
				snap = []Reservation{}
			}
			c.SSEvent("snapshot", snap)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
