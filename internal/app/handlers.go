package app

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AxelPMont/reservas-canchas/internal/availability"
	"github.com/AxelPMont/reservas-canchas/internal/timeutil"
)

// POST /api/reservations
func (a *App) CreateReservationHandler(c *gin.Context) {
	var form ReservationForm
	if err := c.BindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := form.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	res, err := a.InsertReservation(ctx, currentUserID(c), &form)
	var occupied *SlotOccupiedError
	if errors.As(err, &occupied) {
		c.JSON(http.StatusConflict, gin.H{
			"error":       occupied.Error(),
			"client_name": occupied.ClientName,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	a.Hub.Kick()
	a.publishEvent(ctx, RKReservationCreated, reservationEvent(res))

	c.JSON(http.StatusCreated, res)
}

// DELETE /api/reservations/:id
//
// Any signed-in account may cancel any reservation; there is no ownership
// check beyond authentication.
func (a *App) CancelReservationHandler(c *gin.Context) {
	ctx := c.Request.Context()
	res, err := a.DeleteReservation(ctx, c.Param("id"))
	if errors.Is(err, ErrReservationNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	a.Hub.Kick()
	a.publishEvent(ctx, RKReservationCancelled, reservationEvent(res))

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/reservations/mine
func (a *App) ListMyReservationsHandler(c *gin.Context) {
	list, err := a.ListReservationsByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/reservations?date=YYYY-MM-DD&court_id=1
func (a *App) ListReservationsHandler(c *gin.Context) {
	date, courtID := c.Query("date"), c.Query("court_id")
	if !ValidDate(date) || !ValidCourtID(courtID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and court_id required"})
		return
	}
	list, err := a.ListReservationsByDateCourt(c.Request.Context(), date, courtID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// SlotView is one entry of the pickable start grid.
type SlotView struct {
	Start      string `json:"start"`
	Label      string `json:"label"`
	Occupied   bool   `json:"occupied"`
	ClientName string `json:"client_name,omitempty"`
}

// GET /api/slots?date=YYYY-MM-DD&court_id=1&duration=60
//
// Returns the whole start grid with per-slot occupancy for the requested
// duration: what the booking screen uses to enable and disable choices.
func (a *App) GetSlotsHandler(c *gin.Context) {
	date, courtID := c.Query("date"), c.Query("court_id")
	if !ValidDate(date) || !ValidCourtID(courtID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and court_id required"})
		return
	}
	duration := 60
	if v := c.Query("duration"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || !ValidDuration(d) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration"})
			return
		}
		duration = d
	}

	list, err := a.ListReservationsByDateCourt(c.Request.Context(), date, courtID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	existing := occupancySlots(list)

	slots := make([]SlotView, 0, len(StartHours))
	for _, start := range StartHours {
		occ := availability.Check(start, duration, existing)
		slots = append(slots, SlotView{
			Start:      start,
			Label:      timeutil.FormatRange(start, duration),
			Occupied:   occ.Occupied,
			ClientName: occ.ClientName,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"date":             date,
		"date_label":       timeutil.FormatDate(date),
		"court_id":         courtID,
		"duration_minutes": duration,
		"slots":            slots,
	})
}

// GET /api/dates?count=14
func (a *App) ListDatesHandler(c *gin.Context) {
	count := 14
	if v := c.Query("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 60 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be between 1 and 60"})
			return
		}
		count = n
	}
	c.JSON(http.StatusOK, gin.H{
		"today": timeutil.Today(),
		"days":  timeutil.NextDays(count),
	})
}

func reservationEvent(r Reservation) ReservationEvent {
	return ReservationEvent{
		ReservationID:   r.ID,
		UserID:          r.UserID,
		CourtID:         r.CourtID,
		Date:            r.Date,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
	}
}
