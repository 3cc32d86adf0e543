package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/AxelPMont/reservas-canchas/internal/timeutil"
)

// googleOAuthConfig returns nil when calendar export is not configured.
func (a *App) googleOAuthConfig() *oauth2.Config {
	if a.Cfg.GoogleClientID == "" || a.Cfg.GoogleClientSecret == "" || a.Cfg.GoogleRedirectURL == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     a.Cfg.GoogleClientID,
		ClientSecret: a.Cfg.GoogleClientSecret,
		RedirectURL:  a.Cfg.GoogleRedirectURL,
		Scopes:       []string{calendar.CalendarEventsScope},
		Endpoint:     google.Endpoint,
	}
}

// GET /api/calendar/auth
func (a *App) GoogleAuthHandler(c *gin.Context) {
	conf := a.googleOAuthConfig()
	if conf == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google Calendar not configured"})
		return
	}
	state := fmt.Sprintf("user_%s_%d", currentUserID(c), time.Now().Unix())
	c.JSON(http.StatusOK, gin.H{
		"auth_url": conf.AuthCodeURL(state, oauth2.AccessTypeOffline),
		"state":    state,
	})
}

// GET /oauth2callback
func (a *App) GoogleOAuth2CallbackHandler(c *gin.Context) {
	conf := a.googleOAuthConfig()
	if conf == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google Calendar not configured"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code required"})
		return
	}
	token, err := conf.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to exchange code for token"})
		return
	}
	tokenJSON, _ := json.Marshal(token)
	c.JSON(http.StatusOK, gin.H{
		"state": c.Query("state"),
		"token": string(tokenJSON),
	})
}

// POST /api/calendar/export
//
// Inserts the caller's reservations as events on their Google Calendar. The
// OAuth token obtained through the callback travels in X-Google-Token.
func (a *App) ExportReservationsHandler(c *gin.Context) {
	conf := a.googleOAuthConfig()
	if conf == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google Calendar not configured"})
		return
	}
	tokenStr := c.GetHeader("X-Google-Token")
	if tokenStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Google token required in X-Google-Token header"})
		return
	}
	var token oauth2.Token
	if err := json.Unmarshal([]byte(tokenStr), &token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token format"})
		return
	}

	ctx := c.Request.Context()
	list, err := a.ListReservationsByUser(ctx, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(conf.Client(ctx, &token)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create calendar service"})
		return
	}

	calendarID := c.DefaultQuery("calendar_id", "primary")
	exported := 0
	for _, r := range list {
		ev := reservationToEvent(r)
		if _, err := srv.Events.Insert(calendarID, ev).Do(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":    fmt.Sprintf("failed to insert event: %v", err),
				"exported": exported,
			})
			return
		}
		exported++
	}
	c.JSON(http.StatusOK, gin.H{"exported": exported})
}

func reservationToEvent(r Reservation) *calendar.Event {
	start := reservationStart(r)
	// On the calendar the booking occupies real elapsed time, so an interval
	// wrapping past midnight lands on the next day.
	end := start.Add(time.Duration(r.DurationMinutes) * time.Minute)
	return &calendar.Event{
		Summary:     fmt.Sprintf("Cancha %s - %s", r.CourtID, r.ClientName),
		Description: timeutil.FormatRange(r.StartTime, r.DurationMinutes),
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}
}

func reservationStart(r Reservation) time.Time {
	day, _ := time.ParseInLocation("2006-01-02", r.Date, time.Local)
	return day.Add(time.Duration(timeutil.ToMinutes(r.StartTime)) * time.Minute)
}
