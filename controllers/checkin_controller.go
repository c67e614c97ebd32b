package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pontualapp/pontual/config"
	"github.com/pontualapp/pontual/models"
	"github.com/pontualapp/pontual/session"
	"github.com/pontualapp/pontual/store"
	"github.com/pontualapp/pontual/upstream"
	"github.com/pontualapp/pontual/utils"
)

// CheckinController orchestrates the check-in view: availability, history,
// podium, the check-in action itself and its offline degrade.
//
// The view state lives in the controller behind a mutex. State transitions:
// Loading -> {CanCheckIn, AlreadyCheckedIn, Weekend} -> Submitting ->
// {Success, OfflineSuccess, Error}. Unauthenticated requests never reach the
// controller (session middleware).
type CheckinController struct {
	api    upstream.CheckAPI
	sess   *session.Manager
	store  *store.Store
	reward int

	mu            sync.Mutex
	canCheckIn    bool
	message       string
	lastCheckin   *time.Time
	history       []upstream.CheckinResponse
	podium        []models.RankingEntry
	submitting    bool
	justSucceeded bool
	offline       bool

	// successDisplayDelay clears the just-succeeded flag; rankingRefreshDelay
	// gives the backend time to aggregate before the podium is re-fetched.
	successDisplayDelay time.Duration
	rankingRefreshDelay time.Duration

	now func() time.Time
}

// NewCheckinController creates the controller instance shared by all requests.
func NewCheckinController(api upstream.CheckAPI, sess *session.Manager, st *store.Store) *CheckinController {
	return &CheckinController{
		api:                 api,
		sess:                sess,
		store:               st,
		reward:              config.Get().CheckinRewardPoints,
		canCheckIn:          true,
		successDisplayDelay: 3 * time.Second,
		rankingRefreshDelay: 2 * time.Second,
		now:                 time.Now,
	}
}

// Status handles GET /checkin: refreshes availability, history and podium,
// then renders the full view state.
func (c *CheckinController) Status(ctx *gin.Context) {
	c.refreshStatus(ctx)

	// History and podium load independently; either may finish first and
	// neither failure disturbs the availability answer.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.loadHistory(ctx)
	}()
	go func() {
		defer wg.Done()
		c.loadPodium(ctx)
	}()
	wg.Wait()

	utils.Success(ctx, c.viewState())
}

// Do handles POST /checkin. It is a no-op unless a check-in is currently
// allowed and no other submission is in flight.
func (c *CheckinController) Do(ctx *gin.Context) {
	now := c.now()

	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		utils.Error(ctx, http.StatusConflict, 40910, "check-in em andamento")
		return
	}
	if !c.canCheckIn {
		msg := c.message
		c.mu.Unlock()
		if msg == "" {
			msg = config.MsgAlreadyCheckedIn
		}
		utils.Error(ctx, http.StatusBadRequest, 40030, msg)
		return
	}
	c.submitting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	resp, err := c.api.DoCheckin(ctx.Request.Context(), upstream.CheckinRequest{
		UserID:    1,
		Timestamp: now.Format(time.RFC3339),
	})
	if err != nil {
		if upstream.IsUnauthorized(err) {
			ctx.Header("Location", config.RouteLogin)
			utils.Error(ctx, http.StatusUnauthorized, 40110, "sessão expirada")
			return
		}
		c.handleCheckinOffline(now)
		utils.SuccessMessage(ctx, config.MsgCheckinSuccess, c.viewState())
		return
	}

	c.handleCheckinSuccess(resp, now)
	utils.SuccessMessage(ctx, config.MsgCheckinSuccess, c.viewState())
}

// Reset handles POST /checkin/reset: deletes today's local record and
// recomputes the availability as the local fallback would.
func (c *CheckinController) Reset(ctx *gin.Context) {
	now := c.now()

	if c.store.HasCheckinForDate(now) {
		c.store.Remove(store.CheckinKey(now))

		c.mu.Lock()
		c.canCheckIn = !utils.IsWeekend(now)
		c.justSucceeded = false
		c.offline = false
		c.lastCheckin = nil
		c.history = nil
		if utils.IsWeekend(now) {
			c.message = config.MsgWeekendWarning
		} else {
			c.message = ""
		}
		c.mu.Unlock()
	}

	utils.Success(ctx, c.viewState())
}

// refreshStatus cleans expired local entries and asks the upstream whether a
// check-in is possible, falling back to local determination on failure.
func (c *CheckinController) refreshStatus(ctx *gin.Context) {
	now := c.now()
	c.store.CleanOldCheckins(now)

	status, err := c.api.CheckinStatus(ctx.Request.Context())
	if err != nil {
		c.applyLocalFallback(now)
		return
	}
	c.applyStatus(status, now)
}

// applyStatus maps the upstream answer onto the view state. Message priority
// when blocked: already checked in, weekend, then the server supplied reason.
// A permissive upstream answer never overrides a local record for today.
func (c *CheckinController) applyStatus(status *models.CheckinStatus, now time.Time) {
	if status.CanCheckin && c.store.HasCheckinForDate(now) {
		c.applyLocalFallback(now)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.canCheckIn = status.CanCheckin
	if c.canCheckIn {
		c.message = ""
		return
	}

	switch {
	case status.AlreadyCheckedIn:
		c.message = config.MsgCongratulations + " (" + status.Today + ")"
	case status.IsWeekend:
		c.message = status.Message
	default:
		c.message = status.Reason
	}
}

// applyLocalFallback determines availability from the local store alone.
func (c *CheckinController) applyLocalFallback(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if record := c.store.GetCheckinForDate(now); record != nil {
		ts := record.Timestamp
		c.canCheckIn = false
		c.lastCheckin = &ts
		c.message = config.MsgCongratulations + " (" + utils.FormatDate(now) + ")"
		return
	}

	c.canCheckIn = !utils.IsWeekend(now)
	c.lastCheckin = nil
	if utils.IsWeekend(now) {
		c.message = config.MsgWeekendWarning
	} else {
		c.message = ""
	}
}

func (c *CheckinController) loadHistory(ctx *gin.Context) {
	checkins, err := c.api.Checkins(ctx.Request.Context())
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.history = nil
		return
	}
	c.history = checkins
}

func (c *CheckinController) loadPodium(ctx *gin.Context) {
	ranking, err := c.api.Ranking(ctx.Request.Context())
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.podium = nil
		return
	}
	if len(ranking) > 3 {
		ranking = ranking[:3]
	}
	c.podium = ranking
}

// handleCheckinSuccess applies a confirmed remote check-in. A server timestamp
// that does not parse falls back to the local clock.
func (c *CheckinController) handleCheckinSuccess(resp *upstream.CheckinResponse, now time.Time) {
	ts := now
	if parsed, err := time.Parse(time.RFC3339, resp.Timestamp); err == nil {
		ts = parsed
	}

	record := models.CheckinRecord{
		ID:        uuid.NewString(),
		UserID:    resp.UserID,
		Timestamp: ts,
		Points:    nonZero(resp.Points, c.reward),
	}
	c.store.SaveCheckinForDate(now, record)
	c.store.AppendCheckin(record)

	c.mu.Lock()
	c.justSucceeded = true
	c.offline = false
	c.canCheckIn = false
	c.lastCheckin = &ts
	c.message = config.MsgCongratulations + " (" + utils.FormatDate(now) + ")"
	c.history = append([]upstream.CheckinResponse{*resp}, c.history...)
	c.mu.Unlock()

	c.scheduleAfterSuccess()
}

// handleCheckinOffline degrades a failed remote check-in into a local one. The
// user sees the same success state, labeled as offline.
func (c *CheckinController) handleCheckinOffline(now time.Time) {
	record := models.CheckinRecord{
		ID:        uuid.NewString(),
		UserID:    1,
		Timestamp: now,
		Points:    c.reward,
		Offline:   true,
	}
	c.store.SaveCheckinForDate(now, record)
	c.store.AppendCheckin(record)

	ts := now
	c.mu.Lock()
	c.justSucceeded = true
	c.offline = true
	c.canCheckIn = false
	c.lastCheckin = &ts
	c.message = config.MsgCongratulations + " (Offline)"
	c.history = append([]upstream.CheckinResponse{{
		UserID:    record.UserID,
		Timestamp: now.Format(time.RFC3339),
		Points:    record.Points,
		Offline:   true,
	}}, c.history...)
	c.mu.Unlock()

	c.scheduleAfterSuccess()
}

// scheduleAfterSuccess re-fetches the podium once the backend had time to
// aggregate, and clears the success flag after the display delay. Both run
// after the request finished, so they use a background context.
func (c *CheckinController) scheduleAfterSuccess() {
	time.AfterFunc(c.rankingRefreshDelay, func() {
		ranking, err := c.api.Ranking(context.Background())
		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			return
		}
		if len(ranking) > 3 {
			ranking = ranking[:3]
		}
		c.podium = ranking
	})

	time.AfterFunc(c.successDisplayDelay, func() {
		c.mu.Lock()
		c.justSucceeded = false
		c.mu.Unlock()
	})
}

// viewState renders the full state for the client, including the button label
// which is a pure function of {submitting, weekend, canCheckIn}.
func (c *CheckinController) viewState() gin.H {
	now := c.now()
	weekend := utils.IsWeekend(now)

	c.mu.Lock()
	defer c.mu.Unlock()

	var last interface{}
	if c.lastCheckin != nil {
		last = c.lastCheckin.Format(time.RFC3339)
	}

	return gin.H{
		"userEmail":     c.sess.Email(),
		"serverTime":    utils.FormatTime(now),
		"date":          utils.FormatDate(now),
		"todayLabel":    utils.TodayLabel(now),
		"isWeekend":     weekend,
		"canCheckIn":    c.canCheckIn,
		"submitting":    c.submitting,
		"justSucceeded": c.justSucceeded,
		"offline":       c.offline,
		"message":       c.message,
		"lastCheckin":   last,
		"checkins":      c.history,
		"podium":        c.podium,
		"buttonLabel":   buttonLabel(c.submitting, weekend, c.canCheckIn),
		"statusClass":   statusClass(c.justSucceeded, weekend, c.canCheckIn),
	}
}

// buttonLabel selects the call-to-action text, in priority order.
func buttonLabel(submitting, weekend, canCheckIn bool) string {
	switch {
	case submitting:
		return "Fazendo check-in..."
	case weekend:
		return "Fim de semana"
	case !canCheckIn:
		return "Check-in já realizado"
	default:
		return "Fazer Check-in"
	}
}

func statusClass(justSucceeded, weekend, canCheckIn bool) string {
	switch {
	case justSucceeded:
		return "success"
	case weekend:
		return "weekend"
	case !canCheckIn:
		return "completed"
	default:
		return "pending"
	}
}

func nonZero(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
