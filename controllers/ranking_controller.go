package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pontualapp/pontual/config"
	"github.com/pontualapp/pontual/models"
	"github.com/pontualapp/pontual/session"
	"github.com/pontualapp/pontual/store"
	"github.com/pontualapp/pontual/upstream"
	"github.com/pontualapp/pontual/utils"
)

const rankingCacheKey = "cache:ranking:weekly"

// RankingController serves the weekly leaderboard. Remote answers are cached
// briefly in redis; a remote failure falls back to the local seed ranking with
// the current user merged in.
type RankingController struct {
	api   upstream.CheckAPI
	sess  *session.Manager
	store *store.Store
}

func NewRankingController(api upstream.CheckAPI, sess *session.Manager, st *store.Store) *RankingController {
	return &RankingController{api: api, sess: sess, store: st}
}

// rankingRow is a RankingEntry decorated for display.
type rankingRow struct {
	models.RankingEntry
	Medal         string `json:"medal"`
	PositionClass string `json:"positionClass"`
	IsCurrentUser bool   `json:"isCurrentUser"`
}

// Get handles GET /ranking.
func (r *RankingController) Get(ctx *gin.Context) {
	email := r.sess.Email()

	if cached, ok := utils.CacheGetBytes(rankingCacheKey); ok {
		var entries []models.RankingEntry
		if err := json.Unmarshal(cached, &entries); err == nil {
			utils.Success(ctx, gin.H{
				"entries": decorate(entries, email),
				"source":  "cache",
			})
			return
		}
	}

	entries, err := r.api.Ranking(ctx.Request.Context())
	if err != nil {
		if upstream.IsUnauthorized(err) {
			ctx.Header("Location", config.RouteLogin)
			utils.Error(ctx, http.StatusUnauthorized, 40110, "sessão expirada")
			return
		}
		utils.Sugar.Warnf("ranking fetch failed, using local data: %v", err)
		local := upstream.BuildLocalRanking(r.store)
		utils.SuccessMessage(ctx, config.MsgRankingError, gin.H{
			"entries": decorate(local, email),
			"source":  "local",
		})
		return
	}

	utils.CacheSetJSON(rankingCacheKey, entries, time.Minute)
	utils.Success(ctx, gin.H{
		"entries": decorate(entries, email),
		"source":  "remote",
	})
}

func decorate(entries []models.RankingEntry, currentEmail string) []rankingRow {
	rows := make([]rankingRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, rankingRow{
			RankingEntry:  e,
			Medal:         models.MedalIcon(e.Position),
			PositionClass: models.PositionClass(e.Position),
			IsCurrentUser: currentEmail != "" && e.Email == currentEmail,
		})
	}
	return rows
}
