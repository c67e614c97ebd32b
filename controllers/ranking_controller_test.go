package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontualapp/pontual/config"
	"github.com/pontualapp/pontual/models"
	"github.com/pontualapp/pontual/session"
	"github.com/pontualapp/pontual/store"
	"github.com/pontualapp/pontual/upstream"
	"github.com/pontualapp/pontual/utils"
)

func newRankingTest(t *testing.T, fake *fakeAPI) (*RankingController, *store.Store) {
	t.Helper()
	st, err := store.OpenInMemory()
	require.NoError(t, err)
	sess := session.NewManager(st)
	sess.Login("tok", "eu@local.com")
	utils.CacheDelete(rankingCacheKey)
	return NewRankingController(fake, sess, st), st
}

func entriesOf(resp map[string]interface{}) []interface{} {
	entries, _ := resp["entries"].([]interface{})
	return entries
}

func TestRankingFallsBackToLocalData(t *testing.T) {
	fake := &fakeAPI{rankingErr: &upstream.APIError{Message: "down", Operation: "ranking"}}
	r, st := newRankingTest(t, fake)
	st.AddPoints(500)

	w, resp := doRequest(r.Get, http.MethodGet, "/ranking", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, config.MsgRankingError, resp.Message)

	data := dataMap(resp)
	assert.Equal(t, "local", data["source"])

	entries := entriesOf(data)
	require.NotEmpty(t, entries)

	// 500 local points put the current user on top of the seed list.
	first, _ := entries[0].(map[string]interface{})
	assert.Equal(t, "eu@local.com", first["email"])
	assert.Equal(t, "🥇", first["medal"])
	assert.Equal(t, "gold", first["positionClass"])
	assert.Equal(t, true, first["isCurrentUser"])

	seen := 0
	for _, e := range entries {
		row, _ := e.(map[string]interface{})
		if row["email"] == "eu@local.com" {
			seen++
		}
	}
	assert.Equal(t, 1, seen, "current user listed exactly once")
}

func TestRankingRemoteDecorated(t *testing.T) {
	fake := &fakeAPI{ranking: []models.RankingEntry{
		{ID: 1, Name: "Lider", Email: "lider@empresa.com", TotalPoints: 300, Position: 1},
		{ID: 2, Name: "Eu", Email: "eu@local.com", TotalPoints: 200, Position: 2},
	}}
	r, _ := newRankingTest(t, fake)

	w, resp := doRequest(r.Get, http.MethodGet, "/ranking", "")
	require.Equal(t, http.StatusOK, w.Code)

	entries := entriesOf(dataMap(resp))
	require.Len(t, entries, 2)

	first, _ := entries[0].(map[string]interface{})
	second, _ := entries[1].(map[string]interface{})
	assert.Equal(t, "🥇", first["medal"])
	assert.Equal(t, false, first["isCurrentUser"])
	assert.Equal(t, "🥈", second["medal"])
	assert.Equal(t, true, second["isCurrentUser"])
}

func TestRankingUnauthorized(t *testing.T) {
	fake := &fakeAPI{rankingErr: &upstream.APIError{Message: "expired", Status: 401, Operation: "ranking"}}
	r, _ := newRankingTest(t, fake)

	w, _ := doRequest(r.Get, http.MethodGet, "/ranking", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, config.RouteLogin, w.Header().Get("Location"))
}
