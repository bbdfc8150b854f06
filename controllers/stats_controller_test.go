package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/routes"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/testutil"
)

func TestGetStats(t *testing.T) {
	db := testutil.Setup(t)
	r := routes.SetupRouter(db)
	_, alice := testutil.Signup(t, r, "alice@x.com")
	testutil.Register(t, r, "bob@x.com", "p1")

	post := createPost(t, r, alice, "t", "c")
	createComment(t, r, alice, post.ID, "one")
	createComment(t, r, alice, post.ID, "two")

	rr := testutil.Do(t, r, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var stats struct {
		UserCount    int64 `json:"userCount"`
		PostCount    int64 `json:"postCount"`
		CommentCount int64 `json:"commentCount"`
	}
	testutil.Decode(t, rr, &stats)
	assert.EqualValues(t, 2, stats.UserCount)
	assert.EqualValues(t, 1, stats.PostCount)
	assert.EqualValues(t, 2, stats.CommentCount)
}
