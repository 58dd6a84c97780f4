package strawpoll

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/strawpoll/strawpoll/polls"
	"github.com/stretchr/testify/require"
)

func setupPublicRouter(t *testing.T) *gin.Engine {
	t.Helper()

	pollsREST, err := cnt.PollsREST()
	require.NoError(t, err)

	router := gin.New()
	pollsREST.SetupRouter(router)

	return router
}

func postPoll(t *testing.T, router *gin.Engine, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, "/api/polls", bytes.NewReader(payload))
	require.NoError(t, err)

	req.Header.Add("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestPostPollAndGet(t *testing.T) {
	t.Parallel()

	router := setupPublicRouter(t)

	title := fmt.Sprintf("REST round trip %d", rand.Int())

	rec := postPoll(t, router, map[string]interface{}{
		"title":   title,
		"options": []string{"Red", "Blue"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	pollID := rec.Body.String()
	require.Regexp(t, pollIDPattern, pollID)

	req, err := http.NewRequest(http.MethodGet, "/api/polls/"+pollID, nil)
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res apiPoll

	err = json.Unmarshal(rec.Body.Bytes(), &res)
	require.NoError(t, err)
	require.Equal(t, pollID, res.PollID)
	require.Equal(t, title, res.Title)
	require.Len(t, res.Options, 2)
	require.Equal(t, "Red", res.Options[0].OptionText)
	require.Equal(t, "Blue", res.Options[1].OptionText)

	for _, option := range res.Options {
		require.Zero(t, option.VoteValue)
	}
}

func TestPostPollWithoutOptions(t *testing.T) {
	t.Parallel()

	router := setupPublicRouter(t)

	rec := postPoll(t, router, map[string]interface{}{
		"title": fmt.Sprintf("No options %d", rand.Int()),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMissingPoll(t *testing.T) {
	t.Parallel()

	router := setupPublicRouter(t)

	req, err := http.NewRequest(http.MethodGet, "/api/polls/absentpoll0", nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPollsEndpoint(t *testing.T) {
	t.Parallel()

	router := setupPublicRouter(t)

	title := fmt.Sprintf("REST listed %d", rand.Int())

	rec := postPoll(t, router, map[string]interface{}{
		"title":   title,
		"options": []string{"Only"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	pollID := rec.Body.String()

	req, err := http.NewRequest(http.MethodGet, "/api/polls", nil)
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res []apiPollSummary

	err = json.Unmarshal(rec.Body.Bytes(), &res)
	require.NoError(t, err)

	found := false

	for _, summary := range res {
		if summary.PollID == pollID {
			require.Equal(t, title, summary.Title)

			found = true
		}
	}

	require.True(t, found)
}

func TestUpdateVoteValue(t *testing.T) {
	t.Parallel()

	router := setupPublicRouter(t)

	rec := postPoll(t, router, map[string]interface{}{
		"title":   fmt.Sprintf("REST votes %d", rand.Int()),
		"options": []string{"Yes", "No"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	pollID := rec.Body.String()

	patch := func(pollID string, optionText string) *httptest.ResponseRecorder {
		query := url.Values{}
		query.Set("pollId", pollID)
		query.Set("optionText", optionText)

		req, err := http.NewRequest(http.MethodPatch,
			"/api/polls/updateVoteValue?"+query.Encode(), nil)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		return rec
	}

	rec = patch(pollID, "Yes")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "VoteValue updated successfully.", rec.Body.String())

	rec = patch(pollID, "Maybe")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = patch(pollID, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = patch("", "Yes")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	repository, err := cnt.PollsRepository()
	require.NoError(t, err)

	poll, err := repository.Poll(context.Background(), pollID)
	require.NoError(t, err)
	require.EqualValues(t, 1, poll.Options[0].VoteValue)
	require.EqualValues(t, 0, poll.Options[1].VoteValue)
}

func TestDeletePollEndpoint(t *testing.T) {
	t.Parallel()

	router := setupPublicRouter(t)

	rec := postPoll(t, router, map[string]interface{}{
		"title":   fmt.Sprintf("REST delete %d", rand.Int()),
		"options": []string{"Only"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	pollID := rec.Body.String()

	del := func() *httptest.ResponseRecorder {
		req, err := http.NewRequest(http.MethodDelete, "/api/polls/"+pollID, nil)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		return rec
	}

	rec = del()
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = del()
	require.Equal(t, http.StatusNotFound, rec.Code)

	req, err := http.NewRequest(http.MethodGet, "/api/polls/"+pollID, nil)
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostPollValidationMessages(t *testing.T) {
	t.Parallel()

	router := setupPublicRouter(t)

	rec := postPoll(t, router, map[string]interface{}{
		"title":   "",
		"options": []string{"Only"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), polls.ErrTitleRequired.Error())
}
