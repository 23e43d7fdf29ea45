package controller

import (
	"net/http"

	"github.com/gorilla/mux"

	"twitter-api/model"
	"twitter-api/service"
)

type tweetCreated struct {
	TweetID string `json:"tweet_id"`
	UserID  string `json:"user_id"`
	Text    string `json:"text"`
}

// CreateTweetHandler handles POST /tweets with body {"user_id", "text"}.
func (c *Controller) CreateTweetHandler(w http.ResponseWriter, r *http.Request) {
	var in service.CreateTweetInput
	if err := decode(r, &in); err != nil {
		c.respondError(w, r, err, "Error creating tweet")
		return
	}

	t, err := c.svc.CreateTweet(r.Context(), in)
	if err != nil {
		c.respondError(w, r, err, "Error creating tweet")
		return
	}

	respond(w, http.StatusCreated, model.Success("Tweet created successfully",
		tweetCreated{TweetID: t.ID.Hex(), UserID: t.UserID.Hex(), Text: t.Text}, http.StatusCreated))
}

// ListTweetsHandler handles GET /tweets.
func (c *Controller) ListTweetsHandler(w http.ResponseWriter, r *http.Request) {
	tweets, err := c.svc.ListTweets(r.Context())
	if err != nil {
		c.respondError(w, r, err, "Error fetching tweets")
		return
	}
	respond(w, http.StatusOK, model.Success("Tweets retrieved successfully", tweets, http.StatusOK))
}

// TimelineHandler handles GET /users/{id}/timeline.
func (c *Controller) TimelineHandler(w http.ResponseWriter, r *http.Request) {
	tl, err := c.svc.Timeline(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		c.respondError(w, r, err, "Error fetching timeline")
		return
	}

	message := "Timeline retrieved successfully"
	if tl.Following == 0 {
		message = "No users followed yet"
	}
	respond(w, http.StatusOK, model.Success(message, tl.Tweets, http.StatusOK))
}
