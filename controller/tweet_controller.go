package controller

import (
	"net/http"

	"github.com/gorilla/mux"

	"tweeteroo/service"
)

type TweetController struct {
	tweets *service.TweetService
}

func NewTweetController(tweets *service.TweetService) *TweetController {
	return &TweetController{tweets: tweets}
}

// Create handles POST /tweets.
func (c *TweetController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTweetRequest
	msgs, err := bind(r, &req)
	if err != nil {
		writeBindError(w, r, err)
		return
	}
	if len(msgs) > 0 {
		writeText(w, http.StatusUnprocessableEntity, msgs[0])
		return
	}

	tweet, err := c.tweets.Create(r.Context(), *req.Username, *req.Tweet)
	if err != nil {
		writeServiceError(w, r, err, "create-tweet", "failed to post tweet")
		return
	}
	writeJSON(w, r, http.StatusCreated, tweet)
}

// List handles GET /tweets.
func (c *TweetController) List(w http.ResponseWriter, r *http.Request) {
	feed, err := c.tweets.Feed(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "list-tweets", "failed to load tweets")
		return
	}
	writeJSON(w, r, http.StatusOK, feed)
}

// Update handles PUT /tweets/{id}. A body that fails to bind is reported
// only when the tweet exists; otherwise the answer is 404. Validation
// failures are a JSON array of every message.
func (c *TweetController) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateTweetRequest
	msgs, bindErr := bind(r, &req)
	if bindErr != nil || len(msgs) > 0 {
		exists, err := c.tweets.Exists(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err, "update-tweet", "failed to update tweet")
			return
		}
		if !exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if bindErr != nil {
			writeBindError(w, r, bindErr)
			return
		}
		writeJSON(w, r, http.StatusUnprocessableEntity, msgs)
		return
	}

	if err := c.tweets.Update(r.Context(), id, *req.Tweet); err != nil {
		writeServiceError(w, r, err, "update-tweet", "failed to update tweet")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /tweets/{id}.
func (c *TweetController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.tweets.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err, "delete-tweet", "failed to delete tweet")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
