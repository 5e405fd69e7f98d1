package app

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"tweeteroo/controller"
)

// NewRouter registers every route and wraps the result in CORS for any origin.
func NewRouter(users *controller.UserController, tweets *controller.TweetController, health *controller.HealthController) http.Handler {
	r := mux.NewRouter()
	r.Use(controller.RequestID, controller.AccessLog, controller.LimitBody)

	r.HandleFunc("/health", health.Health).
		Methods(http.MethodGet)

	r.HandleFunc("/sign-up", users.SignUp).
		Methods(http.MethodPost)
	r.HandleFunc("/users", users.SignUp).
		Methods(http.MethodPost)

	r.HandleFunc("/tweets", tweets.Create).
		Methods(http.MethodPost)
	r.HandleFunc("/tweets", tweets.List).
		Methods(http.MethodGet)
	r.HandleFunc("/tweets/{id}", tweets.Update).
		Methods(http.MethodPut)
	r.HandleFunc("/tweets/{id}", tweets.Delete).
		Methods(http.MethodDelete)

	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Request-ID"}),
		handlers.ExposedHeaders([]string{"X-Request-ID"}),
	)(r)
}
