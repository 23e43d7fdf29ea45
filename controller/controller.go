// Package controller exposes the service over HTTP/JSON. Every response body
// is a model.Envelope.
package controller

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"twitter-api/model"
	"twitter-api/service"
)

type Controller struct {
	svc *service.Service
	log *slog.Logger
}

func New(svc *service.Service, log *slog.Logger) *Controller {
	return &Controller{svc: svc, log: log.With(slog.String("module", "http"))}
}

type userCreated struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type userFollowed struct {
	UserID string `json:"user_id"`
}

// CreateUserHandler handles POST /users with body {"username", "email"}.
func (c *Controller) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var in service.CreateUserInput
	if err := decode(r, &in); err != nil {
		c.respondError(w, r, err, "Error creating user")
		return
	}

	u, err := c.svc.CreateUser(r.Context(), in)
	if err != nil {
		c.respondError(w, r, err, "Error creating user")
		return
	}

	respond(w, http.StatusCreated, model.Success("User created successfully",
		userCreated{UserID: u.ID.Hex(), Username: u.Username, Email: u.Email}, http.StatusCreated))
}

// ListUsersHandler handles GET /users.
func (c *Controller) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := c.svc.ListUsers(r.Context())
	if err != nil {
		c.respondError(w, r, err, "Error fetching users")
		return
	}
	respond(w, http.StatusOK, model.Success("Users retrieved successfully", users, http.StatusOK))
}

// UserHandler handles GET /users/{id}.
func (c *Controller) UserHandler(w http.ResponseWriter, r *http.Request) {
	u, err := c.svc.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		c.respondError(w, r, err, "Error fetching user")
		return
	}
	respond(w, http.StatusOK, model.Success("User retrieved successfully", u, http.StatusOK))
}

// FollowHandler handles POST /users/{id}/follow with body {"current_user_id"}:
// the current user starts following {id}.
func (c *Controller) FollowHandler(w http.ResponseWriter, r *http.Request) {
	var in service.FollowInput
	if err := decode(r, &in); err != nil {
		c.respondError(w, r, err, "Error following user")
		return
	}

	target := mux.Vars(r)["id"]
	if err := c.svc.Follow(r.Context(), target, in); err != nil {
		c.respondError(w, r, err, "Error following user")
		return
	}
	respond(w, http.StatusOK, model.Success("User followed successfully", userFollowed{UserID: target}, http.StatusOK))
}

// PingHandler handles GET /ping. It never touches the store.
func (c *Controller) PingHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, model.Success("pong", nil, 0))
}

func (c *Controller) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusNotFound, model.Failure("Resource not found", http.StatusNotFound,
		r.Method+" "+r.URL.Path+" does not exist"))
}

func (c *Controller) methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusMethodNotAllowed, model.Failure("Method not allowed", http.StatusMethodNotAllowed,
		r.Method+" is not supported on "+r.URL.Path))
}
