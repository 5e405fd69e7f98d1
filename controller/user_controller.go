package controller

import (
	"net/http"

	"tweeteroo/service"
)

type UserController struct {
	users *service.UserService
}

func NewUserController(users *service.UserService) *UserController {
	return &UserController{users: users}
}

// SignUp handles POST /sign-up and POST /users.
// 201 with the stored user, 422 with the first violated rule as text.
func (c *UserController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	msgs, err := bind(r, &req)
	if err != nil {
		writeBindError(w, r, err)
		return
	}
	if len(msgs) > 0 {
		writeText(w, http.StatusUnprocessableEntity, msgs[0])
		return
	}

	user, err := c.users.Register(r.Context(), *req.Username, *req.Avatar)
	if err != nil {
		writeServiceError(w, r, err, "sign-up", "failed to register user")
		return
	}
	writeJSON(w, r, http.StatusCreated, user)
}
