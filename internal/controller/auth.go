package controller

import (
	"context"
	"strings"

	"writook/internal/apierror"
)

// AuthController backs the login and register screens.
type AuthController struct {
	deps    Deps
	pending inflight
}

// NewAuthController builds the auth page controller.
func NewAuthController(deps Deps) *AuthController {
	return &AuthController{deps: deps}
}

// Login exchanges credentials for a session and navigates home. The backend
// accepts an email in the username field for legacy accounts.
func (c *AuthController) Login(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		err := apierror.Validation("username and password are required")
		c.deps.Notify.Error(err.Message)
		return err
	}
	if !c.pending.begin() {
		return apierror.Validation("a login is already in progress")
	}
	defer c.pending.end()

	token, user, err := c.deps.Auth.Login(ctx, username, password)
	if err != nil {
		c.deps.notifyError(err, "Connection error. Check that the backend is running.")
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.deps.Sessions.Login(ctx, token, user)
	c.deps.Notify.Success("Welcome back, " + user.Username + "!")
	c.deps.navigate(RouteHome)
	return nil
}

// Register creates an account; the caller logs in afterwards.
func (c *AuthController) Register(ctx context.Context, username, email, password string) error {
	switch {
	case strings.TrimSpace(username) == "":
		return c.validationError("username is required")
	case strings.TrimSpace(email) == "":
		return c.validationError("email is required")
	case password == "":
		return c.validationError("password is required")
	}
	if !c.pending.begin() {
		return apierror.Validation("a registration is already in progress")
	}
	defer c.pending.end()

	if err := c.deps.Auth.Register(ctx, username, email, password, username); err != nil {
		c.deps.notifyError(err, "Connection error. Check that the backend is running.")
		return err
	}
	c.deps.Notify.Success("Account created! You can log in now.")
	c.deps.navigate(RouteLogin)
	return nil
}

// Logout drops the session and goes home.
func (c *AuthController) Logout(ctx context.Context) {
	c.deps.Sessions.Logout(ctx)
	c.deps.Notify.Info("Logged out.")
	c.deps.navigate(RouteHome)
}

func (c *AuthController) validationError(msg string) error {
	err := apierror.Validation(msg)
	c.deps.Notify.Error(msg)
	return err
}
