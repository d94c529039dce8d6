package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"sportzone-cli/model"
)

// Register creates an account. The API ignores any role other than USER or
// VENUE_OWNER coming from the public form.
func (c *Client) Register(ctx context.Context, user model.User) (model.User, error) {
	if strings.TrimSpace(user.Username) == "" || strings.TrimSpace(user.Email) == "" || user.Password == "" {
		return model.User{}, errors.New("username, email and password are required")
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	var created model.User
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("/api/users/register", nil), user, &created); err != nil {
		return model.User{}, err
	}
	return created, nil
}

// Login exchanges an email or username and a password for the user record.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.User, error) {
	creds.Identifier = strings.TrimSpace(creds.Identifier)
	if creds.Identifier == "" || creds.Password == "" {
		return model.User{}, errors.New("identifier and password are required")
	}
	var user model.User
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("/api/users/login", nil), creds, &user); err != nil {
		return model.User{}, err
	}
	if user.Id == 0 {
		return model.User{}, errors.New("login returned no user")
	}
	return user, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (model.User, error) {
	if id == 0 {
		return model.User{}, errors.New("user id is required")
	}
	var user model.User
	if err := c.getJSON(ctx, c.endpoint(fmt.Sprintf("/api/users/%d", id), nil), &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.getJSON(ctx, c.endpoint("/api/users", nil), &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser saves a profile change and returns the stored user, which
// replaces the one held by the session.
func (c *Client) UpdateUser(ctx context.Context, id int64, update model.ProfileUpdate) (model.User, error) {
	if id == 0 {
		return model.User{}, errors.New("user id is required")
	}
	update.Name = strings.TrimSpace(update.Name)
	if update.Name == "" {
		return model.User{}, errors.New("name is required")
	}
	var updated model.User
	if err := c.doJSON(ctx, http.MethodPut, c.endpoint(fmt.Sprintf("/api/users/%d", id), nil), update, &updated); err != nil {
		return model.User{}, err
	}
	return updated, nil
}

// UpdateUserRole changes only the role, leaving the rest of the record alone.
func (c *Client) UpdateUserRole(ctx context.Context, id int64, role model.Role) (model.User, error) {
	if id == 0 {
		return model.User{}, errors.New("user id is required")
	}
	body := map[string]model.Role{"role": role}
	var updated model.User
	if err := c.doJSON(ctx, http.MethodPut, c.endpoint(fmt.Sprintf("/api/users/%d", id), nil), body, &updated); err != nil {
		return model.User{}, err
	}
	return updated, nil
}
