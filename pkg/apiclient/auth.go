package apiclient

import (
	"context"
	"io"
	"net/http"

	"bookbuddy/pkg/domain"
)

type authResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// Login exchanges credentials for the user record and a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/user/login", payload, &resp); err != nil {
		return domain.User{}, "", err
	}
	return resp.User, resp.Token, nil
}

// Register creates an account and logs it in in one step.
func (c *Client) Register(ctx context.Context, name, email, password string) (domain.User, string, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/user/register", payload, &resp); err != nil {
		return domain.User{}, "", err
	}
	return resp.User, resp.Token, nil
}

// UpdateProfile patches the profile's name and email and returns the updated
// user record.
func (c *Client) UpdateProfile(ctx context.Context, name, email string) (domain.User, error) {
	payload := map[string]string{"name": name, "email": email}
	var user domain.User
	if err := c.doJSON(ctx, http.MethodPatch, "/user", payload, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// ChangeProfilePicture uploads a new profile image under the "file" part and
// returns the stored asset reference.
func (c *Client) ChangeProfilePicture(ctx context.Context, filename, contentType string, r io.Reader) (domain.FileRef, error) {
	files := []FormFile{{Field: "file", Name: filename, ContentType: contentType, Reader: r}}
	var resp struct {
		ProfilePic domain.FileRef `json:"profile_pic"`
	}
	if err := c.doMultipart(ctx, http.MethodPost, "/user/profile-pic-change", nil, files, &resp); err != nil {
		return domain.FileRef{}, err
	}
	return resp.ProfilePic, nil
}
