package api

import "context"

// SyncUser upserts the identity-provider user into the backend and returns
// the backend profile.
func (c *Client) SyncUser(ctx context.Context, u UserSync) (User, error) {
	var out User
	err := c.post(ctx, "/users/sync", u, &out)
	return out, err
}

// Me returns the profile of the bound identity.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	err := c.get(ctx, "/users/me", &out)
	return out, err
}

func (c *Client) UpdateMe(ctx context.Context, u UserUpdate) (User, error) {
	var out User
	err := c.put(ctx, "/users/me", u, &out)
	return out, err
}
