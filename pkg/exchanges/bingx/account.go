package bingx

import "context"

// GetAllAccountBalances returns balances across all account types, optionally
// filtered to one account type.
func (c *Client) GetAllAccountBalances(ctx context.Context, accountType string) (*Response, error) {
	params := Params{}
	if accountType != "" {
		params["accountType"] = accountType
	}
	return c.get(ctx, "/openApi/account/v1/allAccountBalance", params, true)
}

// GetAPIPermissions returns the permissions and IP whitelist of the
// authenticated API key.
func (c *Client) GetAPIPermissions(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/openApi/v1/account/apiPermissions", nil, true)
}
