package bybit

import (
	"context"
	"fmt"

	"github.com/veiloq/trading-sdk/pkg/exchanges/interfaces"
)

// GetWalletBalance returns wallet balances for an account type, optionally
// narrowed to a comma-separated coin list.
func (c *Client) GetWalletBalance(ctx context.Context, accountType AccountType, coin string) (*Response, error) {
	if accountType == "" {
		return nil, fmt.Errorf("%w: account type is required", interfaces.ErrValidation)
	}

	params := Params{
		"accountType": string(accountType),
	}
	if coin != "" {
		params["coin"] = coin
	}

	return c.get(ctx, "/v5/account/wallet-balance", params, true)
}

// GetAccountInfo returns margin mode, account status and upgrade state.
func (c *Client) GetAccountInfo(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/v5/account/info", nil, true)
}

// SetMarginMode switches the account margin mode.
func (c *Client) SetMarginMode(ctx context.Context, mode MarginMode) (*Response, error) {
	if mode == "" {
		return nil, fmt.Errorf("%w: margin mode is required", interfaces.ErrValidation)
	}

	params := Params{
		"setMarginMode": string(mode),
	}
	return c.post(ctx, "/v5/account/set-margin-mode", params, true)
}
