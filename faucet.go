package fastset

import "context"

// DripInfo describes a faucet grant. TokenID is omitted for the native unit.
type DripInfo struct {
	Recipient string `json:"recipient"`
	Amount    Amount `json:"amount"`
	TokenID   string `json:"tokenId,omitempty"`
}

// DripRequest is the dripBalance / dripToken payload.
type DripRequest struct {
	Sender string   `json:"sender"`
	Info   DripInfo `json:"info"`
}

// DripBalance asks the testnet faucet for native balance. Each call grants again.
func (client *Client) DripBalance(ctx context.Context, req *DripRequest) error {
	req.Info.TokenID = ""
	return client.PostMethod(ctx, "dripBalance", req, nil)
}

// DripToken asks the testnet faucet for a fungible token.
func (client *Client) DripToken(ctx context.Context, req *DripRequest) error {
	return client.PostMethod(ctx, "dripToken", req, nil)
}
