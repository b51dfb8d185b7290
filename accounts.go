package fastset

import (
	"context"
	"math/big"
)

// AccountInfoRequest is the getAccountInfo payload.
type AccountInfoRequest struct {
	Sender string `json:"sender"`
}

// AccountInfo is the subset of getAccountInfo used by the bot.
type AccountInfo struct {
	Balance       Amount            `json:"balance"`
	NextNonce     Nonce             `json:"nextNonce"`
	TokenBalances map[string]Amount `json:"tokenBalances"`
}

// TokenBalance returns the balance held for tokenID. A missing entry is zero, never an error.
func (info *AccountInfo) TokenBalance(tokenID string) *big.Int {
	if bal, ok := info.TokenBalances[tokenID]; ok {
		return bal.BigInt()
	}
	return new(big.Int)
}

// GetAccountInfo fetches balance, next nonce and token balances for sender (base64 public key).
func (client *Client) GetAccountInfo(ctx context.Context, sender string) (*AccountInfo, error) {
	result := new(AccountInfo)
	if err := client.PostMethod(ctx, "getAccountInfo", AccountInfoRequest{Sender: sender}, result); err != nil {
		return nil, err
	}
	return result, nil
}
