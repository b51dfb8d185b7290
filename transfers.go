package fastset

import "context"

// TransferInfo is the transfer body. TokenID is omitted for native transfers.
type TransferInfo struct {
	Recipient string `json:"recipient"`
	Amount    Amount `json:"amount"`
	TokenID   string `json:"tokenId,omitempty"`
}

// TransferRequest is the transferBalance / transferToken payload. NextNonce must be the value
// most recently returned by GetAccountInfo for Sender.
type TransferRequest struct {
	Sender       string       `json:"sender"`
	Key          string       `json:"key"`
	NextNonce    uint64       `json:"nextNonce"`
	TransferInfo TransferInfo `json:"transferInfo"`
}

// TransferBalance submits a native-unit transfer.
func (client *Client) TransferBalance(ctx context.Context, req *TransferRequest) error {
	req.TransferInfo.TokenID = ""
	return client.PostMethod(ctx, "transferBalance", req, nil)
}

// TransferToken submits a fungible-token transfer.
func (client *Client) TransferToken(ctx context.Context, req *TransferRequest) error {
	return client.PostMethod(ctx, "transferToken", req, nil)
}
