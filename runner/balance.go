package runner

import (
	"context"
	"fmt"
	"math/big"
	"strconv"

	fastset "github.com/fastset-labs/fastset-go-sdk"
	"github.com/fastset-labs/fastset-go-sdk/accounts"
	"github.com/fastset-labs/fastset-go-sdk/tokens"
)

// BalanceOracle reads balances and the next nonce for an account.
type BalanceOracle struct {
	API API
}

func (o BalanceOracle) Fetch(ctx context.Context, senderID string) (*fastset.AccountInfo, error) {
	info, err := o.API.GetAccountInfo(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("fetch account info: %w", err)
	}
	return info, nil
}

// BalanceFor picks the balance of t out of info. A token without an entry has zero balance.
func BalanceFor(info *fastset.AccountInfo, t tokens.Token) *big.Int {
	switch t.Kind {
	case tokens.KindNative:
		return info.Balance.BigInt()
	case tokens.KindFungible:
		return info.TokenBalance(t.ID)
	default:
		panic(fmt.Sprintf("runner: unhandled token kind %v", t.Kind))
	}
}

// RefreshBalances fetches acct's balances and pushes them to d. Errors are logged to d and
// returned.
func RefreshBalances(ctx context.Context, api API, d Display, acct accounts.Account, network string, set []tokens.Token) error {
	info, err := BalanceOracle{API: api}.Fetch(ctx, acct.SenderID)
	if err != nil {
		d.Log(LevelError, "Failed to fetch balances: "+err.Error())
		return err
	}

	d.UpdateWallet(WalletView{
		Address:       acct.Address,
		NativeBalance: info.Balance.String(),
		Network:       network,
		Nonce:         strconv.FormatUint(uint64(info.NextNonce), 10),
	})
	views := make([]TokenView, 0, len(set))
	for _, t := range set {
		views = append(views, TokenView{Name: t.Name, Balance: tokens.FormatUnits(BalanceFor(info, t), t)})
	}
	d.SetTokens(views)
	return nil
}
