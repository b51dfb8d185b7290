package runner

import (
	"context"
	"fmt"

	fastset "github.com/fastset-labs/fastset-go-sdk"
	"github.com/fastset-labs/fastset-go-sdk/accounts"
	"github.com/fastset-labs/fastset-go-sdk/tokens"
)

// Faucet claims the fixed testnet grant of a token for an account, paid to itself.
type Faucet struct {
	API     API
	Display Display
}

func (f Faucet) Claim(ctx context.Context, acct accounts.Account, t tokens.Token) error {
	req := &fastset.DripRequest{
		Sender: acct.SenderID,
		Info: fastset.DripInfo{
			Recipient: acct.SenderID,
			Amount:    fastset.NewAmount(t.FaucetAmount),
		},
	}

	var err error
	switch t.Kind {
	case tokens.KindNative:
		err = f.API.DripBalance(ctx, req)
	case tokens.KindFungible:
		req.Info.TokenID = t.ID
		err = f.API.DripToken(ctx, req)
	default:
		panic(fmt.Sprintf("runner: unhandled token kind %v", t.Kind))
	}
	if err != nil {
		return fmt.Errorf("faucet %s: %w", t.Name, err)
	}

	if f.Display != nil {
		f.Display.Log(LevelSuccess, fmt.Sprintf("Faucet %s claimed: %s", t.Name, t.FaucetAmount))
	}
	return nil
}
