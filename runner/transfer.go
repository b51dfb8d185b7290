package runner

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	fastset "github.com/fastset-labs/fastset-go-sdk"
	"github.com/fastset-labs/fastset-go-sdk/accounts"
	"github.com/fastset-labs/fastset-go-sdk/address"
	"github.com/fastset-labs/fastset-go-sdk/tokens"
)

// DefaultSettleDelay is how long a faucet grant is given to land before re-reading balances.
const DefaultSettleDelay = 5 * time.Second

// SendRequest describes one transfer attempt. Amount is in human units.
type SendRequest struct {
	Account    accounts.Account
	Token      tokens.Token
	Amount     decimal.Decimal
	Recipients []string
	Own        []string
}

// TransferSender performs one transfer end to end. It holds no locks: callers must not run
// two sends for the same account at once, or both would use the same nonce.
type TransferSender struct {
	API         API
	Display     Display
	Picker      RecipientPicker
	Sleep       Sleeper
	SettleDelay time.Duration
}

// Send returns the recipient address on success.
func (s *TransferSender) Send(ctx context.Context, req SendRequest) (string, error) {
	display := s.Display
	if display == nil {
		display = nopDisplay{}
	}

	recipient, err := s.Picker.Pick(req.Recipients, req.Own)
	if err != nil {
		return "", err
	}
	pub, err := address.Decode(recipient)
	if err != nil {
		return "", fmt.Errorf("recipient %s: %w", address.Short(recipient), err)
	}
	amount := tokens.ToBaseUnits(req.Amount, req.Token.Decimals)

	display.Log(LevelPending, fmt.Sprintf("Preparing %s %s -> %s", req.Amount.String(), req.Token.Name, address.Short(recipient)))

	oracle := BalanceOracle{API: s.API}
	info, err := oracle.Fetch(ctx, req.Account.SenderID)
	if err != nil {
		return "", err
	}
	if BalanceFor(info, req.Token).Cmp(amount) < 0 {
		display.Log(LevelWarning, fmt.Sprintf("%s balance too low, claiming faucet...", req.Token.Name))
		if err := (Faucet{API: s.API, Display: display}).Claim(ctx, req.Account, req.Token); err != nil {
			return "", err
		}
		if err := s.sleep(ctx, s.settleDelay()); err != nil {
			return "", err
		}
		if info, err = oracle.Fetch(ctx, req.Account.SenderID); err != nil {
			return "", err
		}
		if have := BalanceFor(info, req.Token); have.Cmp(amount) < 0 {
			return "", fmt.Errorf("%w: have %s %s, need %s", ErrInsufficientFunds, have, req.Token.Name, amount)
		}
	}

	transfer := &fastset.TransferRequest{
		Sender:    req.Account.SenderID,
		Key:       req.Account.SigningKey,
		NextNonce: uint64(info.NextNonce),
		TransferInfo: fastset.TransferInfo{
			Recipient: base64.StdEncoding.EncodeToString(pub),
			Amount:    fastset.NewAmount(amount),
		},
	}
	switch req.Token.Kind {
	case tokens.KindNative:
		err = s.API.TransferBalance(ctx, transfer)
	case tokens.KindFungible:
		transfer.TransferInfo.TokenID = req.Token.ID
		err = s.API.TransferToken(ctx, transfer)
	default:
		panic(fmt.Sprintf("runner: unhandled token kind %v", req.Token.Kind))
	}
	if err != nil {
		return "", fmt.Errorf("transfer %s: %w", req.Token.Name, err)
	}

	display.Log(LevelSuccess, fmt.Sprintf("Sent %s %s -> %s (nonce %d)", req.Amount.String(), req.Token.Name, address.Short(recipient), info.NextNonce))
	return recipient, nil
}

func (s *TransferSender) sleep(ctx context.Context, d time.Duration) error {
	if s.Sleep != nil {
		return s.Sleep(ctx, d)
	}
	return SleepContext(ctx, d)
}

func (s *TransferSender) settleDelay() time.Duration {
	if s.SettleDelay > 0 {
		return s.SettleDelay
	}
	return DefaultSettleDelay
}
