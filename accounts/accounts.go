// Package accounts builds the immutable account records the bot sends from.
package accounts

import (
	"encoding/base64"
	"fmt"
	"regexp"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fastset-labs/fastset-go-sdk/address"
	"github.com/fastset-labs/fastset-go-sdk/config"
)

var privateKeyPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// Account is one configured sender.
type Account struct {
	PrivateKey []byte
	Address    string
	PublicKey  []byte
	// SenderID is the base64 public key used as "sender" in API payloads.
	SenderID string
	// SigningKey is base64(PrivateKey || PublicKey), sent as "key" on transfers.
	SigningKey string
}

// Build pairs privateKeys[i] with addresses[i]. Every key is validated before any address is
// decoded, so one malformed key fails the whole build.
func Build(privateKeys, addresses []string) ([]Account, error) {
	if len(privateKeys) == 0 || len(addresses) == 0 {
		return nil, fmt.Errorf("%w: PRIVATE_KEYS and ADDRESSES must both be set", config.ErrConfig)
	}
	if len(privateKeys) != len(addresses) {
		return nil, fmt.Errorf("%w: %d private keys but %d addresses", config.ErrConfig, len(privateKeys), len(addresses))
	}
	for i, key := range privateKeys {
		if !privateKeyPattern.MatchString(key) {
			return nil, fmt.Errorf("%w: private key #%d must be 64 hex characters", config.ErrConfig, i+1)
		}
	}

	out := make([]Account, 0, len(privateKeys))
	for i, key := range privateKeys {
		priv := common.FromHex(key)
		pub, err := address.Decode(addresses[i])
		if err != nil {
			return nil, fmt.Errorf("address #%d: %w", i+1, err)
		}
		signing := make([]byte, 0, len(priv)+len(pub))
		signing = append(append(signing, priv...), pub...)
		out = append(out, Account{
			PrivateKey: priv,
			Address:    addresses[i],
			PublicKey:  pub,
			SenderID:   base64.StdEncoding.EncodeToString(pub),
			SigningKey: base64.StdEncoding.EncodeToString(signing),
		})
	}
	return out, nil
}

// Addresses lists the source-form addresses of accts in order.
func Addresses(accts []Account) []string {
	out := make([]string, len(accts))
	for i, a := range accts {
		out[i] = a.Address
	}
	return out
}
