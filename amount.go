package fastset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
)

// Amount is an arbitrary-precision integer in a token's smallest unit. It decodes from a JSON
// number, a decimal string or a 0x-prefixed hex string, and encodes as a decimal string.
type Amount struct {
	big.Int
}

// NewAmount copies v into an Amount. A nil v yields zero.
func NewAmount(v *big.Int) Amount {
	var a Amount
	if v != nil {
		a.Set(v)
	}
	return a
}

// BigInt returns a copy of the value.
func (a *Amount) BigInt() *big.Int {
	return new(big.Int).Set(&a.Int)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Int.String())
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		a.SetInt64(0)
		return nil
	}
	text := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		text = strings.TrimSpace(s)
		if text == "" {
			a.SetInt64(0)
			return nil
		}
	}
	v, ok := math.ParseBig256(text)
	if !ok {
		return fmt.Errorf("invalid amount %q", text)
	}
	a.Set(v)
	return nil
}

// Nonce is an account sequence number. Like Amount it accepts a JSON number, a decimal string
// or a 0x-prefixed hex string.
type Nonce uint64

func (n *Nonce) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	text := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		text = strings.TrimSpace(s)
	}
	v, ok := math.ParseUint64(text)
	if !ok {
		return fmt.Errorf("invalid nonce %q", text)
	}
	*n = Nonce(v)
	return nil
}
