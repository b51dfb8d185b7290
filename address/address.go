// Package address decodes FastSet bech32-style addresses into raw public-key bytes.
//
// The trailing six checksum symbols are dropped without being verified.
package address

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	charset      = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"
	checksumSize = 6
)

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrPadding        = errors.New("invalid address padding")
)

// Decode returns the public-key bytes carried by text. The input is case-insensitive.
func Decode(text string) ([]byte, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	pos := strings.LastIndexByte(s, '1')
	if pos < 1 {
		return nil, fmt.Errorf("%w: missing separator in %q", ErrInvalidAddress, text)
	}
	symbols := s[pos+1:]
	if len(symbols) < checksumSize {
		return nil, fmt.Errorf("%w: %q is too short", ErrInvalidAddress, text)
	}

	data := make([]byte, 0, len(symbols)-checksumSize)
	for i := 0; i < len(symbols); i++ {
		v := strings.IndexByte(charset, symbols[i])
		if v < 0 {
			return nil, fmt.Errorf("%w: bad character %q at %d", ErrInvalidAddress, symbols[i], pos+1+i)
		}
		if i < len(symbols)-checksumSize {
			data = append(data, byte(v))
		}
	}

	out, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPadding, err)
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}

// SenderID is the base64 form of the decoded public key, as the wallet API expects it.
func SenderID(text string) (string, error) {
	pub, err := Decode(text)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(pub), nil
}

// Short renders an address as its first six and last four characters.
func Short(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
