package tokens

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind tells native balance apart from fungible tokens. Every switch over Kind must cover both.
type Kind int

const (
	KindNative Kind = iota
	KindFungible
)

func (k Kind) String() string {
	switch k {
	case KindNative:
		return "native"
	case KindFungible:
		return "fungible"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// SendRange bounds a random transfer amount in human units.
type SendRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

type Token struct {
	Name string
	Kind Kind
	// ID is the wallet API token identifier. Empty for the native unit.
	ID           string
	Decimals     uint8
	FaucetAmount *big.Int
	Range        SendRange
}

// DisplayPlaces is the number of fractional digits shown for amounts of t.
func (t Token) DisplayPlaces() int32 {
	return int32(min(6, t.Decimals))
}

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("tokens: bad integer literal " + s)
	}
	return v
}

func sendRange(lo, hi string) SendRange {
	return SendRange{Min: decimal.RequireFromString(lo), Max: decimal.RequireFromString(hi)}
}

// Default returns the testnet token table. The slice is freshly allocated on each call.
func Default() []Token {
	return []Token{
		{Name: "SET", Kind: KindNative, Decimals: 0, FaucetAmount: mustBig("98686"), Range: sendRange("1", "10")},
		{Name: "USDC", Kind: KindFungible, ID: "ReFosxqpCeJTBuJXJOSoAFE8F4+fXpftTJBYs8qAaeI=", Decimals: 6,
			FaucetAmount: mustBig("1000000000"), Range: sendRange("0.02", "0.045")},
		{Name: "ETH", Kind: KindFungible, ID: "webWlA8UWwxnPc+awV0isStdDwYyynDf+eoh3ezEzWc=", Decimals: 18,
			FaucetAmount: mustBig("3140000000000000000"), Range: sendRange("0.0003", "0.00075")},
		{Name: "SOL", Kind: KindFungible, ID: "2EJhDfYD4V39bKTVgJUhEd0LAs3VUAfEiGRucXc9eHU=", Decimals: 9,
			FaucetAmount: mustBig("100000000000"), Range: sendRange("0.0003", "0.00075")},
		{Name: "BTC", Kind: KindFungible, ID: "/NHeobovw7GeS14wseW3RmvFRQIojkfWEGG+0HaIPtE=", Decimals: 8,
			FaucetAmount: mustBig("100000000"), Range: sendRange("0.000003", "0.0000075")},
	}
}

// ByName finds a token by case-insensitive name.
func ByName(set []Token, name string) (Token, bool) {
	for _, t := range set {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Token{}, false
}

// ToBaseUnits converts a human amount to the smallest unit, truncating toward zero.
func ToBaseUnits(human decimal.Decimal, decimals uint8) *big.Int {
	return human.Shift(int32(decimals)).Truncate(0).BigInt()
}

// Float64Source is satisfied by *rand.Rand from math/rand/v2.
type Float64Source interface {
	Float64() float64
}

// RandomAmount draws uniformly from t.Range and rounds to t.DisplayPlaces.
func RandomAmount(src Float64Source, t Token) decimal.Decimal {
	span := t.Range.Max.Sub(t.Range.Min)
	v := t.Range.Min.Add(span.Mul(decimal.NewFromFloat(src.Float64())))
	return v.Round(t.DisplayPlaces())
}

// FormatUnits renders a smallest-unit amount in human units with t.DisplayPlaces digits.
func FormatUnits(raw *big.Int, t Token) string {
	if raw == nil {
		raw = new(big.Int)
	}
	if t.Decimals == 0 {
		return raw.String()
	}
	return decimal.NewFromBigInt(raw, -int32(t.Decimals)).StringFixed(t.DisplayPlaces())
}
