package runner

import "fmt"

const maxRecipientDraws = 1000

// RecipientPicker draws a recipient uniformly from a pool, skipping the bot's own addresses.
type RecipientPicker struct {
	Rand interface{ IntN(n int) int }
}

// Pick gives up after maxRecipientDraws draws so a pool made only of own addresses cannot
// loop forever. Addresses are compared literally.
func (p RecipientPicker) Pick(pool, own []string) (string, error) {
	if len(pool) == 0 {
		return "", fmt.Errorf("%w: recipient pool is empty", ErrNoEligibleRecipient)
	}
	r := p.Rand
	if r == nil {
		r = globalRand{}
	}

	skip := make(map[string]struct{}, len(own))
	for _, a := range own {
		skip[a] = struct{}{}
	}
	for range maxRecipientDraws {
		candidate := pool[r.IntN(len(pool))]
		if _, mine := skip[candidate]; !mine {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no foreign address after %d draws", ErrNoEligibleRecipient, maxRecipientDraws)
}
