package tradegen

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	isinAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	isinLength   = 12

	// Share of rows that get a perturbed quantity and price.
	noiseRatio = 0.2
)

// Trade is one synthetic trade row.
type Trade struct {
	TradeID        string
	ISIN           string
	Quantity       int
	Price          int
	TradeDate      time.Time
	SettlementDate time.Time
	Counterparty   string
	Side           string
	BrokerID       string
	CompanyName    string
}

// Generator produces deterministic synthetic trade data. The same seed
// always yields the same rows, so runs are reproducible.
type Generator struct {
	seed int64
}

// NewGenerator creates a generator for the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{seed: seed}
}

// Clean generates count well-formed trades.
func (g *Generator) Clean(count int) []Trade {
	rng := rand.New(rand.NewSource(g.seed))
	trades := make([]Trade, 0, count)

	for i := 0; i < count; i++ {
		tradeDate := time.Date(2025, time.January, 1+(i%30), 0, 0, 0, 0, time.UTC)

		side := "SELL"
		if i%2 == 0 {
			side = "BUY"
		}

		trades = append(trades, Trade{
			TradeID:        fmt.Sprintf("TID%d", 100000+i),
			ISIN:           randomISIN(rng),
			Quantity:       100 + rng.Intn(9901),
			Price:          50 + rng.Intn(4951),
			TradeDate:      tradeDate,
			SettlementDate: tradeDate.AddDate(0, 0, 1),
			Counterparty:   fmt.Sprintf("CounterParty_%d", (i%10)+1),
			Side:           side,
			BrokerID:       fmt.Sprintf("BRK_%d", (i%5)+1),
			CompanyName:    fmt.Sprintf("Company_%d", (i%20)+1),
		})
	}

	return trades
}

// Noisy copies the clean set and perturbs quantity and price on a fifth of
// the rows, simulating reconciliation breaks.
func (g *Generator) Noisy(clean []Trade) []Trade {
	rng := rand.New(rand.NewSource(g.seed + 1))
	noisy := make([]Trade, len(clean))
	copy(noisy, clean)

	total := len(clean)
	noisyCount := int(float64(total) * noiseRatio)

	for i, idx := range pickIndices(rng, total, noisyCount) {
		delta := int(float64(noisy[idx].Quantity) * (rng.Float64()*0.3 + 0.05))
		if i%2 == 0 {
			noisy[idx].Quantity += delta
		} else {
			noisy[idx].Quantity -= delta
		}
	}

	for i, idx := range pickIndices(rng, total, noisyCount) {
		var delta int
		if i%10 == 0 {
			// Occasionally a gross outlier rather than a small drift.
			delta = noisy[idx].Price * 3 / 2
		} else {
			delta = int(float64(noisy[idx].Price) * (rng.Float64()*0.25 + 0.05))
		}

		if i%2 == 0 {
			noisy[idx].Price += delta
		} else {
			noisy[idx].Price -= delta
		}
	}

	return noisy
}

func randomISIN(rng *rand.Rand) string {
	b := make([]byte, isinLength)
	for i := range b {
		b[i] = isinAlphabet[rng.Intn(len(isinAlphabet))]
	}

	return string(b)
}

// pickIndices selects n distinct indices in [0, total).
func pickIndices(rng *rand.Rand, total, n int) []int {
	if n > total {
		n = total
	}

	picked := make(map[int]struct{}, n)
	indices := make([]int, 0, n)

	for len(indices) < n {
		idx := rng.Intn(total)
		if _, ok := picked[idx]; ok {
			continue
		}

		picked[idx] = struct{}{}
		indices = append(indices, idx)
	}

	return indices
}
