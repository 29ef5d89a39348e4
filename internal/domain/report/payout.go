package report

import (
	"github.com/shopspring/decimal"

	"github.com/okian/roas/internal/domain/model"
)

// payoutSet keeps one payout per influencer: the first non-null value seen.
type payoutSet struct {
	seen   map[string]bool
	values map[string]decimal.Decimal
	order  []string
}

func newPayoutSet() *payoutSet {
	return &payoutSet{seen: map[string]bool{}, values: map[string]decimal.Decimal{}}
}

func (p *payoutSet) add(r model.CombinedRecord) {
	if r.InfluencerID == "" {
		return
	}
	if !p.seen[r.InfluencerID] {
		p.seen[r.InfluencerID] = true
		p.order = append(p.order, r.InfluencerID)
	}
	if _, ok := p.values[r.InfluencerID]; ok || !r.TotalPayout.Valid {
		return
	}
	p.values[r.InfluencerID] = r.TotalPayout.Decimal
}

// known reports whether at least one influencer has a payout.
func (p *payoutSet) known() bool { return len(p.values) > 0 }

func (p *payoutSet) influencers() int { return len(p.order) }

func (p *payoutSet) total() decimal.Decimal {
	sum := decimal.Zero
	for _, id := range p.order {
		if v, ok := p.values[id]; ok {
			sum = sum.Add(v)
		}
	}
	return sum
}
