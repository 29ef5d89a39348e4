// Package model contains the typed records that flow between pipeline stages.
package model

import (
	"time"

	"github.com/okian/roas/internal/domain/table"
)

// Source table names as the collaborators supply them.
const (
	TableInfluencers = "influencers"
	TablePosts       = "posts"
	TableTracking    = "tracking"
	TablePayouts     = "payouts"
)

// Influencer is reference data about one creator.
type Influencer struct {
	ID            string
	Name          string
	Category      string
	Gender        string
	FollowerCount int64
	Platform      string // home platform
}

// Post is one content item. It is carried through the pipeline untouched.
type Post struct {
	InfluencerID string
	Platform     string
	Date         time.Time
	URL          string
	Caption      string
	Reach        int64
	Likes        int64
	Comments     int64
}

// TrackingEvent is one attributed order event, the fact row of the join.
type TrackingEvent struct {
	Source       string
	Campaign     string
	InfluencerID string
	UserID       string
	Product      string
	Platform     string
	Date         time.Time
	Orders       int64
	Revenue      float64
}

// PayoutRecord is the payout agreement of one influencer. TotalPayout is
// already aggregated over the whole contract.
type PayoutRecord struct {
	InfluencerID string
	Basis        string
	Rate         float64
	Orders       int64
	TotalPayout  float64
}

// Payout bases.
const (
	BasisPerPost  = "per_post"
	BasisPerOrder = "per_order"
)

// Column orders of the source tables.
var (
	InfluencerColumns = []string{"id", "name", "category", "gender", "follower_count", "platform"}
	PostColumns       = []string{"influencer_id", "platform", "date", "url", "caption", "reach", "likes", "comments"}
	TrackingColumns   = []string{"source", "campaign", "influencer_id", "user_id", "product", "date", "platform", "orders", "revenue"}
	PayoutColumns     = []string{"influencer_id", "basis", "rate", "orders", "total_payout"}
)

// Row renders the influencer as a source row.
func (i Influencer) Row() table.Row {
	return table.Row{
		"id":             i.ID,
		"name":           i.Name,
		"category":       i.Category,
		"gender":         i.Gender,
		"follower_count": i.FollowerCount,
		"platform":       i.Platform,
	}
}

// Row renders the post as a source row with a YYYY-MM-DD date.
func (p Post) Row() table.Row {
	return table.Row{
		"influencer_id": p.InfluencerID,
		"platform":      p.Platform,
		"date":          p.Date.Format(time.DateOnly),
		"url":           p.URL,
		"caption":       p.Caption,
		"reach":         p.Reach,
		"likes":         p.Likes,
		"comments":      p.Comments,
	}
}

// Row renders the event as a source row with a YYYY-MM-DD date.
func (e TrackingEvent) Row() table.Row {
	return table.Row{
		"source":        e.Source,
		"campaign":      e.Campaign,
		"influencer_id": e.InfluencerID,
		"user_id":       e.UserID,
		"product":       e.Product,
		"date":          e.Date.Format(time.DateOnly),
		"platform":      e.Platform,
		"orders":        e.Orders,
		"revenue":       e.Revenue,
	}
}

// Row renders the payout as a source row.
func (p PayoutRecord) Row() table.Row {
	return table.Row{
		"influencer_id": p.InfluencerID,
		"basis":         p.Basis,
		"rate":          p.Rate,
		"orders":        p.Orders,
		"total_payout":  p.TotalPayout,
	}
}
