// booking/pricing.go
package booking

import (
	"context"
	"math"
	"time"
)

const (
	weekendMultiplier = 1.15
	taxRate           = 0.16
	serviceFeeRate    = 0.02
)

type NightRate struct {
	Date   time.Time `json:"date"`
	Rate   float64   `json:"rate"`
	Season string    `json:"season,omitempty"`
}

type Discount struct {
	Kind    string  `json:"kind"` // long_stay, group, promo
	Code    string  `json:"code,omitempty"`
	Percent float64 `json:"percent"`
	Amount  float64 `json:"amount"`
}

// Breakdown is the immutable pricing snapshot stored on the booking at
// creation time. Re-pricing a stay means creating a new booking.
type Breakdown struct {
	Nights       []NightRate `json:"nights"`
	RoomSubtotal float64     `json:"roomSubtotal"`
	Discounts    []Discount  `json:"discounts,omitempty"`
	Tax          float64     `json:"tax"`
	ServiceFee   float64     `json:"serviceFee"`
	Total        float64     `json:"total"`
	Currency     string      `json:"currency"`
}

// PriceRequest carries the pricing inputs. Rooms is the room count of a
// multi-room party booking, used only for the group discount tier; a
// plain single-room booking passes 1.
type PriceRequest struct {
	RoomID    uint
	CheckIn   time.Time
	CheckOut  time.Time
	Rooms     int
	PromoCode string
}

// Pricer computes the deterministic price of a stay. The clock is
// injected because promo validity is the one place "today" matters.
type Pricer struct {
	catalog RateCatalog
	now     func() time.Time
}

func NewPricer(catalog RateCatalog, now func() time.Time) *Pricer {
	if now == nil {
		now = time.Now
	}
	return &Pricer{catalog: catalog, now: now}
}

func (p *Pricer) Price(ctx context.Context, req PriceRequest) (*Breakdown, error) {
	checkIn, checkOut := Day(req.CheckIn), Day(req.CheckOut)
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}
	base, currency, seasons, err := p.catalog.RoomRates(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	bd := &Breakdown{Currency: currency}
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		rate, season := base, ""
		for _, s := range seasons {
			if !d.Before(Day(s.StartDate)) && d.Before(Day(s.EndDate)) {
				rate, season = s.NightlyRate, s.Name
				break
			}
		}
		if wd := d.Weekday(); wd == time.Friday || wd == time.Saturday {
			rate *= weekendMultiplier
		}
		rate = round2(rate)
		bd.Nights = append(bd.Nights, NightRate{Date: d, Rate: rate, Season: season})
		bd.RoomSubtotal += rate
	}
	bd.RoomSubtotal = round2(bd.RoomSubtotal)

	if pct := longStayPercent(len(bd.Nights)); pct > 0 {
		bd.Discounts = append(bd.Discounts, Discount{
			Kind:    "long_stay",
			Percent: pct,
			Amount:  round2(bd.RoomSubtotal * pct / 100),
		})
	}
	if pct := groupPercent(req.Rooms); pct > 0 {
		bd.Discounts = append(bd.Discounts, Discount{
			Kind:    "group",
			Percent: pct,
			Amount:  round2(bd.RoomSubtotal * pct / 100),
		})
	}
	if req.PromoCode != "" {
		promo, err := p.catalog.PromoByCode(ctx, req.PromoCode)
		if err != nil {
			return nil, err
		}
		if promo != nil && promo.ValidOn(Day(p.now())) {
			bd.Discounts = append(bd.Discounts, Discount{
				Kind:    "promo",
				Code:    promo.Code,
				Percent: promo.Percent,
				Amount:  round2(bd.RoomSubtotal * promo.Percent / 100),
			})
		}
	}

	discounted := bd.RoomSubtotal
	for _, d := range bd.Discounts {
		discounted -= d.Amount
	}
	if discounted < 0 {
		discounted = 0
	}
	bd.Tax = round2(discounted * taxRate)
	bd.ServiceFee = round2(discounted * serviceFeeRate)
	bd.Total = round2(discounted + bd.Tax + bd.ServiceFee)
	return bd, nil
}

// Long-stay tiers by night count, first match only, no stacking.
func longStayPercent(nights int) float64 {
	switch {
	case nights >= 14:
		return 20
	case nights >= 7:
		return 15
	case nights >= 3:
		return 10
	}
	return 0
}

func groupPercent(rooms int) float64 {
	switch {
	case rooms >= 5:
		return 10
	case rooms >= 3:
		return 5
	}
	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
