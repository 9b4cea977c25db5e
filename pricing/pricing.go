// Package pricing computes checkout charges: tax, convenience and delivery
// charges, and promo discounts. Evaluation is a pure function of its inputs
// and the configuration snapshot, so concurrent evaluations are independent.
package pricing

import (
	"fmt"
	"math"
	"time"

	"dosakart-api/models"
)

// TaxRule is a percentage applied to the cart subtotal.
type TaxRule struct {
	Percent float64 `json:"percent"`
	Waive   bool    `json:"waive"`
}

// ChargeRule is a fixed amount added to the order.
type ChargeRule struct {
	Amount float64 `json:"amount"`
	Waive  bool    `json:"waive"`
}

// ChargeConfig mirrors the additionalCharges configuration entry.
type ChargeConfig struct {
	TaxPercent        TaxRule    `json:"taxPercent"`
	ConvenienceCharge ChargeRule `json:"convenienceCharge"`
	DeliveryCharge    ChargeRule `json:"deliveryCharge"`
}

// FreeDeliveryConfig maps a weekday name ("Monday") to the cities exempt
// from the delivery charge on that day. City match is case-sensitive.
type FreeDeliveryConfig map[string][]string

// Validate rejects malformed numeric configuration at load time rather
// than silently coercing it at evaluation time.
func (c ChargeConfig) Validate() error {
	fields := map[string]float64{
		"taxPercent.percent":       c.TaxPercent.Percent,
		"convenienceCharge.amount": c.ConvenienceCharge.Amount,
		"deliveryCharge.amount":    c.DeliveryCharge.Amount,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("charge config: %s is not finite", name)
		}
		if v < 0 {
			return fmt.Errorf("charge config: %s is negative", name)
		}
	}
	return nil
}

// PromoResult reports whether a supplied code contributed a discount.
type PromoResult struct {
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"`
	Error    string  `json:"error,omitempty"`
}

// Input is one checkout to price. Promo is nil when no code was supplied
// or the code had no matching record.
type Input struct {
	Subtotal  float64
	City      string
	Day       string // weekday name
	PromoSent bool   // a code string was supplied by the caller
	Promo     *models.PromoCode
	Now       time.Time
}

// Quote is the fully resolved charge breakdown.
type Quote struct {
	Subtotal          float64      `json:"subtotal"`
	Tax               float64      `json:"tax"`
	ConvenienceCharge float64      `json:"convenience_charge"`
	DeliveryCharge    float64      `json:"delivery_charge"`
	Discount          float64      `json:"discount"`
	Total             float64      `json:"total"`
	Promo             *PromoResult `json:"promo,omitempty"`
}

// Evaluate resolves all charges for one checkout. Total never goes below
// zero even when the discount exceeds subtotal plus charges.
func Evaluate(in Input, cfg ChargeConfig, free FreeDeliveryConfig) Quote {
	q := Quote{Subtotal: in.Subtotal}

	if !cfg.TaxPercent.Waive {
		q.Tax = in.Subtotal * cfg.TaxPercent.Percent / 100
	}
	if !cfg.ConvenienceCharge.Waive {
		q.ConvenienceCharge = cfg.ConvenienceCharge.Amount
	}
	if !cfg.DeliveryCharge.Waive && !cityIsFree(free, in.Day, in.City) {
		q.DeliveryCharge = cfg.DeliveryCharge.Amount
	}

	if in.PromoSent {
		res := EvaluatePromo(in.Subtotal, in.Promo, in.Now)
		q.Promo = &res
		q.Discount = res.Discount
	}

	q.Total = in.Subtotal + q.Tax + q.ConvenienceCharge + q.DeliveryCharge - q.Discount
	if q.Total < 0 {
		q.Total = 0
	}
	return q
}

func cityIsFree(free FreeDeliveryConfig, day, city string) bool {
	for _, c := range free[day] {
		if c == city {
			return true
		}
	}
	return false
}

// EvaluatePromo validates a promo against the subtotal at evaluation time.
// An invalid promo never errors the checkout; it contributes zero discount
// with a reason the client can show.
func EvaluatePromo(subtotal float64, promo *models.PromoCode, now time.Time) PromoResult {
	if promo == nil {
		return PromoResult{Error: "Promo code not found"}
	}
	if !promo.Active {
		return PromoResult{Error: "Promo code is inactive"}
	}
	if promo.ExpiresAt != nil && now.After(*promo.ExpiresAt) {
		return PromoResult{Error: "Promo code has expired"}
	}
	if subtotal < promo.MinOrderValue {
		return PromoResult{Error: fmt.Sprintf("Order below minimum value of %.2f", promo.MinOrderValue)}
	}

	discount := promo.Discount
	if promo.DiscountType == models.DiscountPercent {
		discount = subtotal * promo.Discount / 100
	}
	if promo.MaxDiscount != nil && discount > *promo.MaxDiscount {
		discount = *promo.MaxDiscount
	}
	return PromoResult{Valid: true, Discount: discount}
}
