// Package pricing resolves authoritative unit prices for order lines and
// computes line subtotals and the order total.
package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNoLines         = errors.New("at least one order line is required")
	ErrInvalidDiscount = errors.New("discount must be between 0 and 100 with at most 2 decimal places")
	ErrUnknownProduct  = errors.New("unknown product")
)

var hundred = decimal.NewFromInt(100)

// 画面から来た1行分の入力
type LineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
}

// 価格と小計を付けた行
type ResolvedLine struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Subtotal  decimal.Decimal
}

type Resolution struct {
	Lines []ResolvedLine
	Total decimal.Decimal
}

type Options struct {
	// trueなら価格が見つからない商品をエラーにする（falseは単価0で通す）
	Strict bool
}

// 数量0以下・商品ID空の行を落とす
func ValidLines(lines []LineRequest) []LineRequest {
	out := make([]LineRequest, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l.ProductID) == "" || l.Quantity <= 0 {
			continue
		}
		l.ProductID = strings.TrimSpace(l.ProductID)
		out = append(out, l)
	}
	return out
}

// 価格検索に使う商品IDを出現順・重複なしで返す
func DistinctProductIDs(lines []LineRequest) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range ValidLines(lines) {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}

func Subtotal(unitPrice decimal.Decimal, quantity int64, discount decimal.Decimal) decimal.Decimal {
	rate := decimal.NewFromInt(1).Sub(discount.Div(hundred))
	return unitPrice.Mul(decimal.NewFromInt(quantity)).Mul(rate)
}

// Resolve は副作用なし。途中で丸めない。
func Resolve(lines []LineRequest, prices map[string]decimal.Decimal, opts Options) (Resolution, error) {
	valid := ValidLines(lines)
	if len(valid) == 0 {
		return Resolution{}, ErrNoLines
	}

	out := Resolution{
		Lines: make([]ResolvedLine, 0, len(valid)),
		Total: decimal.Zero,
	}
	for _, l := range valid {
		// 明細の割引率はnumeric(5,2)に保存する。丸められる値は受けない
		if l.Discount.IsNegative() || l.Discount.GreaterThan(hundred) || !l.Discount.Round(2).Equal(l.Discount) {
			return Resolution{}, ErrInvalidDiscount
		}

		price, ok := prices[l.ProductID]
		if !ok {
			if opts.Strict {
				return Resolution{}, ErrUnknownProduct
			}
			price = decimal.Zero
		}

		sub := Subtotal(price, l.Quantity, l.Discount)
		out.Lines = append(out.Lines, ResolvedLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: price,
			Discount:  l.Discount,
			Subtotal:  sub,
		})
		out.Total = out.Total.Add(sub)
	}
	return out, nil
}
