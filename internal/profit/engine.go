package profit

import (
	"errors"
	"fmt"
	"math"

	"github.com/flipradar/flipradar/internal/fees"
	"github.com/flipradar/flipradar/internal/model"
)

// ErrUnsupportedFulfillment is returned when no calculator is registered for
// the requested fulfillment model. There is no fallback once the engine is
// reached, so this surfaces to the caller.
var ErrUnsupportedFulfillment = errors.New("unsupported fulfillment type")

const (
	breakevenMaxIterations = 50
	breakevenTolerance     = 0.01
	breakevenBracketFactor = 5.0

	scenarioBestFactor  = 1.10
	scenarioWorstFactor = 0.85

	// Fee ratio assumed for the quick breakeven estimate when the input has
	// no usable sell price.
	fallbackFeeRatio = 0.3
)

// Input is one profit calculation request.
type Input struct {
	BuyPrice float64
	// BuyPriceAdjustment is an optional expression like "+10% -$2" applied
	// to BuyPrice before any derivation (tax, cashback, coupons).
	BuyPriceAdjustment string
	SellPrice          float64
	Fulfillment        model.Fulfillment
	Category           string
	Dimensions         *model.Dimensions
	PrepFee            float64
	InboundShipping    float64
	MonthsInStorage    float64
}

// Engine derives profit, ROI, margin, breakeven and scenarios from a listing
// plus a buy price, delegating fee math to the registered calculators.
type Engine struct {
	calcs fees.Registry
}

// NewEngine returns an engine backed by the standard calculator registry.
func NewEngine() *Engine {
	return &Engine{calcs: fees.NewRegistry()}
}

// NewEngineWith returns an engine backed by a custom registry.
func NewEngineWith(r fees.Registry) *Engine {
	return &Engine{calcs: r}
}

// Calculate resolves the buy price, computes fees for the input sell price
// and derives profit, ROI and margin. The Breakeven field is a quick
// estimate, not a solved root; use BreakevenPrice for the authoritative
// number.
func (e *Engine) Calculate(in Input) (model.ProfitResult, error) {
	buy, calc, err := e.resolve(in)
	if err != nil {
		return model.ProfitResult{}, err
	}

	breakdown := calc.Fees(feeInput(in, in.SellPrice))
	profit := in.SellPrice - buy - breakdown.TotalFees

	roi := 0.0
	if buy > 0 {
		roi = profit / buy * 100
	}
	margin := 0.0
	if in.SellPrice > 0 {
		margin = profit / in.SellPrice * 100
	}

	return model.ProfitResult{
		BuyPrice:  fees.Round2(buy),
		SellPrice: fees.Round2(in.SellPrice),
		Fees:      breakdown,
		Profit:    fees.Round2(profit),
		ROI:       fees.Round2(roi),
		Margin:    fees.Round2(margin),
		Breakeven: quickBreakeven(buy, in.SellPrice, breakdown.TotalFees),
	}, nil
}

// BreakevenPrice solves profit(sell) = 0 by bisection over the sell price,
// bracketing between the buy price and five times it. If the iteration
// budget runs out before a cent-level root is found, the midpoint of the
// final bracket is returned rather than an error.
func (e *Engine) BreakevenPrice(in Input) (float64, error) {
	buy, calc, err := e.resolve(in)
	if err != nil {
		return 0, err
	}
	if buy <= 0 {
		return 0, nil
	}

	profitAt := func(sell float64) float64 {
		return sell - buy - calc.Fees(feeInput(in, sell)).TotalFees
	}

	low, high := buy, buy*breakevenBracketFactor
	for i := 0; i < breakevenMaxIterations; i++ {
		mid := (low + high) / 2
		p := profitAt(mid)
		if math.Abs(p) < breakevenTolerance {
			return fees.Round2(mid), nil
		}
		if p < 0 {
			low = mid
		} else {
			high = mid
		}
	}
	return fees.Round2((low + high) / 2), nil
}

// Scenario recomputes the full calculation at best (+10%), expected and
// worst (-15%) sell prices. Fees are re-derived at each price, not scaled,
// since the referral component is price-proportional.
func (e *Engine) Scenario(in Input) (model.ScenarioResult, error) {
	var out model.ScenarioResult
	var err error

	best := in
	best.SellPrice = in.SellPrice * scenarioBestFactor
	if out.Best, err = e.Calculate(best); err != nil {
		return model.ScenarioResult{}, err
	}

	if out.Expected, err = e.Calculate(in); err != nil {
		return model.ScenarioResult{}, err
	}

	worst := in
	worst.SellPrice = in.SellPrice * scenarioWorstFactor
	if out.Worst, err = e.Calculate(worst); err != nil {
		return model.ScenarioResult{}, err
	}
	return out, nil
}

// resolve applies the buy-price adjustment and picks the calculator.
func (e *Engine) resolve(in Input) (float64, fees.Calculator, error) {
	buy, err := applyAdjustment(in.BuyPrice, in.BuyPriceAdjustment)
	if err != nil {
		return 0, nil, err
	}
	calc, ok := e.calcs.For(in.Fulfillment)
	if !ok {
		return 0, nil, fmt.Errorf("%w: %q", ErrUnsupportedFulfillment, in.Fulfillment)
	}
	return buy, calc, nil
}

func feeInput(in Input, sellPrice float64) fees.Input {
	return fees.Input{
		SellPrice:       sellPrice,
		Category:        in.Category,
		Dimensions:      in.Dimensions,
		PrepFee:         in.PrepFee,
		InboundShipping: in.InboundShipping,
		MonthsInStorage: in.MonthsInStorage,
	}
}

// quickBreakeven estimates the breakeven sell price as buy/(1-feeRatio),
// with the fee ratio taken at the input sell price. This is deliberately an
// approximation: the ratio is not solved self-consistently, so it drifts
// from the true root as fees change with price. Degenerate inputs (no sell
// price, or fees at or above the sell price) fall back to an assumed ratio.
func quickBreakeven(buy, sell, totalFees float64) float64 {
	ratio := fallbackFeeRatio
	if sell > 0 {
		ratio = totalFees / sell
	}
	if ratio >= 1 {
		ratio = fallbackFeeRatio
	}
	return fees.Round2(buy / (1 - ratio))
}
