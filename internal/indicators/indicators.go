// Package indicators computes the technical summary the technical
// specialist reasons over. Everything works on chronological closing
// prices; the heavy lifting is ta-lib's.
package indicators

import (
	"math"

	"github.com/markcheno/go-talib"

	"strategist/pkg/errors"
)

const minBars = 30

// Summary bundles the indicator values for one ticker.
type Summary struct {
	CurrentPrice   float64  `json:"current_price"`
	RSI            *float64 `json:"rsi,omitempty"`
	MACDLine       *float64 `json:"macd_line,omitempty"`
	MACDSignal     *float64 `json:"macd_signal,omitempty"`
	MACDHistogram  *float64 `json:"macd_histogram,omitempty"`
	SMA50          *float64 `json:"sma_50,omitempty"`
	SMA200         *float64 `json:"sma_200,omitempty"`
	EMA12          *float64 `json:"ema_12,omitempty"`
	EMA26          *float64 `json:"ema_26,omitempty"`
	BollingerUpper *float64 `json:"bollinger_upper,omitempty"`
	BollingerMid   *float64 `json:"bollinger_middle,omitempty"`
	BollingerLower *float64 `json:"bollinger_lower,omitempty"`
	Trend          string   `json:"trend"`
	RSICondition   string   `json:"rsi_condition"`
}

// Compute calculates the indicator summary from chronological closes
// (oldest first). Indicators whose lookback exceeds the data stay nil.
func Compute(closes []float64) (Summary, error) {
	if len(closes) < minBars {
		return Summary{}, errors.Newf("need at least %d closes, got %d", minBars, len(closes))
	}

	summary := Summary{CurrentPrice: closes[len(closes)-1]}

	summary.RSI = last(talib.Rsi(closes, 14))

	macdLine, signalLine, histogram := talib.Macd(closes, 12, 26, 9)
	summary.MACDLine = last(macdLine)
	summary.MACDSignal = last(signalLine)
	summary.MACDHistogram = last(histogram)

	if len(closes) >= 50 {
		summary.SMA50 = last(talib.Sma(closes, 50))
	}
	if len(closes) >= 200 {
		summary.SMA200 = last(talib.Sma(closes, 200))
	}
	summary.EMA12 = last(talib.Ema(closes, 12))
	summary.EMA26 = last(talib.Ema(closes, 26))

	upper, middle, lower := talib.BBands(closes, 20, 2, 2, talib.SMA)
	summary.BollingerUpper = last(upper)
	summary.BollingerMid = last(middle)
	summary.BollingerLower = last(lower)

	summary.RSICondition = classifyRSI(summary.RSI)
	summary.Trend = determineTrend(summary)

	return summary, nil
}

// last returns the final non-NaN value of a ta-lib output series.
func last(values []float64) *float64 {
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) && values[i] != 0 {
			v := values[i]
			return &v
		}
	}
	return nil
}

func classifyRSI(rsi *float64) string {
	switch {
	case rsi == nil:
		return "unknown"
	case *rsi < 30:
		return "oversold"
	case *rsi > 70:
		return "overbought"
	default:
		return "neutral"
	}
}

// determineTrend votes across RSI, MACD crossover, the 50/200 SMA cross
// and price versus SMA50. The SMA cross counts double.
func determineTrend(s Summary) string {
	bullish, bearish := 0, 0

	if s.RSI != nil {
		if *s.RSI > 50 {
			bullish++
		} else if *s.RSI < 50 {
			bearish++
		}
	}

	if s.MACDLine != nil && s.MACDSignal != nil {
		if *s.MACDLine > *s.MACDSignal {
			bullish++
		} else {
			bearish++
		}
	}

	if s.SMA50 != nil && s.SMA200 != nil {
		if *s.SMA50 > *s.SMA200 {
			bullish += 2
		} else {
			bearish += 2
		}
	}

	if s.SMA50 != nil {
		if s.CurrentPrice > *s.SMA50 {
			bullish++
		} else {
			bearish++
		}
	}

	switch {
	case bullish > bearish+1:
		return "bullish"
	case bearish > bullish+1:
		return "bearish"
	default:
		return "neutral"
	}
}
