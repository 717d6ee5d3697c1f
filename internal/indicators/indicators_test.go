package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func risingCloses(n int) []float64 {
	closes := make([]float64, n)
	price := 100.0
	for i := range closes {
		price += 0.5
		closes[i] = price
	}
	return closes
}

func fallingCloses(n int) []float64 {
	closes := make([]float64, n)
	price := 200.0
	for i := range closes {
		price -= 0.5
		closes[i] = price
	}
	return closes
}

func TestComputeUptrend(t *testing.T) {
	summary, err := Compute(risingCloses(120))
	require.NoError(t, err)

	assert.Equal(t, "bullish", summary.Trend)
	require.NotNil(t, summary.RSI)
	assert.Greater(t, *summary.RSI, 50.0)
	require.NotNil(t, summary.SMA50)
	assert.Greater(t, summary.CurrentPrice, *summary.SMA50)
	require.NotNil(t, summary.BollingerUpper)
	require.NotNil(t, summary.BollingerLower)
	assert.Greater(t, *summary.BollingerUpper, *summary.BollingerLower)

	// Not enough history for the 200-day average.
	assert.Nil(t, summary.SMA200)
}

func TestComputeDowntrend(t *testing.T) {
	summary, err := Compute(fallingCloses(120))
	require.NoError(t, err)

	assert.Equal(t, "bearish", summary.Trend)
	require.NotNil(t, summary.RSI)
	assert.Less(t, *summary.RSI, 50.0)
	assert.Equal(t, "oversold", summary.RSICondition)
}

func TestComputeLongHistoryHasSMA200(t *testing.T) {
	summary, err := Compute(risingCloses(260))
	require.NoError(t, err)
	require.NotNil(t, summary.SMA200)
	require.NotNil(t, summary.SMA50)
	assert.Greater(t, *summary.SMA50, *summary.SMA200)
}

func TestComputeRejectsShortHistory(t *testing.T) {
	_, err := Compute(risingCloses(10))
	assert.Error(t, err)
}
