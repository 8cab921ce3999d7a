package tests

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gitlab.com/open-soft/go-spread-bot/src/utils"
)

func TestToFixedDown(t *testing.T) {
	assertion := assert.New(t)
	formatter := utils.Formatter{}

	assertion.Equal("1.99", formatter.ToFixedDown(decimal.RequireFromString("1.9999"), 2).String())
	assertion.Equal("1", formatter.ToFixedDown(decimal.RequireFromString("1.9999"), 0).String())
	assertion.Equal("0.001", formatter.ToFixedDown(decimal.RequireFromString("0.0019"), 3).String())
}

func TestPrecisionFromStep(t *testing.T) {
	assertion := assert.New(t)
	formatter := utils.Formatter{}

	assertion.Equal(int32(3), formatter.PrecisionFromStep(decimal.RequireFromString("0.00100000")))
	assertion.Equal(int32(0), formatter.PrecisionFromStep(decimal.RequireFromString("1.00000000")))
	assertion.Equal(int32(8), formatter.PrecisionFromStep(decimal.RequireFromString("0.00000001")))
	assertion.Equal(int32(0), formatter.PrecisionFromStep(decimal.NewFromInt(10)))
}

func TestPercentDistance(t *testing.T) {
	assertion := assert.New(t)
	formatter := utils.Formatter{}

	assertion.Equal("5.00%", formatter.PercentDistance(
		decimal.NewFromInt(95),
		decimal.NewFromInt(100),
	))
	assertion.Equal("5.00%", formatter.PercentDistance(
		decimal.NewFromInt(105),
		decimal.NewFromInt(100),
	))
	assertion.Equal("0.00%", formatter.PercentDistance(
		decimal.NewFromInt(100),
		decimal.Zero,
	))
}
