package recommendations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
)

func TestAnalyzePriceWindowRisingIntoSummer(t *testing.T) {
	// Mid May: the back half of the window reaches into June's peak rates.
	now := time.Date(2026, time.May, 15, 12, 0, 0, 0, time.UTC)

	window := analyzePriceWindow(100, now)

	assert.Equal(t, enums.PriceTrendRising, window.trend)
	assert.Greater(t, window.trendPercentage, 0.0)
	assert.Equal(t, "January", window.bestTime)
	assert.GreaterOrEqual(t, window.average, float64(window.min))
	assert.LessOrEqual(t, window.average, float64(window.max))
	assert.Greater(t, window.min, int64(0))
}

func TestAnalyzePriceWindowFallingAfterPeak(t *testing.T) {
	// Late August: peak rates give way to September's shoulder season.
	now := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)

	window := analyzePriceWindow(100, now)

	assert.Equal(t, enums.PriceTrendFalling, window.trend)
	assert.Less(t, window.trendPercentage, 0.0)
}

func TestBuildForecastShape(t *testing.T) {
	now := time.Date(2026, time.April, 6, 12, 0, 0, 0, time.UTC)

	forecast := buildForecast(100, now)
	require.Len(t, forecast, 7)

	for i, day := range forecast {
		date := now.AddDate(0, 0, i)
		assert.Equal(t, date.Format("2006-01-02"), day.Date)
		assert.Equal(t, date.Weekday().String(), day.DayName)
		assert.Equal(t, isWeekend(date), day.IsWeekend)
		assert.InDelta(t, 0.85-float64(i)*0.05, day.Confidence, 0.001)

		if day.IsWeekend {
			assert.GreaterOrEqual(t, day.PredictedPrice, int64(109))
			assert.LessOrEqual(t, day.PredictedPrice, int64(121))
		} else {
			assert.GreaterOrEqual(t, day.PredictedPrice, int64(94))
			assert.LessOrEqual(t, day.PredictedPrice, int64(105))
		}
	}
}

func TestBookingRecommendationSwitch(t *testing.T) {
	cases := []struct {
		name   string
		trend  enums.PriceTrend
		demand enums.DemandLevel
		want   string
	}{
		{"very high demand and rising", enums.PriceTrendRising, enums.DemandLevelVeryHigh, "Book now"},
		{"high demand", enums.PriceTrendStable, enums.DemandLevelHigh, "Popular property"},
		{"falling prices", enums.PriceTrendFalling, enums.DemandLevelLow, "dropping"},
		{"rising prices", enums.PriceTrendRising, enums.DemandLevelLow, "trending up"},
		{"stable default", enums.PriceTrendStable, enums.DemandLevelLow, "stable"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, bookingRecommendation(tc.trend, tc.demand), tc.want)
		})
	}
}

func TestPriceFactors(t *testing.T) {
	// 2026-07-04 is a Saturday in peak season.
	saturdayJuly := time.Date(2026, time.July, 4, 0, 0, 0, 0, time.UTC)
	factors := priceFactors(&saturdayJuly, "Portugal")
	require.Len(t, factors, 3)
	assert.Equal(t, "Weekend", factors[0].Factor)
	assert.Equal(t, "Peak Season", factors[1].Factor)
	assert.Equal(t, "Location", factors[2].Factor)

	// 2026-12-08 is a Tuesday in the holiday season.
	tuesdayDecember := time.Date(2026, time.December, 8, 0, 0, 0, 0, time.UTC)
	factors = priceFactors(&tuesdayDecember, "Portugal")
	require.Len(t, factors, 2)
	assert.Equal(t, "Holiday Season", factors[0].Factor)

	factors = priceFactors(nil, "Portugal")
	require.Len(t, factors, 1)
	assert.Equal(t, "Location", factors[0].Factor)
	assert.Contains(t, factors[0].Description, "Portugal")
}

func TestPropertyPricingReadout(t *testing.T) {
	svc, db := newTestRecsService(t)
	ctx := context.Background()

	property := seedListing(t, db, "beach", "Albufeira, Portugal", "Portugal", 100)
	for i := 0; i < 3; i++ {
		seedStay(t, db, property, uuid.New(), enums.ReservationStatusApproved)
	}
	seedView(t, db, property, nil)
	seedView(t, db, property, nil)

	out, err := svc.PropertyPricing(ctx, property, nil)
	require.NoError(t, err)

	assert.Equal(t, property, out.PropertyID)
	assert.True(t, out.CurrentPrice.Equal(decimal.NewFromInt(100)))
	// 3 bookings and 2 views: 3*20 + 2*2.
	assert.Equal(t, int64(64), out.DemandScore)
	assert.Equal(t, enums.DemandLevelHigh, out.DemandLevel)
	assert.Equal(t, int64(3), out.SimilarPropertiesBooked)
	assert.Len(t, out.PriceForecast, 7)
	assert.True(t, out.PriceTrend.IsValid())
	assert.Equal(t, out.MaxPrice30Days-out.MinPrice30Days, out.PotentialSavings)
	assert.Equal(t, "January", out.BestTimeToBook)
	assert.NotEmpty(t, out.BookingRecommendation)
	assert.NotEmpty(t, out.PriceFactors)
}

func TestPropertyPricingUnknownProperty(t *testing.T) {
	svc, _ := newTestRecsService(t)

	_, err := svc.PropertyPricing(context.Background(), uuid.New(), nil)
	requireRecsErrCode(t, err, pkgerrors.CodeNotFound)
}

func TestLocationPricingUsesIndexWhenAvailable(t *testing.T) {
	svc, db := newTestRecsService(t)
	ctx := context.Background()

	index := models.LocationPriceIndex{
		ID:           uuid.New(),
		Location:     "Lisbon, Portugal",
		AveragePrice: decimal.NewFromInt(95),
		SampleSize:   42,
	}
	require.NoError(t, db.Create(&index).Error)

	out, err := svc.LocationPricing(ctx, "lisbon")
	require.NoError(t, err)

	assert.Equal(t, "Lisbon, Portugal", out.Location)
	require.NotNil(t, out.AveragePrice)
	assert.True(t, out.AveragePrice.Equal(decimal.NewFromInt(95)))
	assert.Equal(t, 42, out.SampleSize)
	assert.Empty(t, out.GeneralTips)
}

func TestLocationPricingFallsBackToTips(t *testing.T) {
	svc, _ := newTestRecsService(t)

	out, err := svc.LocationPricing(context.Background(), "Nowhereville")
	require.NoError(t, err)

	assert.Equal(t, "Nowhereville", out.Location)
	assert.Nil(t, out.AveragePrice)
	assert.NotEmpty(t, out.Message)
	assert.Len(t, out.GeneralTips, 4)
}
