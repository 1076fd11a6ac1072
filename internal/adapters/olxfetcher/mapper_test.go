package olxfetcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosminpetcu/carstat/internal/core/domain"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{raw: "12 500 €", want: 12500, wantOK: true},
		{raw: "8.999 €", want: 8999, wantOK: true},
		{raw: "1 EUR", want: 1, wantOK: true},
		{raw: "Schimb", wantOK: false},
		{raw: "", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := parsePrice(tt.raw)
		assert.Equal(t, tt.wantOK, ok, "raw %q", tt.raw)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, "raw %q", tt.raw)
		}
	}
}

func TestParseIntLoose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{raw: "150 000 km", want: 150000, wantOK: true},
		{raw: "1 998 cm3", want: 1998, wantOK: true},
		{raw: "2016", want: 2016, wantOK: true},
		{raw: "necunoscut", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := parseIntLoose(tt.raw)
		assert.Equal(t, tt.wantOK, ok, "raw %q", tt.raw)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, "raw %q", tt.raw)
		}
	}
}

func TestApplyParam(t *testing.T) {
	t.Parallel()

	fields := &domain.FieldSet{}
	params := []string{
		"An de fabricație: 2017",
		"Rulaj: 132 000 km",
		"Combustibil: Diesel",
		"Capacitate motor: 1 968 cm3",
		"Putere: 150 CP",
		"Cutie de viteze: Automată",
		"Caroserie: Break",
		"Culoare: Negru",
		"Număr de uși: 5",
		"Stare: Utilizat",
		"Marca: Volkswagen",
		"Model: Passat",
		"Fara doua puncte",
		"Necunoscut: ceva",
	}
	for _, p := range params {
		applyParam(fields, p)
	}

	require.NotNil(t, fields.Year)
	assert.Equal(t, 2017, *fields.Year)
	require.NotNil(t, fields.Mileage)
	assert.Equal(t, 132000, *fields.Mileage)
	require.NotNil(t, fields.FuelType)
	assert.Equal(t, "Diesel", *fields.FuelType)
	require.NotNil(t, fields.EngineCapacity)
	assert.Equal(t, 1968, *fields.EngineCapacity)
	require.NotNil(t, fields.EnginePower)
	assert.Equal(t, 150, *fields.EnginePower)
	require.NotNil(t, fields.Transmission)
	assert.Equal(t, "Automată", *fields.Transmission)
	require.NotNil(t, fields.BodyStyle)
	assert.Equal(t, "Break", *fields.BodyStyle)
	require.NotNil(t, fields.Color)
	assert.Equal(t, "Negru", *fields.Color)
	require.NotNil(t, fields.Doors)
	assert.Equal(t, 5, *fields.Doors)
	require.NotNil(t, fields.VehicleCondition)
	assert.Equal(t, "Utilizat", *fields.VehicleCondition)
	require.NotNil(t, fields.Brand)
	assert.Equal(t, "Volkswagen", *fields.Brand)
	require.NotNil(t, fields.Model)
	assert.Equal(t, "Passat", *fields.Model)
}

func TestApplyLocationDate(t *testing.T) {
	t.Parallel()

	t.Run("location and date", func(t *testing.T) {
		t.Parallel()

		fields := &domain.FieldSet{}
		applyLocationDate(fields, "Bucuresti, Sectorul 1 - 12 august 2026")

		require.NotNil(t, fields.Location)
		assert.Equal(t, "Bucuresti, Sectorul 1", *fields.Location)
		require.NotNil(t, fields.AdCreatedAt)
		assert.Equal(t, time.Date(2026, time.August, 12, 0, 0, 0, 0, time.UTC), *fields.AdCreatedAt)
	})

	t.Run("location only", func(t *testing.T) {
		t.Parallel()

		fields := &domain.FieldSet{}
		applyLocationDate(fields, "Cluj-Napoca")

		require.NotNil(t, fields.Location)
		assert.Equal(t, "Cluj-Napoca", *fields.Location)
		assert.Nil(t, fields.AdCreatedAt)
	})
}

func TestParseRomanianDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		want   time.Time
		wantOK bool
	}{
		{raw: "12 august 2026", want: time.Date(2026, time.August, 12, 0, 0, 0, 0, time.UTC), wantOK: true},
		{raw: "1 Ianuarie 2025", want: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), wantOK: true},
		{raw: "azi", wantOK: false},
		{raw: "12 nomonth 2026", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := parseRomanianDate(tt.raw)
		assert.Equal(t, tt.wantOK, ok, "raw %q", tt.raw)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, "raw %q", tt.raw)
		}
	}
}
