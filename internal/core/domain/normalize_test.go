package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosminpetcu/carstat/internal/core/domain"
)

func TestFoldKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "Cutie de viteză", want: "cutie de viteza"},
		{raw: "  MAȘINĂ  ", want: "masina"},
		{raw: "An de fabricație", want: "an de fabricatie"},
		{raw: "diesel", want: "diesel"},
		{raw: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.FoldKey(tt.raw), "raw %q", tt.raw)
	}
}

func TestNormalizeModelKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "C-Class", want: "c"},
		{raw: "C Class", want: "c"},
		{raw: "Seria 3", want: "3"},
		{raw: "3 Series", want: "3"},
		{raw: "Corolla", want: "corolla"},
		{raw: "Mégane", want: "megane"},
		{raw: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.NormalizeModelKey(tt.raw), "raw %q", tt.raw)
	}
}

func TestNormalizeFuelType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  *string
		want *string
	}{
		{name: "romanian petrol", raw: domain.Ptr("Benzina"), want: domain.Ptr("Petrol")},
		{name: "diacritics folded", raw: domain.Ptr("Benzină"), want: domain.Ptr("Petrol")},
		{name: "lpg combo", raw: domain.Ptr("Benzina + GPL"), want: domain.Ptr("LPG")},
		{name: "unknown passes through", raw: domain.Ptr("Kerosene"), want: domain.Ptr("Kerosene")},
		{name: "nil stays nil", raw: nil, want: nil},
		{name: "blank becomes nil", raw: domain.Ptr("   "), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := domain.NormalizeFuelType(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestNormalizeColor_Diacritics(t *testing.T) {
	t.Parallel()

	got := domain.NormalizeColor(domain.Ptr("Roșu"))
	require.NotNil(t, got)
	assert.Equal(t, "Red", *got)
}

func TestNormalizeFieldSet_ElectricDefaults(t *testing.T) {
	t.Parallel()

	t.Run("fills capacity and transmission", func(t *testing.T) {
		t.Parallel()

		f := &domain.FieldSet{FuelType: domain.Ptr("Electric")}
		domain.NormalizeFieldSet(f)

		require.NotNil(t, f.EngineCapacity)
		assert.Equal(t, 0, *f.EngineCapacity)
		require.NotNil(t, f.Transmission)
		assert.Equal(t, "Automatic", *f.Transmission)
	})

	t.Run("does not overwrite present values", func(t *testing.T) {
		t.Parallel()

		f := &domain.FieldSet{
			FuelType:       domain.Ptr("Electric"),
			EngineCapacity: domain.Ptr(1),
			Transmission:   domain.Ptr("manuala"),
		}
		domain.NormalizeFieldSet(f)

		assert.Equal(t, 1, *f.EngineCapacity)
		assert.Equal(t, "Manual", *f.Transmission)
	})
}

func TestNormalizeFieldSet_NilIsSafe(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { domain.NormalizeFieldSet(nil) })
}

func TestNormalizeFieldSet_WholeSet(t *testing.T) {
	t.Parallel()

	f := &domain.FieldSet{
		FuelType:         domain.Ptr("Diesel"),
		Transmission:     domain.Ptr("Automata"),
		DriveType:        domain.Ptr("Față"),
		BodyStyle:        domain.Ptr("Break"),
		Color:            domain.Ptr("Negru"),
		VehicleCondition: domain.Ptr("Utilizat"),
	}
	domain.NormalizeFieldSet(f)

	assert.Equal(t, "Diesel", *f.FuelType)
	assert.Equal(t, "Automatic", *f.Transmission)
	assert.Equal(t, "Front", *f.DriveType)
	assert.Equal(t, "Wagon", *f.BodyStyle)
	assert.Equal(t, "Black", *f.Color)
	assert.Equal(t, "Used", *f.VehicleCondition)
}
