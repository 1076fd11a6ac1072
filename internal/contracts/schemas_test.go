package contracts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosminpetcu/carstat/internal/contracts"
)

const validProcessedListing = `{
	"source_url": "https://www.olx.ro/d/oferta/vw-golf-ID1.html",
	"title": "VW Golf 7 1.6 TDI",
	"brand": "Volkswagen",
	"model": "Golf",
	"price": 9500,
	"year": 2016,
	"mileage": 150000,
	"fuel_type": "Diesel"
}`

func TestValidateEvent_ValidPayload(t *testing.T) {
	t.Parallel()

	err := contracts.ValidateEvent("ProcessedCarListingEvent", "1.0.0", []byte(validProcessedListing))
	assert.NoError(t, err)
}

func TestValidateEvent_MissingMandatoryField(t *testing.T) {
	t.Parallel()

	body := []byte(`{
		"source_url": "https://www.olx.ro/d/oferta/vw-golf-ID1.html",
		"title": "VW Golf 7",
		"brand": "Volkswagen",
		"model": "Golf"
	}`)

	err := contracts.ValidateEvent("ProcessedCarListingEvent", "1.0.0", body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateEvent_UnknownPropertyRejected(t *testing.T) {
	t.Parallel()

	body := []byte(`{
		"source_url": "https://www.olx.ro/d/oferta/vw-golf-ID1.html",
		"title": "VW Golf 7",
		"brand": "Volkswagen",
		"model": "Golf",
		"price": 9500,
		"horsepower_galore": true
	}`)

	err := contracts.ValidateEvent("ProcessedCarListingEvent", "1.0.0", body)
	assert.Error(t, err)
}

func TestValidateEvent_UnknownEventType(t *testing.T) {
	t.Parallel()

	err := contracts.ValidateEvent("NoSuchEvent", "1.0.0", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateEvent_InvalidJSON(t *testing.T) {
	t.Parallel()

	err := contracts.ValidateEvent("ProcessedCarListingEvent", "1.0.0", []byte(`{broken`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid JSON")
}
