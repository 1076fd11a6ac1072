package domain

import "time"

// MutationOutcome - итог сверки одного объявления со свежим результатом
// источника.
type MutationOutcome string

const (
	// OutcomeNoChange - данные совпали, мутации нет (идемпотентность).
	OutcomeNoChange MutationOutcome = "no_change"
	// OutcomeUpdated - изменилась цена и/или дозаполнены поля.
	OutcomeUpdated MutationOutcome = "updated"
	// OutcomeSold - объявление снято, проставлен терминальный флаг sold.
	OutcomeSold MutationOutcome = "sold"
	// OutcomeBlocked - источник заблокировал сессию; мутации нет,
	// шард должен немедленно остановиться. Никогда не путать с Sold.
	OutcomeBlocked MutationOutcome = "blocked"
	// OutcomeTransient - временная сетевая ошибка; мутации нет,
	// чекпоинт шарда все равно двигается дальше.
	OutcomeTransient MutationOutcome = "transient_error"
)

// ReconcileChange - вычисленная мутация канонической записи.
// Применяется хранилищем в одной транзакции на объявление.
type ReconcileChange struct {
	Listing          CarListing // полная обновленная копия записи
	PriceChanged     bool
	SoldTransition   bool
	BackfilledFields []string
}

// ComputeReconcile - чистая функция сверки: по канонической записи и
// свежему SourceResult вычисляет мутацию, не трогая хранилище.
// nil-мутация означает, что записывать нечего.
func ComputeReconcile(listing CarListing, res SourceResult, now time.Time) (*ReconcileChange, MutationOutcome, error) {
	switch res.Status {
	case StatusBlocked:
		return nil, OutcomeBlocked, nil
	case StatusTransientError:
		return nil, OutcomeTransient, nil
	case StatusNotFound, StatusGone:
		return soldTransition(listing, now)
	case StatusOK:
		// продолжаем ниже
	default:
		return nil, OutcomeTransient, nil
	}

	if res.Fields == nil {
		return nil, OutcomeNoChange, ErrMalformedSourceResult
	}

	// Маркерный текст сайта об удалении эквивалентен StatusGone.
	if res.RemovedByMarker {
		return soldTransition(listing, now)
	}

	// sold - терминальное состояние: дальнейшие OK-результаты не должны
	// менять ни цену, ни историю, ни поля состояния.
	if listing.Sold {
		return nil, OutcomeNoChange, nil
	}

	changed := false
	ch := &ReconcileChange{Listing: listing}

	if res.Fields.Price != nil && *res.Fields.Price > 0 && *res.Fields.Price != listing.Price {
		// В историю попадает ПРЕДЫДУЩАЯ цена и момент, когда она
		// в последний раз была актуальной.
		ch.Listing.PriceHistory = append(ch.Listing.PriceHistory, PricePoint{
			Price:      listing.Price,
			ObservedAt: listing.LastPriceChangeAt,
		})
		ch.Listing.Price = *res.Fields.Price
		ch.Listing.LastPriceChangeAt = now
		ch.PriceChanged = true
		changed = true
	}

	if filled := backfillAbsent(&ch.Listing, res.Fields); len(filled) > 0 {
		ch.BackfilledFields = filled
		changed = true
	}

	if !changed {
		return nil, OutcomeNoChange, nil
	}
	ch.Listing.UpdatedAt = now
	return ch, OutcomeUpdated, nil
}

func soldTransition(listing CarListing, now time.Time) (*ReconcileChange, MutationOutcome, error) {
	if listing.Sold {
		// Уже снято - повторная фиксация ничего не меняет.
		return nil, OutcomeSold, nil
	}
	updated := listing
	updated.Sold = true
	updated.SoldDetectedAt = ptr(now)
	updated.UpdatedAt = now
	return &ReconcileChange{Listing: updated, SoldTransition: true}, OutcomeSold, nil
}

// backfillAbsent дозаполняет каждое пустое поле канонической записи
// непустым значением из свежей выгрузки. Заполненные ранее поля
// не перезаписываются никогда.
func backfillAbsent(l *CarListing, f *FieldSet) []string {
	var filled []string
	fill := func(name string, ok bool) {
		if ok {
			filled = append(filled, name)
		}
	}

	fill("year", FillIfAbsent(&l.Year, f.Year))
	fill("mileage", FillIfAbsent(&l.Mileage, f.Mileage))
	fill("fuel_type", FillIfAbsent(&l.FuelType, f.FuelType))
	fill("transmission", FillIfAbsent(&l.Transmission, f.Transmission))
	fill("drive_type", FillIfAbsent(&l.DriveType, f.DriveType))
	fill("body_style", FillIfAbsent(&l.BodyStyle, f.BodyStyle))
	fill("engine_capacity", FillIfAbsent(&l.EngineCapacity, f.EngineCapacity))
	fill("engine_power", FillIfAbsent(&l.EnginePower, f.EnginePower))
	fill("generation", FillIfAbsent(&l.Generation, f.Generation))
	fill("version", FillIfAbsent(&l.Version, f.Version))
	fill("emission_standard", FillIfAbsent(&l.EmissionStandard, f.EmissionStandard))
	fill("doors", FillIfAbsent(&l.Doors, f.Doors))
	fill("color", FillIfAbsent(&l.Color, f.Color))
	fill("vehicle_condition", FillIfAbsent(&l.VehicleCondition, f.VehicleCondition))
	fill("previous_owners", FillIfAbsent(&l.PreviousOwners, f.PreviousOwners))
	fill("vin", FillIfAbsent(&l.VIN, f.VIN))
	fill("location", FillIfAbsent(&l.Location, f.Location))
	fill("description", FillIfAbsent(&l.Description, f.Description))
	fill("seller_type", FillIfAbsent(&l.SellerType, f.SellerType))
	fill("origin_country", FillIfAbsent(&l.OriginCountry, f.OriginCountry))
	fill("damaged", FillIfAbsent(&l.Damaged, f.Damaged))
	fill("no_accident", FillIfAbsent(&l.NoAccident, f.NoAccident))
	fill("service_book", FillIfAbsent(&l.ServiceBook, f.ServiceBook))
	fill("first_owner", FillIfAbsent(&l.FirstOwner, f.FirstOwner))
	fill("registered", FillIfAbsent(&l.Registered, f.Registered))
	fill("right_hand_drive", FillIfAbsent(&l.RightHandDrive, f.RightHandDrive))
	fill("ad_created_at", FillIfAbsent(&l.AdCreatedAt, f.AdCreatedAt))

	return filled
}

// NewListingFromFields собирает новую каноническую запись из набора
// полей, пришедшего от внешнего шага обнаружения. Обязательные поля:
// source_url, title, brand, model и цена.
func NewListingFromFields(f FieldSet, now time.Time) (CarListing, error) {
	if f.SourceURL == "" || f.Title == nil || f.Brand == nil || f.Model == nil || f.Price == nil || *f.Price <= 0 {
		return CarListing{}, ErrMissingMandatoryFields
	}

	l := CarListing{
		SourceURL:         f.SourceURL,
		Title:             *f.Title,
		Brand:             *f.Brand,
		Model:             *f.Model,
		Price:             *f.Price,
		LastPriceChangeAt: now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	backfillAbsent(&l, &f)
	return l, nil
}
