package usecase

import (
	"time"

	"github.com/cosminpetcu/carstat/internal/core/domain"
)

// Аналитические проходы - чистые функции над свежим снимком хранилища.
// Каждый проход возвращает пачку мутаций; оркестратор фиксирует ее
// целиком до того, как следующий проход возьмет свой снимок.

// passGenerations - подготовительный проход: дозаполнение поколения.
// Объявление без поколения получает его от объявления той же марки и
// того же года с совпадающей нормализованной моделью. Это расширяет
// когорты оценки, где поколение участвует в фильтре.
func passGenerations(snapshot []domain.CarListing) []domain.AnalyticsMutation {
	type donorKey struct {
		brand string
		year  int
		model string
	}
	donors := make(map[donorKey]*string)
	for i := range snapshot {
		l := &snapshot[i]
		if l.Generation == nil || l.Year == nil {
			continue
		}
		key := donorKey{l.Brand, *l.Year, domain.NormalizeModelKey(l.Model)}
		if _, ok := donors[key]; !ok {
			donors[key] = l.Generation
		}
	}

	var mutations []domain.AnalyticsMutation
	for i := range snapshot {
		l := &snapshot[i]
		if l.Generation != nil || l.Year == nil {
			continue
		}
		gen, ok := donors[donorKey{l.Brand, *l.Year, domain.NormalizeModelKey(l.Model)}]
		if !ok {
			continue
		}
		mutations = append(mutations, domain.AnalyticsMutation{
			SourceURL:     l.SourceURL,
			SetGeneration: true,
			Generation:    gen,
		})
	}
	return mutations
}

// passPlaceholder - проход 0: цены-заглушки. Единственное действие -
// выставить suspicious_price, никакие другие поля не трогаются.
func passPlaceholder(snapshot []domain.CarListing) []domain.AnalyticsMutation {
	var mutations []domain.AnalyticsMutation
	for i := range snapshot {
		l := &snapshot[i]
		if l.SuspiciousPrice || !l.HasPrice() {
			continue
		}
		if domain.IsPlaceholderPrice(l.Price) {
			mutations = append(mutations, domain.AnalyticsMutation{
				SourceURL:     l.SourceURL,
				SetSuspicious: true,
			})
		}
	}
	return mutations
}

// passOutliers - проход 1: статистические выбросы. Сначала статическая
// эвристика по эшелону бренда, затем сравнение с медианой когорты
// той же марки и модели.
func passOutliers(snapshot []domain.CarListing) []domain.AnalyticsMutation {
	index := buildModelIndex(snapshot)

	var mutations []domain.AnalyticsMutation
	for i := range snapshot {
		l := &snapshot[i]
		if l.SuspiciousPrice || !l.HasPrice() {
			continue
		}

		if domain.StaticBoundViolated(l.Brand, l.Year, l.Price) {
			mutations = append(mutations, domain.AnalyticsMutation{
				SourceURL:     l.SourceURL,
				SetSuspicious: true,
			})
			continue
		}

		var cohort []float64
		for _, candidate := range index[modelKey(l.Brand, l.Model)] {
			if domain.OutlierCohortMember(l, candidate) {
				cohort = append(cohort, candidate.Price)
			}
		}
		if len(cohort) < domain.OutlierCohortMinSize {
			continue
		}
		median := domain.Median(cohort)
		if l.Price < domain.OutlierLowFactor*median || l.Price > domain.OutlierHighFactor*median {
			mutations = append(mutations, domain.AnalyticsMutation{
				SourceURL:     l.SourceURL,
				SetSuspicious: true,
			})
		}
	}
	return mutations
}

// passEstimates - проход 2: оценка справедливой цены по медиане узкой
// когорты и буквенный рейтинг выгодности. Объявления, для которых
// оценка в этом прогоне не получилась, теряют и старую оценку:
// производные поля пересчитываются каждый прогон с нуля.
func passEstimates(snapshot []domain.CarListing) []domain.AnalyticsMutation {
	index := buildModelIndex(snapshot)

	var mutations []domain.AnalyticsMutation
	for i := range snapshot {
		l := &snapshot[i]
		if l.SuspiciousPrice || l.IsDamaged() || !l.HasEstimationInputs() {
			mutations = appendEstimateReset(mutations, l)
			continue
		}

		var cohort []float64
		for _, candidate := range index[modelKey(l.Brand, l.Model)] {
			if domain.EstimateCohortMember(l, candidate) {
				cohort = append(cohort, candidate.Price)
			}
		}
		if len(cohort) < domain.EstimateCohortMinSize {
			mutations = appendEstimateReset(mutations, l)
			continue
		}

		estimated := domain.RoundPrice(domain.Median(cohort))
		rating := domain.ClassifyDealRating(domain.PctDiff(l.Price, estimated))
		mutations = append(mutations, domain.AnalyticsMutation{
			SourceURL:      l.SourceURL,
			SetEstimate:    true,
			EstimatedPrice: &estimated,
			DealRating:     &rating,
		})
	}
	return mutations
}

// passSuspiciousSweep - проход 3: финальная зачистка. Цена сильно ниже
// собственной оценки - признак недостоверности; флаг выставляется,
// а производный рейтинг и оценка обнуляются: объявление не может
// одновременно быть подозрительным и нести рейтинг.
func passSuspiciousSweep(snapshot []domain.CarListing) []domain.AnalyticsMutation {
	var mutations []domain.AnalyticsMutation
	for i := range snapshot {
		l := &snapshot[i]
		if l.SuspiciousPrice || l.EstimatedPrice == nil {
			continue
		}
		if l.Price < domain.SuspiciousEstimateFactor**l.EstimatedPrice {
			mutations = append(mutations, domain.AnalyticsMutation{
				SourceURL:     l.SourceURL,
				SetSuspicious: true,
				SetEstimate:   true, // nil-значения внутри группы обнуляют поля
			})
		}
	}
	return mutations
}

// passQuality - проход 4: аддитивная оценка качества. Читает рейтинг,
// зафиксированный проходами 2-3.
func passQuality(snapshot []domain.CarListing, now time.Time) []domain.AnalyticsMutation {
	var mutations []domain.AnalyticsMutation
	for i := range snapshot {
		l := &snapshot[i]
		if l.SuspiciousPrice || l.IsDamaged() {
			continue
		}
		score := domain.ComputeQualityScore(l, now)
		mutations = append(mutations, domain.AnalyticsMutation{
			SourceURL:    l.SourceURL,
			SetQuality:   true,
			QualityScore: &score,
		})
	}
	return mutations
}

// appendEstimateReset добавляет мутацию-обнуление, только если у
// объявления вообще есть что обнулять.
func appendEstimateReset(mutations []domain.AnalyticsMutation, l *domain.CarListing) []domain.AnalyticsMutation {
	if l.EstimatedPrice == nil && l.DealRating == nil {
		return mutations
	}
	return append(mutations, domain.AnalyticsMutation{
		SourceURL:   l.SourceURL,
		SetEstimate: true,
	})
}

func modelKey(brand, model string) string {
	return brand + "\x00" + model
}

// buildModelIndex группирует снимок по марке и модели, чтобы сборка
// когорт не сканировала весь снимок на каждое объявление.
func buildModelIndex(snapshot []domain.CarListing) map[string][]*domain.CarListing {
	index := make(map[string][]*domain.CarListing)
	for i := range snapshot {
		l := &snapshot[i]
		index[modelKey(l.Brand, l.Model)] = append(index[modelKey(l.Brand, l.Model)], l)
	}
	return index
}
