package domain

// FillIfAbsent записывает src в *dst только если *dst еще не заполнен.
// Источники - авторитет для отсутствующих данных, но не для уже
// записанных: непустое значение никогда не перезаписывается.
// Возвращает true, если поле было заполнено.
func FillIfAbsent[T any](dst **T, src *T) bool {
	if *dst != nil || src == nil {
		return false
	}
	v := *src
	*dst = &v
	return true
}

func ptr[T any](v T) *T {
	return &v
}

// Ptr - публичный помощник для конструирования опциональных полей.
func Ptr[T any](v T) *T {
	return &v
}
