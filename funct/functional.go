package funct

func Map[T any, R any](slide []T, transformer func(x T) (R, error)) ([]R, error) {
	newSlide := make([]R, 0, len(slide))

	for _, v := range slide {
		newValue, err := transformer(v)
		if err != nil {
			return nil, err
		}
		newSlide = append(newSlide, newValue)
	}
	return newSlide, nil
}

func Filter[T any](slide []T, cond func(x T) bool) []T {
	var result []T
	for _, v := range slide {
		if cond(v) {
			result = append(result, v)
		}
	}
	return result
}

func Index[T any](slide []T, cond func(x T) bool) int {
	for i, v := range slide {
		if cond(v) {
			return i
		}
	}
	return -1
}

func Some[T any](slide []T, cond func(x T) bool) bool {
	return Index(slide, cond) != -1
}

func Every[T any](slide []T, cond func(x T) bool) bool {
	for _, v := range slide {
		if !cond(v) {
			return false
		}
	}
	return true
}

// Unique keeps the first occurrence of every value
func Unique[T comparable](slide []T) []T {
	seen := make(map[T]bool, len(slide))
	result := make([]T, 0, len(slide))
	for _, v := range slide {
		if seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	return result
}
