package scheduler

import (
	"fmt"
	"math"
)

// validateCatalog 检查节目列表与评分表是否可以用于排期
func validateCatalog(items []string, ratings map[string]float64) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: 节目列表为空", ErrInvalidInput)
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item] {
			return fmt.Errorf("%w: 节目 %q 重复", ErrInvalidInput, item)
		}
		seen[item] = true

		rating, exists := ratings[item]
		if !exists {
			return &MissingRatingError{Item: item}
		}
		if math.IsNaN(rating) || math.IsInf(rating, 0) || rating < 0 {
			return fmt.Errorf("%w: 节目 %q 的评分 %v 不合法", ErrInvalidInput, item, rating)
		}
	}

	return nil
}
