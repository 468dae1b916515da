package recommend

import (
	"math"

	"bookhub/pkg/models"
)

// CalculateSimilarity scores how alike two books are, in [0, 1]. Genre
// weighs 0.4, author 0.3, rating proximity up to 0.2 and publication year
// proximity up to 0.1.
func CalculateSimilarity(a, b models.Book) float64 {
	score := 0.0
	if a.Genre == b.Genre {
		score += 0.4
	}
	if a.Author == b.Author {
		score += 0.3
	}
	score += 0.2 * math.Max(0, 1-math.Abs(a.Rating-b.Rating)/5)
	score += 0.1 * math.Max(0, 1-math.Abs(float64(a.Year-b.Year))/50)
	return math.Min(score, 1.0)
}
