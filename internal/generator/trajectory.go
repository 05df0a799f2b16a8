package generator

import "math"

// synthesizeAmounts produces n transaction amounts whose cumulative sum equals
// endBalance − startBalance exactly.
//
// The first n−1 steps walk the balance to uniformly random points below a
// ceiling of U(1,3) × max(startBalance, endBalance); the final step is forced
// to close the remaining gap. The telescoping construction, not any later
// adjustment, is what guarantees the bridge is exact.
func (g *Generator) synthesizeAmounts(startBalance, endBalance float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	amounts := make([]float64, 0, n)
	ceiling := (1 + 2*g.rng.Float64()) * math.Max(startBalance, endBalance)
	current := startBalance
	for i := 0; i < n-1; i++ {
		next := g.rng.Float64() * ceiling
		amounts = append(amounts, next-current)
		current = next
	}
	amounts = append(amounts, endBalance-current)
	return amounts
}
