// Package scoring computes point awards for correct answers.
package scoring

import "math"

// Award returns the points for a correct answer given the question's
// bounds and the number of prior correct attempts (before this submission
// is counted).
//
// The reward decays with the cube root of the solver's position so early
// answers earn more without later ones becoming worthless:
//
//	points = floor(max(minPoints, maxPoints / cbrt(correctAttempts+1)))
//
// The result never drops below minPoints and is strictly non-increasing
// as correctAttempts grows. Award does not mutate anything; the caller
// increments the attempt count after scoring, inside the same critical
// section that read it.
func Award(minPoints, maxPoints, correctAttempts int) int {
	if correctAttempts < 0 {
		correctAttempts = 0
	}
	decayed := float64(maxPoints) / math.Cbrt(float64(correctAttempts+1))
	return int(math.Floor(math.Max(float64(minPoints), decayed)))
}
