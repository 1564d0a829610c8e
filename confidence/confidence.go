// Package confidence turns a set of user-marked frequencies into a
// 0-100 consistency score.
//
// The score summarizes how tightly the marks cluster: a user who marks
// nearly the same frequency every pass gets a high score, widely
// scattered marks get a low one. It is a pure function of the mark set
// with no hidden state.
package confidence

import "math"

const (
	// singleSampleScore is the floor for one mark: a single point carries
	// no statistical confidence, but it is not worthless.
	singleSampleScore = 30

	// spreadScale maps relative spread to score loss. The interior curve
	// is a UX tuning; only the boundary behaviors are contractual.
	spreadScale = 400.0
)

// Score rates the consistency of the marked frequencies on a 0-100
// scale. No marks score 0, a single mark scores exactly 30, and a set of
// identical marks scores exactly 100.
func Score(marks []float64) int {
	switch len(marks) {
	case 0:
		return 0
	case 1:
		return singleSampleScore
	}

	mean, stdDev := meanStdDev(marks)

	spread := 0.0
	if mean != 0 {
		spread = stdDev / mean
	}

	score := math.Round(100 - spread*spreadScale)
	if score < 0 {
		return 0
	}

	if score > 100 {
		return 100
	}

	return int(score)
}

// meanStdDev computes the mean and population standard deviation in a
// single Welford pass, which stays numerically stable for tightly
// clustered marks around large frequencies.
func meanStdDev(values []float64) (float64, float64) {
	var (
		mean float64
		m2   float64
	)

	for i, x := range values {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}

	return mean, math.Sqrt(m2 / float64(len(values)))
}
