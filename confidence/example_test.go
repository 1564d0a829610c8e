package confidence_test

import (
	"fmt"

	"github.com/cwbudde/algo-tinnitus/confidence"
)

func ExampleScore() {
	fmt.Println(confidence.Score(nil))
	fmt.Println(confidence.Score([]float64{8000}))
	fmt.Println(confidence.Score([]float64{3000, 3010, 2990}))
	fmt.Println(confidence.Score([]float64{4000, 4000, 4000}))
	// Output:
	// 0
	// 30
	// 99
	// 100
}
