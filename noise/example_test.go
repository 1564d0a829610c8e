package noise_test

import (
	"fmt"

	"github.com/cwbudde/algo-tinnitus/noise"
)

func ExampleGenerator_Buffer() {
	gen, err := noise.NewGenerator(48000, noise.WithSeed(1))
	if err != nil {
		fmt.Println(err)

		return
	}

	buf, err := gen.Buffer(noise.Pink, 2)
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(len(buf.Channels), "channels,", len(buf.Channels[0]), "samples each")
	// Output:
	// 2 channels, 48000 samples each
}

func ExampleParseColor() {
	c, _ := noise.ParseColor("brown")
	fmt.Println(c)

	_, err := noise.ParseColor("ultraviolet")
	fmt.Println(err)
	// Output:
	// brown
	// noise: unknown color: "ultraviolet"
}
