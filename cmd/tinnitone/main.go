// Command tinnitone runs the sound-therapy core from the terminal.
//
// Usage:
//
//	tinnitone -mode sweep [flags]
//	tinnitone -mode therapy [flags]
//
// In sweep mode a tone rises from the start to the end frequency; press
// Enter whenever it matches your ringing, and q<Enter> to finish. The
// marked frequencies are summarized into a match with a confidence score.
//
// In therapy mode colored noise plays with a notch removed around the
// matched frequency.
//
// Examples:
//
//	tinnitone -mode sweep -start 1000 -end 12000 -speed 100 -ear left
//	tinnitone -mode therapy -color pink -center 4000 -octaves 1
//	tinnitone -mode therapy -color brown -center 6000 -narrow 300 -duration 120
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cwbudde/algo-tinnitus/engine"
	"github.com/cwbudde/algo-tinnitus/noise"
	"github.com/cwbudde/algo-tinnitus/notch"
	"github.com/cwbudde/algo-tinnitus/sweep"
	"github.com/cwbudde/algo-tinnitus/therapy"
)

const tickInterval = 16 * time.Millisecond

func main() {
	mode := flag.String("mode", "sweep", "Mode: sweep or therapy")

	// Sweep flags.
	start := flag.Float64("start", sweep.DefaultStartHz, "Sweep start frequency in Hz")
	end := flag.Float64("end", sweep.DefaultEndHz, "Sweep end frequency in Hz")
	speed := flag.Float64("speed", sweep.SpeedMedium, "Sweep speed in Hz per second")
	ear := flag.String("ear", "both", "Playback ear: left, right or both")

	// Therapy flags.
	color := flag.String("color", "pink", "Noise color: white, pink or brown")
	center := flag.Float64("center", 4000, "Notch center frequency in Hz")
	octaves := flag.Float64("octaves", 1, "Notch width in octaves")
	narrow := flag.Float64("narrow", 0, "Narrow notch width in Hz (overrides -octaves when > 0)")
	volume := flag.Float64("volume", therapy.DefaultVolume, "Playback volume 0..1")
	duration := flag.Int("duration", 60, "Therapy playback duration in seconds")

	flag.Parse()

	audio := engine.New(nil)
	if !audio.Init() {
		fmt.Fprintln(os.Stderr, "tinnitone: no audio device available")
		os.Exit(1)
	}
	defer audio.Close()

	var err error

	switch *mode {
	case "sweep":
		err = runSweep(audio, *start, *end, *speed, parseEar(*ear))
	case "therapy":
		err = runTherapy(audio, *color, *center, *octaves, *narrow, *volume, *duration)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "tinnitone: %v\n", err)
		os.Exit(1)
	}
}

func parseEar(s string) sweep.Ear {
	switch strings.ToLower(s) {
	case "left":
		return sweep.EarLeft
	case "right":
		return sweep.EarRight
	default:
		return sweep.EarBoth
	}
}

func runSweep(audio *engine.Engine, start, end, speed float64, ear sweep.Ear) error {
	swp := sweep.New(audio,
		sweep.WithRange(start, end),
		sweep.WithSpeed(speed),
		sweep.WithEar(ear),
		sweep.WithOnMark(func(hz float64, count int) {
			fmt.Printf("\nmarked %.0f Hz (%d so far)\n", hz, count)
		}),
	)

	fmt.Printf("sweeping %.0f -> %.0f Hz at %.0f Hz/s into the %s ear\n",
		swp.Config().StartHz, swp.Config().EndHz, swp.Config().SpeedHzPerSec, ear)
	fmt.Println("press Enter to mark the matching pitch, q+Enter to finish")

	lines := make(chan string)

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}

		close(lines)
	}()

	swp.Start()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	lastPrint := time.Now()

	for swp.IsRunning() {
		select {
		case now := <-ticker.C:
			if swp.Tick(now) && time.Since(lastPrint) >= time.Second {
				fmt.Printf("\r%7.0f Hz ", swp.CurrentHz())
				lastPrint = time.Now()
			}

		case line, ok := <-lines:
			if !ok || line == "q" {
				swp.Stop()
			} else {
				swp.MarkFrequency()
			}
		}
	}

	fmt.Println()

	match, ok := swp.Confirm()
	if !ok {
		fmt.Println("no frequencies marked")

		return nil
	}

	fmt.Printf("matched %.0f Hz in the %s ear, confidence %d/100 (%d marks)\n",
		match.FrequencyHz, match.Ear, match.Confidence, swp.MatchCount())

	return nil
}

func runTherapy(audio *engine.Engine, colorName string, center, octaves, narrow, volume float64, seconds int) error {
	color, err := noise.ParseColor(colorName)
	if err != nil {
		return err
	}

	width := notch.Octaves(octaves)
	if narrow > 0 {
		width = notch.Hertz(narrow)
	}

	player := therapy.New(audio,
		therapy.WithColor(color),
		therapy.WithNotch(notch.Spec{CenterHz: center, Width: width}),
		therapy.WithVolume(volume),
	)

	if err := player.Start(); err != nil {
		return err
	}
	defer player.Stop()

	band := player.NotchSpec().Resolve(audio.Config().SampleRate)
	fmt.Printf("playing %s noise, notch %.0f-%.0f Hz (center %.0f), for %ds\n",
		color, band.LowerHz, band.UpperHz, band.CenterHz, seconds)

	time.Sleep(time.Duration(seconds) * time.Second)

	return nil
}
