// Benchmark comparing sequential and parallel spring bone passes
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"runtime"
	"time"

	"springbone/internal/world"
)

const (
	frameDelta    = float32(1) / 60
	bonesPerChain = 8
	iterations    = 60
)

func main() {
	workers := flag.Int("workers", runtime.NumCPU(), "workers for the parallel pass")
	flag.Parse()
	log.SetOutput(io.Discard)

	fmt.Printf("CPUs: %d | bones per chain: %d | workers: %d\n\n", runtime.NumCPU(), bonesPerChain, *workers)

	// Test various chain counts
	testCounts := []int{16, 64, 256, 1024, 4096}

	for _, count := range testCounts {
		testPass(count, *workers)
	}
}

func testPass(chains, workers int) {
	sequential, bones := timePass(chains, 1)
	parallel, _ := timePass(chains, workers)

	speedup := float64(sequential) / float64(parallel)

	fmt.Printf("%6d bones: sequential %10v | %2d workers %10v | %.1fx speedup\n",
		bones, sequential.Round(time.Microsecond), workers, parallel.Round(time.Microsecond), speedup)
}

// timePass returns the mean time of one frame and the number of bones.
func timePass(chains, workers int) (time.Duration, int) {
	opts := world.DefaultDemoOptions()
	opts.Chains = chains
	opts.BonesPerChain = bonesPerChain
	opts.Workers = workers
	opts.Sway = true
	opts.Settings.ApplyGravity = true
	// One update per frame
	opts.Settings.SimulationFrameRate = 0

	w, err := world.Open("", opts)
	if err != nil {
		panic(fmt.Sprintf("Failed to build demo: %v", err))
	}

	// Warm up
	w.Update(frameDelta)

	start := time.Now()
	for i := 0; i < iterations; i++ {
		w.Update(frameDelta)
	}
	return time.Since(start) / iterations, w.BoneCount()
}
