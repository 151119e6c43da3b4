package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime/pprof"
	"time"

	"ladder/engine"
	"ladder/sim"
)

func main() {
	totalEvents := flag.Int("events", 500000, "number of events to generate")
	priceLevels := flag.Int64("price-levels", 200, "unique price levels around the mid")
	basePrice := flag.Int64("base-price", 10000, "mid price used for randomization")
	depth := flag.Int("depth", 200, "book depth per side")
	cancelEvery := flag.Int("cancel-every", 0, "schedule a cancel of a random earlier order every N events")
	marketRatio := flag.Int("market-ratio", 5, "1 in N orders will be market instead of limit")
	burst := flag.Int("burst", 4, "events sharing each timestamp")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for deterministic random streams")
	cpuProfile := flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile := flag.String("memprofile", "", "write heap profile to file")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer pprof.StopCPUProfile()
	}

	simulator, err := sim.New(engine.Config{Depth: *depth})
	if err != nil {
		panic(err)
	}

	for i := 0; i < *totalEvents; i++ {
		ts := int64(i / *burst)
		simulator.Push(nextRandomOrder(rng, uint64(i)+1, ts, *basePrice, *priceLevels, *marketRatio))
		if *cancelEvery > 0 && i > 0 && i%*cancelEvery == 0 {
			target := uint64(rng.Intn(i)) + 1
			simulator.Push(engine.Cancel{OrderID: target, Timestamp: ts})
		}
	}

	start := time.Now()
	trades := simulator.Run()
	elapsed := time.Since(start)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err == nil {
			defer f.Close()
			_ = pprof.WriteHeapProfile(f)
		}
	}

	eventsPerSec := float64(*totalEvents) / elapsed.Seconds()
	tradesPerSec := float64(len(trades)) / elapsed.Seconds()

	fmt.Printf("applied %d events in %s (%.0f events/s)\n", *totalEvents, elapsed.Truncate(time.Millisecond), eventsPerSec)
	fmt.Printf("matched %d trades (%.0f trades/s), %d rejections\n", len(trades), tradesPerSec, len(simulator.Rejections()))
	fmt.Printf("config: depth=%d levels=%d market-ratio=1/%d burst=%d seed=%d\n", *depth, *priceLevels, *marketRatio, *burst, *seed)
}

func nextRandomOrder(rng *rand.Rand, id uint64, ts int64, mid, width int64, marketRatio int) *engine.Order {
	side := engine.Side(rng.Intn(2))
	var price int64
	if side == engine.Buy {
		price = mid + rng.Int63n(width)
	} else {
		offset := rng.Int63n(width)
		if mid > offset {
			price = mid - offset
		} else {
			price = 1
		}
	}

	otype := engine.Limit
	if marketRatio > 0 && rng.Intn(marketRatio) == 0 {
		otype = engine.Market
	}

	return &engine.Order{
		ID:        id,
		Side:      side,
		Type:      otype,
		Price:     price,
		Quantity:  rng.Int63n(5) + 1,
		Timestamp: ts,
	}
}
