package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"ladder/engine"
	"ladder/sim"
	"ladder/strategy"
	"ladder/tape"
)

func main() {
	depth := flag.Int("depth", 200, "book depth per side")
	eventsFile := flag.String("events", "", "JSON event tape; the built-in demo runs when empty")
	journalDir := flag.String("journal", "", "persist the trade tape to a journal at this directory")
	kafkaBrokers := flag.String("kafka", "", "comma-separated brokers to publish the tape to")
	kafkaTopic := flag.String("topic", "trades", "topic for -kafka")
	spread := flag.Bool("spread", false, "attach the spread-capture strategy")
	flag.Parse()

	simulator, err := sim.New(engine.Config{Depth: *depth})
	if err != nil {
		log.Fatal(err)
	}

	var sinks []tape.Sink
	if *journalDir != "" {
		journal, err := tape.OpenJournal(*journalDir)
		if err != nil {
			log.Fatalf("open journal: %v", err)
		}
		defer journal.Close()
		sinks = append(sinks, journal)
	}
	if *kafkaBrokers != "" {
		publisher := tape.NewPublisher(strings.Split(*kafkaBrokers, ","), *kafkaTopic)
		defer publisher.Close()
		sinks = append(sinks, publisher)
	}
	recorder := tape.NewRecorder(sinks...)
	simulator.Observe(recorder)

	if *spread {
		simulator.Observe(strategy.NewSpreadCapture(strategy.NewSimClient(simulator, 1_000_000)))
	}

	var events []engine.Event
	if *eventsFile != "" {
		events, err = sim.LoadTape(*eventsFile)
		if err != nil {
			log.Fatalf("load events: %v", err)
		}
	} else {
		events = demoTape()
	}
	for _, ev := range events {
		simulator.Push(ev)
	}

	trades := simulator.Run()

	fmt.Println("Executed trades:")
	for _, tr := range trades {
		fmt.Printf("    ts=%3d price=%6d qty=%3d (maker=%d, taker=%d)\n",
			tr.Timestamp, tr.Price, tr.Quantity, tr.MakerID, tr.TakerID)
	}

	if rejects := simulator.Rejections(); len(rejects) > 0 {
		fmt.Printf("%d events rejected:\n", len(rejects))
		for _, rej := range rejects {
			fmt.Printf("    ts=%3d order=%d: %v\n", rej.Timestamp, rej.OrderID, rej.Err)
		}
	}
	for _, err := range recorder.SinkErrors() {
		fmt.Fprintf(os.Stderr, "tape sink: %v\n", err)
	}
}

// demoTape is the reference scenario: a resting ask, a crossing bid, a
// non-crossing bid, and a market sell.
func demoTape() []engine.Event {
	return []engine.Event{
		&engine.Order{ID: 1, Side: engine.Sell, Type: engine.Limit, Price: 100, Quantity: 10, Timestamp: 1},
		&engine.Order{ID: 2, Side: engine.Buy, Type: engine.Limit, Price: 101, Quantity: 10, Timestamp: 2},
		&engine.Order{ID: 3, Side: engine.Buy, Type: engine.Limit, Price: 99, Quantity: 5, Timestamp: 3},
		&engine.Order{ID: 4, Side: engine.Sell, Type: engine.Market, Quantity: 5, Timestamp: 4},
	}
}
