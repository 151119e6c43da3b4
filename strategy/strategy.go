package strategy

import (
	"ladder/engine"
	"ladder/sim"
)

// Strategy is an advisory simulation observer that may react to market
// events by injecting orders of its own.
type Strategy interface {
	sim.Observer
}

// Client abstracts the minimal surface strategies need from the simulation.
type Client interface {
	// Submit schedules an order at its own timestamp.
	Submit(order engine.Order)
	// Cancel schedules a cancel for one of the strategy's orders.
	Cancel(orderID uint64, ts int64)
	// Top returns the current best levels.
	Top() engine.TopOfBook
	// Now returns the virtual clock.
	Now() int64
	// NextID allocates an order id from the strategy's private range.
	NextID() uint64
}

// SimClient adapts a Simulator to the Client surface. Ids are allocated
// above base so strategy orders never collide with tape ids.
type SimClient struct {
	sim  *sim.Simulator
	next uint64
}

// NewSimClient wraps a simulator. Pick a base well above the ids the event
// tape uses.
func NewSimClient(s *sim.Simulator, base uint64) *SimClient {
	return &SimClient{sim: s, next: base}
}

func (c *SimClient) Submit(order engine.Order) {
	c.sim.Push(&order)
}

func (c *SimClient) Cancel(orderID uint64, ts int64) {
	c.sim.Push(engine.Cancel{OrderID: orderID, Timestamp: ts})
}

func (c *SimClient) Top() engine.TopOfBook {
	return c.sim.Book().Snapshot()
}

func (c *SimClient) Now() int64 {
	return c.sim.Now()
}

func (c *SimClient) NextID() uint64 {
	c.next++
	return c.next
}
