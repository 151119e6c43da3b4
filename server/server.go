package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"ladder/engine"
	"ladder/sim"
)

const (
	defaultListenAddr = ":8080"
	defaultDepth      = 200
	defaultStepMillis = 100
)

// server plays a recorded event tape through the matching engine at a
// configurable pace and streams the results. There is no order-entry
// surface: the tape is the only input.
type server struct {
	mu         sync.Mutex
	sim        *sim.Simulator
	tradeFeed  *feed[engine.Trade]
	bookFeed   *feed[engine.TopOfBook]
	upgrader   websocket.Upgrader
	authToken  string
	corsOrigin string
}

type publicTrade struct {
	MakerOrderID uint64 `json:"makerOrderId"`
	TakerOrderID uint64 `json:"takerOrderId"`
	Price        int64  `json:"price"`
	Quantity     int64  `json:"quantity"`
	Timestamp    int64  `json:"timestamp"`
}

type publicQuote struct {
	OrderID  uint64 `json:"orderId"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

type snapshotResponse struct {
	BestBid *publicQuote `json:"bestBid,omitempty"`
	BestAsk *publicQuote `json:"bestAsk,omitempty"`
	Clock   int64        `json:"clock"`
}

type outboundMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func main() {
	listenAddr := getEnv("LISTEN_ADDR", defaultListenAddr)
	eventsFile := getEnv("EVENTS_FILE", "")
	depth := int(parseIntEnv("DEPTH", defaultDepth))
	stepInterval := time.Duration(parseIntEnv("STEP_MS", defaultStepMillis)) * time.Millisecond
	authToken := os.Getenv("AUTH_TOKEN")
	corsOrigin := getEnv("CORS_ORIGIN", "*")

	if eventsFile == "" {
		log.Fatal("EVENTS_FILE is required")
	}

	simulator, err := sim.New(engine.Config{Depth: depth})
	if err != nil {
		log.Fatal(err)
	}
	events, err := sim.LoadTape(eventsFile)
	if err != nil {
		log.Fatalf("load events: %v", err)
	}
	for _, ev := range events {
		simulator.Push(ev)
	}

	srv := newServer(simulator, authToken, corsOrigin)
	go srv.play(stepInterval)

	log.Printf("listening on %s, replaying %d events at %v per step", listenAddr, len(events), stepInterval)
	if err := http.ListenAndServe(listenAddr, srv.routes()); err != nil {
		log.Fatal(err)
	}
}

func newServer(simulator *sim.Simulator, authToken, corsOrigin string) *server {
	return &server{
		sim:        simulator,
		tradeFeed:  newFeed[engine.Trade](),
		bookFeed:   newFeed[engine.TopOfBook](),
		upgrader:   websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		authToken:  authToken,
		corsOrigin: corsOrigin,
	}
}

// play advances the virtual clock one step per tick until the tape runs
// out, broadcasting trades and top-of-book changes as they happen.
func (s *server) play(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		if s.sim.Pending() == 0 {
			done := len(s.sim.Trades())
			s.mu.Unlock()
			log.Printf("tape exhausted after %d trades", done)
			return
		}
		trades := s.sim.Step()
		top := s.sim.Book().Snapshot()
		s.mu.Unlock()

		for _, tr := range trades {
			s.tradeFeed.Broadcast(tr)
		}
		if len(trades) > 0 {
			s.bookFeed.Broadcast(top)
		}
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/book", s.withCORS(s.withAuth(http.HandlerFunc(s.handleSnapshot))))
	mux.Handle("/ws/trades", s.withCORS(s.withAuth(http.HandlerFunc(s.handleTradeStream))))
	mux.Handle("/ws/book", s.withCORS(s.withAuth(http.HandlerFunc(s.handleBookStream))))
	return mux
}

func (s *server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token != s.authToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("missing or invalid token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	top := s.sim.Book().Snapshot()
	clock := s.sim.Now()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, snapshotResponse{
		BestBid: toPublicQuote(top.Bid),
		BestAsk: toPublicQuote(top.Ask),
		Clock:   clock,
	})
}

func (s *server) handleTradeStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	trades, detach := s.tradeFeed.Listen(32)
	defer detach()

	for trade := range trades {
		msg := outboundMessage{Type: "trade", Data: toPublicTrade(trade)}
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (s *server) handleBookStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	tops, detach := s.bookFeed.Listen(32)
	defer detach()

	for top := range tops {
		msg := outboundMessage{Type: "book", Data: snapshotResponse{
			BestBid: toPublicQuote(top.Bid),
			BestAsk: toPublicQuote(top.Ask),
		}}
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func toPublicTrade(tr engine.Trade) publicTrade {
	return publicTrade{
		MakerOrderID: tr.MakerID,
		TakerOrderID: tr.TakerID,
		Price:        tr.Price,
		Quantity:     tr.Quantity,
		Timestamp:    tr.Timestamp,
	}
}

func toPublicQuote(q engine.Quote) *publicQuote {
	if q.Quantity == 0 {
		return nil
	}
	return &publicQuote{OrderID: q.OrderID, Price: q.Price, Quantity: q.Quantity}
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("invalid %s value %s: %v, falling back to %d", key, value, err, defaultValue)
		return defaultValue
	}
	return parsed
}
