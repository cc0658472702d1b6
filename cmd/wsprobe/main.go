// Package main load-tests notification delivery. It opens one websocket per
// listener, then has an actor react to a blog on an interval and counts the
// "notis" frames that arrive.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/NirojT/AspBlogBacken/internal/config"
	"github.com/NirojT/AspBlogBacken/internal/middleware"
	"github.com/NirojT/AspBlogBacken/internal/notifications"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
)

// Metrics tracks the probe results
type Metrics struct {
	ConnectionsAttempted int64
	ConnectionsSuccess   int64
	ConnectionsFailed    int64
	ReactionsSent        int64
	NotisReceived        int64
	OtherFrames          int64
	Errors               int64
}

var metrics Metrics

var httpClient = &http.Client{Timeout: 5 * time.Second}

func main() {
	host := flag.String("host", "localhost:8375", "API server host")
	owner := flag.Uint("owner", 1, "User id that owns -blog and receives the notifications")
	actor := flag.Uint("actor", 2, "User id that reacts")
	blogID := flag.Uint("blog", 1, "Blog to react to")
	clients := flag.Int("clients", 5, "Sockets to open for the owner (max 5 per user)")
	interval := flag.Duration("interval", time.Second, "Delay between reactions")
	duration := flag.Duration("duration", 30*time.Second, "Probe duration")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	tokens := middleware.TokenConfig{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, Audience: cfg.JWTAudience}

	ownerToken, err := middleware.IssueToken(tokens, uint(*owner), *duration+time.Minute)
	if err != nil {
		log.Fatalf("Failed to sign owner token: %v", err)
	}
	actorToken, err := middleware.IssueToken(tokens, uint(*actor), *duration+time.Minute)
	if err != nil {
		log.Fatalf("Failed to sign actor token: %v", err)
	}

	log.Printf("Probing %s: %d sockets for user %d, reactions by user %d on blog %d every %s",
		*host, *clients, *owner, *actor, *blogID, *interval)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go listen(*host, ownerToken, stop, &wg)
		time.Sleep(50 * time.Millisecond) // stagger ticket issuance
	}

	wg.Add(1)
	go react(*host, actorToken, *blogID, *interval, stop, &wg)

	select {
	case <-time.After(*duration):
		log.Println("Probe duration reached")
	case <-interrupt:
		log.Println("Interrupted")
	}

	close(stop)
	wg.Wait()
	printMetrics(*clients)
}

func authorized(method, rawURL, token string, body any) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(method, rawURL, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return httpClient.Do(req)
}

func getTicket(host, token string) (string, error) {
	resp, err := authorized(http.MethodPost, fmt.Sprintf("http://%s/api/ws/ticket", host), token, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ticket issuance failed with status %d", resp.StatusCode)
	}

	var result struct {
		Ticket string `json:"ticket"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Ticket, nil
}

func listen(host, token string, stop <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	atomic.AddInt64(&metrics.ConnectionsAttempted, 1)

	ticket, err := getTicket(host, token)
	if err != nil {
		atomic.AddInt64(&metrics.ConnectionsFailed, 1)
		atomic.AddInt64(&metrics.Errors, 1)
		return
	}

	u := url.URL{Scheme: "ws", Host: host, Path: "/api/ws", RawQuery: "ticket=" + ticket}
	c, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		atomic.AddInt64(&metrics.ConnectionsFailed, 1)
		atomic.AddInt64(&metrics.Errors, 1)
		return
	}
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	defer func() { _ = c.Close() }()

	atomic.AddInt64(&metrics.ConnectionsSuccess, 1)

	go func() {
		for {
			var ev notifications.Event
			if err := c.ReadJSON(&ev); err != nil {
				return
			}
			if ev.Type == notifications.EventNotis {
				atomic.AddInt64(&metrics.NotisReceived, 1)
			} else {
				atomic.AddInt64(&metrics.OtherFrames, 1)
			}
		}
	}()

	<-stop
	_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func react(host, token string, blogID uint, interval time.Duration, stop <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	target := fmt.Sprintf("http://%s/api/blogs/%d/reactions", host, blogID)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			resp, err := authorized(http.MethodPost, target, token, map[string]string{"kind": "upvote"})
			if err != nil {
				atomic.AddInt64(&metrics.Errors, 1)
				continue
			}
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusCreated {
				log.Printf("reaction rejected with status %d", resp.StatusCode)
				atomic.AddInt64(&metrics.Errors, 1)
				continue
			}
			atomic.AddInt64(&metrics.ReactionsSent, 1)
		}
	}
}

func printMetrics(clients int) {
	sent := atomic.LoadInt64(&metrics.ReactionsSent)
	got := atomic.LoadInt64(&metrics.NotisReceived)

	log.Println("Probe Results")
	log.Println("=============")
	log.Printf("Connections Attempted: %d", atomic.LoadInt64(&metrics.ConnectionsAttempted))
	log.Printf("Connections Successful: %d", atomic.LoadInt64(&metrics.ConnectionsSuccess))
	log.Printf("Connections Failed: %d", atomic.LoadInt64(&metrics.ConnectionsFailed))
	log.Printf("Reactions Sent: %d", sent)
	log.Printf("Notis Received: %d (expected up to %d)", got, sent*int64(clients))
	log.Printf("Other Frames: %d", atomic.LoadInt64(&metrics.OtherFrames))
	log.Printf("Total Errors: %d", atomic.LoadInt64(&metrics.Errors))
}
