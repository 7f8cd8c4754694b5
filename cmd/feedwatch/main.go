// Package main provides a CLI watcher for the live feed WebSocket, printing
// change events as they arrive. Useful for smoke testing a running server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

const identityCookie = "artemis-eco-user-id"

func main() {
	host := flag.String("host", "localhost:8460", "API server host")
	anonID := flag.String("identity", "", "Anonymous identity to reuse (default: mint a fresh one)")
	flag.Parse()

	id := *anonID
	if id == "" {
		minted, name, err := resolveIdentity(*host)
		if err != nil {
			log.Fatalf("❌ Identity resolution failed: %v", err)
		}
		id = minted
		log.Printf("✅ Watching as %s (%s)", name, id)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	u := url.URL{Scheme: "ws", Host: *host, Path: "/api/ws/feed"}
	header := http.Header{}
	header.Set("Cookie", fmt.Sprintf("%s=%s", identityCookie, id))

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		log.Fatalf("❌ WebSocket dial failed: %v", err)
	}
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	defer func() { _ = conn.Close() }()

	log.Printf("🔌 Connected to %s", u.String())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				log.Printf("read error: %v", err)
				return
			}
			printEvent(data)
		}
	}()

	select {
	case <-interrupt:
		log.Println("🛑 Interrupted by user")
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	case <-done:
	}
}

func resolveIdentity(host string) (id, name string, err error) {
	identityURL := fmt.Sprintf("http://%s/api/identity", host)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(identityURL)
	if err != nil {
		return "", "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", "", fmt.Errorf("identity resolution failed with status %d", resp.StatusCode)
	}

	var profile struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return "", "", err
	}
	return profile.ID, profile.DisplayName, nil
}

func printEvent(data []byte) {
	var event struct {
		Table string `json:"table"`
		Type  string `json:"type"`
		ID    uint   `json:"id"`
		Post  *struct {
			Title      string `json:"title"`
			AuthorName string `json:"author_name"`
			Upvotes    int    `json:"upvotes"`
		} `json:"post"`
		Comment *struct {
			PostID     uint   `json:"post_id"`
			AuthorName string `json:"author_name"`
		} `json:"comment"`
	}
	if err := json.Unmarshal(data, &event); err != nil {
		log.Printf("unparseable message: %s", data)
		return
	}

	switch {
	case event.Post != nil:
		log.Printf("[%s/%s] #%d %q by %s (▲%d)",
			event.Table, event.Type, event.ID, event.Post.Title, event.Post.AuthorName, event.Post.Upvotes)
	case event.Comment != nil:
		log.Printf("[%s/%s] #%d on post #%d by %s",
			event.Table, event.Type, event.ID, event.Comment.PostID, event.Comment.AuthorName)
	default:
		log.Printf("[%s/%s] #%d", event.Table, event.Type, event.ID)
	}
}
