package main

import (
	"bufio"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// send formats and sends one event to the WebSocket server.
func send(c *websocket.Conn, event string, payload interface{}) error {
	env := envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		env.Data = data
	}
	return c.WriteJSON(&env)
}

func main() {
	token := "demo:Demo"
	if len(os.Args) > 1 {
		token = os.Args[1]
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:8080", Path: "/ws", RawQuery: "token=" + url.QueryEscape(token)}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			var env envelope
			if err := c.ReadJSON(&env); err != nil {
				log.Println("Read error:", err)
				return
			}
			log.Printf("<- %s %s", env.Event, string(env.Data))
		}
	}()

	log.Println("Commands: create | join <code> | move <code> <pos> | quit")

	// Input loop
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			fields := strings.Fields(scanner.Text())
			if len(fields) == 0 {
				continue
			}
			switch fields[0] {
			case "create":
				send(c, "create-room", nil)
			case "join":
				if len(fields) < 2 {
					log.Println("Usage: join <code>")
					continue
				}
				send(c, "join-room", map[string]string{"room_code": fields[1]})
			case "move":
				if len(fields) < 3 {
					log.Println("Usage: move <code> <pos>")
					continue
				}
				pos, err := strconv.Atoi(fields[2])
				if err != nil {
					log.Println("Position must be 0..8")
					continue
				}
				send(c, "make-move", map[string]interface{}{"room_code": fields[1], "position": pos})
			case "quit":
				c.Close()
				return
			default:
				log.Printf("Unknown command %q", fields[0])
			}
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		log.Println("Interrupted")
	}
}
