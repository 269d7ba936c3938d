package stream

import (
	"context"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	channelPrefix  = "posts:"
	channelSuffix  = ":broadcast"
	channelPattern = channelPrefix + "*" + channelSuffix
)

// Hub fans new posts out to websocket clients watching an author. With
// redis configured every instance publishes to the author's channel and
// delivers what its pattern subscription receives; otherwise delivery is
// in-process.
type Hub struct {
	redis   *redis.Client
	pubsub  *redis.PubSub
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	Author string
	Send   chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		ctx := context.Background()
		pubsub := redisClient.PSubscribe(ctx, channelPattern)
		if _, err := pubsub.Receive(ctx); err != nil {
			log.Warn().Err(err).Msg("stream: redis subscribe failed, delivering locally")
			_ = pubsub.Close()
			h.redis = nil
			return h
		}
		h.pubsub = pubsub
		go h.forward(pubsub.Channel())
	}
	return h
}

func (h *Hub) Register(author string) *Client {
	client := &Client{
		Author: author,
		Send:   make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[author] == nil {
		h.clients[author] = map[*Client]struct{}{}
	}
	h.clients[author][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if authorClients, ok := h.clients[client.Author]; ok {
		if _, registered := authorClients[client]; !registered {
			return
		}
		delete(authorClients, client)
		if len(authorClients) == 0 {
			delete(h.clients, client.Author)
		}
		close(client.Send)
	}
}

// Publish sends payload to everyone watching author.
func (h *Hub) Publish(author string, payload []byte) {
	if h.redis == nil {
		h.deliver(author, payload)
		return
	}
	if err := h.redis.Publish(context.Background(), redisChannel(author), payload).Err(); err != nil {
		log.Error().Err(err).Str("author", author).Msg("stream: redis publish failed")
		h.deliver(author, payload)
	}
}

// Close stops the redis subscription.
func (h *Hub) Close() error {
	if h.pubsub == nil {
		return nil
	}
	return h.pubsub.Close()
}

func (h *Hub) deliver(author string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[author] {
		select {
		case client.Send <- payload:
		default:
			log.Debug().Str("author", author).Msg("stream: slow client, dropping message")
		}
	}
}

func (h *Hub) forward(messages <-chan *redis.Message) {
	for msg := range messages {
		author := authorFromChannel(msg.Channel)
		if author == "" {
			continue
		}
		h.deliver(author, []byte(msg.Payload))
	}
}

func redisChannel(author string) string {
	return channelPrefix + author + channelSuffix
}

func authorFromChannel(ch string) string {
	if len(ch) <= len(channelPrefix)+len(channelSuffix) ||
		!strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}
