// internal/websocket/hub.go
package websocket

import (
	"context"
	"log"
	"sync"

	wstypes "projexa-service/internal/domain/websocket"
	"projexa-service/internal/pkg/jwt"
	"projexa-service/internal/pkg/session"
)

// AckHandler is invoked when a client acknowledges notifications over the
// socket (notification:read / notification:read_all).
type AckHandler func(ctx context.Context, identityID int64, notificationID int64, all bool)

type Hub struct {
	// Registered clients by identity ID
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *BroadcastMessage

	ackHandler AckHandler

	// Auth dependencies
	jwtManager     *jwt.Manager
	sessionManager *session.Manager
}

type BroadcastMessage struct {
	// IdentityIDs nil means broadcast to everyone.
	IdentityIDs []int64
	Message     *wstypes.WSMessage
}

func NewHub(jwtManager *jwt.Manager, sessionManager *session.Manager) *Hub {
	return &Hub{
		clients:        make(map[int64]map[*Client]bool),
		Register:       make(chan *Client),
		unregister:     make(chan *Client),
		broadcast:      make(chan *BroadcastMessage, 256),
		jwtManager:     jwtManager,
		sessionManager: sessionManager,
	}
}

// SetAckHandler wires the notification read acknowledgements. Must be called
// before Run.
func (h *Hub) SetAckHandler(handler AckHandler) {
	h.ackHandler = handler
}

// AuthenticateClient validates the JWT token and builds the client identity.
func (h *Hub) AuthenticateClient(ctx context.Context, token string) (*ClientAuth, error) {
	claims, err := h.jwtManager.VerifyAccessToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	blacklisted, err := h.sessionManager.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, ErrTokenBlacklisted
	}

	sessionData, err := h.sessionManager.Get(ctx, claims.IdentityID, claims.ID)
	if err != nil {
		return nil, ErrSessionExpired
	}

	return &ClientAuth{
		IdentityID: claims.IdentityID,
		SessionID:  claims.ID,
		Role:       claims.Role,
		Email:      sessionData.Email,
	}, nil
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.identityID] == nil {
		h.clients[client.identityID] = make(map[*Client]bool)
	}
	h.clients[client.identityID][client] = true

	log.Printf("Client connected: identity=%d, session=%s, total=%d",
		client.identityID, client.sessionID, h.totalClients())

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"identity_id": client.identityID,
		"session_id":  client.sessionID,
		"role":        client.role,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.identityID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.identityID)
			}

			log.Printf("Client disconnected: identity=%d, session=%s, total=%d",
				client.identityID, client.sessionID, h.totalClients())
		}
	}
}

// SendToUser pushes a message to every open connection of one user.
// Safe to call from any goroutine; drops the message if the hub is saturated.
func (h *Hub) SendToUser(identityID int64, msg *wstypes.WSMessage) {
	select {
	case h.broadcast <- &BroadcastMessage{IdentityIDs: []int64{identityID}, Message: msg}:
	default:
		log.Printf("websocket: broadcast queue full, dropping message for identity=%d", identityID)
	}
}

// Broadcast pushes a message to all connected clients.
func (h *Hub) Broadcast(msg *wstypes.WSMessage) {
	select {
	case h.broadcast <- &BroadcastMessage{Message: msg}:
	default:
		log.Printf("websocket: broadcast queue full, dropping broadcast")
	}
}

func (h *Hub) deliver(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.IdentityIDs == nil {
		for _, clients := range h.clients {
			for client := range clients {
				client.SendMessage(msg.Message)
			}
		}
		return
	}

	for _, identityID := range msg.IdentityIDs {
		if clients, ok := h.clients[identityID]; ok {
			for client := range clients {
				client.SendMessage(msg.Message)
			}
		}
	}
}

// IsOnline reports whether the user has at least one open connection.
func (h *Hub) IsOnline(identityID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[identityID]) > 0
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

// totalClients must be called with the lock held.
func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) handleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) {
	switch msg.Type {
	case wstypes.EventTypePing:
		client.SendMessage(wstypes.NewMessage(wstypes.EventTypePong, nil))

	case wstypes.EventTypeNotificationRead:
		if h.ackHandler == nil {
			return
		}
		id, ok := notificationIDFrom(msg.Data)
		if !ok {
			client.SendError("invalid_message", "Missing notification id", "")
			return
		}
		h.ackHandler(ctx, client.identityID, id, false)

	case wstypes.EventTypeNotificationReadAll:
		if h.ackHandler != nil {
			h.ackHandler(ctx, client.identityID, 0, true)
		}

	default:
		client.SendError("unknown_event", "Unsupported event type", string(msg.Type))
	}
}

func notificationIDFrom(data interface{}) (int64, bool) {
	payload, ok := data.(map[string]interface{})
	if !ok {
		return 0, false
	}
	raw, ok := payload["id"].(float64)
	if !ok {
		return 0, false
	}
	return int64(raw), true
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
	h.clients = make(map[int64]map[*Client]bool)
	log.Println("websocket hub stopped")
}
