package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/whoznexx/sports-portal/realtime"
	"github.com/whoznexx/sports-portal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Доступ к фиду и так закрыт гейтом и проверкой роли;
		// Origin дополнительно не ограничиваем.
		return true
	},
}

type WebSocketHandler struct {
	hub          *realtime.Hub
	adminService services.AdminService
}

func NewWebSocketHandler(hub *realtime.Hub, adminService services.AdminService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:          hub,
		adminService: adminService,
	}
}

// ServeCoachSubmissionsFeed — живой фид заявок тренеров для админской панели.
// Сначала клиенту уходит снапшот, затем события вставки; записи из снапшота
// в событиях не повторяются, так что каждая заявка приходит ровно один раз.
func (h *WebSocketHandler) ServeCoachSubmissionsFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader.Upgrade сам отправляет HTTP ошибку клиенту, здесь просто логируем.
		log.Printf("Failed to upgrade coach submissions feed connection: %v", err)
		return
	}

	client := &realtime.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256), // Буферизированный канал
		Room: realtime.RoomCoachSubmissions,
	}
	client.Hub.Register <- client

	// Снапшот берётся после регистрации: событие, успевшее проскочить между
	// регистрацией и выборкой, либо уже есть в снапшоте (и будет отфильтровано
	// по SeenIDs), либо доедет следом.
	submissions, err := h.adminService.ListCoachSubmissions(r.Context())
	if err != nil {
		// Сбой начальной выборки не рвёт соединение: события продолжат приходить.
		log.Printf("Failed to load coach submissions snapshot: %v", err)
		submissions = nil
	}

	seen := make(map[int]struct{}, len(submissions))
	for _, s := range submissions {
		seen[s.ID] = struct{}{}
	}
	client.SeenIDs = seen

	// Пампы ещё не запущены, соединением владеет только эта горутина.
	if err := conn.WriteJSON(realtime.Message{
		Type:    realtime.EventSnapshot,
		Payload: submissions,
		RoomID:  realtime.RoomCoachSubmissions,
	}); err != nil {
		log.Printf("Failed to send coach submissions snapshot: %v", err)
		client.Hub.Unregister <- client
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
