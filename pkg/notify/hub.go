package notify

import "sync"

// subscriberBuffer размер буфера канала подписчика; медленный подписчик
// пропускает уведомления, а не блокирует рассылку
const subscriberBuffer = 16

// Hub рассылает уведомления подписчикам внутри процесса по имени ресурса
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

// NewHub создаёт пустой Hub
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan []byte]struct{})}
}

// Subscribe регистрирует подписчика ресурса. Возвращённая функция отписывает
// и закрывает канал; повторный вызов безопасен.
func (h *Hub) Subscribe(resource string) (<-chan []byte, func()) {
	ch := make(chan []byte, subscriberBuffer)
	h.mu.Lock()
	if h.subs[resource] == nil {
		h.subs[resource] = make(map[chan []byte]struct{})
	}
	h.subs[resource][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[resource], ch)
			if len(h.subs[resource]) == 0 {
				delete(h.subs, resource)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Broadcast отправляет данные всем подписчикам ресурса и возвращает число доставленных
func (h *Hub) Broadcast(resource string, data []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for ch := range h.subs[resource] {
		select {
		case ch <- data:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers число подписчиков ресурса
func (h *Hub) Subscribers(resource string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[resource])
}
