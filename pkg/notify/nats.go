// Пакет notify публикует уведомления об изменениях ресурсов в NATS
// и раздаёт их подписчикам внутри процесса
package notify

import "strings"

// Conn минимальный интерфейс NATS-подключения; *nats.Conn ему соответствует
type Conn interface {
	Publish(subject string, data []byte) error
}

// Publisher публикует уведомления в тему <prefix>.<resource>
type Publisher struct {
	conn   Conn
	prefix string
}

// NewPublisher создаёт Publisher для подключения и префикса темы
func NewPublisher(conn Conn, prefix string) *Publisher {
	return &Publisher{conn: conn, prefix: prefix}
}

// Notify отправляет данные в тему ресурса
func (p *Publisher) Notify(resource string, data []byte) error {
	return p.conn.Publish(Subject(p.prefix, resource), data)
}

// Subject возвращает тему ресурса; пустой префикс оставляет имя ресурса как есть
func Subject(prefix, resource string) string {
	if prefix == "" {
		return resource
	}
	return prefix + "." + resource
}

// Wildcard тема подписки на все ресурсы префикса
func Wildcard(prefix string) string {
	return Subject(prefix, ">")
}

// Resource извлекает имя ресурса из темы; false, если тема не относится к префиксу
func Resource(prefix, subject string) (string, bool) {
	if prefix == "" {
		return subject, subject != ""
	}
	res := strings.TrimPrefix(subject, prefix+".")
	if res == subject || res == "" {
		return "", false
	}
	return res, true
}
