package infrastructure

import "context"

// MessagePublisher - приемник событий сервиса.
// Ключ сообщения - id сущности (комментария, курса или отзыва), значение - JSON entity.Event.
// Сервисы принимают nil-реализацию и в этом случае события не отправляют.
type MessagePublisher interface {
	PublishMessage(ctx context.Context, eventKey string, payload []byte) error
	Close() error
}
