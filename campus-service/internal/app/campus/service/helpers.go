package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campusreview/campus-service/internal/app/campus/entity"
	"campusreview/campus-service/internal/app/campus/infrastructure"
	"campusreview/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseID переводит hex-строку в ObjectID, подставляя ошибку вызывающего кода:
// для id из пути это обычно "не найдено", для id из тела запроса - ErrInvalidInput
func parseID(id string, errInvalid error) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errInvalid
	}
	return oid, nil
}

func parseIDs(ids []string, errInvalid error) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := parseID(id, errInvalid)
		if err != nil {
			return nil, err
		}
		out = append(out, oid)
	}
	return out, nil
}

// uniqueIDs убирает повторы, сохраняя порядок
func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// diffIDs возвращает элементы a, которых нет в b
func diffIDs(a, b []primitive.ObjectID) []primitive.ObjectID {
	inB := make(map[primitive.ObjectID]struct{}, len(b))
	for _, id := range b {
		inB[id] = struct{}{}
	}

	var out []primitive.ObjectID
	for _, id := range a {
		if _, ok := inB[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// eventPublisher сериализует события и отправляет их в Kafka.
// Ошибка публикации не прерывает операцию: данные уже сохранены.
type eventPublisher struct {
	publisher infrastructure.MessagePublisher
}

func (p eventPublisher) publish(ctx context.Context, event entity.Event) {
	if p.publisher == nil {
		return
	}

	event.Timestamp = time.Now().UTC()
	if err := p.send(ctx, event); err != nil {
		logger.Ctx(ctx).Warn().
			Err(err).
			Str("event_type", event.EventType).
			Str("entity_id", event.EntityID).
			Msg("Failed to publish event")
	}
}

func (p eventPublisher) send(ctx context.Context, event entity.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.publisher.PublishMessage(ctx, event.EntityID, data); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
