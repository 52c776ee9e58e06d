package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campusreview/campus-service/internal/app/campus/entity"
	"campusreview/campus-service/internal/app/campus/infrastructure"
	"campusreview/campus-service/internal/app/campus/repository"
	"campusreview/pkg/logger"
	"campusreview/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentService ведет ветки комментариев и поддерживает денормализованные
// списки ссылок: comments у владельца и replies у родительского комментария.
// Записи в разные документы не объединены в транзакцию.
type CommentService struct {
	commentRepo repository.CommentRepository
	ownerRepo   repository.OwnerRepository
	userRepo    repository.UserRepository
	events      eventPublisher
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	ownerRepo repository.OwnerRepository,
	userRepo repository.UserRepository,
	publisher infrastructure.MessagePublisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		ownerRepo:   ownerRepo,
		userRepo:    userRepo,
		events:      eventPublisher{publisher: publisher},
	}
}

// ListComments возвращает комментарии верхнего уровня владельца (новые первыми)
// с подставленными авторами и ответами
func (s *CommentService) ListComments(ctx context.Context, ownerType, ownerID string) ([]entity.CommentView, error) {
	kind := entity.OwnerKind(ownerType)
	if !kind.Valid() {
		return nil, ErrInvalidOwnerKind
	}

	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		// Документа с таким id быть не может
		return []entity.CommentView{}, nil
	}

	comments, err := s.commentRepo.ListTopLevel(ctx, kind, oid)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	var replyIDs, userIDs []primitive.ObjectID
	for _, c := range comments {
		replyIDs = append(replyIDs, c.Replies...)
		userIDs = append(userIDs, c.User)
	}

	replies, err := loadComments(ctx, s.commentRepo, replyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load replies: %w", err)
	}
	for _, r := range replies {
		userIDs = append(userIDs, r.User)
	}

	users, err := loadUsers(ctx, s.userRepo, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load authors: %w", err)
	}

	views := make([]entity.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, commentView(c, users, replies))
	}

	return views, nil
}

// CreateComment создает комментарий верхнего уровня и добавляет его id в список владельца.
// Комментарий сохраняется первым: при сбое второй записи он существует,
// но не попадает в список владельца, и ошибка возвращается вызывающему.
func (s *CommentService) CreateComment(ctx context.Context, ownerType, ownerID, authorID, content string) (*entity.Comment, error) {
	kind := entity.OwnerKind(ownerType)
	if !kind.Valid() {
		return nil, ErrInvalidOwnerKind
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrInvalidInput
	}

	ownerOID, err := parseID(ownerID, ErrOwnerNotFound)
	if err != nil {
		return nil, err
	}

	authorOID, err := parseID(authorID, ErrInvalidID)
	if err != nil {
		return nil, err
	}

	exists, err := s.ownerRepo.Exists(ctx, kind, ownerOID)
	if err != nil {
		return nil, fmt.Errorf("failed to check owner: %w", err)
	}
	if !exists {
		return nil, ErrOwnerNotFound
	}

	comment := &entity.Comment{
		User:    authorOID,
		Content: content,
	}
	comment.SetOwner(kind, ownerOID)

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if err := s.ownerRepo.PushComment(ctx, kind, ownerOID, comment.ID); err != nil {
		return nil, fmt.Errorf("comment %s saved but not linked to %s %s: %w", comment.ID.Hex(), kind, ownerID, err)
	}

	metrics.CommentsCreated.WithLabelValues(string(kind), "comment").Inc()

	s.events.publish(ctx, entity.Event{
		EventType: entity.EventCommentCreated,
		EntityID:  comment.ID.Hex(),
		OwnerType: kind,
		OwnerID:   ownerID,
		UserID:    authorID,
	})

	return comment, nil
}

// ReplyToComment создает ответ на комментарий верхнего уровня.
// Ответ копирует тип и ссылку на владельца у родителя и попадает
// и в replies родителя, и в comments владельца.
func (s *CommentService) ReplyToComment(ctx context.Context, parentID, authorID, content string) (*entity.CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrInvalidInput
	}

	parentOID, err := parseID(parentID, ErrParentNotFound)
	if err != nil {
		return nil, err
	}

	authorOID, err := parseID(authorID, ErrInvalidID)
	if err != nil {
		return nil, err
	}

	parent, err := s.commentRepo.GetByID(ctx, parentOID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, fmt.Errorf("failed to get parent comment: %w", err)
	}

	// Поддерживается только один уровень вложенности
	if parent.IsReply() {
		return nil, fmt.Errorf("%w: cannot reply to a reply", ErrInvalidInput)
	}

	reply := &entity.Comment{
		User:          authorOID,
		Content:       content,
		CommentType:   parent.CommentType,
		Course:        parent.Course,
		Professor:     parent.Professor,
		Community:     parent.Community,
		ParentComment: &parent.ID,
	}

	if err := s.commentRepo.Create(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}

	if err := s.commentRepo.PushReply(ctx, parent.ID, reply.ID); err != nil {
		return nil, fmt.Errorf("reply %s saved but not linked to parent: %w", reply.ID.Hex(), err)
	}

	ownerID, hasOwner := parent.OwnerID()
	if hasOwner {
		err := s.ownerRepo.PushComment(ctx, parent.CommentType, ownerID, reply.ID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			// Владелец удален, ответ остается привязанным только к родителю
			logger.Ctx(ctx).Warn().
				Str("reply_id", reply.ID.Hex()).
				Str("owner_type", string(parent.CommentType)).
				Str("owner_id", ownerID.Hex()).
				Msg("Reply owner no longer exists")
		case err != nil:
			return nil, fmt.Errorf("reply %s saved but not linked to %s: %w", reply.ID.Hex(), parent.CommentType, err)
		}
	}

	metrics.CommentsCreated.WithLabelValues(string(parent.CommentType), "reply").Inc()

	event := entity.Event{
		EventType: entity.EventCommentCreated,
		EntityID:  reply.ID.Hex(),
		OwnerType: parent.CommentType,
		UserID:    authorID,
		ParentID:  parent.ID.Hex(),
	}
	if hasOwner {
		event.OwnerID = ownerID.Hex()
	}
	s.events.publish(ctx, event)

	users, err := loadUsers(ctx, s.userRepo, []primitive.ObjectID{authorOID})
	if err != nil {
		return nil, fmt.Errorf("failed to load author: %w", err)
	}

	view := commentView(*reply, users, nil)
	return &view, nil
}

// DeleteComment удаляет комментарий автора вместе с ответами.
// Из списка владельца убираются и сам комментарий, и каскадно удаленные ответы;
// при удалении ответа его id убирается из replies родителя.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, requesterID string) error {
	oid, err := parseID(commentID, ErrCommentNotFound)
	if err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to get comment: %w", err)
	}

	requesterOID, err := primitive.ObjectIDFromHex(requesterID)
	if err != nil || comment.User != requesterOID {
		return ErrForbidden
	}

	var replyIDs []primitive.ObjectID
	if !comment.IsReply() {
		replyIDs, err = s.commentRepo.FindReplyIDs(ctx, oid)
		if err != nil {
			return fmt.Errorf("failed to find replies: %w", err)
		}
	}

	ownerID, hasOwner := comment.OwnerID()
	if hasOwner {
		unlinked := append([]primitive.ObjectID{oid}, replyIDs...)
		if err := s.ownerRepo.PullComments(ctx, comment.CommentType, ownerID, unlinked...); err != nil {
			return fmt.Errorf("failed to unlink comment from %s: %w", comment.CommentType, err)
		}
	}

	if err := s.commentRepo.Delete(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	removed := int64(1)
	if comment.IsReply() {
		if err := s.commentRepo.PullReply(ctx, *comment.ParentComment, oid); err != nil {
			return fmt.Errorf("failed to unlink reply from parent: %w", err)
		}
	} else {
		deleted, err := s.commentRepo.DeleteReplies(ctx, oid, replyIDs)
		if err != nil {
			return fmt.Errorf("failed to delete replies: %w", err)
		}
		removed += deleted
	}

	metrics.CommentsDeleted.Add(float64(removed))

	event := entity.Event{
		EventType: entity.EventCommentDeleted,
		EntityID:  commentID,
		OwnerType: comment.CommentType,
		UserID:    requesterID,
		Removed:   int(removed),
	}
	if hasOwner {
		event.OwnerID = ownerID.Hex()
	}
	s.events.publish(ctx, event)

	return nil
}
