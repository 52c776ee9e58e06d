package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusreview/campus-service/internal/app/campus/entity"
	"campusreview/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type commentRepository struct {
	collection *mongo.Collection
}

// NewCommentRepository создает репозиторий комментариев.
// Индексы покрывают выборку верхнего уровня по владельцу (новые первыми) и поиск ответов по parentComment.
func NewCommentRepository(db *mongo.Database) CommentRepository {
	collection := db.Collection(CollectionComments)

	ensureIndexes(collection,
		index("course_thread_idx", bson.D{{Key: "course", Value: 1}, {Key: "parentComment", Value: 1}, {Key: "createdAt", Value: -1}}),
		index("professor_thread_idx", bson.D{{Key: "professor", Value: 1}, {Key: "parentComment", Value: 1}, {Key: "createdAt", Value: -1}}),
		index("community_thread_idx", bson.D{{Key: "community", Value: 1}, {Key: "parentComment", Value: 1}, {Key: "createdAt", Value: -1}}),
		index("parent_comment_idx", bson.D{{Key: "parentComment", Value: 1}}),
	)

	return &commentRepository{collection: collection}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	comment.Replies = emptyIfNil(comment.Replies)

	timer := metrics.NewDbTimer(metricsService, metrics.DbOpInsert, CollectionComments)
	result, err := r.collection.InsertOne(ctx, comment)
	timer.Observe(err)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		comment.ID = oid
	}

	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Comment, error) {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpFind, CollectionComments)
	var comment entity.Comment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		timer.ObserveDuration()
		return nil, ErrNotFound
	}
	timer.Observe(err)
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return &comment, nil
}

func (r *commentRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	timer := metrics.NewDbTimer(metricsService, metrics.DbOpFind, CollectionComments)
	var comments []entity.Comment
	err := findByIDs(ctx, r.collection, ids, &comments)
	timer.Observe(err)
	if err != nil {
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}

	return comments, nil
}

// ListTopLevel возвращает комментарии владельца без родителя, новые первыми.
// Фильтр {parentComment: null} совпадает и с null, и с отсутствующим полем.
func (r *commentRepository) ListTopLevel(ctx context.Context, kind entity.OwnerKind, ownerID primitive.ObjectID) ([]entity.Comment, error) {
	filter := bson.M{
		string(kind):    ownerID,
		"parentComment": nil,
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	timer := metrics.NewDbTimer(metricsService, metrics.DbOpFind, CollectionComments)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		timer.Observe(err)
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}
	defer cursor.Close(ctx)

	var comments []entity.Comment
	err = cursor.All(ctx, &comments)
	timer.Observe(err)
	if err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}

	return comments, nil
}

func (r *commentRepository) PushReply(ctx context.Context, parentID, replyID primitive.ObjectID) error {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpUpdate, CollectionComments)
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": parentID},
		bson.M{"$push": bson.M{"replies": replyID}},
	)
	timer.Observe(err)
	if err != nil {
		return fmt.Errorf("failed to push reply: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *commentRepository) PullReply(ctx context.Context, parentID, replyID primitive.ObjectID) error {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpUpdate, CollectionComments)
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": parentID},
		bson.M{"$pull": bson.M{"replies": replyID}},
	)
	timer.Observe(err)
	if err != nil {
		return fmt.Errorf("failed to pull reply: %w", err)
	}

	return nil
}

// FindReplyIDs ищет ответы по parentComment, а не по списку replies родителя:
// список может отставать, если запись в него не прошла
func (r *commentRepository) FindReplyIDs(ctx context.Context, parentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})

	timer := metrics.NewDbTimer(metricsService, metrics.DbOpFind, CollectionComments)
	cursor, err := r.collection.Find(ctx, bson.M{"parentComment": parentID}, opts)
	if err != nil {
		timer.Observe(err)
		return nil, fmt.Errorf("failed to find replies: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	err = cursor.All(ctx, &docs)
	timer.Observe(err)
	if err != nil {
		return nil, fmt.Errorf("failed to decode replies: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}

	return ids, nil
}

func (r *commentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpDelete, CollectionComments)
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	timer.Observe(err)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteReplies удаляет перечисленные ответы родителя.
// Ответы, созданные после выборки replyIDs, не трогаются.
func (r *commentRepository) DeleteReplies(ctx context.Context, parentID primitive.ObjectID, replyIDs []primitive.ObjectID) (int64, error) {
	if len(replyIDs) == 0 {
		return 0, nil
	}
	return r.deleteMany(ctx, bson.M{"parentComment": parentID, "_id": bson.M{"$in": replyIDs}})
}

// DeleteByOwner удаляет все комментарии и ответы владельца
func (r *commentRepository) DeleteByOwner(ctx context.Context, kind entity.OwnerKind, ownerID primitive.ObjectID) (int64, error) {
	return r.deleteMany(ctx, bson.M{string(kind): ownerID})
}

func (r *commentRepository) deleteMany(ctx context.Context, filter bson.M) (int64, error) {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpDelete, CollectionComments)
	result, err := r.collection.DeleteMany(ctx, filter)
	timer.Observe(err)
	if err != nil {
		return 0, fmt.Errorf("failed to delete comments: %w", err)
	}

	return result.DeletedCount, nil
}
