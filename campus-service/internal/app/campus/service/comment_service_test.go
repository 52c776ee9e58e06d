package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"campusreview/campus-service/internal/app/campus/entity"
	"campusreview/campus-service/internal/app/campus/repository"
	"campusreview/campus-service/internal/app/campus/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type commentMocks struct {
	comments  *mocks.MockCommentRepository
	owners    *mocks.MockOwnerRepository
	users     *mocks.MockUserRepository
	publisher *mocks.MockMessagePublisher
}

func newCommentService() (*CommentService, commentMocks) {
	m := commentMocks{
		comments:  new(mocks.MockCommentRepository),
		owners:    new(mocks.MockOwnerRepository),
		users:     new(mocks.MockUserRepository),
		publisher: &mocks.MockMessagePublisher{Messages: make([][]byte, 0)},
	}
	return NewCommentService(m.comments, m.owners, m.users, m.publisher), m
}

func (m commentMocks) assertExpectations(t *testing.T) {
	m.comments.AssertExpectations(t)
	m.owners.AssertExpectations(t)
	m.users.AssertExpectations(t)
}

func TestCreateComment_AllOwnerKinds(t *testing.T) {
	for _, kind := range []entity.OwnerKind{entity.OwnerCourse, entity.OwnerProfessor, entity.OwnerCommunity} {
		t.Run(string(kind), func(t *testing.T) {
			service, m := newCommentService()
			ctx := context.Background()
			ownerID := primitive.NewObjectID()
			authorID := primitive.NewObjectID()
			newID := primitive.NewObjectID()

			m.owners.On("Exists", ctx, kind, ownerID).Return(true, nil)
			m.comments.On("Create", ctx, mock.AnythingOfType("*entity.Comment")).Return(nil).Run(func(args mock.Arguments) {
				args.Get(1).(*entity.Comment).ID = newID
			})
			m.owners.On("PushComment", ctx, kind, ownerID, newID).Return(nil)
			m.publisher.On("PublishMessage", ctx, newID.Hex(), mock.Anything).Return(nil)

			comment, err := service.CreateComment(ctx, string(kind), ownerID.Hex(), authorID.Hex(), "  hello  ")

			require.NoError(t, err)
			assert.Equal(t, newID, comment.ID)
			assert.Equal(t, kind, comment.CommentType)
			assert.Equal(t, "hello", comment.Content)
			assert.Nil(t, comment.ParentComment)

			owner, ok := comment.OwnerID()
			require.True(t, ok)
			assert.Equal(t, ownerID, owner)

			// Заполнено ровно одно поле владельца
			set := 0
			for _, ref := range []*primitive.ObjectID{comment.Course, comment.Professor, comment.Community} {
				if ref != nil {
					set++
				}
			}
			assert.Equal(t, 1, set)

			m.assertExpectations(t)
		})
	}
}

func TestCreateComment_PublishesEvent(t *testing.T) {
	service, m := newCommentService()
	ctx := context.Background()
	ownerID := primitive.NewObjectID()
	authorID := primitive.NewObjectID()

	m.owners.On("Exists", ctx, entity.OwnerCourse, ownerID).Return(true, nil)
	m.comments.On("Create", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Comment).ID = primitive.NewObjectID()
	})
	m.owners.On("PushComment", ctx, entity.OwnerCourse, ownerID, mock.Anything).Return(nil)
	m.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	_, err := service.CreateComment(ctx, "course", ownerID.Hex(), authorID.Hex(), "text")
	require.NoError(t, err)

	require.Len(t, m.publisher.Messages, 1)
	var event entity.Event
	require.NoError(t, json.Unmarshal(m.publisher.Messages[0], &event))
	assert.Equal(t, entity.EventCommentCreated, event.EventType)
	assert.Equal(t, entity.OwnerCourse, event.OwnerType)
	assert.Equal(t, ownerID.Hex(), event.OwnerID)
	assert.Equal(t, authorID.Hex(), event.UserID)
	assert.False(t, event.Timestamp.IsZero())
}

func TestCreateComment_InvalidOwnerKind(t *testing.T) {
	service, m := newCommentService()

	comment, err := service.CreateComment(context.Background(), "club", primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), "text")

	assert.ErrorIs(t, err, ErrInvalidOwnerKind)
	assert.Nil(t, comment)
	m.comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.owners.AssertNotCalled(t, "PushComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateComment_OwnerNotFound(t *testing.T) {
	service, m := newCommentService()
	ctx := context.Background()
	ownerID := primitive.NewObjectID()

	m.owners.On("Exists", ctx, entity.OwnerProfessor, ownerID).Return(false, nil)

	comment, err := service.CreateComment(ctx, "professor", ownerID.Hex(), primitive.NewObjectID().Hex(), "text")

	assert.ErrorIs(t, err, ErrOwnerNotFound)
	assert.Nil(t, comment)
	m.comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateComment_MalformedOwnerID(t *testing.T) {
	service, _ := newCommentService()

	_, err := service.CreateComment(context.Background(), "course", "not-an-id", primitive.NewObjectID().Hex(), "text")

	assert.ErrorIs(t, err, ErrOwnerNotFound)
}

func TestCreateComment_EmptyContent(t *testing.T) {
	service, _ := newCommentService()

	_, err := service.CreateComment(context.Background(), "course", primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), "   ")

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateComment_LinkFailureSurfaced(t *testing.T) {
	service, m := newCommentService()
	ctx := context.Background()
	ownerID := primitive.NewObjectID()

	m.owners.On("Exists", ctx, entity.OwnerCommunity, ownerID).Return(true, nil)
	m.comments.On("Create", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Comment).ID = primitive.NewObjectID()
	})
	m.owners.On("PushComment", ctx, entity.OwnerCommunity, ownerID, mock.Anything).Return(errors.New("db error"))

	comment, err := service.CreateComment(ctx, "community", ownerID.Hex(), primitive.NewObjectID().Hex(), "text")

	assert.Error(t, err)
	assert.Nil(t, comment)
	assert.Empty(t, m.publisher.Messages)
}

func TestCreateComment_KafkaErrorIgnored(t *testing.T) {
	service, m := newCommentService()
	ctx := context.Background()
	ownerID := primitive.NewObjectID()

	m.owners.On("Exists", ctx, entity.OwnerCourse, ownerID).Return(true, nil)
	m.comments.On("Create", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Comment).ID = primitive.NewObjectID()
	})
	m.owners.On("PushComment", ctx, entity.OwnerCourse, ownerID, mock.Anything).Return(nil)
	m.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(errors.New("kafka error"))

	comment, err := service.CreateComment(ctx, "course", ownerID.Hex(), primitive.NewObjectID().Hex(), "text")

	assert.NoError(t, err)
	assert.NotNil(t, comment)
}

func TestReplyToComment_InheritsOwner(t *testing.T) {
	service, m := newCommentService()
	ctx := context.Background()
	professorID := primitive.NewObjectID()
	authorID := primitive.NewObjectID()
	replyID := primitive.NewObjectID()

	parent := &entity.Comment{ID: primitive.NewObjectID(), User: primitive.NewObjectID(), Content: "parent"}
	parent.SetOwner(entity.OwnerProfessor, professorID)

	var created *entity.Comment
	m.comments.On("GetByID", ctx, parent.ID).Return(parent, nil)
	m.comments.On("Create", ctx, mock.AnythingOfType("*entity.Comment")).Return(nil).Run(func(args mock.Arguments) {
		created = args.Get(1).(*entity.Comment)
		created.ID = replyID
	})
	m.comments.On("PushReply", ctx, parent.ID, replyID).Return(nil)
	m.owners.On("PushComment", ctx, entity.OwnerProfessor, professorID, replyID).Return(nil)
	m.users.On("GetByIDs", ctx, []primitive.ObjectID{authorID}).Return([]entity.User{{ID: authorID, Username: "alice"}}, nil)
	m.publisher.On("PublishMessage", ctx, replyID.Hex(), mock.Anything).Return(nil)

	view, err := service.ReplyToComment(ctx, parent.ID.Hex(), authorID.Hex(), "reply")

	require.NoError(t, err)
	require.NotNil(t, created)
	require.NotNil(t, created.ParentComment)
	assert.Equal(t, parent.ID, *created.ParentComment)
	assert.Equal(t, parent.CommentType, created.CommentType)
	assert.Equal(t, parent.Course, created.Course)
	assert.Equal(t, parent.Professor, created.Professor)
	assert.Equal(t, parent.Community, created.Community)

	assert.Equal(t, replyID, view.ID)
	assert.Equal(t, "alice", view.User.Username)
	assert.Equal(t, parent.ID, *view.ParentComment)
	m.assertExpectations(t)
}

func TestReplyToComment_OwnerGone(t *testing.T) {
	service, m := newCommentService()
	ctx := context.Background()
	communityID := primitive.NewObjectID()
	authorID := primitive.NewObjectID()
	replyID := primitive.NewObjectID()

	parent := &entity.Comment{ID: primitive.NewObjectID(), User: primitive.NewObjectID()}
	parent.SetOwner(entity.OwnerCommunity, communityID)

	m.comments.On("GetByID", ctx, parent.ID).Return(parent, nil)
	m.comments.On("Create", ctx, mock.AnythingOfType("*entity.Comment")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Comment).ID = replyID
	})
	m.comments.On("PushReply", ctx, parent.ID, replyID).Return(nil)
	m.owners.On("PushComment", ctx, entity.OwnerCommunity, communityID, replyID).Return(repository.ErrNotFound)
	m.users.On("GetByIDs", ctx, []primitive.ObjectID{authorID}).Return([]entity.User{{ID: authorID, Username: "alice"}}, nil)
	m.publisher.On("PublishMessage", ctx, replyID.Hex(), mock.Anything).Return(nil)

	view, err := service.ReplyToComment(ctx, parent.ID.Hex(), authorID.Hex(), "reply")

	require.NoError(t, err)
	assert.Equal(t, replyID, view.ID)
	m.assertExpectations(t)
}

func TestReplyToComment_OwnerLinkError(t *testing.T) {
	service, m := newCommentService()
	ctx := context.Background()
	courseID := primitive.NewObjectID()
	replyID := primitive.NewObjectID()

	parent := &entity.Comment{ID: primitive.NewObjectID(), User: primitive.NewObjectID()}
	parent.SetOwner(entity.OwnerCourse, courseID)

	m.comments.On("GetByID", ctx, parent.ID).Return(parent, nil)
	m.comments.On("Create", ctx, mock.AnythingOfType("*entity.Comment")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Comment).ID = replyID
	})
	m.comments.On("PushReply", ctx, parent.ID, replyID).Return(nil)
	m.owners.On("PushComment", ctx, entity.OwnerCourse, courseID, replyID).Return(errors.New("db error"))

	_, err := service.ReplyToComment(ctx, parent.ID.Hex(), primitive.NewObjectID().Hex(), "reply")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, m.publisher.Messages)
}

func TestReplyToComment_ParentNotFound(t *testing.T) {
	service, m := newCommentService()
	ctx := context.Background()
	parentID := primitive.NewObjectID()

	m.comments.On("GetByID", ctx, parentID).Return(nil, repository.ErrNotFound)

	view, err := service.ReplyToComment(ctx, parentID.Hex(), primitive.NewObjectID().Hex(), "reply")

	assert.ErrorIs(t, err, ErrParentNotFound)
	assert.Nil(t, view)
	m.comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReplyToComment_MalformedParentID(t *testing.T) {
	service, _ := newCommentService()

	_, err := service.ReplyToComment(context.Background(), "xyz", primitive.NewObjectID().Hex(), "reply")

	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestReplyToComment_RejectsNestedReply(t *testing.T) {
	service, m := newCommentService()
	ctx := context.Background()
	topID := primitive.NewObjectID()

	parent := &entity.Comment{ID: primitive.NewObjectID(), ParentComment: &topID}
	parent.SetOwner(entity.OwnerCourse, primitive.NewObjectID())

	m.comments.On("GetByID", ctx, parent.ID).Return(parent, nil)

	_, err := service.ReplyToComment(ctx, parent.ID.Hex(), primitive.NewObjectID().Hex(), "reply")

	assert.ErrorIs(t, err, ErrInvalidInput)
	m.comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeleteComment_ForbiddenLeavesStoreUntouched(t *testing.T) {
	service, m := newCommentService()
	ctx := context.Background()

	comment := &entity.Comment{ID: primitive.NewObjectID(), User: primitive.NewObjectID()}
	comment.SetOwner(entity.OwnerCourse, primitive.NewObjectID())

	m.comments.On("GetByID", ctx, comment.ID).Return(comment, nil)

	for _, requester := range []string{primitive.NewObjectID().Hex(), "", "garbage"} {
		err := service.DeleteComment(ctx, comment.ID.Hex(), requester)
		assert.ErrorIs(t, err, ErrForbidden)
	}

	m.comments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	m.comments.AssertNotCalled(t, "DeleteReplies", mock.Anything, mock.Anything, mock.Anything)
	m.comments.AssertNotCalled(t, "PullReply", mock.Anything, mock.Anything, mock.Anything)
	m.owners.AssertNotCalled(t, "PullComments", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, m.publisher.Messages)
}

func TestDeleteComment_NotFound(t *testing.T) {
	service, m := newCommentService()
	ctx := context.Background()
	id := primitive.NewObjectID()

	m.comments.On("GetByID", ctx, id).Return(nil, repository.ErrNotFound)

	err := service.DeleteComment(ctx, id.Hex(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrCommentNotFound)

	err = service.DeleteComment(ctx, "bad-id", primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestDeleteComment_TopLevelCascadesReplies(t *testing.T) {
	service, m := newCommentService()
	ctx := context.Background()
	authorID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()
	replyIDs := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}

	comment := &entity.Comment{ID: primitive.NewObjectID(), User: authorID, Replies: replyIDs}
	comment.SetOwner(entity.OwnerCourse, courseID)

	unlinked := append([]primitive.ObjectID{comment.ID}, replyIDs...)

	m.comments.On("GetByID", ctx, comment.ID).Return(comment, nil)
	m.comments.On("FindReplyIDs", ctx, comment.ID).Return(replyIDs, nil)
	m.owners.On("PullComments", ctx, entity.OwnerCourse, courseID, unlinked).Return(nil)
	m.comments.On("Delete", ctx, comment.ID).Return(nil)
	m.comments.On("DeleteReplies", ctx, comment.ID, replyIDs).Return(int64(len(replyIDs)), nil)
	m.publisher.On("PublishMessage", ctx, comment.ID.Hex(), mock.Anything).Return(nil)

	err := service.DeleteComment(ctx, comment.ID.Hex(), authorID.Hex())

	require.NoError(t, err)
	m.comments.AssertNotCalled(t, "PullReply", mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)

	require.Len(t, m.publisher.Messages, 1)
	var event entity.Event
	require.NoError(t, json.Unmarshal(m.publisher.Messages[0], &event))
	assert.Equal(t, entity.EventCommentDeleted, event.EventType)
	assert.Equal(t, len(replyIDs)+1, event.Removed)
}

func TestDeleteComment_UpperCaseRequesterID(t *testing.T) {
	service, m := newCommentService()
	ctx := context.Background()
	authorID := primitive.NewObjectID()
	parentID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()

	reply := &entity.Comment{ID: primitive.NewObjectID(), User: authorID, ParentComment: &parentID}
	reply.SetOwner(entity.OwnerCourse, courseID)

	m.comments.On("GetByID", ctx, reply.ID).Return(reply, nil)
	m.owners.On("PullComments", ctx, entity.OwnerCourse, courseID, []primitive.ObjectID{reply.ID}).Return(nil)
	m.comments.On("Delete", ctx, reply.ID).Return(nil)
	m.comments.On("PullReply", ctx, parentID, reply.ID).Return(nil)
	m.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	err := service.DeleteComment(ctx, reply.ID.Hex(), strings.ToUpper(authorID.Hex()))

	require.NoError(t, err)
	m.assertExpectations(t)
}

func TestDeleteComment_ReplyUnlinkedFromParent(t *testing.T) {
	service, m := newCommentService()
	ctx := context.Background()
	authorID := primitive.NewObjectID()
	communityID := primitive.NewObjectID()
	parentID := primitive.NewObjectID()

	reply := &entity.Comment{ID: primitive.NewObjectID(), User: authorID, ParentComment: &parentID}
	reply.SetOwner(entity.OwnerCommunity, communityID)

	m.comments.On("GetByID", ctx, reply.ID).Return(reply, nil)
	m.owners.On("PullComments", ctx, entity.OwnerCommunity, communityID, []primitive.ObjectID{reply.ID}).Return(nil)
	m.comments.On("Delete", ctx, reply.ID).Return(nil)
	m.comments.On("PullReply", ctx, parentID, reply.ID).Return(nil)
	m.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	err := service.DeleteComment(ctx, reply.ID.Hex(), authorID.Hex())

	require.NoError(t, err)
	m.comments.AssertNotCalled(t, "FindReplyIDs", mock.Anything, mock.Anything)
	m.comments.AssertNotCalled(t, "DeleteReplies", mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestDeleteComment_StoreError(t *testing.T) {
	service, m := newCommentService()
	ctx := context.Background()
	authorID := primitive.NewObjectID()

	comment := &entity.Comment{ID: primitive.NewObjectID(), User: authorID}
	comment.SetOwner(entity.OwnerCourse, primitive.NewObjectID())

	m.comments.On("GetByID", ctx, comment.ID).Return(comment, nil)
	m.comments.On("FindReplyIDs", ctx, comment.ID).Return(nil, errors.New("db error"))

	err := service.DeleteComment(ctx, comment.ID.Hex(), authorID.Hex())

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCommentNotFound)
	m.comments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestListComments_ResolvesAuthorsAndReplies(t *testing.T) {
	service, m := newCommentService()
	ctx := context.Background()
	courseID := primitive.NewObjectID()
	alice := entity.User{ID: primitive.NewObjectID(), Username: "alice"}
	bob := entity.User{ID: primitive.NewObjectID(), Username: "bob"}

	replyID := primitive.NewObjectID()
	newer := entity.Comment{ID: primitive.NewObjectID(), User: alice.ID, Content: "newer", Replies: []primitive.ObjectID{replyID}, CreatedAt: time.Now()}
	older := entity.Comment{ID: primitive.NewObjectID(), User: bob.ID, Content: "older", CreatedAt: time.Now().Add(-time.Hour)}
	reply := entity.Comment{ID: replyID, User: bob.ID, Content: "reply", ParentComment: &newer.ID}

	m.comments.On("ListTopLevel", ctx, entity.OwnerCourse, courseID).Return([]entity.Comment{newer, older}, nil)
	m.comments.On("GetByIDs", ctx, []primitive.ObjectID{replyID}).Return([]entity.Comment{reply}, nil)
	m.users.On("GetByIDs", ctx, mock.Anything).Return([]entity.User{alice, bob}, nil)

	views, err := service.ListComments(ctx, "course", courseID.Hex())

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "newer", views[0].Content)
	assert.Equal(t, "alice", views[0].User.Username)
	require.Len(t, views[0].Replies, 1)
	assert.Equal(t, "bob", views[0].Replies[0].User.Username)
	assert.Equal(t, "older", views[1].Content)
	assert.Empty(t, views[1].Replies)
}

func TestListComments_InvalidOwnerKind(t *testing.T) {
	service, m := newCommentService()

	views, err := service.ListComments(context.Background(), "club", primitive.NewObjectID().Hex())

	assert.ErrorIs(t, err, ErrInvalidOwnerKind)
	assert.Nil(t, views)
	m.comments.AssertNotCalled(t, "ListTopLevel", mock.Anything, mock.Anything, mock.Anything)
}

func TestListComments_MalformedOwnerIDIsEmpty(t *testing.T) {
	service, _ := newCommentService()

	views, err := service.ListComments(context.Background(), "course", "nope")

	assert.NoError(t, err)
	assert.Empty(t, views)
}
