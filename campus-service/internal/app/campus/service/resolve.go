package service

import (
	"context"

	"campusreview/campus-service/internal/app/campus/entity"
	"campusreview/campus-service/internal/app/campus/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Загрузка связанных документов одним запросом на коллекцию.
// Отсутствующие документы просто не попадают в карту.

func loadUsers(ctx context.Context, repo repository.UserRepository, ids []primitive.ObjectID) (map[primitive.ObjectID]entity.User, error) {
	if len(ids) == 0 {
		return map[primitive.ObjectID]entity.User{}, nil
	}

	users, err := repo.GetByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}

	out := make(map[primitive.ObjectID]entity.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func loadProfessors(ctx context.Context, repo repository.ProfessorRepository, ids []primitive.ObjectID) (map[primitive.ObjectID]entity.Professor, error) {
	if len(ids) == 0 {
		return map[primitive.ObjectID]entity.Professor{}, nil
	}

	professors, err := repo.GetByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}

	out := make(map[primitive.ObjectID]entity.Professor, len(professors))
	for _, p := range professors {
		out[p.ID] = p
	}
	return out, nil
}

func loadComments(ctx context.Context, repo repository.CommentRepository, ids []primitive.ObjectID) (map[primitive.ObjectID]entity.Comment, error) {
	if len(ids) == 0 {
		return map[primitive.ObjectID]entity.Comment{}, nil
	}

	comments, err := repo.GetByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}

	out := make(map[primitive.ObjectID]entity.Comment, len(comments))
	for _, c := range comments {
		out[c.ID] = c
	}
	return out, nil
}

func userRef(id primitive.ObjectID, users map[primitive.ObjectID]entity.User) entity.UserRef {
	return entity.UserRef{ID: id, Username: users[id].Username}
}

func userPtr(id primitive.ObjectID, users map[primitive.ObjectID]entity.User) *entity.User {
	if u, ok := users[id]; ok {
		return &u
	}
	return nil
}

// commentView строит представление комментария; replies берутся из карты в порядке списка Replies
func commentView(c entity.Comment, users map[primitive.ObjectID]entity.User, replies map[primitive.ObjectID]entity.Comment) entity.CommentView {
	view := entity.CommentView{
		ID:            c.ID,
		User:          userRef(c.User, users),
		Content:       c.Content,
		CommentType:   c.CommentType,
		Course:        c.Course,
		Professor:     c.Professor,
		Community:     c.Community,
		ParentComment: c.ParentComment,
		Replies:       []entity.CommentView{},
		CreatedAt:     c.CreatedAt,
	}

	for _, id := range c.Replies {
		reply, ok := replies[id]
		if !ok {
			continue
		}
		view.Replies = append(view.Replies, commentView(reply, users, nil))
	}

	return view
}
