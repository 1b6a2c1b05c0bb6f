package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Muhammad-Huzaifa24/backend-PMS/models"
)

type TaskRepo struct {
	collection *mongo.Collection
}

func NewTaskRepo(db *mongo.Database) *TaskRepo {
	return &TaskRepo{collection: db.Collection("tasks")}
}

func (r *TaskRepo) Create(ctx context.Context, task *models.Task) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, task); err != nil {
		return models.WrapError(models.ErrCodeStorage, "failed to create task", err)
	}
	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrTaskNotFound
		}
		return nil, models.WrapError(models.ErrCodeStorage, "failed to load task", err)
	}
	return &task, nil
}

func (r *TaskRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *TaskRepo) ListByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Task, error) {
	return r.list(ctx, bson.M{"createdBy": creatorID})
}

func (r *TaskRepo) ListByAssignee(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	return r.list(ctx, bson.M{"assignedTo": userID})
}

func (r *TaskRepo) ListForQA(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"assignedTo": userID},
		bson.M{"status": models.TaskStatusCompleted, "assignedTo": bson.M{"$exists": true}},
	}}
	return r.list(ctx, filter)
}

func (r *TaskRepo) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return models.WrapError(models.ErrCodeStorage, "failed to update task", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.WrapError(models.ErrCodeStorage, "failed to delete task", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepo) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return models.WrapError(models.ErrCodeStorage, "failed to delete tasks", err)
	}
	return nil
}

func (r *TaskRepo) list(ctx context.Context, filter bson.M) ([]models.Task, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, models.WrapError(models.ErrCodeStorage, "failed to list tasks", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, models.WrapError(models.ErrCodeStorage, "failed to decode tasks", err)
	}
	return tasks, nil
}
