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

type ProjectRepo struct {
	collection *mongo.Collection
}

func NewProjectRepo(db *mongo.Database) *ProjectRepo {
	return &ProjectRepo{collection: db.Collection("projects")}
}

func (r *ProjectRepo) Create(ctx context.Context, project *models.Project) error {
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.Tasks == nil {
		project.Tasks = []primitive.ObjectID{}
	}
	if project.AssignedTo == nil {
		project.AssignedTo = []primitive.ObjectID{}
	}

	if _, err := r.collection.InsertOne(ctx, project); err != nil {
		return models.WrapError(models.ErrCodeStorage, "failed to create project", err)
	}
	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrProjectNotFound
		}
		return nil, models.WrapError(models.ErrCodeStorage, "failed to load project", err)
	}
	return &project, nil
}

func (r *ProjectRepo) ListByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Project, error) {
	return r.list(ctx, bson.M{"createdBy": creatorID})
}

func (r *ProjectRepo) ListAll(ctx context.Context) ([]models.Project, error) {
	return r.list(ctx, bson.M{})
}

func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": project.ID}, project)
	if err != nil {
		return models.WrapError(models.ErrCodeStorage, "failed to update project", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.WrapError(models.ErrCodeStorage, "failed to delete project", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepo) PushTask(ctx context.Context, projectID, taskID primitive.ObjectID) error {
	filter := bson.M{"_id": projectID}
	update := bson.M{"$push": bson.M{"tasks": taskID}, "$set": bson.M{"updatedAt": time.Now()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return models.WrapError(models.ErrCodeStorage, "failed to add task to project", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrProjectNotFound
	}
	return nil
}

// PullTaskFromAll removes the task reference from every project listing it.
func (r *ProjectRepo) PullTaskFromAll(ctx context.Context, taskID primitive.ObjectID) error {
	filter := bson.M{"tasks": taskID}
	update := bson.M{"$pull": bson.M{"tasks": taskID}, "$set": bson.M{"updatedAt": time.Now()}}

	if _, err := r.collection.UpdateMany(ctx, filter, update); err != nil {
		return models.WrapError(models.ErrCodeStorage, "failed to remove task from projects", err)
	}
	return nil
}

func (r *ProjectRepo) list(ctx context.Context, filter bson.M) ([]models.Project, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, models.WrapError(models.ErrCodeStorage, "failed to list projects", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, models.WrapError(models.ErrCodeStorage, "failed to decode projects", err)
	}
	return projects, nil
}
