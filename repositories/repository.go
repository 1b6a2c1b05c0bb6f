package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Muhammad-Huzaifa24/backend-PMS/models"
)

// The repository interfaces keep the services independent of the document
// store; tests substitute in-memory implementations.

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListNonManagers(ctx context.Context) ([]models.User, error)
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
}

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	ListByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Project, error)
	ListAll(ctx context.Context) ([]models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	PushTask(ctx context.Context, projectID, taskID primitive.ObjectID) error
	PullTaskFromAll(ctx context.Context, taskID primitive.ObjectID) error
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Task, error)
	ListByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Task, error)
	ListByAssignee(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error)
	// ListForQA returns tasks assigned to the user plus completed tasks that
	// have any assignee.
	ListForQA(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) error
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) error
}

// Transactioner scopes a function to a storage transaction. The context
// passed to fn must be used for every repository call inside it; the whole
// unit commits or rolls back together.
type Transactioner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
