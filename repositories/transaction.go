package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Muhammad-Huzaifa24/backend-PMS/models"
)

// MongoTransactioner runs a function inside a Mongo session transaction.
// Used for the project-deletion cascade, which must commit or roll back as
// one unit.
type MongoTransactioner struct {
	client *mongo.Client
}

func NewMongoTransactioner(client *mongo.Client) *MongoTransactioner {
	return &MongoTransactioner{client: client}
}

func (t *MongoTransactioner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return models.WrapError(models.ErrCodeStorage, "failed to start session", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
