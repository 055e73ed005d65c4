package mongodb

import (
	"context"

	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// TxnRunner implements repositories.TxnRunner on a MongoDB session.
// The driver retries fn on transient transaction errors (write
// conflicts between concurrent draws), so callers get all-or-nothing
// semantics without their own retry loop.
type TxnRunner struct {
	client *mongo.Client
}

// NewTxnRunner creates a new TxnRunner
func NewTxnRunner(client *mongo.Client) repositories.TxnRunner {
	return &TxnRunner{client: client}
}

// WithTransaction runs fn inside a session transaction. The session
// context is passed down so repository calls made with it join the
// transaction.
func (t *TxnRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
