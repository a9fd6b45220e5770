package mongodb

import (
	"context"
	"fmt"

	"github.com/mamadbah2/farmflow/internal/domain/models"
)

// SaveSMSLog records a notification attempt.
func (r *MongoDBRepository) SaveSMSLog(ctx context.Context, entry models.SMSLog) error {
	if _, err := r.collection(smsLogsCollection).InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert sms log: %w", err)
	}
	return nil
}

// SaveSnapshot saves a ledger snapshot to the database.
func (r *MongoDBRepository) SaveSnapshot(ctx context.Context, snapshot models.LedgerSnapshot) error {
	doc, err := toSnapshotDocument(snapshot)
	if err != nil {
		return err
	}
	if _, err := r.collection(snapshotsCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert ledger snapshot: %w", err)
	}
	return nil
}
