package utils

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/models"
)

type Logger struct {
	Collection *mongo.Collection
}

// Log records an audit entry. Every admin-triggered mutation goes through
// here with the acting admin's id; data carries the payload or old/new
// values. Failures never change the outcome of the triggering operation.
func (l *Logger) Log(ctx context.Context, entity, action, performedBy string, data any) error {
	log := models.AuditLog{
		Timestamp:   time.Now(),
		Entity:      entity,
		Action:      action,
		PerformedBy: performedBy,
		Data:        data,
	}
	_, err := l.Collection.InsertOne(ctx, log)
	return err
}
