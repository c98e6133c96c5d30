package utils

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/models"
)

type Notifier struct {
	Collection *mongo.Collection
}

// Notify is fire-and-forget with respect to the triggering transaction: a
// failed insert is logged and swallowed, never rolled back into the caller.
func (n *Notifier) Notify(ctx context.Context, memberID primitive.ObjectID, title, message, kind string) {
	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		MemberID:  memberID,
		Title:     title,
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
	if _, err := n.Collection.InsertOne(ctx, notification); err != nil {
		log.Printf("notification insert failed for member %s: %v", memberID.Hex(), err)
	}
}
