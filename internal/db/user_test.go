package db

import (
	"context"
	"testing"
)

func TestMongoUserCollection_BadObjectID(t *testing.T) {
	coll := &MongoUserCollection{}
	ctx := context.Background()

	if _, err := coll.FindUserByID(ctx, "not-a-hex-id"); err == nil {
		t.Error("expected error for malformed id")
	}
	if err := coll.UpdateLastLogin(ctx, "not-a-hex-id"); err == nil {
		t.Error("expected error for malformed id")
	}
}
