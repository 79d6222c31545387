package store

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("append", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		s := NewMongoStore[testRecord](mt.Coll, zerolog.Nop())

		if err := s.Append(context.Background(), testRecord{Name: "a", Count: 1}); err != nil {
			mt.Fatalf("append: %v", err)
		}
	})

	mt.Run("read all", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "body", Value: `{"name":"a","count":1}`}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "body", Value: `broken`}},
		)
		last := mtest.CreateCursorResponse(0, ns, mtest.NextBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "body", Value: `{"name":"c","count":3}`}},
		)
		mt.AddMockResponses(first, last)
		s := NewMongoStore[testRecord](mt.Coll, zerolog.Nop())

		all, err := s.ReadAll(context.Background())
		if err != nil {
			mt.Fatalf("read: %v", err)
		}
		if len(all) != 2 || all[0].Name != "a" || all[1].Name != "c" {
			mt.Fatalf("unexpected records: %+v", all)
		}
	})

	mt.Run("insert error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))
		s := NewMongoStore[testRecord](mt.Coll, zerolog.Nop())

		if err := s.Append(context.Background(), testRecord{Name: "dup"}); err == nil {
			mt.Fatal("expected insert error")
		}
	})
}
