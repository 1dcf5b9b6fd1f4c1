// Package storage is the authoritative persistent store. The
// coordinator only ever reaches it through the repository.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/screenx/screenx/internal/domain"
)

type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongo(ctx context.Context, uri, dbName string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	m := &Mongo{client: client, db: client.Database(dbName)}
	if err := m.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	log.Info().Str("module", "storage.mongo").Str("db", dbName).Msg("connected")
	return m, nil
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	_, err := m.meetings().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "meetingId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo meetings index: %w", err)
	}
	_, err = m.chats().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "meetingId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("mongo chats index: %w", err)
	}
	return nil
}

func (m *Mongo) meetings() *mongo.Collection { return m.db.Collection("meetings") }
func (m *Mongo) chats() *mongo.Collection    { return m.db.Collection("chats") }
func (m *Mongo) users() *mongo.Collection    { return m.db.Collection("users") }

// GetMeeting returns (nil, nil) for an unknown id; absence is not an
// error at this layer.
func (m *Mongo) GetMeeting(ctx context.Context, id domain.MeetingID) (*domain.Meeting, error) {
	var meeting domain.Meeting
	err := m.meetings().FindOne(ctx, bson.M{"meetingId": id}).Decode(&meeting)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo get meeting %q: %w", id, err)
	}
	return &meeting, nil
}

func (m *Mongo) CreateMeeting(ctx context.Context, meeting *domain.Meeting) error {
	meeting.CreatedAt = time.Now().UTC()
	meeting.UpdatedAt = meeting.CreatedAt
	if _, err := m.meetings().InsertOne(ctx, meeting); err != nil {
		return fmt.Errorf("mongo create meeting %q: %w", meeting.MeetingID, err)
	}
	return nil
}

// UpdateMeeting applies the patch and returns the post-write document,
// which the repository uses to repopulate the cache.
func (m *Mongo) UpdateMeeting(ctx context.Context, id domain.MeetingID, patch domain.MeetingPatch) (*domain.Meeting, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Locked != nil {
		set["locked"] = *patch.Locked
	}
	if patch.Summary != nil {
		set["summary"] = *patch.Summary
	}
	if patch.SummaryGeneratedAt != nil {
		set["summaryGeneratedAt"] = *patch.SummaryGeneratedAt
	}
	if patch.Participants != nil {
		set["participants"] = patch.Participants
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var meeting domain.Meeting
	err := m.meetings().
		FindOneAndUpdate(ctx, bson.M{"meetingId": id}, bson.M{"$set": set}, opts).
		Decode(&meeting)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo update meeting %q: %w", id, err)
	}
	return &meeting, nil
}

// ListChat returns the most recent limit messages, newest first. The
// repository reverses them into chronological order.
func (m *Mongo) ListChat(ctx context.Context, id domain.MeetingID, limit int) ([]domain.ChatMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := m.chats().Find(ctx, bson.M{"meetingId": id}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list chat %q: %w", id, err)
	}
	defer cursor.Close(ctx)

	var messages []domain.ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("mongo decode chat %q: %w", id, err)
	}
	return messages, nil
}

func (m *Mongo) InsertChat(ctx context.Context, msg *domain.ChatMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if _, err := m.chats().InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("mongo insert chat %q: %w", msg.MeetingID, err)
	}
	return nil
}

func (m *Mongo) GetUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var user domain.User
	err := m.users().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo get user %q: %w", id, err)
	}
	return &user, nil
}

// DistinctSenders backs the participants view: everyone who has said
// something in the meeting.
func (m *Mongo) DistinctSenders(ctx context.Context, id domain.MeetingID) ([]string, error) {
	raw, err := m.chats().Distinct(ctx, "sender", bson.M{"meetingId": id})
	if err != nil {
		return nil, fmt.Errorf("mongo distinct senders %q: %w", id, err)
	}
	senders := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			senders = append(senders, s)
		}
	}
	return senders, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
