package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nearmark/internal/config"
	"nearmark/internal/model"
)

const (
	locationCollection = "user_locations"
	sessionCollection  = "proximity_sessions"
)

// ErrAlreadyOpen is returned when a fresh existence check finds an open
// session for the pair. The check is a best-effort guard, not a transaction:
// two re-entrant evaluations can still both pass it, and consumers must
// tolerate the rare duplicate.
var ErrAlreadyOpen = errors.New("session already open for pair")

// Store is the durable record of user locations and proximity sessions.
// Sessions are written twice, once under each participant with the identities
// swapped; the two writes are independent and either can fail on its own.
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

// WriteLocation overwrites the user's last-known location. No history is kept.
func (s *Store) WriteLocation(ctx context.Context, userID string, c model.Coordinate, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, config.StoreTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"coordinate":   c,
		"last_updated": at,
	}}

	_, err := s.db.Collection(locationCollection).UpdateOne(
		ctx,
		bson.M{"_id": userID},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("write location for %s: %w", userID, err)
	}
	return nil
}

// FetchLocations returns the last-known location of every listed user that
// has one. Users without a record are simply absent from the result.
func (s *Store) FetchLocations(ctx context.Context, userIDs []string) (map[string]*model.UserLocation, error) {
	locations := make(map[string]*model.UserLocation, len(userIDs))
	if len(userIDs) == 0 {
		return locations, nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.StoreTimeout)
	defer cancel()

	cursor, err := s.db.Collection(locationCollection).Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, fmt.Errorf("fetch locations: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var loc model.UserLocation
		if err := cursor.Decode(&loc); err != nil {
			log.Printf("Skipping undecodable location record: %v", err)
			continue
		}
		locations[loc.UserID] = &loc
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("fetch locations: %w", err)
	}

	return locations, nil
}

// HasOpenSession reports whether an open record exists for (owner, counterpart).
func (s *Store) HasOpenSession(ctx context.Context, ownerID, counterpartID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, config.StoreTimeout)
	defer cancel()

	count, err := s.db.Collection(sessionCollection).CountDocuments(ctx, bson.M{
		"owner_id":       ownerID,
		"counterpart_id": counterpartID,
		"end_time":       model.OpenSentinel,
	})
	if err != nil {
		return false, fmt.Errorf("open session check for %s/%s: %w", ownerID, counterpartID, err)
	}
	return count > 0, nil
}

// OpenSession creates the mirrored pair of records for a new session and
// returns the owner-side record id. A concurrent check may surface
// ErrAlreadyOpen. A failed mirrored write is logged as an inconsistency but
// does not fail the open: a one-sided session beats blocking the pipeline on
// a cross-partition transaction.
func (s *Store) OpenSession(ctx context.Context, ownerID, counterpartID string, c model.Coordinate, at time.Time) (string, error) {
	open, err := s.HasOpenSession(ctx, ownerID, counterpartID)
	if err != nil {
		return "", err
	}
	if open {
		return "", ErrAlreadyOpen
	}

	record := model.NewProximitySession(ownerID, counterpartID, c, at)
	mirrored := record.Mirrored()

	ctx, cancel := context.WithTimeout(ctx, config.StoreTimeout)
	defer cancel()

	if _, err := s.db.Collection(sessionCollection).InsertOne(ctx, record); err != nil {
		return "", fmt.Errorf("open session for %s/%s: %w", ownerID, counterpartID, err)
	}

	if _, err := s.db.Collection(sessionCollection).InsertOne(ctx, mirrored); err != nil {
		log.Printf("Inconsistency: mirrored session record for %s/%s failed: %v", counterpartID, ownerID, err)
	}

	return record.ID, nil
}

// CloseOpenSessions ends every open record for the pair on both sides and
// returns how many records were closed (normally two, one per side). Both
// sides are attempted even if one fails. Closing only matches records whose
// end still equals the sentinel, so an end time is never overwritten.
func (s *Store) CloseOpenSessions(ctx context.Context, ownerID, counterpartID string, endC model.Coordinate, endT time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, config.StoreTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"end_time":       endT,
		"end_coordinate": endC,
	}}

	closed := 0
	var firstErr error

	for _, side := range [][2]string{{ownerID, counterpartID}, {counterpartID, ownerID}} {
		filter := bson.M{
			"owner_id":       side[0],
			"counterpart_id": side[1],
			"end_time":       model.OpenSentinel,
		}
		res, err := s.db.Collection(sessionCollection).UpdateMany(ctx, filter, update)
		if err != nil {
			log.Printf("Closing sessions on %s side for pair %s/%s failed: %v", side[0], ownerID, counterpartID, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("close sessions for %s/%s: %w", ownerID, counterpartID, err)
			}
			continue
		}
		closed += int(res.ModifiedCount)
	}

	return closed, firstErr
}

// SessionsForUser returns every session recorded under the user, newest first.
func (s *Store) SessionsForUser(ctx context.Context, userID string) ([]model.ProximitySession, error) {
	return s.findSessions(ctx, bson.M{"owner_id": userID})
}

// OpenSessionsForUser returns the user's currently open sessions.
func (s *Store) OpenSessionsForUser(ctx context.Context, userID string) ([]model.ProximitySession, error) {
	return s.findSessions(ctx, bson.M{"owner_id": userID, "end_time": model.OpenSentinel})
}

func (s *Store) findSessions(ctx context.Context, filter bson.M) ([]model.ProximitySession, error) {
	ctx, cancel := context.WithTimeout(ctx, config.StoreTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"start_time": -1})
	cursor, err := s.db.Collection(sessionCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find sessions: %w", err)
	}
	defer cursor.Close(ctx)

	sessions := make([]model.ProximitySession, 0, 8)
	for cursor.Next(ctx) {
		var sess model.ProximitySession
		if err := cursor.Decode(&sess); err != nil {
			log.Printf("Skipping undecodable session record: %v", err)
			continue
		}
		sessions = append(sessions, sess)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("find sessions: %w", err)
	}

	return sessions, nil
}
