// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/clubhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c     *mongo.Collection
	clubs *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("events"),
		clubs: db.Collection("clubs"),
	}
}

var (
	// ErrDuplicateEventID is returned when the external event ID is taken.
	ErrDuplicateEventID = errors.New("event ID already exists")
	// ErrVolunteerLimitReached is returned when a bounded event is full.
	ErrVolunteerLimitReached = errors.New("volunteer limit reached")
	// ErrAlreadyJoined is returned when the user is already on the list.
	ErrAlreadyJoined = errors.New("you have already joined this event")
	// ErrNotVolunteer is returned when leaving an event never joined.
	ErrNotVolunteer = errors.New("you are not a volunteer for this event")
	// ErrNoClubForEvent marks a club-restricted event with no backing club.
	ErrNoClubForEvent = errors.New("event is restricted to club members, but no club is associated with this event")
	// ErrClubNotFound is returned when a restricted event's club no longer exists.
	ErrClubNotFound = errors.New("club not found")
	// ErrNotClubMember is returned when a non-member tries a restricted event.
	ErrNotClubMember = errors.New("you must be a member of the club to join this event")
	// ErrBannedFromClub is returned when a banned member tries a restricted event.
	ErrBannedFromClub = errors.New("you are banned from this club and cannot join its events")
)

// GetByID loads an event by Mongo ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// Create inserts a new event. EventID is externally assigned and unique.
func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	now := time.Now().UTC()
	e.ID = primitive.NewObjectID()
	if e.OpenTo == "" {
		e.OpenTo = models.OpenToAll
	}
	if e.Volunteers == nil {
		e.Volunteers = []models.Volunteer{}
	}
	e.VolunteersJoined = len(e.Volunteers)
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Event{}, ErrDuplicateEventID
		}
		return models.Event{}, err
	}
	return e, nil
}

// List returns all events, newest first.
func (s *Store) List(ctx context.Context) ([]models.Event, error) {
	return s.find(ctx, bson.M{})
}

// ListByCreator returns events created by the given user.
func (s *Store) ListByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Event, error) {
	return s.find(ctx, bson.M{"createdBy": creatorID})
}

// ListJoined returns events the user volunteers for.
func (s *Store) ListJoined(ctx context.Context, userID primitive.ObjectID) ([]models.Event, error) {
	return s.find(ctx, bson.M{"eventVolunteerList.userId": userID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Update holds the mutable event fields.
type Update struct {
	EventID        string
	EventName      string
	Details        string
	OpenTo         string
	VolunteerLimit models.VolunteerLimit
	Picture        string              // empty keeps the current picture
	CreatedByClub  *primitive.ObjectID // nil keeps the current club
}

// ApplyUpdate rewrites the event's editable fields and returns the updated
// document.
func (s *Store) ApplyUpdate(ctx context.Context, id primitive.ObjectID, upd Update) (models.Event, error) {
	set := bson.M{
		"eventId":        upd.EventID,
		"eventName":      upd.EventName,
		"details":        upd.Details,
		"openTo":         upd.OpenTo,
		"volunteerLimit": upd.VolunteerLimit,
		"updatedAt":      time.Now().UTC(),
	}
	if upd.Picture != "" {
		set["picture"] = upd.Picture
	}
	if upd.CreatedByClub != nil {
		set["createdByClubId"] = *upd.CreatedByClub
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var e models.Event
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, after).Decode(&e); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Event{}, ErrDuplicateEventID
		}
		return models.Event{}, err
	}
	return e, nil
}

// Delete removes the event and returns it so callers can clean up the
// stored picture.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var e models.Event
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// Join enrolls a volunteer. Order of checks: event exists, club
// restriction (associated club must exist and the user must be an unbanned
// member), capacity, then duplicate enrollment. The capacity check and the
// write are separate steps, so two racing joins at the boundary can both
// pass; that matches how the rest of the roster bookkeeping behaves.
func (s *Store) Join(ctx context.Context, eventID, userID primitive.ObjectID) error {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": eventID}).Decode(&e); err != nil {
		return err
	}

	if e.OpenTo == models.OpenToClubMembers {
		if e.CreatedByClub == nil {
			return ErrNoClubForEvent
		}
		var c models.Club
		if err := s.clubs.FindOne(ctx, bson.M{"_id": *e.CreatedByClub}).Decode(&c); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrClubNotFound
			}
			return err
		}
		m, ok := c.MemberFor(userID)
		if !ok {
			return ErrNotClubMember
		}
		if m.Banned {
			return ErrBannedFromClub
		}
	}

	if e.VolunteerLimit.Reached(e.VolunteersJoined) {
		return ErrVolunteerLimitReached
	}
	if e.HasVolunteer(userID) {
		return ErrAlreadyJoined
	}

	now := time.Now().UTC()
	_, err := s.c.UpdateByID(ctx, eventID, bson.M{
		"$push": bson.M{"eventVolunteerList": models.Volunteer{
			UserID:   userID,
			JoinedAt: now,
		}},
		"$inc": bson.M{"volunteersJoined": 1},
		"$set": bson.M{"updatedAt": now},
	})
	return err
}

// LeaveEvent withdraws a volunteer and decrements the joined counter.
func (s *Store) LeaveEvent(ctx context.Context, eventID, userID primitive.ObjectID) error {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": eventID}).Decode(&e); err != nil {
		return err
	}
	if !e.HasVolunteer(userID) {
		return ErrNotVolunteer
	}

	_, err := s.c.UpdateByID(ctx, eventID, bson.M{
		"$pull": bson.M{"eventVolunteerList": bson.M{"userId": userID}},
		"$inc":  bson.M{"volunteersJoined": -1},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	return err
}
