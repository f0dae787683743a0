// internal/app/store/clubs/clubstore.go
package clubstore

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
	c *mongo.Collection
}

var ErrDuplicateClubName = errors.New("a club with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("clubs")}
}

// GetByID loads a club by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Club, error) {
	var c models.Club
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Club{}, err
	}
	return c, nil
}

// Create inserts a new club with an empty roster.
func (s *Store) Create(ctx context.Context, c models.Club) (models.Club, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	if c.Members == nil {
		c.Members = []models.Member{}
	}
	if c.Departments == nil {
		c.Departments = []models.Department{}
	}
	if c.PanelMembers == nil {
		c.PanelMembers = []models.PanelSeat{}
	}
	c.TotalMembers = len(c.Members)
	c.TotalDepartments = len(c.Departments)
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Club{}, ErrDuplicateClubName
		}
		return models.Club{}, err
	}
	return c, nil
}

// List returns all clubs, newest first.
func (s *Store) List(ctx context.Context) ([]models.Club, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var clubs []models.Club
	if err := cur.All(ctx, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

// ListExcluding returns clubs whose IDs are not in exclude, projected down
// to what the join-club browser shows.
func (s *Store) ListExcluding(ctx context.Context, exclude []primitive.ObjectID) ([]models.Club, error) {
	filter := bson.M{}
	if len(exclude) > 0 {
		filter["_id"] = bson.M{"$nin": exclude}
	}
	opts := options.Find().SetProjection(bson.M{
		"_id":          1,
		"clubName":     1,
		"description":  1,
		"totalMembers": 1,
		"departments":  1,
	})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var clubs []models.Club
	if err := cur.All(ctx, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

// SetBanned toggles the club-level ban flag.
func (s *Store) SetBanned(ctx context.Context, id primitive.ObjectID, banned bool) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"banned":    banned,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Names maps the given club IDs to their names.
func (s *Store) Names(ctx context.Context, ids []primitive.ObjectID) (map[string]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1, "clubName": 1})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	names := make(map[string]string)
	for cur.Next(ctx) {
		var c struct {
			ID       primitive.ObjectID `bson:"_id"`
			ClubName string             `bson:"clubName"`
		}
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		names[c.ID.Hex()] = c.ClubName
	}
	return names, cur.Err()
}
