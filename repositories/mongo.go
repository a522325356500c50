package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wp-dispatch/models"
)

// NewMongoStore wraps an initialized database. Indexes are created by db.InitMongo.
func NewMongoStore(d *mongo.Database) *Store {
	counters := &counterRepository{col: d.Collection("counters")}
	return &Store{
		Blogs: &MongoBlogRepository{col: d.Collection("blogs"), users: d.Collection("users"), counters: counters},
		Users: &MongoUserRepository{col: d.Collection("users"), blogs: d.Collection("blogs"), counters: counters},
		Ping:  func(ctx context.Context) error { return d.Client().Ping(ctx, nil) },
		Close: func(ctx context.Context) error { return d.Client().Disconnect(ctx) },
	}
}

// counterRepository hands out sequential numeric ids per collection.
type counterRepository struct {
	col *mongo.Collection
}

func (r *counterRepository) next(ctx context.Context, name string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": int64(1)}}, opts).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

func mapMongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrConflict
	default:
		return err
	}
}

type MongoBlogRepository struct {
	col      *mongo.Collection
	users    *mongo.Collection
	counters *counterRepository
}

func (r *MongoBlogRepository) find(ctx context.Context, filter bson.M) ([]models.Blog, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	blogs := []models.Blog{}
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *MongoBlogRepository) List(ctx context.Context) ([]models.Blog, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoBlogRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Blog, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID})
}

func (r *MongoBlogRepository) GetByID(ctx context.Context, id int64) (*models.Blog, error) {
	var b models.Blog
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return nil, mapMongoErr(err)
	}
	return &b, nil
}

func (r *MongoBlogRepository) Create(ctx context.Context, b *models.Blog) error {
	n, err := r.users.CountDocuments(ctx, bson.M{"_id": b.OwnerID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	id, err := r.counters.next(ctx, "blogs")
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	b.ID = id
	b.CreatedAt = now
	b.UpdatedAt = now
	_, err = r.col.InsertOne(ctx, b)
	return mapMongoErr(err)
}

func (r *MongoBlogRepository) Update(ctx context.Context, id int64, patch models.BlogPatch) (*models.Blog, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	addString(set, "name", patch.Name)
	addString(set, "api_url", patch.APIURL)
	addString(set, "wp_user", patch.WPUser)
	addString(set, "api_key", patch.APIKey)
	addString(set, "favicon", patch.Favicon)
	addString(set, "topic", patch.Topic)
	addString(set, "keywords", patch.Keywords)

	var b models.Blog
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&b); err != nil {
		return nil, mapMongoErr(err)
	}
	return &b, nil
}

func (r *MongoBlogRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoBlogRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

type MongoUserRepository struct {
	col      *mongo.Collection
	blogs    *mongo.Collection
	counters *counterRepository
}

func (r *MongoUserRepository) List(ctx context.Context) ([]models.User, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, mapMongoErr(err)
	}
	return &u, nil
}

func (r *MongoUserRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	if externalID == "" {
		return nil, ErrNotFound
	}
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"external_id": externalID}).Decode(&u); err != nil {
		return nil, mapMongoErr(err)
	}
	return &u, nil
}

func (r *MongoUserRepository) Create(ctx context.Context, u *models.User) error {
	id, err := r.counters.next(ctx, "users")
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	u.ID = id
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err = r.col.InsertOne(ctx, u)
	return mapMongoErr(err)
}

func (r *MongoUserRepository) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	addString(set, "name", patch.Name)
	addString(set, "last_name", patch.LastName)
	addString(set, "email", patch.Email)
	addString(set, "writing_style", patch.WritingStyle)

	var u models.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u); err != nil {
		return nil, mapMongoErr(err)
	}
	return &u, nil
}

// Delete removes the user and the blogs they own.
func (r *MongoUserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	_, err = r.blogs.DeleteMany(ctx, bson.M{"owner_id": id})
	return err
}

func addString(set bson.M, key string, v *string) {
	if v != nil {
		set[key] = *v
	}
}
