package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/marketplace/classifieds/internal/core/domain"
	"github.com/marketplace/classifieds/internal/core/ports"
)

const collectionPosts = "posts"

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts)}
}

// postDoc is both the stored shape and the result of populatePipeline; Owner
// and Category are only filled by $lookup and are never written.
type postDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Image       string             `bson:"image"`
	Price       float64            `bson:"price"`
	CategoryID  primitive.ObjectID `bson:"category_id"`
	OwnerID     primitive.ObjectID `bson:"owner_id"`
	CreatedAt   time.Time          `bson:"created_at"`

	Owner    *userDoc     `bson:"owner,omitempty"`
	Category *categoryDoc `bson:"category,omitempty"`
}

func (d *postDoc) toDomain() *domain.Post {
	p := &domain.Post{
		ID:          hexOrEmpty(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Image:       d.Image,
		Price:       d.Price,
		CategoryID:  hexOrEmpty(d.CategoryID),
		OwnerID:     hexOrEmpty(d.OwnerID),
		CreatedAt:   d.CreatedAt.UTC(),
	}
	if d.Owner != nil {
		p.Owner = d.Owner.toDomain()
	}
	if d.Category != nil {
		p.Category = d.Category.toDomain()
	}
	return p
}

func newPostDoc(p *domain.Post) (postDoc, error) {
	categoryID, err := primitive.ObjectIDFromHex(p.CategoryID)
	if err != nil {
		return postDoc{}, domain.NewValidationError("category %q does not exist", p.CategoryID)
	}
	ownerID, err := primitive.ObjectIDFromHex(p.OwnerID)
	if err != nil {
		return postDoc{}, fmt.Errorf("post owner id %q: %w", p.OwnerID, err)
	}
	return postDoc{
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
		Price:       p.Price,
		CategoryID:  categoryID,
		OwnerID:     ownerID,
		CreatedAt:   p.CreatedAt,
	}, nil
}

// Create inserts a post. Relations are not populated on the returned value.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	doc, err := newPostDoc(p)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// Replace overwrites the whole document with the given id.
func (r *PostRepository) Replace(ctx context.Context, p *domain.Post) error {
	oid, err := objectID(p.ID, domain.ErrPostNotFound)
	if err != nil {
		return err
	}
	doc, err := newPostDoc(p)
	if err != nil {
		return err
	}
	doc.ID = oid

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("replace post: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// FindByID returns a post with owner and category populated.
func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := objectID(id, domain.ErrPostNotFound)
	if err != nil {
		return nil, err
	}

	posts, err := r.aggregate(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, domain.ErrPostNotFound
	}
	return posts[0], nil
}

// List returns posts matching filter, newest first, with relations populated.
// An owner or category id that is not a valid ObjectID matches nothing.
func (r *PostRepository) List(ctx context.Context, filter ports.PostFilter) ([]*domain.Post, error) {
	match := bson.M{}
	if filter.OwnerID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.OwnerID)
		if err != nil {
			return []*domain.Post{}, nil
		}
		match["owner_id"] = oid
	}
	if filter.CategoryID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.CategoryID)
		if err != nil {
			return []*domain.Post{}, nil
		}
		match["category_id"] = oid
	}
	return r.aggregate(ctx, match)
}

func (r *PostRepository) aggregate(ctx context.Context, match bson.M) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, populatePipeline(match))
	if err != nil {
		return nil, fmt.Errorf("aggregate posts: %w", err)
	}

	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	out := make([]*domain.Post, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// populatePipeline joins owner and category onto each matched post. The
// owner's password hash never leaves the database.
func populatePipeline(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		lookupOne(collectionUsers, "owner_id", "owner"),
		unwindOptional("owner"),
		lookupOne(collectionCategories, "category_id", "category"),
		unwindOptional("category"),
		{{Key: "$project", Value: bson.D{{Key: "owner.password_hash", Value: 0}}}},
	}
}

func lookupOne(from, localField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: as},
	}}}
}

func unwindOptional(field string) bson.D {
	return bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$" + field},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}
}

// EnsureIndexes creates the indexes backing the owner and category listings.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "category_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("posts indexes: %w", err)
	}
	return nil
}
