package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
	"github.com/Ghosted34/natours-nest/internal/core/ports"
)

const collectionUsers = "users"

// caseInsensitive makes email/username lookups ignore case without storing a
// second, lowercased copy of the field.
var caseInsensitive = options.Collation{Locale: "en", Strength: 2}

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

// EnsureIndexes creates the unique email/username indexes and the sparse
// token lookup indexes. Call once at startup.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetCollation(&caseInsensitive),
		},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetCollation(&caseInsensitive).
				SetPartialFilterExpression(bson.M{"username": bson.M{"$exists": true}}),
		},
		{
			Keys:    bson.D{{Key: "verification_token", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "reset_token_hash", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	return err
}

type mongoUser struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Email               string             `bson:"email"`
	Username            string             `bson:"username,omitempty"`
	PasswordHash        string             `bson:"password_hash"`
	Role                string             `bson:"role"`
	FirstName           string             `bson:"first_name"`
	LastName            string             `bson:"last_name,omitempty"`
	Avatar              string             `bson:"avatar,omitempty"`
	GoogleID            string             `bson:"google_id,omitempty"`
	IsVerified          bool               `bson:"is_verified"`
	VerificationToken   string             `bson:"verification_token,omitempty"`
	ResetTokenHash      string             `bson:"reset_token_hash,omitempty"`
	ResetTokenExpiresAt int64              `bson:"reset_token_expires_at,omitempty"`
	CreatedAt           int64              `bson:"created_at"`
	UpdatedAt           int64              `bson:"updated_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(user)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if dup := duplicateKeyError(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid}, nil)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, &caseInsensitive)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username}, &caseInsensitive)
}

func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, identifier string) (*domain.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": identifier},
		bson.M{"username": identifier},
	}}
	return r.findOne(ctx, filter, &caseInsensitive)
}

func (r *UserRepository) FindByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"verification_token": token}, nil)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, patch ports.UserProfilePatch) (*domain.User, error) {
	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if patch.Username != "" {
		set["username"] = patch.Username
	}
	if patch.FirstName != "" {
		set["first_name"] = patch.FirstName
	}
	if patch.LastName != "" {
		set["last_name"] = patch.LastName
	}
	if patch.Avatar != "" {
		set["avatar"] = patch.Avatar
	}
	return r.findOneAndUpdateByID(ctx, id, bson.M{"$set": set})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	_, err := r.findOneAndUpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC().Unix(),
	}})
	return err
}

func (r *UserRepository) SetVerificationToken(ctx context.Context, id string, token string) error {
	_, err := r.findOneAndUpdateByID(ctx, id, bson.M{"$set": bson.M{
		"verification_token": token,
		"updated_at":         time.Now().UTC().Unix(),
	}})
	return err
}

func (r *UserRepository) SetResetToken(ctx context.Context, id string, tokenHash string, expiresAt time.Time) error {
	_, err := r.findOneAndUpdateByID(ctx, id, bson.M{"$set": bson.M{
		"reset_token_hash":       tokenHash,
		"reset_token_expires_at": expiresAt.Unix(),
		"updated_at":             time.Now().UTC().Unix(),
	}})
	return err
}

// ConsumeVerificationToken is a single conditional update keyed on the token
// value: of two concurrent consumers exactly one matches the filter.
func (r *UserRepository) ConsumeVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"verification_token": token, "is_verified": false},
		bson.M{
			"$set":   bson.M{"is_verified": true, "updated_at": time.Now().UTC().Unix()},
			"$unset": bson.M{"verification_token": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("consume verification token: %w", err)
	}
	return fromMongoUser(&mu), nil
}

// ConsumeResetToken atomically swaps the password and clears the reset token,
// keyed on the token digest and its expiry.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time, passwordHash string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{
			"reset_token_hash":       tokenHash,
			"reset_token_expires_at": bson.M{"$gt": now.Unix()},
		},
		bson.M{
			"$set":   bson.M{"password_hash": passwordHash, "updated_at": now.Unix()},
			"$unset": bson.M{"reset_token_hash": "", "reset_token_expires_at": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("consume reset token: %w", err)
	}
	return fromMongoUser(&mu), nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, collation *options.Collation) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne()
	if collation != nil {
		opts.SetCollation(collation)
	}

	var mu mongoUser
	if err := r.col.FindOne(ctx, filter, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return fromMongoUser(&mu), nil
}

func (r *UserRepository) findOneAndUpdateByID(ctx context.Context, id string, update bson.M) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return fromMongoUser(&mu), nil
}

func toMongoUser(u *domain.User) mongoUser {
	mu := mongoUser{
		Email:             u.Email,
		Username:          u.Username,
		PasswordHash:      u.PasswordHash,
		Role:              string(u.Role),
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Avatar:            u.Avatar,
		GoogleID:          u.GoogleID,
		IsVerified:        u.IsVerified,
		VerificationToken: u.VerificationToken,
		ResetTokenHash:    u.ResetTokenHash,
		CreatedAt:         u.CreatedAt.Unix(),
		UpdatedAt:         u.UpdatedAt.Unix(),
	}
	if !u.ResetTokenExpiresAt.IsZero() {
		mu.ResetTokenExpiresAt = u.ResetTokenExpiresAt.Unix()
	}
	return mu
}

func fromMongoUser(mu *mongoUser) *domain.User {
	role, ok := domain.ParseRole(mu.Role)
	if !ok {
		role = domain.RoleUser
	}
	return &domain.User{
		ID:                  mu.ID.Hex(),
		Email:               mu.Email,
		Username:            mu.Username,
		PasswordHash:        mu.PasswordHash,
		Role:                role,
		FirstName:           mu.FirstName,
		LastName:            mu.LastName,
		Avatar:              mu.Avatar,
		GoogleID:            mu.GoogleID,
		IsVerified:          mu.IsVerified,
		VerificationToken:   mu.VerificationToken,
		ResetTokenHash:      mu.ResetTokenHash,
		ResetTokenExpiresAt: unixToTime(mu.ResetTokenExpiresAt),
		CreatedAt:           unixToTime(mu.CreatedAt),
		UpdatedAt:           unixToTime(mu.UpdatedAt),
	}
}

// duplicateKeyError maps a unique-index violation to the field that tripped
// it. The server names the violated index in the write error message, so a
// register race on the username index reports the username, not the email.
func duplicateKeyError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if strings.Contains(e.Message, "username") {
				return domain.ErrUsernameTaken
			}
		}
	}
	return domain.ErrEmailTaken
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
