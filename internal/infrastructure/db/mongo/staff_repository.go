package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
	"github.com/Ghosted34/natours-nest/internal/core/ports"
)

const collectionStaff = "staff"

// StaffRepository persists staff accounts. Email lookup is case-sensitive;
// staff addresses are entered by admins, not self-registered.
type StaffRepository struct {
	col *mongo.Collection
}

func NewStaffRepository(db *mongo.Database) *StaffRepository {
	return &StaffRepository{col: db.Collection(collectionStaff)}
}

func (r *StaffRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

type mongoStaff struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Email           string             `bson:"email"`
	PasswordHash    string             `bson:"password_hash"`
	Role            string             `bson:"role"`
	FirstName       string             `bson:"first_name"`
	LastName        string             `bson:"last_name"`
	Department      string             `bson:"department"`
	EmployeeID      string             `bson:"employee_id"`
	Permissions     []string           `bson:"permissions"`
	IsActive        bool               `bson:"is_active"`
	CreatedBy       string             `bson:"created_by,omitempty"`
	PasswordChanged bool               `bson:"password_changed"`
	CreatedAt       int64              `bson:"created_at"`
	UpdatedAt       int64              `bson:"updated_at"`
}

func (r *StaffRepository) Create(ctx context.Context, staff *domain.Staff) (*domain.Staff, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoStaff{
		Email:           staff.Email,
		PasswordHash:    staff.PasswordHash,
		Role:            string(staff.Role),
		FirstName:       staff.FirstName,
		LastName:        staff.LastName,
		Department:      staff.Department,
		EmployeeID:      staff.EmployeeID,
		Permissions:     staff.Permissions,
		IsActive:        staff.IsActive,
		CreatedBy:       staff.CreatedBy,
		PasswordChanged: staff.PasswordChanged,
		CreatedAt:       staff.CreatedAt.Unix(),
		UpdatedAt:       staff.UpdatedAt.Unix(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrStaffExists
		}
		return nil, fmt.Errorf("insert staff: %w", err)
	}

	created := *staff
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *StaffRepository) FindByID(ctx context.Context, id string) (*domain.Staff, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrStaffNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *StaffRepository) FindByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *StaffRepository) List(ctx context.Context) ([]*domain.Staff, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Staff
	for cur.Next(ctx) {
		var ms mongoStaff
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode staff: %w", err)
		}
		out = append(out, fromMongoStaff(&ms))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return out, nil
}

func (r *StaffRepository) Update(ctx context.Context, id string, patch ports.StaffPatch) (*domain.Staff, error) {
	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if patch.FirstName != "" {
		set["first_name"] = patch.FirstName
	}
	if patch.LastName != "" {
		set["last_name"] = patch.LastName
	}
	if patch.Department != "" {
		set["department"] = patch.Department
	}
	if patch.Role != "" {
		set["role"] = string(patch.Role)
		set["permissions"] = domain.DefaultPermissions(patch.Role)
	}
	return r.findOneAndUpdateByID(ctx, id, bson.M{"$set": set})
}

func (r *StaffRepository) Deactivate(ctx context.Context, id string) (*domain.Staff, error) {
	return r.findOneAndUpdateByID(ctx, id, bson.M{"$set": bson.M{
		"is_active":  false,
		"updated_at": time.Now().UTC().Unix(),
	}})
}

func (r *StaffRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	_, err := r.findOneAndUpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password_hash":    passwordHash,
		"password_changed": true,
		"updated_at":       time.Now().UTC().Unix(),
	}})
	return err
}

func (r *StaffRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrStaffNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrStaffNotFound
	}
	return nil
}

func (r *StaffRepository) findOne(ctx context.Context, filter bson.M) (*domain.Staff, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ms mongoStaff
	if err := r.col.FindOne(ctx, filter).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStaffNotFound
		}
		return nil, fmt.Errorf("find staff: %w", err)
	}
	return fromMongoStaff(&ms), nil
}

func (r *StaffRepository) findOneAndUpdateByID(ctx context.Context, id string, update bson.M) (*domain.Staff, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrStaffNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ms mongoStaff
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ms)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStaffNotFound
		}
		return nil, fmt.Errorf("update staff: %w", err)
	}
	return fromMongoStaff(&ms), nil
}

func fromMongoStaff(ms *mongoStaff) *domain.Staff {
	role, ok := domain.ParseRole(ms.Role)
	if !ok {
		role = domain.RoleGuide
	}
	return &domain.Staff{
		ID:              ms.ID.Hex(),
		Email:           ms.Email,
		PasswordHash:    ms.PasswordHash,
		Role:            role,
		FirstName:       ms.FirstName,
		LastName:        ms.LastName,
		Department:      ms.Department,
		EmployeeID:      ms.EmployeeID,
		Permissions:     ms.Permissions,
		IsActive:        ms.IsActive,
		CreatedBy:       ms.CreatedBy,
		PasswordChanged: ms.PasswordChanged,
		CreatedAt:       unixToTime(ms.CreatedAt),
		UpdatedAt:       unixToTime(ms.UpdatedAt),
	}
}
