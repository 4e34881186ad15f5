package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/priyen27/taskflow360-backend/errs"
	"github.com/priyen27/taskflow360-backend/models"
	"github.com/priyen27/taskflow360-backend/utils"
)

type UserService struct {
	UsersCollection *mongo.Collection
}

func NewUserService(usersCollection *mongo.Collection) *UserService {
	return &UserService{UsersCollection: usersCollection}
}

// Register creates a user account. Email uniqueness is enforced by the
// unique index created at startup, so a duplicate surfaces as a conflict
// rather than a second read-check-write round trip.
func (s *UserService) Register(ctx context.Context, name, email, password string, role models.PlatformRole) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, errs.Validation("name, email and password are required")
	}
	if role == "" {
		role = models.PlatformMember
	}
	if !role.Valid() {
		return nil, errs.Validation("invalid role: %s", role)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.Internal("failed to hash password", err)
	}

	now := time.Now()
	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  string(hashed),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := s.UsersCollection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errs.Conflict("user with this email already exists")
		}
		return nil, errs.Internal("failed to create user", err)
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return user, nil
}

// Login checks the credentials and issues a signed token carrying the user's
// id and platform role.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, errs.Validation("email and password are required")
	}

	var user models.User
	err := s.UsersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil, errs.Authentication("invalid email or password")
		}
		return "", nil, errs.Internal("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, errs.Authentication("invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return "", nil, errs.Internal("failed to issue token", err)
	}

	return token, &user, nil
}

// FindByEmail resolves the invite target.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.UsersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("user with this email not found")
		}
		return nil, errs.Internal("failed to look up user", err)
	}
	return &user, nil
}
