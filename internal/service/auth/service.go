package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
	"github.com/mamadbah2/poultrypms/internal/repository/mongodb"
	"github.com/mamadbah2/poultrypms/internal/service/ledger"
)

var (
	// ErrInvalidCredentials is returned for a bad email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidToken is returned for a missing, malformed or expired token.
	ErrInvalidToken = errors.New("invalid or expired token")
)

const tokenTTL = 24 * time.Hour

// Service handles admin registration, login and token validation.
type Service struct {
	admins mongodb.AdminRepository
	secret []byte
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires the auth service with the signing secret.
func NewService(admins mongodb.AdminRepository, secret string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		admins: admins,
		secret: []byte(secret),
		logger: logger,
		now:    time.Now,
	}
}

// Register creates an admin account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.Admin, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ledger.ErrInvalidInput)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ledger.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &models.Admin{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.admins.Insert(ctx, admin); err != nil {
		if errors.Is(err, mongodb.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.logger.Info("registered admin", zap.String("email", email))
	return admin, nil
}

// Login checks the credentials and mints a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	admin, err := s.admins.FindByEmail(ctx, email)
	if errors.Is(err, mongodb.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   admin.ID.Hex(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, admin, nil
}

// UpdatePassword rotates an admin's password after checking the current one.
func (s *Service) UpdatePassword(ctx context.Context, id primitive.ObjectID, current, next string) error {
	if len(next) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ledger.ErrInvalidInput)
	}
	if current == next {
		return fmt.Errorf("%w: new password must differ from the current one", ledger.ErrInvalidInput)
	}

	admin, err := s.admins.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.admins.UpdatePasswordHash(ctx, id, string(hash))
}

// ValidateToken verifies the signature and expiry and returns the admin id.
func (s *Service) ValidateToken(tokenString string) (primitive.ObjectID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return primitive.NilObjectID, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return primitive.NilObjectID, ErrInvalidToken
	}
	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}
	return id, nil
}
