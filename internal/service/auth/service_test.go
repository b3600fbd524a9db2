package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
	"github.com/mamadbah2/poultrypms/internal/repository/mongodb"
	"github.com/mamadbah2/poultrypms/internal/service/auth"
	"github.com/mamadbah2/poultrypms/internal/service/ledger"
)

type fakeAdminRepo struct {
	admins []models.Admin
}

func (r *fakeAdminRepo) Insert(_ context.Context, admin *models.Admin) error {
	for _, a := range r.admins {
		if a.Email == admin.Email {
			return mongodb.ErrDuplicateKey
		}
	}
	admin.ID = primitive.NewObjectID()
	r.admins = append(r.admins, *admin)
	return nil
}

func (r *fakeAdminRepo) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	for _, a := range r.admins {
		if a.Email == email {
			out := a
			return &out, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

func (r *fakeAdminRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Admin, error) {
	for _, a := range r.admins {
		if a.ID == id {
			out := a
			return &out, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

func (r *fakeAdminRepo) UpdatePasswordHash(_ context.Context, id primitive.ObjectID, hash string) error {
	for i := range r.admins {
		if r.admins[i].ID == id {
			r.admins[i].PasswordHash = hash
			return nil
		}
	}
	return mongodb.ErrNotFound
}

func newTestService() (*auth.Service, *fakeAdminRepo) {
	repo := &fakeAdminRepo{}
	return auth.NewService(repo, "test-secret", nil), repo
}

func TestRegister_HashesPassword(t *testing.T) {
	svc, repo := newTestService()

	admin, err := svc.Register(context.Background(), "Fatou", "fatou@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.False(t, admin.ID.IsZero())
	assert.NotEqual(t, "s3cret-pass", repo.admins[0].PasswordHash)
	assert.NotEmpty(t, repo.admins[0].PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Fatou", "fatou@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other", "Fatou@Example.com", "another-pass")
	assert.ErrorIs(t, err, auth.ErrEmailTaken)
}

func TestRegister_ShortPasswordRejected(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), "Fatou", "fatou@example.com", "abc")
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)
}

func TestLogin_RoundTripsToken(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Fatou", "fatou@example.com", "s3cret-pass")
	require.NoError(t, err)

	token, admin, err := svc.Login(ctx, "fatou@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, registered.ID, admin.ID)

	id, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, id)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Fatou", "fatou@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "fatou@example.com", "wrong-pass")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestValidateToken_GarbageRejected(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_WrongSecretRejected(t *testing.T) {
	svc, _ := newTestService()
	other := auth.NewService(&fakeAdminRepo{}, "other-secret", nil)

	_, err := other.Register(context.Background(), "Fatou", "fatou@example.com", "s3cret-pass")
	require.NoError(t, err)
	token, _, err := other.Login(context.Background(), "fatou@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestUpdatePassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	admin, err := svc.Register(ctx, "Fatou", "fatou@example.com", "s3cret-pass")
	require.NoError(t, err)

	// Wrong current password.
	err = svc.UpdatePassword(ctx, admin.ID, "wrong", "new-password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	// New password must differ.
	err = svc.UpdatePassword(ctx, admin.ID, "s3cret-pass", "s3cret-pass")
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)

	err = svc.UpdatePassword(ctx, admin.ID, "s3cret-pass", "new-password")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "fatou@example.com", "new-password")
	assert.NoError(t, err)
	_, _, err = svc.Login(ctx, "fatou@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
