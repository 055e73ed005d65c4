package services

import (
	"context"
	"testing"
	"time"

	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/apperrors"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/config"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memAdminUserRepo struct {
	users map[string]*models.AdminUser
}

func newMemAdminUserRepo() *memAdminUserRepo {
	return &memAdminUserRepo{users: make(map[string]*models.AdminUser)}
}

func (m *memAdminUserRepo) Create(ctx context.Context, user *models.AdminUser) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.Email] = &cp
	return nil
}

func (m *memAdminUserRepo) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, apperrors.NotFound("admin user not found: " + email)
	}
	cp := *u
	return &cp, nil
}

func (m *memAdminUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("admin user not found: " + id.Hex())
}

func newAuthFixture() (*AuthServiceImpl, *memAdminUserRepo) {
	repo := newMemAdminUserRepo()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresIn = 3600
	return NewAuthService(repo, cfg), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, repo := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, &models.RegisterRequest{
		Name:     "Operator",
		Email:    "op@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Empty(t, user.Password, "hash must not leak out of Register")
	assert.Equal(t, "operator", user.Role)

	stored, err := repo.FindByEmail(ctx, "op@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", stored.Password, "password must be stored hashed")

	signed, err := svc.Login(ctx, &models.LoginRequest{Email: "op@example.com", Password: "correct horse"})
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "op@example.com", claims["email"])
	assert.Equal(t, "operator", claims["role"])
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	req := &models.RegisterRequest{Name: "Operator", Email: "op@example.com", Password: "correct horse"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegisterRequest{Name: "Operator", Email: "op@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "op@example.com", Password: "wrong"})
	assert.Error(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "correct horse"})
	assert.Error(t, err)
}
