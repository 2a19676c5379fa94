package user

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"myCatalog/domain"
	"myCatalog/pkg/utils"
)

const (
	testKey      = "0123456789abcdef0123456789abcdef"
	verifyPrefix = "http://localhost:8080/api/v1/users/email-verification/"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) UpdateEmailVerification(ctx context.Context, id uint, isVerified bool) error {
	return m.Called(ctx, id, isVerified).Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendEmail(ctx context.Context, toName, toEmail, subject, message string) error {
	return m.Called(ctx, toName, toEmail, subject, message).Error(0)
}

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) StoreSession(ctx context.Context, userID, role, token string, ttl time.Duration) error {
	return m.Called(ctx, userID, role, token, ttl).Error(0)
}

func (m *mockSessions) RevokeSession(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func newTestService(repo *mockUserRepo, notifier *mockNotifier, sessions SessionStore) *userService {
	return NewUserService(repo, validator.New(), notifier, sessions, testKey, "http://localhost:8080")
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	repo := new(mockUserRepo)
	notifier := new(mockNotifier)

	repo.On("FindByEmail", ctx, "ada@example.com").Return(domain.User{}, domain.ErrNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	var body string
	notifier.On("SendEmail", ctx, "Ada", "ada@example.com", SubjectRegisterAccount, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { body = args.String(4) }).
		Return(nil)

	svc := newTestService(repo, notifier, nil)

	user, err := svc.Register(ctx, &domain.User{FullName: "Ada", Email: " Ada@Example.com ", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.Empty(t, user.Password)
	assert.Contains(t, body, "http://localhost:8080/api/v1/users/email-verification/")

	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	repo := new(mockUserRepo)
	svc := newTestService(repo, new(mockNotifier), nil)

	_, err := svc.Register(ctx, &domain.User{Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Register(ctx, &domain.User{Email: "a@b.co", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	repo.On("FindByEmail", ctx, "taken@b.co").Return(domain.User{ID: 5}, nil)
	_, err = svc.Register(ctx, &domain.User{Email: "taken@b.co", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestVerifyEmail(t *testing.T) {
	ctx := context.Background()
	repo := new(mockUserRepo)
	svc := newTestService(repo, new(mockNotifier), nil)

	link, err := svc.activationLink("ada@example.com")
	require.NoError(t, err)
	code := strings.TrimPrefix(link, verifyPrefix)

	repo.On("FindByEmail", ctx, "ada@example.com").Return(domain.User{ID: 3, Email: "ada@example.com"}, nil)
	repo.On("UpdateEmailVerification", ctx, uint(3), true).Return(nil)

	require.NoError(t, svc.VerifyEmail(ctx, code))
	repo.AssertExpectations(t)
}

func TestVerifyEmail_Expired(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(new(mockUserRepo), new(mockNotifier), nil)

	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	link, err := svc.activationLink("ada@example.com")
	require.NoError(t, err)
	svc.now = time.Now

	err = svc.VerifyEmail(ctx, strings.TrimPrefix(link, verifyPrefix))
	assert.ErrorIs(t, err, ErrInvalidVerifyLink)
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	hashed, err := utils.HashPassword("secret1")
	require.NoError(t, err)

	repo := new(mockUserRepo)
	sessions := new(mockSessions)
	repo.On("FindByEmail", ctx, "ada@example.com").Return(domain.User{
		ID: 7, FullName: "Ada", Email: "ada@example.com", Password: string(hashed), IsVerified: true, Role: domain.RoleAdmin,
	}, nil)
	sessions.On("StoreSession", ctx, "7", domain.RoleAdmin, mock.AnythingOfType("string"), utils.TokenTTL).Return(nil)

	svc := newTestService(repo, new(mockNotifier), sessions)

	token, user, err := svc.Login(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Empty(t, user.Password)

	claims, err := utils.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.UserID)
	assert.Equal(t, "Ada", claims.Name)

	_, _, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	sessions.AssertExpectations(t)
}

func TestLogin_Unverified(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	hashed, err := utils.HashPassword("secret1")
	require.NoError(t, err)

	repo := new(mockUserRepo)
	repo.On("FindByEmail", ctx, "new@example.com").Return(domain.User{ID: 8, Password: string(hashed)}, nil)

	svc := newTestService(repo, new(mockNotifier), nil)

	_, _, err = svc.Login(ctx, "new@example.com", "secret1")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestUpdateUser_RoleChangeNeedsAdmin(t *testing.T) {
	ctx := context.Background()
	repo := new(mockUserRepo)
	repo.On("FindByID", ctx, uint(4)).Return(domain.User{ID: 4, Role: domain.RoleCustomer}, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	svc := newTestService(repo, new(mockNotifier), nil)

	self := domain.Actor{UserID: 4, Role: domain.RoleCustomer}
	_, err := svc.UpdateUser(ctx, self, 4, &domain.User{Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	_, err = svc.UpdateUser(ctx, admin, 4, &domain.User{Role: "superuser"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err := svc.UpdateUser(ctx, admin, 4, &domain.User{Role: domain.RoleAdmin, FullName: "Promoted"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
	assert.Equal(t, "Promoted", updated.FullName)
}

func TestDeleteUser_RevokesSession(t *testing.T) {
	ctx := context.Background()
	repo := new(mockUserRepo)
	sessions := new(mockSessions)
	repo.On("FindByID", ctx, uint(4)).Return(domain.User{ID: 4}, nil)
	repo.On("Delete", ctx, uint(4)).Return(nil)
	sessions.On("RevokeSession", ctx, "4").Return(nil)

	svc := newTestService(repo, new(mockNotifier), sessions)

	require.NoError(t, svc.DeleteUser(ctx, 4))
	sessions.AssertExpectations(t)
}
