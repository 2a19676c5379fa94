package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"myCatalog/domain"
	"myCatalog/pkg/logger"
	"myCatalog/pkg/utils"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pobyzaarif/goshortcute"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uint) error
	UpdateEmailVerification(ctx context.Context, id uint, isVerified bool) error
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, message string) (err error)
}

// SessionStore keeps issued tokens so they can be revoked before expiry.
type SessionStore interface {
	StoreSession(ctx context.Context, userID, role, token string, ttl time.Duration) error
	RevokeSession(ctx context.Context, userID string) error
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email address has not been verified")
	ErrInvalidVerifyLink  = errors.New("invalid or expired url")
)

type userService struct {
	userRepo                UserRepository
	validate                *validator.Validate
	notifRepo               NotificationRepository
	sessions                SessionStore
	appEmailVerificationKey string
	appDeploymentUrl        string
	now                     func() time.Time
}

const (
	verificationCodeTTL      = 5
	SubjectRegisterAccount   = "Activate Your Account!"
	EmailBodyRegisterAccount = `Hi %v, activate your account by opening the link below</br></br>%v</br>note: the link is only valid for %v minutes`
)

// NewUserService wires the user service. sessions may be nil when redis is
// disabled; tokens then live until they expire.
func NewUserService(
	userRepo UserRepository,
	validate *validator.Validate,
	notifRepo NotificationRepository,
	sessions SessionStore,
	appEmailVerificationKey string,
	appDeploymentUrl string,
) *userService {
	return &userService{
		userRepo:                userRepo,
		validate:                validate,
		notifRepo:               notifRepo,
		sessions:                sessions,
		appEmailVerificationKey: appEmailVerificationKey,
		appDeploymentUrl:        appDeploymentUrl,
		now:                     time.Now,
	}
}

var validRoles = map[string]bool{
	domain.RoleCustomer: true,
	domain.RoleAdmin:    true,
}

func (s *userService) Register(ctx context.Context, user *domain.User) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("context error: %w", err)
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := s.validate.Var(user.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.User{}, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}

	if err := s.validate.Var(user.Password, "required,min=6"); err != nil {
		logger.Error("Invalid user password", err)
		return domain.User{}, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
	}

	// Check if email already exists
	existingUser, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err == nil && existingUser.ID > 0 {
		logger.Error("Email already exists")
		return domain.User{}, fmt.Errorf("%w: email already exists", domain.ErrDuplicate)
	}

	passwordHash, err := utils.HashPassword(user.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	newUser := domain.User{
		FullName:   user.FullName,
		Email:      user.Email,
		Password:   string(passwordHash),
		IsVerified: false,
		Role:       domain.RoleCustomer,
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("Failed to create new user", err)
		return domain.User{}, err
	}

	activationLink, err := s.activationLink(newUser.Email)
	if err != nil {
		logger.Error("error when encrypt verification code", err)
		return domain.User{}, errors.New("failed to create verification link")
	}

	err = s.notifRepo.SendEmail(ctx, newUser.FullName, newUser.Email, SubjectRegisterAccount, fmt.Sprintf(EmailBodyRegisterAccount, newUser.FullName, activationLink, verificationCodeTTL))
	if err != nil {
		logger.Warn("Failed to send verification email", err)
	}

	newUser.Password = ""
	return newUser, nil
}

func (s *userService) activationLink(email string) (string, error) {
	expAt := s.now().Add(time.Minute * verificationCodeTTL).Unix()

	verificationCode := fmt.Sprintf("%v|%v", email, expAt)
	verificationCodeEncrypt, err := goshortcute.AESCBCEncrypt([]byte(verificationCode), []byte(s.appEmailVerificationKey))
	if err != nil {
		return "", err
	}

	strEncode := goshortcute.StringtoBase64Encode(verificationCodeEncrypt)
	return s.appDeploymentUrl + "/api/v1/users/email-verification/" + strEncode, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.User{}, fmt.Errorf("context error: %w", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		logger.Error("Invalid user credentials", err)
		return "", domain.User{}, ErrInvalidCredentials
	}

	if !utils.CheckPassword(password, user.Password) {
		logger.Error("User password incorrect", "user_id", user.ID)
		return "", domain.User{}, ErrInvalidCredentials
	}

	if !user.IsVerified {
		logger.Error("Email address has not been verified", "user_id", user.ID)
		return "", domain.User{}, ErrEmailNotVerified
	}

	userIdStr := strconv.FormatUint(uint64(user.ID), 10)
	token, err := utils.GenerateJWT(userIdStr, user.Role, user.FullName)
	if err != nil {
		logger.Error("Failed to generated token", err)
		return "", domain.User{}, errors.New("failed to generate token")
	}

	if s.sessions != nil {
		if err := s.sessions.StoreSession(ctx, userIdStr, user.Role, token, utils.TokenTTL); err != nil {
			logger.Error("Failed to store session", err)
			return "", domain.User{}, errors.New("failed to store session")
		}
	}

	user.Password = ""
	return token, user, nil
}

// Logout revokes the caller's session. Without a session store it is a no-op.
func (s *userService) Logout(ctx context.Context, userID uint) error {
	if s.sessions == nil {
		return nil
	}

	if err := s.sessions.RevokeSession(ctx, strconv.FormatUint(uint64(userID), 10)); err != nil {
		logger.Error("Failed to revoke session", err)
		return err
	}

	return nil
}

func (s *userService) VerifyEmail(ctx context.Context, verificationCodeEncrypt string) error {
	strDecode := goshortcute.StringtoBase64Decode(verificationCodeEncrypt)
	verificationCodeDecrypt, err := goshortcute.AESCBCDecrypt([]byte(strDecode), []byte(s.appEmailVerificationKey))
	if err != nil {
		logger.Error("Verifying email error", err)
		return ErrInvalidVerifyLink
	}

	verificationCode := strings.Split(verificationCodeDecrypt, "|")
	if len(verificationCode) != 2 {
		logger.Error("Verifying email error", verificationCodeDecrypt)
		return ErrInvalidVerifyLink
	}

	email := verificationCode[0]
	expAtStr := verificationCode[1]

	ts, err := strconv.ParseInt(expAtStr, 10, 64)
	if err != nil {
		logger.Error("Verifying email error", verificationCodeDecrypt)
		return ErrInvalidVerifyLink
	}
	if s.now().After(time.Unix(ts, 0)) {
		return ErrInvalidVerifyLink
	}

	getUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Verifying email error", err)
		return errors.New("failed to get user by email")
	}

	if getUser.IsVerified {
		logger.Warn("verify email err", slog.Any("err", "email verified already"))
		return ErrInvalidVerifyLink
	}

	if err := s.userRepo.UpdateEmailVerification(ctx, getUser.ID, true); err != nil {
		logger.Error("Verify email err", err)
		return err
	}

	return nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user by ID", err)
		return domain.User{}, err
	}

	user.Password = ""
	return user, nil
}

// GetAllUsers retrieves all users
func (s *userService) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to get all users", err)
		return nil, err
	}

	for i := range users {
		users[i].Password = ""
	}

	return users, nil
}

// UpdateUser updates user information. Only admins may change roles.
func (s *userService) UpdateUser(ctx context.Context, actor domain.Actor, id uint, updateData *domain.User) (domain.User, error) {
	existingUser, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("User not found for update", err)
		return domain.User{}, err
	}

	if updateData.FullName != "" {
		existingUser.FullName = updateData.FullName
	}

	if updateData.Email != "" {
		email := strings.ToLower(strings.TrimSpace(updateData.Email))
		if err := s.validate.Var(email, "required,email"); err != nil {
			logger.Error("Invalid email format", err)
			return domain.User{}, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
		}

		// Check if email already exists (excluding current user)
		userWithEmail, err := s.userRepo.FindByEmail(ctx, email)
		if err == nil && userWithEmail.ID != id {
			logger.Error("Email already exists")
			return domain.User{}, fmt.Errorf("%w: email already exists", domain.ErrDuplicate)
		}
		existingUser.Email = email
	}

	if updateData.Password != "" {
		if err := s.validate.Var(updateData.Password, "required,min=6"); err != nil {
			logger.Error("Invalid password", err)
			return domain.User{}, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
		}

		passwordHash, err := utils.HashPassword(updateData.Password)
		if err != nil {
			logger.Error("Failed to hash password", err)
			return domain.User{}, errors.New("failed to hash password")
		}
		existingUser.Password = string(passwordHash)
	}

	if updateData.Role != "" && updateData.Role != existingUser.Role {
		if !actor.IsAdmin() {
			return domain.User{}, fmt.Errorf("%w: only admins can change roles", domain.ErrForbidden)
		}
		if !validRoles[updateData.Role] {
			return domain.User{}, fmt.Errorf("%w: invalid role", domain.ErrInvalidInput)
		}
		existingUser.Role = updateData.Role
	}

	if err := s.userRepo.Update(ctx, &existingUser); err != nil {
		logger.Error("Failed to update user", err)
		return domain.User{}, err
	}

	existingUser.Password = ""
	return existingUser, nil
}

// DeleteUser soft deletes a user
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		logger.Error("User not found for deletion", err)
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete user", err)
		return err
	}

	if err := s.Logout(ctx, id); err != nil {
		logger.Warn("Failed to revoke session of deleted user", err)
	}

	return nil
}
