package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"personal-health-record/internal/converter"
	"personal-health-record/internal/delivery/dto"
	"personal-health-record/internal/domain/entity"
	"personal-health-record/internal/domain/repository"
	"personal-health-record/internal/service"
	"personal-health-record/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

const (
	minPasswordLength = 6

	RedirectProfileSetup = "/profile-setup"
	RedirectDashboard    = "/dashboard"
	RedirectLanding      = "/"
)

type AuthUsecase interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResponse, error)
	SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.AuthResponse, error)
	SignOut(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	profileRepo  repository.ProfileRepository
	jwtService   *jwt.JWTService
	sessionStore service.SessionStore
	auditService service.AuditService
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	jwtService *jwt.JWTService,
	sessionStore service.SessionStore,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		jwtService:   jwtService,
		sessionStore: sessionStore,
		auditService: auditService,
	}
}

// SignUp creates the identity and its placeholder profile in one transaction,
// then opens a session. The client continues to profile setup.
func (u *authUsecase) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResponse, error) {
	if len(req.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user := &entity.User{
		ID:          uuid.New(),
		Email:       normalizeEmail(req.Email),
		Password:    string(hashedPassword),
		PhoneNumber: req.PhoneNumber,
	}

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	profile := entity.DefaultProfileFor(user, time.Now())
	if _, err := u.profileRepo.CreateIfAbsent(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to create default profile: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	u.auditService.LogCreate(ctx, nil, user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), converter.UserToResponse(user))

	return &dto.AuthResponse{
		User:       converter.UserToResponse(user),
		Tokens:     tokens,
		RedirectTo: RedirectProfileSetup,
	}, nil
}

func (u *authUsecase) SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.AuthResponse, error) {
	// Read-only, no transaction needed
	user, err := u.userRepo.FindByEmail(ctx, u.db, normalizeEmail(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	u.auditService.LogEvent(ctx, nil, user.ID, entity.AuditActionUserLogin, nil)

	return &dto.AuthResponse{
		User:       converter.UserToResponse(user),
		Tokens:     tokens,
		RedirectTo: RedirectDashboard,
	}, nil
}

// SignOut revokes the given tokens. Revoking an already revoked token succeeds.
func (u *authUsecase) SignOut(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	if err := u.sessionStore.Revoke(ctx, jwt.AccessToken, userID, accessTokenID); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}

	if refreshTokenID != "" {
		if err := u.sessionStore.Revoke(ctx, jwt.RefreshToken, userID, refreshTokenID); err != nil {
			u.log.Warnf("Failed to revoke refresh token: %+v", err)
			return err
		}
	}

	u.auditService.LogEvent(ctx, nil, userID, entity.AuditActionUserLogout, nil)
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.sessionStore.Exists(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !exists {
		// A rotated-out token came back: end every session of this user
		if err := u.sessionStore.RevokeAll(ctx, claims.UserID); err != nil {
			u.log.Warnf("Failed to revoke sessions after refresh token reuse: %+v", err)
		}
		return nil, ErrTokenRevoked
	}

	// Rotate: the old refresh token is single use
	if err := u.sessionStore.Revoke(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	return u.issueTokens(ctx, &entity.User{ID: claims.UserID, Email: claims.Email})
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.sessionStore.Save(ctx, jwt.AccessToken, user.ID, accessTokenID, u.jwtService.ExpiryFor(jwt.AccessToken)); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}

	if err := u.sessionStore.Save(ctx, jwt.RefreshToken, user.ID, refreshTokenID, u.jwtService.ExpiryFor(jwt.RefreshToken)); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
