package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"uservice/src/access"
	"uservice/src/lib"
	"uservice/src/models"
	"uservice/src/models/scopes"
	"uservice/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	passwordResetTTL     = time.Hour
	emailVerificationTTL = 24 * time.Hour
)

type IdentityService struct {
	db         *gorm.DB
	tokens     *lib.TokenService
	denylist   lib.TokenDenylist
	notifier   Notifier
	bcryptCost int
	now        Clock
}

// NewIdentityService wires the identity store. denylist may be nil, in which
// case logout does not revoke tokens.
func NewIdentityService(db *gorm.DB, tokens *lib.TokenService, denylist lib.TokenDenylist, notifier Notifier, bcryptCost int) *IdentityService {
	return &IdentityService{
		db:         db,
		tokens:     tokens,
		denylist:   denylist,
		notifier:   notifier,
		bcryptCost: bcryptCost,
		now:        utcNow,
	}
}

func (s *IdentityService) WithClock(now Clock) *IdentityService {
	s.now = now
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *IdentityService) findUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Scopes(scopes.WithID(id)).First(&user).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (s *IdentityService) Register(ctx context.Context, body *types.RegisterUserRequestBody) (*models.User, string, error) {
	email := normalizeEmail(body.Email)
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, "", err
	}
	if count > 0 {
		return nil, "", &types.ConflictError{Field: "email", Message: "email is already registered"}
	}

	hash, err := lib.HashPassword(body.Password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}
	raw, digest, err := lib.NewOneTimeToken()
	if err != nil {
		return nil, "", err
	}
	now := s.now()
	expires := now.Add(emailVerificationTTL)
	user := models.User{
		ID:                       uuid.New(),
		FirstName:                strings.TrimSpace(body.FirstName),
		LastName:                 strings.TrimSpace(body.LastName),
		Email:                    email,
		PasswordHash:             hash,
		Role:                     types.ROLE_USER,
		Company:                  body.Company,
		Phone:                    body.Phone,
		Address:                  body.Address,
		IsActive:                 true,
		EmailVerificationToken:   &digest,
		EmailVerificationExpires: &expires,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", &types.ConflictError{Field: "email", Message: "email is already registered"}
		}
		return nil, "", err
	}
	log.Printf("[Identity] registered user %s\n", user.ID)

	s.notifier.EmailVerification(&user, raw)

	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *IdentityService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("%w: invalid email or password", types.ErrUnauthorized)
	}
	if err != nil {
		return nil, "", err
	}
	if !lib.CheckPassword(user.PasswordHash, password) {
		return nil, "", fmt.Errorf("%w: invalid email or password", types.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, "", fmt.Errorf("%w: account is deactivated", types.ErrUnauthorized)
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		return nil, "", err
	}
	user.LastLogin = &now

	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// ResolveCaller verifies a bearer token and loads the identity behind it.
func (s *IdentityService) ResolveCaller(ctx context.Context, raw string) (*types.Caller, *types.Claims, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, nil, err
	}
	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			log.Printf("[Identity] denylist lookup failed: %s\n", err.Error())
			return nil, nil, fmt.Errorf("%w: could not verify token", types.ErrUnauthorized)
		}
		if revoked {
			return nil, nil, fmt.Errorf("%w: token has been revoked", types.ErrUnauthorized)
		}
	}
	id, err := lib.UserID(claims)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.findUser(ctx, id)
	if errors.Is(err, types.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: user no longer exists", types.ErrUnauthorized)
	}
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, fmt.Errorf("%w: account is deactivated", types.ErrUnauthorized)
	}
	if claims.IssuedAt != nil && user.IssuedBeforePasswordChange(claims.IssuedAt.Time) {
		return nil, nil, fmt.Errorf("%w: password changed, please log in again", types.ErrUnauthorized)
	}
	return user.Caller(), claims, nil
}

func (s *IdentityService) Me(ctx context.Context, caller *types.Caller) (*models.User, error) {
	if err := access.RequireCaller(caller); err != nil {
		return nil, err
	}
	return s.findUser(ctx, caller.ID)
}

func (s *IdentityService) UpdateProfile(ctx context.Context, caller *types.Caller, body *types.UpdateProfileRequestBody) (*models.User, error) {
	user, err := s.Me(ctx, caller)
	if err != nil {
		return nil, err
	}
	if body.FirstName != nil {
		user.FirstName = strings.TrimSpace(*body.FirstName)
	}
	if body.LastName != nil {
		user.LastName = strings.TrimSpace(*body.LastName)
	}
	if body.Company != nil {
		user.Company = *body.Company
	}
	if body.Phone != nil {
		user.Phone = *body.Phone
	}
	if body.Address != nil {
		user.Address = *body.Address
	}
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword returns a fresh token. Tokens issued before the change stop verifying.
func (s *IdentityService) ChangePassword(ctx context.Context, caller *types.Caller, body *types.ChangePasswordRequestBody) (string, error) {
	user, err := s.Me(ctx, caller)
	if err != nil {
		return "", err
	}
	if !lib.CheckPassword(user.PasswordHash, body.CurrentPassword) {
		return "", fmt.Errorf("%w: current password is incorrect", types.ErrUnauthorized)
	}
	if err := s.setPassword(ctx, user, body.NewPassword); err != nil {
		return "", err
	}
	token, _, err := s.tokens.Issue(user.ID)
	return token, err
}

func (s *IdentityService) setPassword(ctx context.Context, user *models.User, password string) error {
	hash, err := lib.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	now := s.now()
	user.PasswordHash = hash
	user.PasswordChangedAt = &now
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil
	return s.db.WithContext(ctx).Save(user).Error
}

// ForgotPassword never reveals whether the email is registered.
func (s *IdentityService) ForgotPassword(ctx context.Context, email string) error {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	raw, digest, err := lib.NewOneTimeToken()
	if err != nil {
		return err
	}
	expires := s.now().Add(passwordResetTTL)
	user.PasswordResetToken = &digest
	user.PasswordResetExpires = &expires
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return err
	}
	s.notifier.PasswordReset(&user, raw)
	return nil
}

func (s *IdentityService) ResetPassword(ctx context.Context, token, password string) error {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("password_reset_token = ? AND password_reset_expires > ?", lib.DigestToken(token), s.now()).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NewFieldError("token", "invalid or expired token")
	}
	if err != nil {
		return err
	}
	return s.setPassword(ctx, &user, password)
}

func (s *IdentityService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email_verification_token = ? AND email_verification_expires > ?", lib.DigestToken(token), s.now()).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewFieldError("token", "invalid or expired token")
	}
	if err != nil {
		return nil, err
	}
	user.EmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationExpires = nil
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *IdentityService) Refresh(ctx context.Context, caller *types.Caller) (string, error) {
	if err := access.RequireCaller(caller); err != nil {
		return "", err
	}
	token, _, err := s.tokens.Issue(caller.ID)
	return token, err
}

// Logout revokes the presented token until it would have expired.
func (s *IdentityService) Logout(ctx context.Context, claims *types.Claims) error {
	if s.denylist == nil || claims == nil {
		return nil
	}
	ttl := s.tokens.TTL()
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
	}
	return s.denylist.Revoke(ctx, claims.ID, ttl)
}

func (s *IdentityService) ListUsers(ctx context.Context, caller *types.Caller, filters *types.UserQueryFilters) ([]models.User, *types.Pagination, error) {
	if err := access.RequireRole(caller, types.ROLE_ADMIN); err != nil {
		return nil, nil, err
	}
	q := s.db.WithContext(ctx).Model(&models.User{}).
		Scopes(scopes.Search(filters.Search, "first_name", "last_name", "email"))
	if filters.Role != "" {
		q = q.Where("role = ?", filters.Role)
	}
	if filters.Active != nil {
		q = q.Where("is_active = ?", *filters.Active)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, nil, err
	}
	users := []models.User{}
	if err := q.Order("created_at DESC").Scopes(scopes.Paginate(filters.PageQuery)).Find(&users).Error; err != nil {
		return nil, nil, err
	}
	return users, scopes.PaginationOf(filters.PageQuery, total), nil
}

func (s *IdentityService) GetUser(ctx context.Context, caller *types.Caller, id uuid.UUID) (*models.User, error) {
	if err := access.RequireOwnerOrRole(caller, id, types.ROLE_ADMIN); err != nil {
		return nil, err
	}
	return s.findUser(ctx, id)
}

func (s *IdentityService) UpdateUser(ctx context.Context, caller *types.Caller, id uuid.UUID, body *types.UpdateUserRequestBody) (*models.User, error) {
	if err := access.RequireRole(caller, types.ROLE_ADMIN); err != nil {
		return nil, err
	}
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if body.FirstName != nil {
		user.FirstName = strings.TrimSpace(*body.FirstName)
	}
	if body.LastName != nil {
		user.LastName = strings.TrimSpace(*body.LastName)
	}
	if body.Role != nil {
		if !body.Role.Valid() {
			return nil, types.NewFieldError("role", "must be one of user, manager, admin")
		}
		user.Role = *body.Role
	}
	if body.IsActive != nil {
		user.IsActive = *body.IsActive
	}
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the user with their bookings and messages.
func (s *IdentityService) DeleteUser(ctx context.Context, caller *types.Caller, id uuid.UUID) error {
	if err := access.RequireRole(caller, types.ROLE_ADMIN); err != nil {
		return err
	}
	if caller.ID == id {
		return types.NewFieldError("id", "you cannot delete your own account")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sender_id = ? OR recipient_id = ?", id, id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		res := tx.Scopes(scopes.WithID(id)).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: user", types.ErrNotFound)
		}
		log.Printf("[Identity] user %s deleted by %s\n", id, caller.ID)
		return nil
	})
}

// PurgeExpiredTokens clears reset and verification tokens past their expiry.
func (s *IdentityService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	now := s.now()
	var purged int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("password_reset_expires IS NOT NULL AND password_reset_expires < ?", now).
			Updates(map[string]any{"password_reset_token": nil, "password_reset_expires": nil})
		if res.Error != nil {
			return res.Error
		}
		purged += res.RowsAffected
		res = tx.Model(&models.User{}).
			Where("email_verification_expires IS NOT NULL AND email_verification_expires < ?", now).
			Updates(map[string]any{"email_verification_token": nil, "email_verification_expires": nil})
		if res.Error != nil {
			return res.Error
		}
		purged += res.RowsAffected
		return nil
	})
	return purged, err
}

// SeedAdmin creates the bootstrap admin once. It returns false when the
// account already exists or no credentials are configured.
func (s *IdentityService) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	hash, err := lib.HashPassword(password, s.bcryptCost)
	if err != nil {
		return false, err
	}
	admin := models.User{
		ID:            uuid.New(),
		FirstName:     "System",
		LastName:      "Admin",
		Email:         email,
		PasswordHash:  hash,
		Role:          types.ROLE_ADMIN,
		IsActive:      true,
		EmailVerified: true,
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, err
	}
	log.Printf("[Identity] seeded admin %s\n", email)
	return true, nil
}
