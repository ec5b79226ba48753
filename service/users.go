package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"food-ordering-api/errs"
	"food-ordering-api/mail"
	"food-ordering-api/models"
	"food-ordering-api/policy"
	"food-ordering-api/store"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MaxTopUp caps a single mock wallet top-up.
const MaxTopUp = 1_000_000

type UserService struct {
	users  store.UserRepository
	mailer mail.Mailer
	opts   Options
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewUserService(users store.UserRepository, mailer mail.Mailer, opts Options, logger *zap.SugaredLogger) *UserService {
	return &UserService{users: users, mailer: mailer, opts: opts, logger: logger, now: time.Now}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
	Role     models.UserRole
}

// CreateUserInput is the admin form; it may assign any role and scope.
type CreateUserInput struct {
	RegisterInput
	ShopID    string
	CompanyID string
}

type UpdateUserInput struct {
	Name     string
	Phone    string
	Address  string
	Password string `copier:"-"`

	// admin only
	Role      models.UserRole `copier:"-"`
	ShopID    *string         `copier:"-"`
	CompanyID *string         `copier:"-"`
	IsActive  *bool           `copier:"-"`
}

// Register creates a customer account. Other roles are handed out by admins.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Role != "" && in.Role != models.RoleCustomer {
		return nil, errs.Forbidden("Only customer accounts can be registered")
	}
	in.Role = models.RoleCustomer
	return s.create(ctx, CreateUserInput{RegisterInput: in})
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if in.Role == "" {
		in.Role = models.RoleCustomer
	}
	if !in.Role.Valid() {
		return nil, errs.Invalid("Invalid role: %s", in.Role)
	}
	for _, ref := range []string{in.ShopID, in.CompanyID} {
		if ref != "" && !models.ValidID(ref) {
			return nil, errs.Invalid("Invalid id: %q", ref)
		}
	}
	return s.create(ctx, in)
}

func (s *UserService) create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, errs.Invalid("name, email and password are required")
	}
	hash, err := hashPassword(in.Password, s.opts.BcryptCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         in.Role,
		Phone:        in.Phone,
		Address:      in.Address,
		ShopID:       in.ShopID,
		CompanyID:    in.CompanyID,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, saveErr(err, "Email already registered")
	}
	s.logger.Infow("user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Authenticate checks credentials. Unknown email and wrong password look the same.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, errs.Invalid("Invalid email or password")
	}
	if err != nil {
		return nil, errs.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errs.Invalid("Invalid email or password")
	}
	if !user.IsActive {
		return nil, errs.Forbidden("Account is deactivated")
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, actor policy.Actor, id string) (*models.User, error) {
	user, err := fetch(ctx, s.users.GetByID, id, "User")
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ManageUser, policy.Resource{UserID: user.ID}); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, f store.UserFilter) ([]models.User, error) {
	if f.Role != "" && !f.Role.Valid() {
		return nil, errs.Invalid("Invalid role: %s", f.Role)
	}
	users, err := s.users.List(ctx, f)
	if err != nil {
		return nil, errs.Internal(err)
	}
	return users, nil
}

func (s *UserService) Update(ctx context.Context, actor policy.Actor, id string, in UpdateUserInput) (*models.User, error) {
	user, err := fetch(ctx, s.users.GetByID, id, "User")
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ManageUser, policy.Resource{UserID: user.ID}); err != nil {
		return nil, err
	}
	adminOnly := in.Role != "" || in.ShopID != nil || in.CompanyID != nil || in.IsActive != nil
	if adminOnly && actor.Role != models.RoleAdmin {
		return nil, errs.Forbidden("Only admins can change role, scope or activation")
	}

	if err := copier.CopyWithOption(user, &in, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, errs.Internal(err)
	}
	if in.Password != "" {
		if user.PasswordHash, err = hashPassword(in.Password, s.opts.BcryptCost); err != nil {
			return nil, err
		}
	}
	if in.Role != "" {
		if !in.Role.Valid() {
			return nil, errs.Invalid("Invalid role: %s", in.Role)
		}
		user.Role = in.Role
	}
	if in.ShopID != nil {
		if *in.ShopID != "" && !models.ValidID(*in.ShopID) {
			return nil, errs.Invalid("Invalid shop id: %q", *in.ShopID)
		}
		user.ShopID = *in.ShopID
	}
	if in.CompanyID != nil {
		if *in.CompanyID != "" && !models.ValidID(*in.CompanyID) {
			return nil, errs.Invalid("Invalid company id: %q", *in.CompanyID)
		}
		user.CompanyID = *in.CompanyID
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, saveErr(err, "Email already registered")
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := fetch(ctx, s.users.GetByID, id, "User")
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return saveErr(err, "")
	}
	s.logger.Infow("user deleted", "user_id", user.ID)
	return nil
}

func (s *UserService) Wallet(ctx context.Context, actor policy.Actor) (float64, error) {
	user, err := fetch(ctx, s.users.GetByID, actor.ID, "User")
	if err != nil {
		return 0, err
	}
	return user.WalletBalance, nil
}

// TopUp credits the caller's wallet. It is a mock: no payment provider is involved.
func (s *UserService) TopUp(ctx context.Context, actor policy.Actor, amount float64) (float64, error) {
	if amount <= 0 || amount > MaxTopUp {
		return 0, errs.Invalid("amount must be greater than 0 and at most %d", MaxTopUp)
	}
	user, err := fetch(ctx, s.users.GetByID, actor.ID, "User")
	if err != nil {
		return 0, err
	}
	user.WalletBalance += amount
	if err := s.users.Update(ctx, user); err != nil {
		return 0, saveErr(err, "")
	}
	s.logger.Infow("wallet topped up", "user_id", user.ID, "amount", amount, "balance", user.WalletBalance)
	return user.WalletBalance, nil
}

// ForgotPassword stores a one-time reset token and mails the reset link.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return errs.NotFound("User not found")
	}
	if err != nil {
		return errs.Internal(err)
	}

	expiry := s.now().Add(s.opts.ResetTokenTTL)
	user.ResetToken = uuid.NewString()
	user.ResetTokenExpiry = &expiry
	if err := s.users.Update(ctx, user); err != nil {
		return saveErr(err, "")
	}

	link := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(s.opts.FrontendURL, "/"), user.ResetToken)
	msg := mail.Message{
		To:      user.Email,
		Subject: "Reset your password",
		HTML: fmt.Sprintf(`<p>Hello %s,</p><p>Use the link below to reset your password. It expires in %s.</p><p><a href="%s">%s</a></p>`,
			user.Name, s.opts.ResetTokenTTL, link, link),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Errorw("failed to send reset email", "user_id", user.ID, "error", err)
		return errs.Internal(err)
	}
	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" || password == "" {
		return errs.Invalid("token and password are required")
	}
	user, err := s.users.GetByResetToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return errs.Invalid("Reset token is invalid or has expired")
	}
	if err != nil {
		return errs.Internal(err)
	}
	if user.ResetTokenExpiry == nil || s.now().After(*user.ResetTokenExpiry) {
		return errs.Invalid("Reset token is invalid or has expired")
	}

	if user.PasswordHash, err = hashPassword(password, s.opts.BcryptCost); err != nil {
		return err
	}
	user.ResetToken = ""
	user.ResetTokenExpiry = nil
	if err := s.users.Update(ctx, user); err != nil {
		return saveErr(err, "")
	}
	return nil
}
