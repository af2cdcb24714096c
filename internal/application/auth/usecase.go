package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
	"github.com/jhoicas/crm-veiculos/internal/domain/session"
	"github.com/jhoicas/crm-veiculos/pkg/jwt"
	"github.com/jhoicas/crm-veiculos/pkg/logger"
)

// MinPasswordLength longitud mínima de la contraseña.
const MinPasswordLength = 6

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TxRunner ejecuta el alta de empresa y usuario en una única transacción.
type TxRunner interface {
	RunAccount(ctx context.Context, fn func(companies repository.CompanyRepository, users repository.UserRepository) error) error
}

// AuthUseCase casos de uso de autenticación: registro, login y perfil propio.
type AuthUseCase struct {
	tx          TxRunner
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	jwtCfg      JWTConfig
	log         *logger.Logger
	now         func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(tx TxRunner, userRepo repository.UserRepository, companyRepo repository.CompanyRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		tx:          tx,
		userRepo:    userRepo,
		companyRepo: companyRepo,
		jwtCfg:      jwtCfg,
		log:         log.Component("auth"),
		now:         time.Now,
	}
}

// Register crea una empresa nueva y su primer usuario (administrador, ativo, plano gratuito).
// Devuelve ErrEmailAlreadyExists si el email ya existe en cualquier empresa.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = entity.NormalizeEmail(in.Email)
	if in.CompanyName == "" || in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, domain.Invalid("Todos os campos obrigatórios devem ser preenchidos.")
	}
	if in.Password != in.ConfirmPassword {
		return nil, domain.Invalid("As senhas não coincidem.")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, domain.Invalid("A senha deve ter pelo menos 6 caracteres.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.CompanyName,
		Plan:      entity.PlanFree,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Name:         in.Name,
		Email:        in.Email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		Plan:         entity.PlanFree,
		Status:       entity.UserActive,
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.tx.RunAccount(ctx, func(companies repository.CompanyRepository, users repository.UserRepository) error {
		existing, err := users.GetByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		if err := companies.Create(ctx, company); err != nil {
			return err
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrEmailAlreadyExists) {
			uc.log.Error().Err(err).Msg("registro de empresa fallido")
		}
		return nil, err
	}
	uc.log.Info().Str("company_id", company.ID).Str("user_id", user.ID).Msg("empresa registrada")
	return ToUserResponse(user, company.Name), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Usuario inexistente y password incorrecta devuelven ErrUnauthorized; un usuario no ativo, ErrForbidden.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, entity.NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !strings.EqualFold(string(user.Status), string(entity.UserActive)) {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Issue(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, time.Duration(uc.jwtCfg.ExpMinutes)*time.Minute, session.Session{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Role:      user.Role,
	})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user, uc.companyName(ctx, user.CompanyID)),
	}, nil
}

// Me devuelve el usuario de la sesión.
func (uc *AuthUseCase) Me(ctx context.Context) (*dto.UserResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.CompanyID != sess.CompanyID {
		return nil, domain.ErrNotFound
	}
	return ToUserResponse(user, uc.companyName(ctx, user.CompanyID)), nil
}

// UpdateProfile actualiza nombre, email y teléfono del usuario de la sesión.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	email := entity.NormalizeEmail(in.Email)
	if name == "" || email == "" {
		return nil, domain.Invalid("Nome e e-mail são obrigatórios.")
	}
	user, err := uc.userRepo.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.CompanyID != sess.CompanyID {
		return nil, domain.ErrNotFound
	}
	user.Name = name
	user.Email = email
	user.Phone = strings.TrimSpace(in.Phone)
	user.UpdatedAt = uc.now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user, uc.companyName(ctx, user.CompanyID)), nil
}

// companyName es informativo; un fallo de lectura deja el nombre vacío.
func (uc *AuthUseCase) companyName(ctx context.Context, companyID string) string {
	c, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil || c == nil {
		return ""
	}
	return c.Name
}

// ToUserResponse mapea un usuario sin exponer el hash.
func ToUserResponse(u *entity.User, companyName string) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		CompanyID:   u.CompanyID,
		CompanyName: companyName,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		Plan:        u.Plan,
		Status:      string(u.Status),
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
