package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/crm-veiculos/internal/application/auth"
	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/application/ports"
	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
	"github.com/jhoicas/crm-veiculos/internal/domain/session"
	"github.com/jhoicas/crm-veiculos/pkg/logger"
)

// MemberUseCase gestión de miembros de la empresa. Todas las operaciones requieren administrador.
type MemberUseCase struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
	notifier  ports.Notifier
	log       *logger.Logger
	now       func() time.Time
}

// NewMemberUseCase construye el caso de uso.
func NewMemberUseCase(users repository.UserRepository, companies repository.CompanyRepository, notifier ports.Notifier, log *logger.Logger) *MemberUseCase {
	return &MemberUseCase{users: users, companies: companies, notifier: notifier, log: log.Component("members"), now: time.Now}
}

// List miembros de la empresa de la sesión, por cargo desc y antigüedad.
func (uc *MemberUseCase) List(ctx context.Context) ([]*dto.UserResponse, error) {
	sess, err := session.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	list, err := uc.users.ListByCompany(ctx, sess.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, auth.ToUserResponse(u, ""))
	}
	return out, nil
}

// Add da de alta un miembro en la empresa de la sesión y notifica cadastro_vendedores.
// Defaults: status ativo, cargo convidado.
func (uc *MemberUseCase) Add(ctx context.Context, in dto.AddMemberRequest) (*dto.UserResponse, error) {
	sess, err := session.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	email := entity.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.Invalid("Todos os campos obrigatórios devem ser preenchidos.")
	}
	if len(in.Password) < auth.MinPasswordLength {
		return nil, domain.Invalid("A senha deve ter pelo menos 6 caracteres.")
	}
	status := entity.UserActive
	if in.Status != "" {
		status = entity.UserStatus(in.Status)
	}
	role := entity.RoleGuest
	if in.Role != "" {
		role = entity.Role(in.Role)
	}
	if !status.Valid() || !role.Valid() {
		return nil, domain.Invalid("Status ou cargo inválido.")
	}

	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    sess.CompanyID,
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		Plan:         entity.PlanFree,
		Status:       status,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		if !errors.Is(err, domain.ErrEmailAlreadyExists) {
			uc.log.Error().Err(err).Str("company_id", sess.CompanyID).Msg("alta de miembro fallida")
		}
		return nil, err
	}

	var companyName string
	if c, err := uc.companies.GetByID(ctx, sess.CompanyID); err == nil && c != nil {
		companyName = c.Name
	}
	uc.notifier.Notify(ctx, ports.Event{Type: ports.EventMemberCreated, Member: user, CompanyName: companyName, OccurredAt: now})
	return auth.ToUserResponse(user, companyName), nil
}

// UpdateStatus cambia el estado de acceso de un miembro.
func (uc *MemberUseCase) UpdateStatus(ctx context.Context, memberID, status string) (*dto.UserResponse, error) {
	st := entity.UserStatus(status)
	if !st.Valid() {
		if _, err := session.RequireAdmin(ctx); err != nil {
			return nil, err
		}
		return nil, domain.Invalid("Status inválido.")
	}
	return uc.mutate(ctx, memberID, func(u *entity.User) { u.Status = st })
}

// UpdateRole cambia el cargo de un miembro.
func (uc *MemberUseCase) UpdateRole(ctx context.Context, memberID, role string) (*dto.UserResponse, error) {
	r := entity.Role(role)
	if !r.Valid() {
		if _, err := session.RequireAdmin(ctx); err != nil {
			return nil, err
		}
		return nil, domain.Invalid("Cargo inválido.")
	}
	return uc.mutate(ctx, memberID, func(u *entity.User) { u.Role = r })
}

func (uc *MemberUseCase) mutate(ctx context.Context, memberID string, fn func(*entity.User)) (*dto.UserResponse, error) {
	sess, err := session.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	u, err := uc.users.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if u == nil || u.CompanyID != sess.CompanyID {
		return nil, domain.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = uc.now()
	if err := uc.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(u, ""), nil
}

// Delete elimina un miembro. Un administrador no puede eliminarse a sí mismo (ErrSelfDelete).
func (uc *MemberUseCase) Delete(ctx context.Context, memberID string) error {
	sess, err := session.RequireAdmin(ctx)
	if err != nil {
		return err
	}
	if memberID == sess.UserID {
		return domain.ErrSelfDelete
	}
	return uc.users.Delete(ctx, sess.CompanyID, memberID)
}
