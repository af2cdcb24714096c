package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-veiculos/internal/application/auth"
	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/session"
	"github.com/jhoicas/crm-veiculos/internal/infrastructure/memory"
	"github.com/jhoicas/crm-veiculos/pkg/jwt"
	"github.com/jhoicas/crm-veiculos/pkg/logger"
)

const testSecret = "test-secret"

func newUseCase() (*auth.AuthUseCase, *memory.Store) {
	store := memory.NewStore()
	uc := auth.NewAuthUseCase(store, store.Users(), store.Companies(),
		auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"}, logger.Nop())
	return uc, store
}

func validRegister() dto.RegisterRequest {
	return dto.RegisterRequest{
		CompanyName:     "Atual Veículos",
		Name:            "Ana",
		Email:           "Ana@Atual.com.br",
		Phone:           "11999990000",
		Password:        "segredo1",
		ConfirmPassword: "segredo1",
	}
}

// ─── Register ────────────────────────────────────────────────────────────────

func TestRegister_CreaEmpresaYAdministrador(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()

	out, err := uc.Register(ctx, validRegister())
	require.NoError(t, err)

	assert.Equal(t, "ana@atual.com.br", out.Email)
	assert.Equal(t, string(entity.RoleAdmin), out.Role)
	assert.Equal(t, string(entity.UserActive), out.Status)
	assert.Equal(t, entity.PlanFree, out.Plan)
	assert.Equal(t, "Atual Veículos", out.CompanyName)

	company, err := store.Companies().GetByID(ctx, out.CompanyID)
	require.NoError(t, err)
	require.NotNil(t, company)
}

func TestRegister_Validaciones(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	tests := []struct {
		name string
		mut  func(*dto.RegisterRequest)
		msg  string
	}{
		{"senhas distintas", func(r *dto.RegisterRequest) { r.ConfirmPassword = "outra123" }, "As senhas não coincidem."},
		{"senha corta", func(r *dto.RegisterRequest) { r.Password, r.ConfirmPassword = "123", "123" }, "A senha deve ter pelo menos 6 caracteres."},
		{"sin empresa", func(r *dto.RegisterRequest) { r.CompanyName = " " }, "Todos os campos obrigatórios devem ser preenchidos."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegister()
			tt.mut(&in)
			_, err := uc.Register(ctx, in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestRegister_EmailDuplicadoNoDejaEmpresaHuerfana(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()

	first, err := uc.Register(ctx, validRegister())
	require.NoError(t, err)

	in := validRegister()
	in.CompanyName = "Outra Loja"
	in.Email = "ANA@atual.com.br"
	_, err = uc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	members, err := store.Users().ListByCompany(ctx, first.CompanyID)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

// ─── Login ───────────────────────────────────────────────────────────────────

func TestLogin_TokenConCargo(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	reg, err := uc.Register(ctx, validRegister())
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@ATUAL.COM.BR", Password: "segredo1"})
	require.NoError(t, err)
	assert.Equal(t, reg.ID, out.User.ID)

	sess, err := jwt.Verify(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, sess.UserID)
	assert.Equal(t, reg.CompanyID, sess.CompanyID)
	assert.Equal(t, entity.RoleAdmin, sess.Role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	_, err := uc.Register(ctx, validRegister())
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@atual.com.br", Password: "errada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ninguem@atual.com.br", Password: "segredo1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()
	reg, err := uc.Register(ctx, validRegister())
	require.NoError(t, err)

	u, err := store.Users().GetByID(ctx, reg.ID)
	require.NoError(t, err)
	u.Status = entity.UserPending
	require.NoError(t, store.Users().Update(ctx, u))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@atual.com.br", Password: "segredo1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ─── Perfil ──────────────────────────────────────────────────────────────────

func TestUpdateProfile(t *testing.T) {
	uc, _ := newUseCase()
	reg, err := uc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	ctx := session.WithSession(context.Background(), session.Session{
		UserID: reg.ID, CompanyID: reg.CompanyID, Role: entity.RoleAdmin,
	})
	out, err := uc.UpdateProfile(ctx, dto.UpdateProfileRequest{Name: "Ana Souza", Email: "ana.souza@atual.com.br", Phone: "1133334444"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", out.Name)

	me, err := uc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana.souza@atual.com.br", me.Email)
	assert.Equal(t, "1133334444", me.Phone)

	_, err = uc.Me(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
