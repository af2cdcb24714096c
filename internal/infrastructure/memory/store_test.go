package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
	"github.com/jhoicas/crm-veiculos/internal/infrastructure/memory"
)

const company = "empresa-1"

func seed(t *testing.T, s *memory.Store, id, vendedor string, createdAt time.Time) {
	t.Helper()
	require.NoError(t, s.Leads().Create(context.Background(), &entity.Lead{
		ID: id, CompanyID: company, Name: id, Salesperson: vendedor,
		Stage: stage.LeadOpportunity, CreatedAt: createdAt, UpdatedAt: createdAt,
	}))
}

func TestCreateForLeadIfAbsent_Concurrente(t *testing.T) {
	s := memory.NewStore()
	seed(t, s, "l1", "", time.Now())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.Appointments().CreateForLeadIfAbsent(context.Background(), &entity.Appointment{
				ID: fmt.Sprintf("a%d", i), CompanyID: company, LeadID: "l1", AutoCreated: true,
			})
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	list, err := s.Appointments().ListByLead(context.Background(), company, "l1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRunStageChange_FalloRestaura(t *testing.T) {
	s := memory.NewStore()
	seed(t, s, "l1", "", time.Now())
	boom := errors.New("boom")

	err := s.RunStageChange(context.Background(), func(
		leads repository.LeadRepository,
		appointments repository.AppointmentRepository,
		history repository.StageChangeRepository,
	) error {
		require.NoError(t, leads.UpdateStage(context.Background(), company, "l1", stage.LeadClosed, time.Now()))
		require.NoError(t, history.Create(context.Background(), &entity.StageChange{
			ID: "h1", CompanyID: company, Kind: stage.KindLead, EntityID: "l1",
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	l, err := s.Leads().GetByID(context.Background(), company, "l1")
	require.NoError(t, err)
	assert.Equal(t, stage.LeadOpportunity, l.Stage)

	h, err := s.History().ListByEntity(context.Background(), company, stage.KindLead, "l1")
	require.NoError(t, err)
	assert.Empty(t, h)
}

func TestRunStageChange_FalloConservaEscriturasAjenas(t *testing.T) {
	s := memory.NewStore()
	seed(t, s, "l1", "", time.Now())
	seed(t, s, "l2", "", time.Now())
	boom := errors.New("boom")

	err := s.RunStageChange(context.Background(), func(
		leads repository.LeadRepository,
		appointments repository.AppointmentRepository,
		_ repository.StageChangeRepository,
	) error {
		require.NoError(t, leads.UpdateStage(context.Background(), company, "l1", stage.LeadClosed, time.Now()))
		_, err := appointments.CreateForLeadIfAbsent(context.Background(), &entity.Appointment{
			ID: "tx-a", CompanyID: company, LeadID: "l1", AutoCreated: true,
		})
		require.NoError(t, err)

		// Escrituras fuera de la transacción mientras está abierta.
		ok, err := s.Appointments().CreateForLeadIfAbsent(context.Background(), &entity.Appointment{
			ID: "otra-a", CompanyID: company, LeadID: "l2", AutoCreated: true,
		})
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, s.Leads().UpdateStage(context.Background(), company, "l2", stage.LeadFollowUp, time.Now()))
		return boom
	})
	require.ErrorIs(t, err, boom)

	l1, err := s.Leads().GetByID(context.Background(), company, "l1")
	require.NoError(t, err)
	assert.Equal(t, stage.LeadOpportunity, l1.Stage)
	gone, err := s.Appointments().GetByID(context.Background(), company, "tx-a")
	require.NoError(t, err)
	assert.Nil(t, gone)

	l2, err := s.Leads().GetByID(context.Background(), company, "l2")
	require.NoError(t, err)
	assert.Equal(t, stage.LeadFollowUp, l2.Stage)
	kept, err := s.Appointments().GetByID(context.Background(), company, "otra-a")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestRunAccount_FalloSoloDeshaceLoSuyo(t *testing.T) {
	s := memory.NewStore()
	err := s.RunAccount(context.Background(), func(companies repository.CompanyRepository, users repository.UserRepository) error {
		require.NoError(t, companies.Create(context.Background(), &entity.Company{ID: "c1", Name: "Atual"}))
		require.NoError(t, s.Users().Create(context.Background(), &entity.User{ID: "u-fuera", CompanyID: "c0", Email: "fora@loja.com"}))
		return users.Create(context.Background(), &entity.User{ID: "u1", CompanyID: "c1", Email: "FORA@loja.com"})
	})
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	c, err := s.Companies().GetByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Nil(t, c)
	u, err := s.Users().GetByID(context.Background(), "u-fuera")
	require.NoError(t, err)
	assert.NotNil(t, u)
}

func TestListFiltered(t *testing.T) {
	s := memory.NewStore()
	now := time.Now()
	seed(t, s, "viejo", "Carlos", now.AddDate(0, 0, -40))
	seed(t, s, "nuevo", "Carlos", now.Add(-time.Hour))
	seed(t, s, "otro", "Bia", now)

	all, err := s.Leads().ListByCompany(context.Background(), company)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "otro", all[0].ID, "más reciente primero")

	carlos, err := s.Leads().ListFiltered(context.Background(), company, entity.LeadFilter{
		Salesperson: "Carlos", Since: now.AddDate(0, 0, -30),
	})
	require.NoError(t, err)
	require.Len(t, carlos, 1)
	assert.Equal(t, "nuevo", carlos[0].ID)

	otra, err := s.Leads().ListByCompany(context.Background(), "empresa-2")
	require.NoError(t, err)
	assert.Empty(t, otra)
}

func TestDeleteLead_DesvinculaAgendamientos(t *testing.T) {
	s := memory.NewStore()
	seed(t, s, "l1", "", time.Now())
	require.NoError(t, s.Appointments().Create(context.Background(), &entity.Appointment{ID: "a1", CompanyID: company, LeadID: "l1"}))

	require.NoError(t, s.Leads().Delete(context.Background(), company, "l1"))
	assert.ErrorIs(t, s.Leads().Delete(context.Background(), company, "l1"), domain.ErrNotFound)

	a, err := s.Appointments().GetByID(context.Background(), company, "a1")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Empty(t, a.LeadID)
}
