package board_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/crm-veiculos/internal/application/board"
	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// blockingMover bloquea cada llamada hasta recibir el resultado por release.
type blockingMover struct {
	started chan struct{}
	release chan error
}

func newBlockingMover() *blockingMover {
	return &blockingMover{started: make(chan struct{}, 1), release: make(chan error)}
}

func (m *blockingMover) Move(ctx context.Context, _, _ string) error {
	m.started <- struct{}{}
	select {
	case err := <-m.release:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestMove_Commit(t *testing.T) {
	var calls atomic.Int32
	var committed []string
	b := board.New(stage.Leads,
		board.MoverFunc(func(context.Context, string, string) error { calls.Add(1); return nil }),
		board.WithOnCommit(func(id string, from, to stage.LeadStage) {
			committed = append(committed, id+":"+from.String()+">"+to.String())
		}),
	)
	b.Load("l1", "Maria", stage.LeadOpportunity)

	require.NoError(t, b.Move(context.Background(), "l1", "em_negociacao"))

	c, ok := b.Get("l1")
	require.True(t, ok)
	assert.Equal(t, stage.LeadNegotiating, c.Stage)
	assert.Equal(t, board.Committed, c.State)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []string{"l1:oportunidade>em_negociacao"}, committed)
}

func TestMove_EtapaInvalidaNoAplica(t *testing.T) {
	var calls atomic.Int32
	b := board.New(stage.Leads, board.MoverFunc(func(context.Context, string, string) error { calls.Add(1); return nil }))
	b.Load("l1", "Maria", stage.LeadOpportunity)

	err := b.Move(context.Background(), "l1", "estagio_invalido")
	assert.ErrorIs(t, err, domain.ErrInvalidStage)

	c, _ := b.Get("l1")
	assert.Equal(t, stage.LeadOpportunity, c.Stage)
	assert.Equal(t, board.Idle, c.State)
	assert.Zero(t, calls.Load())
}

func TestMove_RollbackRestauraValorPrevio(t *testing.T) {
	m := newBlockingMover()
	var restored stage.LeadStage
	b := board.New(stage.Leads, m, board.WithOnRollback(func(_ string, s stage.LeadStage, _ error) { restored = s }))
	b.Load("l1", "Maria", stage.LeadOpportunity)

	done := make(chan error, 1)
	go func() { done <- b.Move(context.Background(), "l1", "fechado") }()
	<-m.started

	c, _ := b.Get("l1")
	assert.Equal(t, stage.LeadClosed, c.Stage, "se muestra el destino mientras está pendiente")
	assert.Equal(t, board.Pending, c.State)

	// Refresco intermedio con otro valor.
	b.Load("l1", "Maria", stage.LeadRescue)

	m.release <- errors.New("503")
	err := <-done
	require.Error(t, err)

	c, _ = b.Get("l1")
	assert.Equal(t, stage.LeadOpportunity, c.Stage)
	assert.Equal(t, board.RolledBack, c.State)
	assert.Equal(t, stage.LeadOpportunity, restored)
	assert.EqualError(t, c.Err, "503")
}

func TestMove_RechazaMovimientoSolapado(t *testing.T) {
	m := newBlockingMover()
	b := board.New(stage.Appointments, m)
	b.Load("a1", "Visita", stage.AppointmentScheduled)

	done := make(chan error, 1)
	go func() { done <- b.Move(context.Background(), "a1", "Confirmado") }()
	<-m.started

	err := b.Move(context.Background(), "a1", "Cancelado")
	assert.ErrorIs(t, err, domain.ErrTransitionInFlight)

	m.release <- nil
	require.NoError(t, <-done)
	c, _ := b.Get("a1")
	assert.Equal(t, stage.AppointmentConfirmed, c.Stage)
}

func TestMove_Timeout(t *testing.T) {
	b := board.New(stage.Leads,
		board.MoverFunc(func(ctx context.Context, _, _ string) error {
			<-ctx.Done()
			return ctx.Err()
		}),
		board.WithTimeout[stage.LeadStage](20*time.Millisecond),
	)
	b.Load("l1", "Maria", stage.LeadQualifying)

	start := time.Now()
	err := b.Move(context.Background(), "l1", "resgate")
	assert.ErrorIs(t, err, board.ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)

	c, _ := b.Get("l1")
	assert.Equal(t, stage.LeadQualifying, c.Stage)
	assert.Equal(t, board.RolledBack, c.State)
}

func TestMove_TarjetaDesconocida(t *testing.T) {
	b := board.New(stage.Leads, board.MoverFunc(func(context.Context, string, string) error { return nil }))
	assert.ErrorIs(t, b.Move(context.Background(), "x", "fechado"), domain.ErrNotFound)
}

func TestCards_OrdenDeColumnas(t *testing.T) {
	b := board.New(stage.Leads, board.MoverFunc(func(context.Context, string, string) error { return nil }))
	b.Load("b", "", stage.LeadClosed)
	b.Load("a", "", stage.LeadClosed)
	b.Load("c", "", stage.LeadOpportunity)

	cards := b.Cards()
	require.Len(t, cards, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{cards[0].ID, cards[1].ID, cards[2].ID})
}
