// Package board mantiene la vista optimista de un tablero kanban: aplica el
// movimiento de una tarjeta antes de que el servidor lo confirme y lo revierte
// si la transición remota falla o no responde a tiempo.
package board

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

// DefaultTimeout límite de la transición remota.
const DefaultTimeout = 30 * time.Second

// ErrTimeout la transición remota no respondió dentro del límite.
var ErrTimeout = errors.New("board: la transición no respondió a tiempo")

// State estado de reconciliación de una tarjeta.
type State uint8

const (
	Idle State = iota
	Pending
	Committed
	RolledBack
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Mover ejecuta la transición en el servidor.
type Mover interface {
	Move(ctx context.Context, id, target string) error
}

// MoverFunc adapta una función a Mover.
type MoverFunc func(ctx context.Context, id, target string) error

func (f MoverFunc) Move(ctx context.Context, id, target string) error { return f(ctx, id, target) }

// Card tarjeta tal como se muestra.
type Card[S stage.Stage] struct {
	ID    string
	Title string
	Stage S
	State State
	Err   error // último fallo, solo en RolledBack
}

type card[S stage.Stage] struct {
	title string
	stage S
	state State
	err   error
}

// Board tablero de tarjetas de un tipo de etapa. Seguro para uso concurrente.
type Board[S stage.Stage] struct {
	registry   *stage.Registry[S]
	mover      Mover
	timeout    time.Duration
	onCommit   func(id string, from, to S)
	onRollback func(id string, restored S, err error)

	mu       sync.Mutex
	cards    map[string]*card[S]
	inflight map[string]struct{}
}

// Option configura el Board.
type Option[S stage.Stage] func(*Board[S])

// WithTimeout reemplaza DefaultTimeout.
func WithTimeout[S stage.Stage](d time.Duration) Option[S] {
	return func(b *Board[S]) { b.timeout = d }
}

// WithOnCommit se invoca tras cada confirmación, fuera del lock.
func WithOnCommit[S stage.Stage](fn func(id string, from, to S)) Option[S] {
	return func(b *Board[S]) { b.onCommit = fn }
}

// WithOnRollback se invoca tras cada reversión, fuera del lock.
func WithOnRollback[S stage.Stage](fn func(id string, restored S, err error)) Option[S] {
	return func(b *Board[S]) { b.onRollback = fn }
}

// New construye un tablero vacío.
func New[S stage.Stage](registry *stage.Registry[S], mover Mover, opts ...Option[S]) *Board[S] {
	b := &Board[S]{
		registry: registry,
		mover:    mover,
		timeout:  DefaultTimeout,
		cards:    make(map[string]*card[S]),
		inflight: make(map[string]struct{}),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Load carga o refresca una tarjeta con el valor del servidor.
// Si hay un movimiento en curso, el valor mostrado cambia pero una reversión
// posterior restaura el valor previo al movimiento.
func (b *Board[S]) Load(id, title string, s S) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.cards[id]
	if !ok {
		b.cards[id] = &card[S]{title: title, stage: s}
		return
	}
	c.title = title
	c.stage = s
	if _, busy := b.inflight[id]; !busy {
		c.state = Idle
		c.err = nil
	}
}

// Get devuelve la tarjeta mostrada.
func (b *Board[S]) Get(id string) (Card[S], bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.cards[id]
	if !ok {
		return Card[S]{}, false
	}
	return Card[S]{ID: id, Title: c.title, Stage: c.stage, State: c.state, Err: c.err}, true
}

// Cards tarjetas en el orden de las columnas del registro y luego por ID.
func (b *Board[S]) Cards() []Card[S] {
	b.mu.Lock()
	defer b.mu.Unlock()
	order := make(map[S]int)
	for i, v := range b.registry.Values() {
		order[v] = i
	}
	out := make([]Card[S], 0, len(b.cards))
	for id, c := range b.cards {
		out = append(out, Card[S]{ID: id, Title: c.title, Stage: c.stage, State: c.state, Err: c.err})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stage != out[j].Stage {
			return order[out[i].Stage] < order[out[j].Stage]
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Move aplica el movimiento de forma optimista y lo reconcilia con el servidor.
//
// Un destino fuera del registro devuelve ErrInvalidStage sin cambiar nada.
// Un segundo movimiento de la misma tarjeta mientras el primero está pendiente
// devuelve ErrTransitionInFlight. Si la transición remota falla o excede el
// timeout, la tarjeta vuelve al valor que tenía antes del movimiento.
func (b *Board[S]) Move(ctx context.Context, id, target string) error {
	to, err := b.registry.Parse(target)
	if err != nil {
		return err
	}

	b.mu.Lock()
	c, ok := b.cards[id]
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("board: tarjeta %s: %w", id, domain.ErrNotFound)
	}
	if _, busy := b.inflight[id]; busy {
		b.mu.Unlock()
		return domain.ErrTransitionInFlight
	}
	prior := c.stage
	c.stage = to
	c.state = Pending
	c.err = nil
	b.inflight[id] = struct{}{}
	b.mu.Unlock()

	remoteErr := b.callRemote(ctx, id, target)

	b.mu.Lock()
	delete(b.inflight, id)
	if remoteErr != nil {
		c.stage = prior
		c.state = RolledBack
		c.err = remoteErr
	} else {
		c.stage = to
		c.state = Committed
	}
	b.mu.Unlock()

	if remoteErr != nil {
		if b.onRollback != nil {
			b.onRollback(id, prior, remoteErr)
		}
		return remoteErr
	}
	if b.onCommit != nil {
		b.onCommit(id, prior, to)
	}
	return nil
}

// callRemote acota la llamada al timeout aunque el Mover ignore el contexto.
func (b *Board[S]) callRemote(ctx context.Context, id, target string) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- b.mover.Move(ctx, id, target) }()

	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}
