// Package memory implementa los puertos de persistencia en memoria.
// Se usa en tests y con DB_DRIVER=memory para demos locales sin PostgreSQL.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jhoicas/crm-veiculos/internal/application/auth"
	"github.com/jhoicas/crm-veiculos/internal/application/pipeline"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
)

var (
	_ pipeline.TxRunner = (*Store)(nil)
	_ auth.TxRunner     = (*Store)(nil)
)

// Store estado compartido por todos los repositorios en memoria.
//
// mu protege los mapas; txMu serializa las transacciones, lo que equivale al
// bloqueo de fila de PostgreSQL. Los repositorios de una transacción anotan en
// un undo el valor previo de cada fila que escriben; si la transacción falla
// solo esas filas se restauran y las escrituras ajenas se conservan.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	companies    map[string]entity.Company
	users        map[string]entity.User
	leads        map[string]entity.Lead
	appointments map[string]entity.Appointment
	history      []entity.StageChange
	vehicles     map[string]entity.Vehicle
	salespeople  map[string]entity.Salesperson
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		companies:    make(map[string]entity.Company),
		users:        make(map[string]entity.User),
		leads:        make(map[string]entity.Lead),
		appointments: make(map[string]entity.Appointment),
		vehicles:     make(map[string]entity.Vehicle),
		salespeople:  make(map[string]entity.Salesperson),
	}
}

func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s: s} }
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }
func (s *Store) Leads() *LeadRepo { return &LeadRepo{s: s} }
func (s *Store) Appointments() *AppointmentRepo { return &AppointmentRepo{s: s} }
func (s *Store) History() *StageChangeRepo { return &StageChangeRepo{s: s} }
func (s *Store) Vehicles() *VehicleRepo { return &VehicleRepo{s: s} }
func (s *Store) Salespeople() *SalespersonRepo { return &SalespersonRepo{s: s} }

// RunStageChange ejecuta fn de forma serializada; si falla se descartan sus escrituras.
func (s *Store) RunStageChange(ctx context.Context, fn func(
	leads repository.LeadRepository,
	appointments repository.AppointmentRepository,
	history repository.StageChangeRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	u := newUndo()
	if err := fn(&LeadRepo{s: s, tx: u}, &AppointmentRepo{s: s, tx: u}, &StageChangeRepo{s: s, tx: u}); err != nil {
		s.rollback(u)
		return err
	}
	return nil
}

// RunAccount ejecuta fn de forma serializada sobre empresas y usuarios.
func (s *Store) RunAccount(ctx context.Context, fn func(
	companies repository.CompanyRepository,
	users repository.UserRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	u := newUndo()
	if err := fn(&CompanyRepo{s: s, tx: u}, &UserRepo{s: s, tx: u}); err != nil {
		s.rollback(u)
		return err
	}
	return nil
}

func (s *Store) rollback(u *undo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	restore(s.leads, u.leads)
	restore(s.appointments, u.appointments)
	restore(s.companies, u.companies)
	restore(s.users, u.users)
	if len(u.history) > 0 {
		s.history = slices.DeleteFunc(s.history, func(c entity.StageChange) bool {
			_, added := u.history[c.ID]
			return added
		})
	}
}

// undo valor previo de cada fila escrita por una transacción; nil si no existía.
type undo struct {
	leads        map[string]*entity.Lead
	appointments map[string]*entity.Appointment
	companies    map[string]*entity.Company
	users        map[string]*entity.User
	history      map[string]struct{}
}

func newUndo() *undo {
	return &undo{
		leads:        make(map[string]*entity.Lead),
		appointments: make(map[string]*entity.Appointment),
		companies:    make(map[string]*entity.Company),
		users:        make(map[string]*entity.User),
		history:      make(map[string]struct{}),
	}
}

// remember anota la fila id antes de su primera escritura. Requiere mu tomado.
func remember[T any](log map[string]*T, table map[string]T, id string) {
	if _, seen := log[id]; seen {
		return
	}
	if cur, ok := table[id]; ok {
		log[id] = &cur
		return
	}
	log[id] = nil
}

func restore[T any](table map[string]T, log map[string]*T) {
	for id, prev := range log {
		if prev == nil {
			delete(table, id)
			continue
		}
		table[id] = *prev
	}
}
