package repository

import (
	"context"
	"time"

	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

// AppointmentRepository define el puerto de persistencia para Appointment.
type AppointmentRepository interface {
	Create(ctx context.Context, a *entity.Appointment) error
	// CreateForLeadIfAbsent inserta a solo si el lead no tiene ningún agendamiento.
	// La verificación y la inserción son atómicas; devuelve false si no insertó.
	CreateForLeadIfAbsent(ctx context.Context, a *entity.Appointment) (bool, error)
	GetByID(ctx context.Context, companyID, id string) (*entity.Appointment, error)
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Appointment, error)
	GetView(ctx context.Context, companyID, id string) (*entity.AppointmentView, error)
	// ListByCompany ordena por created_at desc.
	ListByCompany(ctx context.Context, companyID string) ([]*entity.AppointmentView, error)
	ListByLead(ctx context.Context, companyID, leadID string) ([]*entity.AppointmentView, error)
	Update(ctx context.Context, a *entity.Appointment) error
	UpdateStatus(ctx context.Context, companyID, id string, s stage.AppointmentStatus, at time.Time) error
	Delete(ctx context.Context, companyID, id string) error
	CountByStatus(ctx context.Context, companyID string) (map[stage.AppointmentStatus]int, error)
}
