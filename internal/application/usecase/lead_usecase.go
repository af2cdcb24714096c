package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/application/ports"
	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
	"github.com/jhoicas/crm-veiculos/internal/domain/session"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
	"github.com/jhoicas/crm-veiculos/pkg/logger"
	"github.com/jhoicas/crm-veiculos/pkg/money"
)

// LeadUseCase casos de uso de leads fuera de las transiciones de etapa (ver pipeline).
type LeadUseCase struct {
	leads   repository.LeadRepository
	history repository.StageChangeRepository
	sender  ports.EventSender
	log     *logger.Logger
	now     func() time.Time
}

// NewLeadUseCase construye el caso de uso.
func NewLeadUseCase(leads repository.LeadRepository, history repository.StageChangeRepository, sender ports.EventSender, log *logger.Logger) *LeadUseCase {
	return &LeadUseCase{leads: leads, history: history, sender: sender, log: log.Component("leads"), now: time.Now}
}

// List leads de la empresa, más recientes primero.
func (uc *LeadUseCase) List(ctx context.Context) ([]*dto.LeadResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	list, err := uc.leads.ListByCompany(ctx, sess.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.LeadResponse, 0, len(list))
	for _, l := range list {
		out = append(out, ToLeadResponse(l))
	}
	return out, nil
}

// GetByID obtiene un lead; domain.ErrNotFound si no existe en la empresa.
func (uc *LeadUseCase) GetByID(ctx context.Context, id string) (*dto.LeadResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	l, err := uc.leads.GetByID(ctx, sess.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	return ToLeadResponse(l), nil
}

// Create da de alta un lead. La etapa por defecto es oportunidade.
func (uc *LeadUseCase) Create(ctx context.Context, in dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	sess, err := session.RequireWriter(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("O nome do lead é obrigatório.")
	}
	st := stage.LeadOpportunity
	if in.Stage != "" {
		if st, err = stage.Leads.Parse(in.Stage); err != nil {
			return nil, err
		}
	}
	now := uc.now()
	lead := &entity.Lead{
		ID:                   uuid.New().String(),
		CompanyID:            sess.CompanyID,
		Name:                 name,
		Phone:                strings.TrimSpace(in.Phone),
		Email:                strings.TrimSpace(in.Email),
		Origin:               strings.TrimSpace(in.Origin),
		Salesperson:          strings.TrimSpace(in.Salesperson),
		VehicleOfInterest:    strings.TrimSpace(in.VehicleOfInterest),
		QualificationSummary: in.QualificationSummary,
		CommercialSummary:    in.CommercialSummary,
		Stage:                st,
		Value:                in.Value.Value,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.leads.Create(ctx, lead); err != nil {
		return nil, err
	}
	return ToLeadResponse(lead), nil
}

// Update edita valor, observação do vendedor, veículo de interesse y email.
func (uc *LeadUseCase) Update(ctx context.Context, id string, in dto.UpdateLeadRequest) (*dto.LeadResponse, error) {
	sess, err := session.RequireWriter(ctx)
	if err != nil {
		return nil, err
	}
	patch := entity.LeadPatch{
		SalespersonNote:   in.SalespersonNote,
		VehicleOfInterest: in.VehicleOfInterest,
		Email:             in.Email,
	}
	if in.Value.Set {
		patch.Value = in.Value.Value
		patch.ClearValue = in.Value.Value == nil
	}
	l, err := uc.leads.GetByID(ctx, sess.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	if patch.Empty() {
		return ToLeadResponse(l), nil
	}
	patch.Apply(l)
	l.UpdatedAt = uc.now()
	if err := uc.leads.Update(ctx, l); err != nil {
		return nil, err
	}
	return ToLeadResponse(l), nil
}

// Delete elimina un lead. Sus agendamientos quedan sin lead.
func (uc *LeadUseCase) Delete(ctx context.Context, id string) error {
	sess, err := session.RequireWriter(ctx)
	if err != nil {
		return err
	}
	return uc.leads.Delete(ctx, sess.CompanyID, id)
}

// DeleteMany elimina varios leads; devuelve cuántos se eliminaron.
func (uc *LeadUseCase) DeleteMany(ctx context.Context, ids []string) (int, error) {
	sess, err := session.RequireWriter(ctx)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, id := range ids {
		if err := uc.leads.Delete(ctx, sess.CompanyID, id); err != nil {
			uc.log.Warn().Err(err).Str("lead_id", id).Msg("no se pudo eliminar el lead")
			continue
		}
		deleted++
	}
	return deleted, nil
}

// History transiciones de etapa del lead, en orden cronológico.
func (uc *LeadUseCase) History(ctx context.Context, id string) ([]*dto.StageChangeResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	list, err := uc.history.ListByEntity(ctx, sess.CompanyID, stage.KindLead, id)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StageChangeResponse, 0, len(list))
	for _, c := range list {
		out = append(out, &dto.StageChangeResponse{
			ID:        c.ID,
			From:      c.From,
			To:        c.To,
			ChangedBy: c.ChangedBy,
			CreatedAt: c.CreatedAt,
		})
	}
	return out, nil
}

// SendCommercialSummary solicita a la automatización el resumo comercial del lead.
func (uc *LeadUseCase) SendCommercialSummary(ctx context.Context, id string) error {
	sess, err := session.RequireWriter(ctx)
	if err != nil {
		return err
	}
	l, err := uc.leads.GetByID(ctx, sess.CompanyID, id)
	if err != nil {
		return err
	}
	if l == nil {
		return domain.ErrNotFound
	}
	return uc.deliver(ctx, ports.Event{Type: ports.EventCommercialSummary, Lead: l, OccurredAt: uc.now()})
}

// SendFollowUp envía el follow-up de cada lead; devuelve cuántos se entregaron.
func (uc *LeadUseCase) SendFollowUp(ctx context.Context, ids []string) (int, error) {
	return uc.sendEach(ctx, ids, ports.EventFollowUp, "")
}

// SendMessage envía la misma mensagem a cada lead; devuelve cuántos se entregaron.
func (uc *LeadUseCase) SendMessage(ctx context.Context, ids []string, message string) (int, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return 0, domain.Invalid("A mensagem é obrigatória.")
	}
	return uc.sendEach(ctx, ids, ports.EventMessage, message)
}

func (uc *LeadUseCase) sendEach(ctx context.Context, ids []string, typ ports.EventType, message string) (int, error) {
	sess, err := session.RequireWriter(ctx)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, domain.Invalid("Selecione pelo menos um lead.")
	}
	sent := 0
	for _, id := range ids {
		l, err := uc.leads.GetByID(ctx, sess.CompanyID, id)
		if err != nil || l == nil {
			uc.log.Warn().Err(err).Str("lead_id", id).Str("event", string(typ)).Msg("lead no disponible para envío")
			continue
		}
		if err := uc.deliver(ctx, ports.Event{Type: typ, Lead: l, Message: message, OccurredAt: uc.now()}); err != nil {
			continue
		}
		sent++
	}
	return sent, nil
}

func (uc *LeadUseCase) deliver(ctx context.Context, ev ports.Event) error {
	if err := uc.sender.Deliver(ctx, ev); err != nil {
		uc.log.Error().Err(err).Str("lead_id", ev.Lead.ID).Str("event", string(ev.Type)).Msg("envío manual fallido")
		return fmt.Errorf("%w: %w", domain.ErrNotification, err)
	}
	return nil
}

// ToLeadResponse mapea un lead a su representación HTTP.
func ToLeadResponse(l *entity.Lead) *dto.LeadResponse {
	out := &dto.LeadResponse{
		ID:                   l.ID,
		CompanyID:            l.CompanyID,
		Name:                 l.Name,
		Phone:                l.Phone,
		Email:                l.Email,
		Origin:               l.Origin,
		Salesperson:          l.Salesperson,
		VehicleOfInterest:    l.VehicleOfInterest,
		QualificationSummary: l.QualificationSummary,
		Stage:                l.Stage.String(),
		StageLabel:           l.Stage.Label(),
		CommercialSummary:    l.CommercialSummary,
		Value:                l.Value,
		SalespersonNote:      l.SalespersonNote,
		CreatedAt:            l.CreatedAt,
		UpdatedAt:            l.UpdatedAt,
	}
	if l.Value != nil {
		out.ValueFormatted = money.FormatBRL(*l.Value)
	}
	return out
}
