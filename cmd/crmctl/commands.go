package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/crm-veiculos/internal/application/board"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
	"github.com/jhoicas/crm-veiculos/pkg/client"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Autentica e imprime o token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, err := newClient().Login(cmd.Context(), loginEmail, loginPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s (%s)\n", okStyle.Render("ok"), out.User.Name, out.User.Role)
		fmt.Fprintln(cmd.OutOrStdout(), out.Token)
		return nil
	},
}

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Quadro de leads",
}

var leadsBoardCmd = &cobra.Command{
	Use:   "board",
	Short: "Mostra o quadro de leads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := newClient()
		b, err := loadLeadBoard(cmd.Context(), c)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderBoard(stage.Leads, b.Cards()))
		return nil
	},
}

var leadsMoveCmd = &cobra.Command{
	Use:   "move <id> <estagio>",
	Short: "Move um lead de estágio",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		b, err := loadLeadBoard(cmd.Context(), c)
		if err != nil {
			return err
		}
		return moveAndRender(cmd, b, stage.Leads, args[0], args[1])
	},
}

var appointmentsCmd = &cobra.Command{
	Use:     "agendamentos",
	Aliases: []string{"appointments"},
	Short:   "Quadro de agendamentos",
}

var appointmentsBoardCmd = &cobra.Command{
	Use:   "board",
	Short: "Mostra o quadro de agendamentos",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := loadAppointmentBoard(cmd.Context(), newClient())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderBoard(stage.Appointments, b.Cards()))
		return nil
	},
}

var appointmentsMoveCmd = &cobra.Command{
	Use:   "move <id> <status>",
	Short: "Muda o status de um agendamento",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadAppointmentBoard(cmd.Context(), newClient())
		if err != nil {
			return err
		}
		return moveAndRender(cmd, b, stage.Appointments, args[0], args[1])
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "e-mail")
	loginCmd.Flags().StringVar(&loginPassword, "senha", "", "senha")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("senha")

	leadsCmd.AddCommand(leadsBoardCmd, leadsMoveCmd)
	appointmentsCmd.AddCommand(appointmentsBoardCmd, appointmentsMoveCmd)
}

func loadLeadBoard(ctx context.Context, c *client.Client) (*board.Board[stage.LeadStage], error) {
	leads, err := c.ListLeads(ctx)
	if err != nil {
		return nil, err
	}
	b := board.New(stage.Leads, board.MoverFunc(func(ctx context.Context, id, target string) error {
		_, err := c.MoveLead(ctx, id, target)
		return err
	}), board.WithTimeout[stage.LeadStage](timeout))
	for _, l := range leads {
		s, err := stage.Leads.Parse(l.Stage)
		if err != nil {
			continue
		}
		b.Load(l.ID, l.Name, s)
	}
	return b, nil
}

func loadAppointmentBoard(ctx context.Context, c *client.Client) (*board.Board[stage.AppointmentStatus], error) {
	appts, err := c.ListAppointments(ctx)
	if err != nil {
		return nil, err
	}
	b := board.New(stage.Appointments, board.MoverFunc(func(ctx context.Context, id, target string) error {
		_, err := c.MoveAppointment(ctx, id, target)
		return err
	}), board.WithTimeout[stage.AppointmentStatus](timeout))
	for _, a := range appts {
		s, err := stage.Appointments.Parse(a.Status)
		if err != nil {
			continue
		}
		title := a.Title
		if a.LeadName != "" {
			title = a.LeadName + " · " + a.Title
		}
		b.Load(a.ID, title, s)
	}
	return b, nil
}

// moveAndRender aplica el movimiento y muestra el tablero resultante, confirmado o revertido.
func moveAndRender[S stage.Stage](cmd *cobra.Command, b *board.Board[S], reg *stage.Registry[S], id, target string) error {
	err := b.Move(cmd.Context(), id, target)
	fmt.Fprintln(cmd.OutOrStdout(), renderBoard(reg, b.Cards()))
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Retryable {
			return fmt.Errorf("%w (pode tentar novamente)", err)
		}
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), okStyle.Render("movido para "+target))
	return nil
}
