// Command crmctl opera los tableros del CRM desde la terminal.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/crm-veiculos/pkg/client"
)

var (
	apiURL  string
	token   string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "crmctl",
	Short:        "Cliente de terminal do CRM de veículos",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("CRM_API_URL", "http://localhost:8080"), "URL base da API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("CRM_TOKEN"), "token JWT (ou CRM_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "limite de cada transição")

	rootCmd.AddCommand(loginCmd, leadsCmd, appointmentsCmd)
}

func newClient() *client.Client {
	c := client.New(apiURL, token)
	c.HTTPClient.Timeout = timeout
	return c
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}
