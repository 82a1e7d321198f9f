// Command dietetique runs the contact request API of the practice's website
// and the back-office tooling around it.
//
//	@title						Dietetique contact requests API
//	@version					1.0
//	@description				Public contact form submissions and their back-office lifecycle.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				"Bearer <JWT>" with role=admin for the back-office routes.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// errReported marks a failure the command already told the user about.
var errReported = errors.New("reported")

func main() {
	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dietetique",
		Short:         "Contact request API and back-office tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	cmd.AddCommand(serveCmd(), migrateCmd(), tokenCmd(), requestsCmd())
	return cmd
}
