package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xavierca1/nexus-crm/internal/config"
	"github.com/xavierca1/nexus-crm/internal/infra/database"
)

// NewRootCmd monta o crmctl. As conexões são abertas só pelos comandos que precisam.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "crmctl",
		Short: "Ferramentas de operação do Nexus CRM",
		Long: `crmctl opera o banco e os dados do Nexus CRM.

Exemplos:
  crmctl migrate                      # cria as tabelas campaigns, leads e messages
  crmctl seed                         # carrega as campanhas e leads de demonstração
  crmctl scrape --keyword CTO         # roda o scraper mockado e imprime os candidatos
  crmctl scrape --keyword CTO --campaign c1   # ...e salva na campanha`,
		SilenceUsage: true,
	}

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newScrapeCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func openDB() (*sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	return database.NewDBConnection(dsn)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Cria as tabelas se ainda não existirem",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Schema aplicado")
			return nil
		},
	}
}
