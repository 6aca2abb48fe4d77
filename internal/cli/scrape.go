package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xavierca1/nexus-crm/internal/entity"
	"github.com/xavierca1/nexus-crm/internal/infra/database"
	"github.com/xavierca1/nexus-crm/internal/infra/scraper"
	"github.com/xavierca1/nexus-crm/internal/usecase"
)

type searcher interface {
	Search(ctx context.Context, q scraper.Query) ([]scraper.Profile, error)
}

func printCandidates(w io.Writer, candidates []entity.Candidate) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NOME\tCARGO\tEMPRESA\tLOCAL\tLINKEDIN")
	for _, c := range candidates {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.FullName, c.CurrentRole, c.Company, c.Location, c.LinkedinURL)
	}
	tw.Flush()
}

func runScrape(ctx context.Context, out io.Writer, actor searcher, q scraper.Query) ([]entity.Candidate, error) {
	profiles, err := actor.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	candidates := make([]entity.Candidate, 0, len(profiles))
	for _, p := range profiles {
		candidates = append(candidates, p.ToCandidate())
	}
	printCandidates(out, candidates)
	return candidates, nil
}

func newScrapeCmd() *cobra.Command {
	var q scraper.Query
	var campaignID string

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Roda o scraper mockado de perfis do LinkedIn",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := scraper.NewMockActor(0)
			if err != nil {
				return err
			}
			candidates, err := runScrape(cmd.Context(), cmd.OutOrStdout(), actor, q)
			if err != nil {
				return err
			}
			if campaignID == "" {
				return nil
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			importer := usecase.NewImportService(database.NewCampaignRepository(db), database.NewLeadRepository(db))
			res, err := importer.Save(cmd.Context(), campaignID, candidates)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "💾 %d salvos, %d duplicados, %d falharam\n", res.Saved, res.Duplicates, res.Failed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&q.Keyword, "keyword", "k", "", "cargo ou palavra-chave")
	cmd.Flags().StringVarP(&q.Location, "location", "l", "", "localização")
	cmd.Flags().IntVarP(&q.Limit, "limit", "n", 0, "máximo de perfis (0 = todos)")
	cmd.Flags().StringVarP(&campaignID, "campaign", "c", "", "salva os candidatos nesta campanha")
	return cmd
}
