package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/nexus-crm/internal/entity"
	"github.com/xavierca1/nexus-crm/internal/infra/database"
)

type campaignUpserter interface {
	Upsert(ctx context.Context, c *entity.Campaign) error
}

type leadUpserter interface {
	Upsert(ctx context.Context, l *entity.Lead) error
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func str(s string) *string { return &s }

func demoCampaigns() []*entity.Campaign {
	return []*entity.Campaign{
		{ID: "c1", Name: "Q2 Engineering Outreach", Status: entity.CampaignActive, CreatedAt: ts("2025-05-01T10:00:00Z"), TargetJobTitle: "Engineering Manager", TargetLocation: "San Francisco, CA"},
		{ID: "c2", Name: "SaaS Founders - Cold", Status: entity.CampaignPaused, CreatedAt: ts("2025-04-15T14:00:00Z"), TargetJobTitle: "Founder", TargetLocation: "Remote"},
		{ID: "c3", Name: "Webinar Invites", Status: entity.CampaignCompleted, CreatedAt: ts("2025-03-20T09:00:00Z"), TargetJobTitle: "Marketing Director", TargetLocation: "New York, NY"},
	}
}

func demoLeads() []*entity.Lead {
	return []*entity.Lead{
		{
			ID:          "1",
			CampaignID:  str("c1"),
			FirstName:   "Sarah",
			LastName:    "Connor",
			Headline:    "VP of Engineering at TechGlobal",
			Company:     "TechGlobal",
			Title:       "VP Engineering",
			Location:    "San Francisco, CA",
			LinkedinURL: "https://linkedin.com/in/sarahconnor",
			Email:       str("sarah.c@techglobal.io"),
			EmailStatus: entity.EmailValid,
			Status:      "REPLIED",
			Stage:       entity.StageReplied,
			ScrapedAt:   ts("2025-05-10T10:00:00Z"),
			AvatarURL:   "https://picsum.photos/id/101/200/200",
			Summary:     "Experienced engineering leader scaling high-performance teams.",
		},
		{
			ID:          "2",
			CampaignID:  str("c2"),
			FirstName:   "James",
			LastName:    "Howlett",
			Headline:    "Chief Product Officer | SaaS Strategist",
			Company:     "WeaponX Corp",
			Title:       "CPO",
			Location:    "Toronto, Canada",
			LinkedinURL: "https://linkedin.com/in/logan",
			Email:       str("logan@weaponx.com"),
			EmailStatus: entity.EmailRisky,
			Status:      entity.StatusSynced,
			Stage:       entity.StageOutreach,
			ScrapedAt:   ts("2025-05-11T14:30:00Z"),
			AvatarURL:   "https://picsum.photos/id/102/200/200",
			Summary:     "Product visionary with a focus on adamant resilience.",
		},
		{
			ID:          "3",
			CampaignID:  str("c1"),
			FirstName:   "Diana",
			LastName:    "Prince",
			Headline:    "Director of Marketing",
			Company:     "Themyscira Inc",
			Title:       "Director of Marketing",
			Location:    "New York, NY",
			LinkedinURL: "https://linkedin.com/in/dianaprince",
			EmailStatus: entity.EmailMissing,
			Status:      entity.StatusScraped,
			Stage:       entity.StageProspecting,
			ScrapedAt:   ts("2025-05-12T09:15:00Z"),
			AvatarURL:   "https://picsum.photos/id/103/200/200",
			Summary:     "Marketing strategist bridging ancient traditions with modern trends.",
		},
		{
			ID:          "4",
			CampaignID:  str("c1"),
			FirstName:   "Tony",
			LastName:    "Stark",
			Headline:    "CEO & Philanthropist",
			Company:     "Stark Industries",
			Title:       "CEO",
			Location:    "Malibu, CA",
			LinkedinURL: "https://linkedin.com/in/tonystark",
			Email:       str("tony@stark.com"),
			EmailStatus: entity.EmailValid,
			Status:      "CONTACTED",
			Stage:       entity.StageOutreach,
			ScrapedAt:   ts("2025-05-12T11:00:00Z"),
			AvatarURL:   "https://picsum.photos/id/104/200/200",
			Summary:     "Futurist, inventor, and mechanic.",
		},
		{
			ID:          "5",
			CampaignID:  str("c1"),
			FirstName:   "Bruce",
			LastName:    "Wayne",
			Headline:    "Chairman",
			Company:     "Wayne Enterprises",
			Title:       "Chairman",
			Location:    "Gotham City",
			LinkedinURL: "https://linkedin.com/in/bwayne",
			Email:       str("bruce@wayne.com"),
			EmailStatus: entity.EmailValid,
			Status:      "QUEUED",
			Stage:       entity.StageQualified,
			ScrapedAt:   ts("2025-05-12T11:05:00Z"),
			AvatarURL:   "https://picsum.photos/id/105/200/200",
			Summary:     "Industrialist by day.",
		},
	}
}

// Seed é idempotente: roda upsert por id.
func Seed(ctx context.Context, campaigns campaignUpserter, leads leadUpserter) (int, int, error) {
	cs := demoCampaigns()
	for _, c := range cs {
		if err := campaigns.Upsert(ctx, c); err != nil {
			return 0, 0, fmt.Errorf("campanha %s: %w", c.ID, err)
		}
	}
	ls := demoLeads()
	for _, l := range ls {
		if err := leads.Upsert(ctx, l); err != nil {
			return len(cs), 0, fmt.Errorf("lead %s: %w", l.ID, err)
		}
	}
	return len(cs), len(ls), nil
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Carrega campanhas e leads de demonstração",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			nc, nl, err := Seed(cmd.Context(), database.NewCampaignRepository(db), database.NewLeadRepository(db))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🌱 %d campanhas e %d leads carregados\n", nc, nl)
			return nil
		},
	}
}
