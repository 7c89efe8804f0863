package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ideahub/api/internal/repository"
	"github.com/ideahub/api/internal/search"
)

func newReindexCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Args:  cobra.NoArgs,
		Short: "Push every public published idea to the search index",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if cfg.Search.MeiliURL == "" {
				return errors.New("MEILI_URL is not set")
			}
			meili := search.NewMeili(cfg.Search.MeiliURL, cfg.Search.MeiliAPIKey)
			defer meili.Close()
			if !meili.Healthy() {
				return fmt.Errorf("search index at %s is unreachable", cfg.Search.MeiliURL)
			}

			n, err := search.NewService(meili, repository.NewIdeaRepository(db)).Reindex(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d ideas\n", n)
			return nil
		},
	}
}
