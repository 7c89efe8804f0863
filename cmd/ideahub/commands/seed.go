package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ideahub/api/internal/repository"
	"github.com/ideahub/api/internal/service"
)

func newSeedCommand() *cobra.Command {
	var (
		users        int
		ideasPerUser int
		prefix       string
		registryOnly bool
		outputJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Args:  cobra.NoArgs,
		Short: "Seed the service registry and demo users, ideas and comments",
		Long: `Seed writes the default service catalogue and, unless --registry-only
is given, demo users with ideas and comments. Every seeded user signs in
with the password "` + service.SeedPassword + `".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			seeder := service.NewSeederService(service.SeederServiceConfig{
				Users:    repository.NewUserRepository(db),
				Ideas:    repository.NewIdeaRepository(db),
				Comments: repository.NewCommentRepository(db),
				Registry: service.NewRegistryService(repository.NewRegistryRepository(db)),
			})

			out := cmd.OutOrStdout()
			if registryOnly {
				n, err := seeder.SeedRegistry(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Registered %d services\n", n)
				return nil
			}

			result, err := seeder.Seed(ctx, service.SeedRequest{
				Users:        users,
				IdeasPerUser: ideasPerUser,
				Prefix:       prefix,
			})
			if err != nil {
				return err
			}

			if outputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprintf(out, "Seeded %d services, %d users, %d ideas, %d comments in %dms\n",
				result.Services, result.Users, result.Ideas, result.Comments, result.Duration)
			return nil
		},
	}

	cmd.Flags().IntVarP(&users, "users", "u", 5, "number of demo users")
	cmd.Flags().IntVarP(&ideasPerUser, "ideas", "i", 3, "ideas per demo user")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "demo", "prefix for seeded usernames and emails")
	cmd.Flags().BoolVar(&registryOnly, "registry-only", false, "only write the service catalogue")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	return cmd
}
