package commands

import (
	"encoding/json"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/ideahub/api/internal/model"
	"github.com/ideahub/api/pkg/jwt"
)

type tokenOptions struct {
	keyPath string
	userID  string
	email   string
	role    string
	issuer  string
	expMins int
	json    bool
}

func newTokenCommand() *cobra.Command {
	opts := tokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Args:  cobra.NoArgs,
		Short: "Mint an access token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			jwtService, err := jwt.NewService(jwt.Config{
				PrivateKeyPath: opts.keyPath,
				Issuer:         opts.issuer,
				ExpirationMins: opts.expMins,
			})
			if err != nil {
				return fmt.Errorf("%w (generate keys with: ideahub keys)", err)
			}

			expires := time.Now().Add(time.Duration(opts.expMins) * time.Minute)
			token, err := jwtService.Sign(jwt.Claims{
				Email: opts.email,
				Role:  opts.role,
				RegisteredClaims: jwtlib.RegisteredClaims{
					Subject:   opts.userID,
					ExpiresAt: jwtlib.NewNumericDate(expires),
				},
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"accessToken": token,
					"tokenType":   "Bearer",
					"expiresIn":   opts.expMins * 60,
					"userId":      opts.userID,
					"email":       opts.email,
					"role":        opts.role,
				})
			}

			fmt.Fprintf(out, "User ID:  %s\n", opts.userID)
			fmt.Fprintf(out, "Email:    %s\n", opts.email)
			fmt.Fprintf(out, "Role:     %s\n", opts.role)
			fmt.Fprintf(out, "Expires:  %s\n\n", expires.Format(time.RFC3339))
			fmt.Fprintln(out, token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.keyPath, "key", "k", "./keys/private.pem", "path to the JWT private key")
	cmd.Flags().StringVarP(&opts.userID, "user", "u", "user:dev", "user id (token subject)")
	cmd.Flags().StringVarP(&opts.email, "email", "e", "dev@ideahub.dev", "email claim")
	cmd.Flags().StringVar(&opts.role, "role", string(model.UserRoleUser), "role claim (USER or ADMIN)")
	cmd.Flags().StringVar(&opts.issuer, "issuer", "ideahub", "issuer; must match JWT_ISSUER")
	cmd.Flags().IntVar(&opts.expMins, "exp", 60*24, "expiration in minutes")
	cmd.Flags().BoolVar(&opts.json, "json", false, "output as JSON")
	return cmd
}
