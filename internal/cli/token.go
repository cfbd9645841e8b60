package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"idea-analyzer/internal/auth"
)

func newTokenCmd(opts *options) *cobra.Command {
	var (
		user auth.User
		role string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development JWT",
		Long: `Token signs an HS256 JWT with JWT_SECRET for use against an API
running with AUTH_PROVIDER=jwt.

Example:
  ideactl token --sub founder-1 --role entrepreneur
  ideactl token --sub reviewer-7 --role mentor --ttl 2h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, ok := auth.ParseRole(role)
			if !ok {
				return fmt.Errorf("unknown role %q (want entrepreneur, mentor or admin)", role)
			}
			user.Role = parsed

			cfg := opts.config()
			svc, err := auth.NewJWTService(cfg.JWTSecret, cfg.Env)
			if err != nil {
				return err
			}
			token, err := svc.Issue(user, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(opts.out, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&user.ID, "sub", "", "subject (user ID)")
	cmd.Flags().StringVar(&user.Email, "email", "", "email claim")
	cmd.Flags().StringVar(&user.Name, "name", "", "name claim")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleEntrepreneur), "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
