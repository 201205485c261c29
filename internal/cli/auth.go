package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/longread/internal/auth"
	"github.com/idilsaglam/longread/internal/ui"
)

func NewAuthCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the backend API token",
	}
	cmd.AddCommand(newAuthLoginCommand(opts))
	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (auth.Store{Dir: opts.cfg.Dir}).Delete(); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "logged out")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from and when it expires",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ti, err := auth.Store{Dir: opts.cfg.Dir}.Get()
			if err != nil {
				return err
			}
			if ti == nil {
				ui.Note(cmd.OutOrStdout(), "not logged in")
				return nil
			}
			lines := []string{"token from " + ti.Source}
			if ti.ExpiresAt != nil {
				state := "expires"
				if ti.ExpiresAt.Before(time.Now()) {
					state = "expired"
				}
				lines = append(lines, state+" "+ti.ExpiresAt.Local().Format(time.RFC1123))
			}
			ui.Panel(cmd.OutOrStdout(), lines)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Decode the token's claims (not verified)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ti, err := auth.Store{Dir: opts.cfg.Dir}.Require()
			if err != nil {
				return err
			}
			claims, err := auth.Claims(ti.Token)
			if err != nil {
				return fmt.Errorf("token is not a JWT: %w", err)
			}
			b, err := json.MarshalIndent(claims, "", "  ")
			if err != nil {
				return fmt.Errorf("token claims: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	})
	return cmd
}

func newAuthLoginCommand(opts *RootOptions) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API token (read from stdin unless --token is given)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "token: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read token: %w", err)
				}
				token = strings.TrimSpace(line)
			}
			if err := (auth.Store{Dir: opts.cfg.Dir}).Set(token, nil); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "token saved")
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "API token")
	return cmd
}
