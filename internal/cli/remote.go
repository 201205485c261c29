package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/longread/internal/api"
	"github.com/idilsaglam/longread/internal/auth"
	"github.com/idilsaglam/longread/internal/document"
	"github.com/idilsaglam/longread/internal/log"
	"github.com/idilsaglam/longread/internal/ui"
)

func (o *RootOptions) client(cmd *cobra.Command) (*api.Client, error) {
	ti, err := auth.Store{Dir: o.cfg.Dir}.Require()
	if err != nil {
		return nil, err
	}
	var apiOpts []api.Option
	if o.Verbose {
		apiOpts = append(apiOpts, api.WithDebug(cmd.ErrOrStderr()))
	}
	return api.New(o.cfg.APIURL, ti.Token, apiOpts...), nil
}

// reportAPIError prints a validation failure the backend explained and
// returns the error the command should fail with.
func reportAPIError(cmd *cobra.Command, err error, isNew bool) error {
	n, ok := api.NotificationFromError(err, isNew)
	if !ok {
		return err
	}
	lines := []string{ui.Current().Error.Render(n.Title)}
	for _, m := range n.Messages {
		lines = append(lines, "• "+m)
	}
	if n.Output != "" {
		lines = append(lines, "", ui.Current().Muted.Render(n.Output))
	}
	ui.Panel(cmd.ErrOrStderr(), lines)
	return errors.New(strings.ToLower(n.Title[:1]) + n.Title[1:])
}

func NewPushCommand(opts *RootOptions) *cobra.Command {
	var remoteID, lessonID int
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Create or update the longread on the backend",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, doc, err := opts.load()
			if err != nil {
				return err
			}
			if fe := document.Validate(doc); fe.IsError {
				return fmt.Errorf("cannot push: fix %s (see `longread show`)", strings.Join(fe.Fields(), ", "))
			}
			c, err := opts.client(cmd)
			if err != nil {
				return err
			}

			id := doc.RemoteID
			if cmd.Flags().Changed("id") {
				id = remoteID
			}
			if id != 0 {
				if _, err := c.Update(cmd.Context(), id, doc); err != nil {
					return reportAPIError(cmd, err, false)
				}
				log.Get().Debug("longread updated", zap.Int("id", id))
				doc.RemoteID = id
				if err := opts.save(cmd, s, doc); err != nil {
					return err
				}
				ui.OK(cmd.OutOrStdout(), fmt.Sprintf("saved longread #%d", id))
				return nil
			}

			var lesson *int
			if cmd.Flags().Changed("lesson") {
				lesson = &lessonID
			}
			resp, err := c.Create(cmd.Context(), lesson, doc)
			if err != nil {
				return reportAPIError(cmd, err, true)
			}
			doc.RemoteID = resp.Longread.ID
			if err := opts.save(cmd, s, doc); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("created longread #%d", doc.RemoteID))
			return nil
		},
	}
	cmd.Flags().IntVar(&remoteID, "id", 0, "backend id to update (default: the id of the last push)")
	cmd.Flags().IntVar(&lessonID, "lesson", 0, "attach a newly created longread to this lesson")
	return cmd
}

func NewPullCommand(opts *RootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "pull <id>",
		Short: "Fetch a longread from the backend into the local file",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return usageError(fmt.Errorf("pull: not a longread id: %q", args[0]))
			}
			s, err := opts.store()
			if err != nil {
				return err
			}
			if s.Exists() && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", s.Path)
			}
			c, err := opts.client(cmd)
			if err != nil {
				return err
			}
			doc, err := c.Fetch(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := opts.save(cmd, s, doc); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("pulled longread #%d into %s", id, s.Path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
