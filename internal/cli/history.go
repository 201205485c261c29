package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/longread/internal/store/history"
	"github.com/idilsaglam/longread/internal/ui"
)

func NewHistoryCommand(opts *RootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved revisions of the longread file",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.store()
			if err != nil {
				return err
			}
			h, err := history.Open(cmd.Context(), opts.cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer h.Close()

			revs, err := h.List(cmd.Context(), s.Path, limit)
			if err != nil {
				return err
			}
			if len(revs) == 0 {
				ui.Note(cmd.OutOrStdout(), "no revisions of "+s.Path)
				return nil
			}
			lines := make([]string, 0, len(revs))
			for _, r := range revs {
				title := ui.Inline(r.Title, 40)
				if title == "" {
					title = "(untitled)"
				}
				lines = append(lines, fmt.Sprintf("%s  %s  %s  %s",
					ui.Current().Accent.Render(fmt.Sprintf("%4d", r.ID)),
					ui.Current().Muted.Render(r.CreatedAt.Local().Format(time.DateTime)),
					title,
					ui.Current().Muted.Render(fmt.Sprintf("%d blocks", len(r.Document.Elements))),
				))
			}
			ui.Panel(cmd.OutOrStdout(), lines)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most this many revisions (0 for all)")
	return cmd
}

func NewRevertCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "revert <revision>",
		Short: "Restore the longread file to a saved revision",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return usageError(fmt.Errorf("revert: not a revision number: %q", args[0]))
			}
			s, err := opts.store()
			if err != nil {
				return err
			}
			h, err := history.Open(cmd.Context(), opts.cfg.HistoryPath)
			if err != nil {
				return err
			}
			rev, err := h.Get(cmd.Context(), id)
			h.Close()
			if err != nil {
				return err
			}
			if rev.Key != s.Path {
				return fmt.Errorf("revision %d belongs to %s", id, rev.Key)
			}
			if err := opts.save(cmd, s, rev.Document); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("reverted to revision %d (%d blocks)", id, len(rev.Document.Elements)))
			return nil
		},
	}
}
