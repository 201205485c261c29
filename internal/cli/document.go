package cli

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/longread/internal/document"
	"github.com/idilsaglam/longread/internal/model"
	"github.com/idilsaglam/longread/internal/ui"
)

func NewNewCommand(opts *RootOptions) *cobra.Command {
	var (
		title string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new longread file",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.store()
			if err != nil {
				return err
			}
			if s.Exists() && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", s.Path)
			}
			if err := opts.save(cmd, s, document.New(title)); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "created "+s.Path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "longread title")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func NewShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the document with block and item ids",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, doc, err := opts.load()
			if err != nil {
				return err
			}
			ui.Panel(cmd.OutOrStdout(), ui.DocumentLines(doc))
			if fe := document.Validate(doc); fe.IsError {
				ui.Note(cmd.OutOrStdout(), "not ready to push: check "+strings.Join(fe.Fields(), ", "))
			}
			return nil
		},
	}
}

func NewPreviewCommand(opts *RootOptions) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the longread the way readers see it",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, doc, err := opts.load()
			if err != nil {
				return err
			}
			out := ui.Preview(doc, width)
			if out == "" {
				ui.Note(cmd.OutOrStdout(), "nothing to preview")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", 80, "wrap width")
	return cmd
}

func NewExportCommand(opts *RootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the longread as markdown",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, doc, err := opts.load()
			if err != nil {
				return err
			}
			md := ui.Markdown(doc)
			if output == "" || output == "-" {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			if err := os.WriteFile(output, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			ui.OK(cmd.OutOrStdout(), "exported to "+output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func NewMetaCommand(opts *RootOptions) *cobra.Command {
	var (
		title, description  string
		minutes             int
		reusable, googleUpd bool
	)
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Change the longread's form values",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, doc, err := opts.load()
			if err != nil {
				return err
			}
			next := doc
			flags := cmd.Flags()
			if flags.Changed("title") {
				if utf8.RuneCountInString(title) > model.MaxTitleLen {
					return usageError(fmt.Errorf("title is longer than %d characters", model.MaxTitleLen))
				}
				next.Title = title
			}
			if flags.Changed("description") {
				if utf8.RuneCountInString(description) > model.MaxDescrLen {
					return usageError(fmt.Errorf("description is longer than %d characters", model.MaxDescrLen))
				}
				next.InternalDescription = description
			}
			if flags.Changed("time") {
				if minutes <= 0 {
					return usageError(fmt.Errorf("time must be a positive number of minutes"))
				}
				next.ApproximateProgressTime = &minutes
			}
			if flags.Changed("reusable") {
				next.ReusableContentEnabled = reusable
			}
			if flags.Changed("google-link-updated") {
				next.IsGoogleLinkUpdated = googleUpd
			}
			return opts.commit(cmd, s, next, metaChanged(doc, next), "updated")
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "internal description")
	cmd.Flags().IntVar(&minutes, "time", 0, "approximate progress time in minutes")
	cmd.Flags().BoolVar(&reusable, "reusable", false, "enable reusable content")
	cmd.Flags().BoolVar(&googleUpd, "google-link-updated", false, "mark the google link as updated")
	return cmd
}

func metaChanged(a, b model.Document) bool {
	at, bt := 0, 0
	if a.ApproximateProgressTime != nil {
		at = *a.ApproximateProgressTime
	}
	if b.ApproximateProgressTime != nil {
		bt = *b.ApproximateProgressTime
	}
	return a.Title != b.Title ||
		a.InternalDescription != b.InternalDescription ||
		at != bt ||
		a.ReusableContentEnabled != b.ReusableContentEnabled ||
		a.IsGoogleLinkUpdated != b.IsGoogleLinkUpdated
}
