package cli

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/longread/internal/document"
	"github.com/idilsaglam/longread/internal/ids"
	"github.com/idilsaglam/longread/internal/model"
	"github.com/idilsaglam/longread/internal/store/jsonstore"
)

func NewBlockCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Add, fill in, move and remove blocks",
		Long: `Blocks are addressed by id, a unique id prefix as shown by
"longread show", or their 1-based position such as #2.`,
	}
	cmd.AddCommand(newBlockAddCommand(opts))
	cmd.AddCommand(newBlockSetCommand(opts))
	cmd.AddCommand(newBlockPanelCommand(opts))
	cmd.AddCommand(newBlockImageCommand(opts))
	cmd.AddCommand(newBlockVideoCommand(opts))
	cmd.AddCommand(newBlockMoveCommand(opts))

	simple := []struct {
		use, short string
		apply      func(model.Document, string) (model.Document, bool)
		done       string
	}{
		{"up", "Move a block one place up", document.Up, "moved up"},
		{"down", "Move a block one place down", document.Down, "moved down"},
		{"rm", "Remove a block", document.Delete, "removed"},
		{"copy", "Duplicate a block right after itself", document.Copy, "copied"},
	}
	for _, c := range simple {
		c := c
		cmd.AddCommand(&cobra.Command{
			Use:   c.use + " <block>",
			Short: c.short,
			Args:  usageArgs(cobra.ExactArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, doc, err := opts.load()
				if err != nil {
					return err
				}
				el, err := document.ResolveElement(doc, args[0])
				if err != nil {
					return err
				}
				next, changed := c.apply(doc, el.ID)
				return opts.commit(cmd, s, next, changed, c.done)
			},
		})
	}
	return cmd
}

func typeNames() string {
	names := make([]string, 0, len(model.ElementTypes))
	for _, t := range model.ElementTypes {
		names = append(names, string(t))
	}
	return strings.Join(names, "|")
}

func newBlockAddCommand(opts *RootOptions) *cobra.Command {
	var (
		after   string
		ordered bool
	)
	cmd := &cobra.Command{
		Use:   "add <" + typeNames() + ">",
		Short: "Add a block at the end, or after another block",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := model.ElementType(strings.ToLower(args[0]))
			if !t.Valid() {
				return usageError(fmt.Errorf("unknown block type %q: want one of %s", args[0], typeNames()))
			}
			s, doc, err := opts.load()
			if err != nil {
				return err
			}
			el := document.NewElement(t, document.Options{Ordered: ordered})

			next, changed := document.Add(doc, el), true
			if after != "" {
				anchor, err := document.ResolveElement(doc, after)
				if err != nil {
					return err
				}
				next, changed = document.AddAfter(doc, anchor.ID, el)
			}
			return opts.commit(cmd, s, next, changed, fmt.Sprintf("added %s block %s", t, ids.Short(el.ID)))
		},
	}
	cmd.Flags().StringVar(&after, "after", "", "insert after this block")
	cmd.Flags().BoolVar(&ordered, "ordered", false, "numbered list (list blocks)")
	return cmd
}

func newBlockSetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <block> <text...>",
		Short: "Set the content of a text or code block",
		Args:  usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, doc, err := opts.load()
			if err != nil {
				return err
			}
			el, err := document.ResolveElement(doc, args[0])
			if err != nil {
				return err
			}
			if el.Type != model.ElementText && el.Type != model.ElementCode {
				return fmt.Errorf("block %s is a %s block: only text and code blocks take a value", ids.Short(el.ID), el.Type)
			}
			value := strings.Join(args[1:], " ")
			if value == el.Value {
				return opts.commit(cmd, s, doc, false, "")
			}
			el.Value = value
			next, changed := document.Change(doc, el)
			return opts.commit(cmd, s, next, changed, "updated")
		},
	}
}

func newBlockMoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move <drag-block> <drop-block>",
		Short: "Move a block to the position of another one",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, doc, err := opts.load()
			if err != nil {
				return err
			}
			drag, err := document.ResolveElement(doc, args[0])
			if err != nil {
				return err
			}
			drop, err := document.ResolveElement(doc, args[1])
			if err != nil {
				return err
			}
			next, changed := document.Move(doc, drop.ID, drag.ID)
			return opts.commit(cmd, s, next, changed, "moved")
		},
	}
}

// loadBlock resolves ref and checks it is a block of type t.
func (o *RootOptions) loadBlock(ref string, t model.ElementType) (jsonstore.Store, model.Document, model.Element, error) {
	s, doc, err := o.load()
	if err != nil {
		return s, doc, model.Element{}, err
	}
	el, err := document.ResolveElement(doc, ref)
	if err != nil {
		return s, doc, el, err
	}
	if el.Type != t {
		return s, doc, el, fmt.Errorf("block %s is a %s block, not a %s block", ids.Short(el.ID), el.Type, t)
	}
	return s, doc, el, nil
}

// changeBlock stores el back into the document, or reports a no-op when
// no flag changed anything.
func (o *RootOptions) changeBlock(cmd *cobra.Command, s jsonstore.Store, doc model.Document, before, el model.Element) error {
	if reflect.DeepEqual(before, el) {
		return o.commit(cmd, s, doc, false, "")
	}
	next, changed := document.Change(doc, el)
	return o.commit(cmd, s, next, changed, "updated")
}

// anyChanged fails with a usage error when none of names was passed.
func anyChanged(cmd *cobra.Command, names ...string) error {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return nil
		}
	}
	return usageError(fmt.Errorf("nothing to set: pass --%s", strings.Join(names, ", --")))
}

var panelBackgrounds = []string{model.PanelGrey, model.PanelGreenBlue, model.PanelBlackFrame, model.PanelRedFrame}

func newBlockPanelCommand(opts *RootOptions) *cobra.Command {
	var badge, title, content, caption, background string
	fields := []string{"badge", "title", "content", "caption", "background"}
	cmd := &cobra.Command{
		Use:   "panel <block>",
		Short: "Set the fields of a panel block",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := anyChanged(cmd, fields...); err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("badge") && utf8.RuneCountInString(badge) > model.MaxPanelBadgeLen {
				return usageError(fmt.Errorf("badge is longer than %d characters", model.MaxPanelBadgeLen))
			}
			if flags.Changed("background") && !slices.Contains(panelBackgrounds, background) {
				return usageError(fmt.Errorf("unknown background %q: want one of %s", background, strings.Join(panelBackgrounds, "|")))
			}
			s, doc, el, err := opts.loadBlock(args[0], model.ElementPanel)
			if err != nil {
				return err
			}
			before := el
			for _, f := range []struct {
				name     string
				dst, src *string
			}{
				{"badge", &el.Badge, &badge},
				{"title", &el.Title, &title},
				{"content", &el.Content, &content},
				{"caption", &el.Caption, &caption},
			} {
				if flags.Changed(f.name) {
					*f.dst = *f.src
				}
			}
			if flags.Changed("background") {
				el.Settings.Background = background
			}
			return opts.changeBlock(cmd, s, doc, before, el)
		},
	}
	cmd.Flags().StringVar(&badge, "badge", "", "short label above the panel")
	cmd.Flags().StringVar(&title, "title", "", "panel title")
	cmd.Flags().StringVar(&content, "content", "", "panel body (HTML)")
	cmd.Flags().StringVar(&caption, "caption", "", "caption under the panel")
	cmd.Flags().StringVar(&background, "background", "", "one of "+strings.Join(panelBackgrounds, "|"))
	return cmd
}

func newBlockImageCommand(opts *RootOptions) *cobra.Command {
	var (
		url   string
		slot  int
		width int
		id    int
	)
	cmd := &cobra.Command{
		Use:   "image <block>",
		Short: "Set the picture of an image block",
		Long: `Image blocks hold one or more slots. --slot picks which one (1-based);
one past the last slot appends a new one.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := anyChanged(cmd, "url", "width", "image-id"); err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("width") && (width <= 0 || width > 100) {
				return usageError(fmt.Errorf("width must be a percentage between 1 and 100"))
			}
			s, doc, el, err := opts.loadBlock(args[0], model.ElementImage)
			if err != nil {
				return err
			}
			if slot < 1 || slot > len(el.Images)+1 {
				return usageError(fmt.Errorf("slot %d: block has %d image slots", slot, len(el.Images)))
			}
			before := el
			el.Images = slices.Clone(el.Images)
			if slot == len(el.Images)+1 {
				el.Images = append(el.Images, model.Image{})
			}
			img := &el.Images[slot-1]
			if flags.Changed("url") {
				img.URL = url
			}
			if flags.Changed("image-id") {
				img.ID = &id
			}
			if flags.Changed("width") {
				el.Settings.Width = width
			}
			return opts.changeBlock(cmd, s, doc, before, el)
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "image URL")
	cmd.Flags().IntVar(&slot, "slot", 1, "image slot to set")
	cmd.Flags().IntVar(&id, "image-id", 0, "backend id of an uploaded image")
	cmd.Flags().IntVar(&width, "width", 0, "width in percent")
	return cmd
}

func newBlockVideoCommand(opts *RootOptions) *cobra.Command {
	var title, videoID, url, description string
	fields := []string{"title", "video-id", "url", "description"}
	cmd := &cobra.Command{
		Use:   "video <block>",
		Short: "Point a video block at a lesson resource",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := anyChanged(cmd, fields...); err != nil {
				return err
			}
			s, doc, el, err := opts.loadBlock(args[0], model.ElementVideo)
			if err != nil {
				return err
			}
			before := el
			lr := model.LessonResource{}
			if el.LessonResource != nil {
				lr = *el.LessonResource
			}
			flags := cmd.Flags()
			if flags.Changed("title") {
				lr.Title = title
			}
			if flags.Changed("video-id") {
				lr.VideoID = videoID
			}
			if flags.Changed("url") {
				lr.URL = url
			}
			el.LessonResource = &lr
			if flags.Changed("description") {
				el.Description = description
			}
			return opts.changeBlock(cmd, s, doc, before, el)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "video title")
	cmd.Flags().StringVar(&videoID, "video-id", "", "lesson resource video id")
	cmd.Flags().StringVar(&url, "url", "", "video URL")
	cmd.Flags().StringVar(&description, "description", "", "text under the video")
	return cmd
}
