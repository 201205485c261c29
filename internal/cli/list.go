package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/longread/internal/document"
	"github.com/idilsaglam/longread/internal/ids"
	"github.com/idilsaglam/longread/internal/listengine"
	"github.com/idilsaglam/longread/internal/model"
	"github.com/idilsaglam/longread/internal/store/jsonstore"
	"github.com/idilsaglam/longread/internal/tui"
)

var (
	errLastItem = errors.New("the last item cannot be deleted")
	errTooDeep  = errors.New("sub-items only go one level deep")
)

// listTarget is a list block resolved from the command line, with the
// document it lives in.
type listTarget struct {
	store jsonstore.Store
	doc   model.Document
	list  model.List
}

func (o *RootOptions) loadList(ref string) (listTarget, error) {
	s, doc, err := o.load()
	if err != nil {
		return listTarget{}, err
	}
	l, err := document.ResolveList(doc, ref)
	if err != nil {
		return listTarget{}, err
	}
	return listTarget{store: s, doc: doc, list: l}, nil
}

// commitList stores a list engine result back into the document and saves.
func (o *RootOptions) commitList(cmd *cobra.Command, t listTarget, next model.List, changed bool, msg string) error {
	if !changed {
		return o.commit(cmd, t.store, t.doc, false, msg)
	}
	doc, changed := document.ChangeList(t.doc, next)
	return o.commit(cmd, t.store, doc, changed, msg)
}

func NewListCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Edit the items of a list block",
		Long: `Lists are addressed like blocks; items by id or a unique id prefix
as shown by "longread show".`,
	}
	cmd.AddCommand(newListTitleCommand(opts))
	cmd.AddCommand(newListAddCommand(opts))
	cmd.AddCommand(newListSetCommand(opts))
	cmd.AddCommand(newListOrderedCommand(opts))

	itemOps := []struct {
		use, short string
		apply      func(model.List, model.ListItem) (model.List, bool)
		done       string
	}{
		{"after", "Add an empty item right after another one", listengine.AddItemAfter, "added"},
		{"up", "Move an item above its previous sibling", listengine.MoveUp, "moved up"},
		{"down", "Move an item below its next sibling", listengine.MoveDown, "moved down"},
		{"rm", "Remove an item and its sub-items", listengine.DeleteItem, "removed"},
	}
	for _, op := range itemOps {
		op := op
		cmd.AddCommand(&cobra.Command{
			Use:   op.use + " <list> <item>",
			Short: op.short,
			Args:  usageArgs(cobra.ExactArgs(2)),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := opts.loadList(args[0])
				if err != nil {
					return err
				}
				it, err := document.ResolveItem(t.list, args[1])
				if err != nil {
					return err
				}
				if op.use == "rm" && isLastTopLevel(t.list, it) {
					return errLastItem
				}
				next, changed := op.apply(t.list, it)
				return opts.commitList(cmd, t, next, changed, op.done)
			},
		})
	}
	return cmd
}

func isLastTopLevel(l model.List, it model.ListItem) bool {
	return it.ParentID == l.ID && len(listengine.Children(l, l.ID)) == 1
}

func newListTitleCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "title <list> <text...>",
		Short: "Set the list title",
		Args:  usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.loadList(args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")
			return opts.commitList(cmd, t, listengine.ChangeTitle(t.list, title), title != t.list.Title, "updated")
		},
	}
}

func newListAddCommand(opts *RootOptions) *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "add <list>",
		Short: "Append an empty item, at the top level or under --parent",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.loadList(args[0])
			if err != nil {
				return err
			}
			parentID := ""
			if parent != "" {
				p, err := document.ResolveItem(t.list, parent)
				if err != nil {
					return err
				}
				if listengine.Depth(t.list, p) != 1 {
					return errTooDeep
				}
				parentID = p.ID
			}
			next := listengine.AddItem(t.list, parentID)
			added := next.Items[len(next.Items)-1]
			return opts.commitList(cmd, t, next, true, "added item "+ids.Short(added.ID))
		},
	}
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "add as a sub-item of this top-level item")
	return cmd
}

func newListSetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <list> <item> <text...>",
		Short: "Set the text of an item",
		Args:  usageArgs(cobra.MinimumNArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.loadList(args[0])
			if err != nil {
				return err
			}
			it, err := document.ResolveItem(t.list, args[1])
			if err != nil {
				return err
			}
			value := strings.Join(args[2:], " ")
			if value == it.Value {
				return opts.commitList(cmd, t, t.list, false, "")
			}
			next, changed := listengine.ChangeValue(t.list, it, value)
			return opts.commitList(cmd, t, next, changed, "updated")
		},
	}
}

func newListOrderedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ordered <list> <true|false>",
		Short: "Switch between numbered and bulleted items",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ordered, err := strconv.ParseBool(args[1])
			if err != nil {
				return usageError(fmt.Errorf("ordered: want true or false, got %q", args[1]))
			}
			t, err := opts.loadList(args[0])
			if err != nil {
				return err
			}
			next := t.list
			next.Settings.Ordered = ordered
			return opts.commitList(cmd, t, next, ordered != t.list.Settings.Ordered, "updated")
		},
	}
}

func NewEditCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <list>",
		Short: "Edit a list block interactively",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.loadList(args[0])
			if err != nil {
				return err
			}
			next, changed, err := tui.Run(t.list)
			if err != nil {
				return fmt.Errorf("editor: %w", err)
			}
			return opts.commitList(cmd, t, next, changed, "saved")
		},
	}
}
