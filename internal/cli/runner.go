package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/longread/internal/log"
	"github.com/idilsaglam/longread/internal/model"
	"github.com/idilsaglam/longread/internal/store/history"
	"github.com/idilsaglam/longread/internal/store/jsonstore"
	"github.com/idilsaglam/longread/internal/ui"
)

func (o *RootOptions) store() (jsonstore.Store, error) {
	return jsonstore.New(o.cfg.File)
}

// load reads the document every editing command works on.
func (o *RootOptions) load() (jsonstore.Store, model.Document, error) {
	s, err := o.store()
	if err != nil {
		return jsonstore.Store{}, model.Document{}, err
	}
	doc, err := s.Load()
	if errors.Is(err, jsonstore.ErrNotExist) {
		return s, doc, fmt.Errorf("no longread at %s: run `longread new` or `longread pull <id>` first", s.Path)
	}
	return s, doc, err
}

// commit saves doc when a transition changed it and reports msg. An
// unchanged document is not written.
func (o *RootOptions) commit(cmd *cobra.Command, s jsonstore.Store, doc model.Document, changed bool, msg string) error {
	if !changed {
		ui.Note(cmd.OutOrStdout(), "nothing to do")
		return nil
	}
	if err := o.save(cmd, s, doc); err != nil {
		return err
	}
	ui.OK(cmd.OutOrStdout(), msg)
	return nil
}

// save writes doc and records a revision of it. A history failure does not
// fail the save.
func (o *RootOptions) save(cmd *cobra.Command, s jsonstore.Store, doc model.Document) error {
	if err := s.Save(doc); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	h, err := history.Open(cmd.Context(), o.cfg.HistoryPath)
	if err != nil {
		log.Get().Warn("history unavailable", zap.Error(err))
		return nil
	}
	defer h.Close()
	if _, err := h.Record(cmd.Context(), s.Path, doc); err != nil {
		log.Get().Warn("revision not recorded", zap.Error(err))
	}
	return nil
}
