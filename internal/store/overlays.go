package store

import (
	"github.com/jmylchreest/widgetdash/internal/model"
)

// ShowModal fills the modal slot, replacing any active modal without
// running its callbacks. It returns the new modal ID.
func (s *Store) ShowModal(spec model.ModalSpec) (string, error) {
	modal := &model.Modal{
		ID:           model.NewID(),
		Kind:         spec.Kind,
		Title:        spec.Title,
		Message:      spec.Message,
		Content:      spec.Content,
		ConfirmLabel: spec.ConfirmLabel,
		CancelLabel:  spec.CancelLabel,
		Dismissible:  spec.Dismissible == nil || *spec.Dismissible,
		OnConfirm:    spec.OnConfirm,
		OnCancel:     spec.OnCancel,
	}
	if modal.Kind == "" {
		modal.Kind = model.KindInfo
	}
	if modal.ConfirmLabel == "" {
		modal.ConfirmLabel = model.DefaultConfirmLabel
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrStoreClosed
	}

	if prev := s.state.Modal; prev != nil {
		s.applyLocked(func(st State) State {
			st.Modal = nil
			return st
		})
		s.notifyChange(ChangeEvent{Type: ChangeTypeModalClosed, ID: prev.ID, Reason: ReasonReplaced, Version: s.version})
	}

	s.applyLocked(func(st State) State {
		st.Modal = modal
		return st
	})
	s.notifyChange(ChangeEvent{Type: ChangeTypeModalShown, ID: modal.ID, Version: s.version})
	return modal.ID, nil
}

// CloseModal empties the modal slot without running callbacks.
// Closing an empty slot is a no-op.
func (s *Store) CloseModal() error {
	_, err := s.takeModal("", ReasonClosed, func(*model.Modal) bool { return true })
	return err
}

// ConfirmModal closes the modal and runs its confirm callback once.
// An empty id targets whichever modal is active; a stale id does nothing.
func (s *Store) ConfirmModal(id string) (bool, error) {
	m, err := s.takeModal(id, ReasonConfirmed, func(*model.Modal) bool { return true })
	if err != nil || m == nil {
		return false, err
	}
	if m.OnConfirm != nil {
		s.invoke("modal confirm", m.ID, m.OnConfirm)
	}
	return true, nil
}

// CancelModal closes the modal and runs its cancel callback once.
func (s *Store) CancelModal(id string) (bool, error) {
	m, err := s.takeModal(id, ReasonCancelled, func(*model.Modal) bool { return true })
	if err != nil || m == nil {
		return false, err
	}
	if m.OnCancel != nil {
		s.invoke("modal cancel", m.ID, m.OnCancel)
	}
	return true, nil
}

// DismissModal closes a dismissible modal from outside the dialog
// (backdrop or escape). Neither callback runs.
func (s *Store) DismissModal(id string) (bool, error) {
	m, err := s.takeModal(id, ReasonDismissed, func(m *model.Modal) bool { return m.Dismissible })
	if err != nil || m == nil {
		return false, err
	}
	return true, nil
}

// takeModal removes the active modal if it matches id and allow accepts it.
// The modal leaves the slot before any callback runs, so a second
// confirm or cancel for the same modal finds nothing.
func (s *Store) takeModal(id string, reason Reason, allow func(*model.Modal) bool) (*model.Modal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	m := s.state.Modal
	if m == nil || (id != "" && m.ID != id) || !allow(m) {
		return nil, nil
	}

	s.applyLocked(func(st State) State {
		st.Modal = nil
		return st
	})
	s.notifyChange(ChangeEvent{Type: ChangeTypeModalClosed, ID: m.ID, Reason: reason, Version: s.version})
	return m, nil
}

// ShowBanner fills the banner slot, replacing any active banner.
func (s *Store) ShowBanner(spec model.BannerSpec) (string, error) {
	banner := &model.Banner{
		ID:          model.NewID(),
		Kind:        spec.Kind,
		Title:       spec.Title,
		Message:     spec.Message,
		Action:      spec.Action,
		Dismissible: spec.Dismissible == nil || *spec.Dismissible,
	}
	if banner.Kind == "" {
		banner.Kind = model.KindInfo
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrStoreClosed
	}

	if prev := s.state.Banner; prev != nil {
		s.applyLocked(func(st State) State {
			st.Banner = nil
			return st
		})
		s.notifyChange(ChangeEvent{Type: ChangeTypeBannerClosed, ID: prev.ID, Reason: ReasonReplaced, Version: s.version})
	}

	s.applyLocked(func(st State) State {
		st.Banner = banner
		return st
	})
	s.notifyChange(ChangeEvent{Type: ChangeTypeBannerShown, ID: banner.ID, Version: s.version})
	return banner.ID, nil
}

// CloseBanner empties the banner slot regardless of Dismissible.
func (s *Store) CloseBanner() error {
	_, err := s.takeBanner("", ReasonClosed, func(*model.Banner) bool { return true })
	return err
}

// DismissBanner is the user-facing close. It only works on dismissible
// banners, and an empty id targets the active one.
func (s *Store) DismissBanner(id string) (bool, error) {
	b, err := s.takeBanner(id, ReasonDismissed, func(b *model.Banner) bool { return b.Dismissible })
	return b != nil, err
}

// InvokeBannerAction runs the banner action. The banner stays up.
func (s *Store) InvokeBannerAction(id string) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrStoreClosed
	}
	b := s.state.Banner
	s.mu.Unlock()

	if b == nil || (id != "" && b.ID != id) || b.Action == nil || b.Action.Invoke == nil {
		return false, nil
	}
	s.invoke("banner action", b.ID, b.Action.Invoke)
	return true, nil
}

func (s *Store) takeBanner(id string, reason Reason, allow func(*model.Banner) bool) (*model.Banner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	b := s.state.Banner
	if b == nil || (id != "" && b.ID != id) || !allow(b) {
		return nil, nil
	}

	s.applyLocked(func(st State) State {
		st.Banner = nil
		return st
	})
	s.notifyChange(ChangeEvent{Type: ChangeTypeBannerClosed, ID: b.ID, Reason: reason, Version: s.version})
	return b, nil
}
