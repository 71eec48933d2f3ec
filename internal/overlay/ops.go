package overlay

import (
	"time"

	"github.com/jmylchreest/widgetdash/internal/model"
	"github.com/jmylchreest/widgetdash/internal/store"
)

// AddToast raises a toast and returns its ID.
func (sc *Scope) AddToast(spec model.ToastSpec) (string, error) {
	s, err := sc.live()
	if err != nil {
		return "", err
	}
	id, err := s.AddToast(spec)
	return id, translate(err)
}

// RemoveToast dismisses a toast. Unknown IDs are ignored.
func (sc *Scope) RemoveToast(id string) (bool, error) {
	return sc.CloseToast(id, store.ReasonDismissed)
}

// CloseToast removes a toast with an explicit reason.
func (sc *Scope) CloseToast(id string, reason store.Reason) (bool, error) {
	s, err := sc.live()
	if err != nil {
		return false, err
	}
	ok, err := s.CloseToast(id, reason)
	return ok, translate(err)
}

// ClearToasts removes every toast.
func (sc *Scope) ClearToasts() (int, error) {
	s, err := sc.live()
	if err != nil {
		return 0, err
	}
	n, err := s.ClearToasts()
	return n, translate(err)
}

// InvokeToastAction runs a toast's action button.
func (sc *Scope) InvokeToastAction(id string) (bool, error) {
	s, err := sc.live()
	if err != nil {
		return false, err
	}
	ok, err := s.InvokeToastAction(id)
	return ok, translate(err)
}

// ShowModal opens the modal, replacing any current one.
func (sc *Scope) ShowModal(spec model.ModalSpec) (string, error) {
	s, err := sc.live()
	if err != nil {
		return "", err
	}
	id, err := s.ShowModal(spec)
	return id, translate(err)
}

// CloseModal closes the modal without running callbacks.
func (sc *Scope) CloseModal() error {
	s, err := sc.live()
	if err != nil {
		return err
	}
	return translate(s.CloseModal())
}

// ConfirmModal confirms the modal with the given ID ("" for the active one).
func (sc *Scope) ConfirmModal(id string) (bool, error) {
	s, err := sc.live()
	if err != nil {
		return false, err
	}
	ok, err := s.ConfirmModal(id)
	return ok, translate(err)
}

// CancelModal cancels the modal with the given ID ("" for the active one).
func (sc *Scope) CancelModal(id string) (bool, error) {
	s, err := sc.live()
	if err != nil {
		return false, err
	}
	ok, err := s.CancelModal(id)
	return ok, translate(err)
}

// DismissModal is a backdrop click.
func (sc *Scope) DismissModal(id string) (bool, error) {
	s, err := sc.live()
	if err != nil {
		return false, err
	}
	ok, err := s.DismissModal(id)
	return ok, translate(err)
}

// ShowBanner sets the banner, replacing any current one.
func (sc *Scope) ShowBanner(spec model.BannerSpec) (string, error) {
	s, err := sc.live()
	if err != nil {
		return "", err
	}
	id, err := s.ShowBanner(spec)
	return id, translate(err)
}

// CloseBanner clears the banner.
func (sc *Scope) CloseBanner() error {
	s, err := sc.live()
	if err != nil {
		return err
	}
	return translate(s.CloseBanner())
}

// DismissBanner closes a dismissible banner.
func (sc *Scope) DismissBanner(id string) (bool, error) {
	s, err := sc.live()
	if err != nil {
		return false, err
	}
	ok, err := s.DismissBanner(id)
	return ok, translate(err)
}

// InvokeBannerAction runs the banner's action button.
func (sc *Scope) InvokeBannerAction(id string) (bool, error) {
	s, err := sc.live()
	if err != nil {
		return false, err
	}
	ok, err := s.InvokeBannerAction(id)
	return ok, translate(err)
}

// SetToastPosition moves the toast stack.
func (sc *Scope) SetToastPosition(p model.Position) error {
	s, err := sc.live()
	if err != nil {
		return err
	}
	return translate(s.SetToastPosition(p))
}

// ToastPosition returns the current anchor.
func (sc *Scope) ToastPosition() (model.Position, error) {
	s, err := sc.live()
	if err != nil {
		return "", err
	}
	return s.Position(), nil
}

// SetDefaultDuration changes the default for toasts raised from now on.
// Zero or negative restores model.DefaultToastDuration, as in Open.
func (sc *Scope) SetDefaultDuration(d time.Duration) error {
	s, err := sc.live()
	if err != nil {
		return err
	}
	s.SetDefaultDuration(defaultDuration(d))
	return nil
}

// Snapshot returns a read-only copy of the overlay state.
func (sc *Scope) Snapshot() (store.Snapshot, error) {
	s, err := sc.live()
	if err != nil {
		return store.Snapshot{}, err
	}
	return s.Snapshot(), nil
}

// Subscribe returns a channel of change events. The channel closes when
// the scope closes.
func (sc *Scope) Subscribe() (<-chan store.ChangeEvent, error) {
	s, err := sc.live()
	if err != nil {
		return nil, err
	}
	return s.Subscribe(), nil
}

// Unsubscribe ends a subscription.
func (sc *Scope) Unsubscribe(ch <-chan store.ChangeEvent) {
	if sc == nil || sc.store == nil {
		return
	}
	sc.store.Unsubscribe(ch)
}
