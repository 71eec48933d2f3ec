package store

import (
	"testing"

	"github.com/jmylchreest/widgetdash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ShowModal_Defaults(t *testing.T) {
	s := NewStore()
	defer s.Close()

	id, err := s.ShowModal(model.ModalSpec{Title: "Hello", Message: "World"})
	require.NoError(t, err)

	m := s.Snapshot().Modal
	require.NotNil(t, m)
	assert.Equal(t, id, m.ID)
	assert.Equal(t, model.DefaultConfirmLabel, m.ConfirmLabel)
	assert.True(t, m.Dismissible)
	assert.False(t, m.HasCancel())
	assert.Equal(t, model.KindInfo, m.Kind)
}

func TestStore_ConfirmModal(t *testing.T) {
	s := NewStore()
	defer s.Close()

	var confirmed, cancelled int
	id, _ := s.ShowModal(model.ModalSpec{
		Kind:        model.KindConfirm,
		Title:       "Delete?",
		CancelLabel: "Cancel",
		OnConfirm:   func() { confirmed++ },
		OnCancel:    func() { cancelled++ },
	})

	ok, err := s.ConfirmModal(id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, s.Snapshot().Modal)
	assert.Equal(t, 1, confirmed)

	// Neither a repeat confirm nor a cancel reaches the closed modal.
	ok, _ = s.ConfirmModal(id)
	assert.False(t, ok)
	ok, _ = s.CancelModal(id)
	assert.False(t, ok)
	assert.Equal(t, 1, confirmed)
	assert.Equal(t, 0, cancelled)
}

func TestStore_CancelModal(t *testing.T) {
	s := NewStore()
	defer s.Close()

	var confirmed, cancelled int
	_, _ = s.ShowModal(model.ModalSpec{
		Title:       "Leave?",
		CancelLabel: "Stay",
		OnConfirm:   func() { confirmed++ },
		OnCancel:    func() { cancelled++ },
	})

	ok, err := s.CancelModal("")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, confirmed)
	assert.Equal(t, 1, cancelled)
	assert.Nil(t, s.Snapshot().Modal)
}

func TestStore_ConfirmModal_StaleID(t *testing.T) {
	s := NewStore()
	defer s.Close()

	var first, second int
	oldID, _ := s.ShowModal(model.ModalSpec{Title: "first", OnConfirm: func() { first++ }})
	newID, _ := s.ShowModal(model.ModalSpec{Title: "second", OnConfirm: func() { second++ }})

	ok, err := s.ConfirmModal(oldID)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NotNil(t, s.Snapshot().Modal)
	assert.Equal(t, newID, s.Snapshot().Modal.ID)
	assert.Equal(t, 0, first)
	assert.Equal(t, 0, second)
}

func TestStore_ShowModal_ReplacesWithoutCallbacks(t *testing.T) {
	s := NewStore()
	defer s.Close()

	events := s.Subscribe()
	called := false
	firstID, _ := s.ShowModal(model.ModalSpec{
		Title:     "first",
		OnConfirm: func() { called = true },
		OnCancel:  func() { called = true },
	})
	_, _ = s.ShowModal(model.ModalSpec{Title: "second"})

	assert.Equal(t, "second", s.Snapshot().Modal.Title)
	assert.False(t, called)

	<-events // first shown
	ev := <-events
	assert.Equal(t, ChangeTypeModalClosed, ev.Type)
	assert.Equal(t, firstID, ev.ID)
	assert.Equal(t, ReasonReplaced, ev.Reason)
}

func TestStore_DismissModal(t *testing.T) {
	tests := []struct {
		name        string
		dismissible *bool
		wantClosed  bool
	}{
		{"default dismissible", nil, true},
		{"explicitly dismissible", model.Bool(true), true},
		{"not dismissible", model.Bool(false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			defer s.Close()

			called := false
			id, _ := s.ShowModal(model.ModalSpec{
				Title:       "x",
				Dismissible: tt.dismissible,
				OnConfirm:   func() { called = true },
				OnCancel:    func() { called = true },
			})

			ok, err := s.DismissModal(id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantClosed, ok)
			assert.Equal(t, tt.wantClosed, s.Snapshot().Modal == nil)
			assert.False(t, called)
		})
	}
}

func TestStore_CloseModal(t *testing.T) {
	s := NewStore()
	defer s.Close()

	require.NoError(t, s.CloseModal())

	called := false
	_, _ = s.ShowModal(model.ModalSpec{Title: "x", Dismissible: model.Bool(false), OnCancel: func() { called = true }})
	require.NoError(t, s.CloseModal())
	assert.Nil(t, s.Snapshot().Modal)
	assert.False(t, called)
}

func TestStore_ConfirmCallbackCanShowModal(t *testing.T) {
	s := NewStore()
	defer s.Close()

	_, _ = s.ShowModal(model.ModalSpec{
		Title: "step 1",
		OnConfirm: func() {
			_, _ = s.ShowModal(model.ModalSpec{Title: "step 2"})
		},
	})

	ok, err := s.ConfirmModal("")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotNil(t, s.Snapshot().Modal)
	assert.Equal(t, "step 2", s.Snapshot().Modal.Title)
}

func TestStore_CallbackPanicIsContained(t *testing.T) {
	s := NewStore()
	defer s.Close()

	_, _ = s.ShowModal(model.ModalSpec{Title: "x", OnConfirm: func() { panic("boom") }})

	assert.NotPanics(t, func() {
		ok, err := s.ConfirmModal("")
		require.NoError(t, err)
		assert.True(t, ok)
	})
	assert.Nil(t, s.Snapshot().Modal)
}

func TestStore_ShowBanner_Replaces(t *testing.T) {
	s := NewStore()
	defer s.Close()

	_, err := s.ShowBanner(model.BannerSpec{Kind: model.KindWarning, Message: "A"})
	require.NoError(t, err)
	id, err := s.ShowBanner(model.BannerSpec{Kind: model.KindInfo, Message: "B"})
	require.NoError(t, err)

	b := s.Snapshot().Banner
	require.NotNil(t, b)
	assert.Equal(t, id, b.ID)
	assert.Equal(t, "B", b.Message)
	assert.True(t, b.Dismissible)
}

func TestStore_DismissBanner(t *testing.T) {
	s := NewStore()
	defer s.Close()

	id, _ := s.ShowBanner(model.BannerSpec{Message: "locked", Dismissible: model.Bool(false)})

	ok, err := s.DismissBanner(id)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotNil(t, s.Snapshot().Banner)

	// Programmatic close ignores Dismissible.
	require.NoError(t, s.CloseBanner())
	assert.Nil(t, s.Snapshot().Banner)

	id, _ = s.ShowBanner(model.BannerSpec{Message: "open"})
	ok, _ = s.DismissBanner("stale")
	assert.False(t, ok)
	ok, _ = s.DismissBanner(id)
	assert.True(t, ok)
	assert.Nil(t, s.Snapshot().Banner)
}

func TestStore_InvokeBannerAction(t *testing.T) {
	s := NewStore()
	defer s.Close()

	calls := 0
	id, _ := s.ShowBanner(model.BannerSpec{
		Message: "update available",
		Action:  &model.Action{Label: "Reload", Invoke: func() { calls++ }},
	})

	ok, err := s.InvokeBannerAction(id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, calls)
	assert.NotNil(t, s.Snapshot().Banner)

	ok, _ = s.InvokeBannerAction("stale")
	assert.False(t, ok)
	assert.Equal(t, 1, calls)
}

func TestStore_SlotsAreIndependent(t *testing.T) {
	s := NewStore()
	defer s.Close()

	_, _ = s.AddToast(model.ToastSpec{Message: "t", Duration: model.Persistent()})
	_, _ = s.ShowModal(model.ModalSpec{Title: "m"})
	_, _ = s.ShowBanner(model.BannerSpec{Message: "b"})

	require.NoError(t, s.CloseModal())
	snap := s.Snapshot()
	assert.Len(t, snap.Toasts, 1)
	assert.NotNil(t, snap.Banner)
}
