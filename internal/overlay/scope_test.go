package overlay

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/jmylchreest/widgetdash/internal/model"
	"github.com/jmylchreest/widgetdash/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrNotInitialized)

	sc := Open(Options{})
	defer sc.Close()

	ctx := WithScope(context.Background(), sc)
	got, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Same(t, sc, got)
	assert.Same(t, sc, MustFromContext(ctx))
}

func TestMustFromContext_Panics(t *testing.T) {
	assert.PanicsWithError(t, ErrNotInitialized.Error(), func() {
		MustFromContext(context.Background())
	})
}

func TestWithScope_Nested(t *testing.T) {
	outer := Open(Options{})
	defer outer.Close()
	inner := Open(Options{})
	defer inner.Close()

	ctx := WithScope(context.Background(), outer)
	assert.PanicsWithError(t, ErrNestedScope.Error(), func() {
		WithScope(ctx, inner)
	})
}

func TestNilScope(t *testing.T) {
	var sc *Scope

	_, err := sc.AddToast(model.ToastSpec{Message: "x"})
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = sc.ShowModal(model.ModalSpec{Title: "x"})
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = sc.ShowBanner(model.BannerSpec{Message: "x"})
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, sc.SetToastPosition(model.PositionTopLeft), ErrNotInitialized)
	_, err = sc.Snapshot()
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = sc.Subscribe()
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.NoError(t, sc.Close())
	assert.NotPanics(t, func() { sc.Unsubscribe(nil) })
}

func TestClosedScope(t *testing.T) {
	sc := Open(Options{})
	require.NoError(t, sc.Close())

	_, err := sc.AddToast(model.ToastSpec{Message: "x"})
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = sc.RemoveToast("x")
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = sc.ClearToasts()
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, sc.CloseModal(), ErrNotInitialized)
	assert.ErrorIs(t, sc.CloseBanner(), ErrNotInitialized)
	_, err = sc.ConfirmModal("")
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = sc.ToastPosition()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestOpen_Options(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		sc := Open(Options{DefaultDuration: time.Second, Position: model.PositionTopCenter})
		defer sc.Close()

		pos, err := sc.ToastPosition()
		require.NoError(t, err)
		assert.Equal(t, model.PositionTopCenter, pos)

		_, err = sc.AddToast(model.ToastSpec{Message: "quick"})
		require.NoError(t, err)

		time.Sleep(1001 * time.Millisecond)
		synctest.Wait()
		snap, err := sc.Snapshot()
		require.NoError(t, err)
		assert.Empty(t, snap.Toasts)
	})
}

// Mirrors how a widget uses the facade: it only holds a context.
func TestScope_ConsumerFlow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		sc := Open(Options{})
		defer sc.Close()
		ctx := WithScope(context.Background(), sc)

		events, err := MustFromContext(ctx).Subscribe()
		require.NoError(t, err)

		ov := MustFromContext(ctx)
		_, err = ov.AddToast(model.ToastSpec{Kind: model.KindSuccess, Message: "Saved"})
		require.NoError(t, err)

		confirmed := false
		_, err = ov.ShowModal(model.ModalSpec{
			Kind:        model.KindConfirm,
			Title:       "Delete?",
			CancelLabel: "Cancel",
			OnConfirm: func() {
				confirmed = true
				_, _ = ov.AddToast(model.ToastSpec{Kind: model.KindSuccess, Message: "Deleted"})
			},
		})
		require.NoError(t, err)

		ok, err := ov.ConfirmModal("")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, confirmed)

		snap, _ := ov.Snapshot()
		assert.Len(t, snap.Toasts, 2)
		assert.Nil(t, snap.Modal)

		require.NoError(t, ov.SetToastPosition(model.PositionTopLeft))

		time.Sleep(6 * time.Second)
		synctest.Wait()
		snap, _ = ov.Snapshot()
		assert.Empty(t, snap.Toasts)
		assert.Equal(t, model.PositionTopLeft, snap.Position)

		types := make(map[store.ChangeType]int)
		for len(events) > 0 {
			types[(<-events).Type]++
		}
		assert.Equal(t, 2, types[store.ChangeTypeToastAdded])
		assert.Equal(t, 2, types[store.ChangeTypeToastRemoved])
		assert.Equal(t, 1, types[store.ChangeTypeModalShown])
		assert.Equal(t, 1, types[store.ChangeTypeModalClosed])
		assert.Equal(t, 1, types[store.ChangeTypePositionChanged])
	})
}

func TestScope_UnsetDefaultDuration(t *testing.T) {
	sc := Open(Options{DefaultDuration: 2 * time.Second})
	t.Cleanup(func() { _ = sc.Close() })

	added := func() time.Duration {
		t.Helper()
		id, err := sc.AddToast(model.ToastSpec{Message: "x"})
		require.NoError(t, err)
		snap, err := sc.Snapshot()
		require.NoError(t, err)
		toast, ok := snap.Toast(id)
		require.True(t, ok)
		return toast.Duration
	}

	assert.Equal(t, 2*time.Second, added())

	require.NoError(t, sc.SetDefaultDuration(0))
	assert.Equal(t, model.DefaultToastDuration, added())

	require.NoError(t, sc.SetDefaultDuration(-time.Second))
	assert.Equal(t, model.DefaultToastDuration, added())

	require.NoError(t, sc.SetDefaultDuration(3*time.Second))
	assert.Equal(t, 3*time.Second, added())
}
