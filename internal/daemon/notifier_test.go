package daemon

import (
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/widgetdash/internal/model"
)

type recordingToaster struct {
	mu    sync.Mutex
	specs []model.ToastSpec
	err   error
}

func (r *recordingToaster) AddToast(spec model.ToastSpec) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	r.specs = append(r.specs, spec)
	return model.NewID(), nil
}

func (r *recordingToaster) all() []model.ToastSpec {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.ToastSpec(nil), r.specs...)
}

func TestNotificationLevelKind(t *testing.T) {
	assert.Equal(t, model.KindInfo, NotificationLevelInfo.Kind())
	assert.Equal(t, model.KindSuccess, NotificationLevelSuccess.Kind())
	assert.Equal(t, model.KindWarning, NotificationLevelWarning.Kind())
	assert.Equal(t, model.KindError, NotificationLevelError.Kind())
}

func TestInternalNotifier_Notify(t *testing.T) {
	toaster := &recordingToaster{}
	n := NewInternalNotifier(toaster, nil)

	assert.True(t, n.Notify("k", "Title", "Body", NotificationLevelWarning))

	specs := toaster.all()
	require.Len(t, specs, 1)
	assert.Equal(t, model.KindWarning, specs[0].Kind)
	assert.Equal(t, "Title", specs[0].Title)
	assert.Equal(t, "Body", specs[0].Message)
	require.NotNil(t, specs[0].Duration)
	assert.Equal(t, internalToastDuration, *specs[0].Duration)
}

func TestInternalNotifier_RateLimit(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		toaster := &recordingToaster{}
		n := NewInternalNotifier(toaster, nil)
		n.SetMinInterval(5 * time.Second)

		assert.True(t, n.Notify("config-reload", "a", "", NotificationLevelInfo))
		assert.False(t, n.Notify("config-reload", "b", "", NotificationLevelInfo))
		// Other keys are limited independently
		assert.True(t, n.Notify("startup", "c", "", NotificationLevelInfo))

		time.Sleep(5 * time.Second)
		assert.True(t, n.Notify("config-reload", "d", "", NotificationLevelInfo))

		var titles []string
		for _, s := range toaster.all() {
			titles = append(titles, s.Title)
		}
		assert.Equal(t, []string{"a", "c", "d"}, titles)
	})
}

func TestInternalNotifier_Disabled(t *testing.T) {
	toaster := &recordingToaster{}
	n := NewInternalNotifier(toaster, nil)
	n.SetEnabled(false)

	assert.False(t, n.Notify("k", "x", "", NotificationLevelInfo))
	assert.Empty(t, toaster.all())

	assert.False(t, NewInternalNotifier(nil, nil).Notify("k", "x", "", NotificationLevelInfo))
}

func TestInternalNotifier_ToasterError(t *testing.T) {
	toaster := &recordingToaster{err: errors.New("closed")}
	n := NewInternalNotifier(toaster, nil)
	assert.False(t, n.Notify("k", "x", "", NotificationLevelInfo))
}

func TestInternalNotifier_Helpers(t *testing.T) {
	toaster := &recordingToaster{}
	n := NewInternalNotifier(toaster, nil)

	n.NotifyConfigReloaded()
	n.NotifyConfigError(errors.New("bad position"))
	n.NotifyThemeReloaded("ocean")
	n.NotifyPositionChanged(model.PositionTopLeft)
	n.NotifyStartup("1.0.0", []string{"dbus", "http"})

	specs := toaster.all()
	require.Len(t, specs, 5)
	assert.Equal(t, model.KindSuccess, specs[0].Kind)
	assert.Equal(t, model.KindError, specs[1].Kind)
	assert.Contains(t, specs[1].Message, "bad position")
	assert.Contains(t, specs[2].Message, "ocean")
	assert.Contains(t, specs[3].Message, "top-left")
	assert.Contains(t, specs[4].Message, "dbus, http")
}
