package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_PublishInSubscriptionOrder(t *testing.T) {
	var h Hub[int]
	var got []string

	h.Subscribe(func(e int) { got = append(got, "a") })
	h.Subscribe(func(e int) { got = append(got, "b") })

	h.Publish(1)

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestHub_Unsubscribe(t *testing.T) {
	var h Hub[string]
	calls := 0

	unsub := h.Subscribe(func(string) { calls++ })
	h.Publish("x")
	unsub()
	unsub() // second call is a no-op
	h.Publish("y")

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, h.Len())
}

func TestHub_ZeroValuePublish(t *testing.T) {
	var h Hub[struct{}]
	assert.NotPanics(t, func() { h.Publish(struct{}{}) })
}

func TestNoticeConstructors(t *testing.T) {
	assert.Equal(t, Notice{Level: LevelSuccess, Message: "ok"}, Success("ok"))
	assert.Equal(t, LevelError, Error("bad").Level)
	assert.Equal(t, LevelInfo, Info("hi").Level)
}
