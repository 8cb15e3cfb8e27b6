package mail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageFromHeader(t *testing.T) {
	m := New(Config{
		Host:        "smtp.example.com",
		Port:        587,
		Username:    "smtp-user",
		FromAddress: "reports@example.com",
		From:        "FinTrack",
		Enabled:     true,
	})

	msg := m.message("alice@example.com", "Subject", "<p>hi</p>")

	from := msg.GetHeader("From")
	require.Len(t, from, 1)
	require.Contains(t, from[0], "<reports@example.com>")
	require.Contains(t, from[0], "FinTrack")
	require.Equal(t, []string{"alice@example.com"}, msg.GetHeader("To"))
}

func TestMessageFromFallsBackToUsername(t *testing.T) {
	m := New(Config{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "reports@example.com",
		From:     "FinTrack",
		Enabled:  true,
	})

	msg := m.message("alice@example.com", "Subject", "<p>hi</p>")

	from := msg.GetHeader("From")
	require.Len(t, from, 1)
	require.Contains(t, from[0], "<reports@example.com>")
}

func TestSendDisabled(t *testing.T) {
	m := New(Config{Enabled: false})

	err := m.Send("alice@example.com", "Subject", "<p>hi</p>")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "disabled"))
}
