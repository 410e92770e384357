package commands

import (
	"bytes"
	"strings"
	"testing"

	"cureconnect/internal/chatbot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCommand(t *testing.T) {
	cmd := newChatCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	cmd.SetIn(strings.NewReader("I have a fever\n\nquit\nnever read\n"))

	require.NoError(t, cmd.Execute())

	text := out.String()
	assert.Contains(t, text, "bot> "+chatbot.WelcomeMessage)
	assert.Contains(t, text, "bot> "+chatbot.Respond("fever"))
	assert.NotContains(t, text, "never read")
}
