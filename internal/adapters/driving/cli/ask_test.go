package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [prompt]", askCmd.Use)
}

func TestAskCmd_SendsPrompt(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := chatService.(*mockChatService)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "what is a channel?"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "mock reply")
	require.Len(t, mock.sent, 1)
	assert.Equal(t, "what is a channel?", mock.sent[0])
}

func TestAskCmd_ModelOverride(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := chatService.(*mockChatService)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--model", "gpt-4o", "hi"})
	defer func() {
		rootCmd.SetArgs(nil)
		askModel = ""
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, "gpt-4o", mock.model)
}

func TestAskCmd_NoPrompt(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no prompt given")
}

func TestAskCmd_RendersTemplate(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := chatService.(*mockChatService)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{
		"ask", "--template", "coding_help",
		"--var", "language=Go",
		"--var", "question=how do channels work?",
	})
	defer func() {
		rootCmd.SetArgs(nil)
		askTemplate = ""
		askVars = nil
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	require.Len(t, mock.sent, 1)
	assert.Contains(t, mock.sent[0], "Go programming")
	assert.Contains(t, mock.sent[0], "how do channels work?")
	assert.Contains(t, mock.system, "expert programmer")
}

func TestAskCmd_TemplateMissingVar(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "--template", "coding_help", "--var", "language=Go"})
	defer func() {
		rootCmd.SetArgs(nil)
		askTemplate = ""
		askVars = nil
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unfilled placeholders")
}

func TestAskCmd_ChatNotConfigured(t *testing.T) {
	oldService := chatService
	chatService = nil
	defer func() {
		chatService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "hi"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "chat service not configured")
}

func TestParseVars(t *testing.T) {
	values, err := parseVars([]string{"a=1", "b=two words"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "two words"}, values)

	_, err = parseVars([]string{"novalue"})
	assert.Error(t, err)

	_, err = parseVars([]string{"=value"})
	assert.Error(t, err)
}

// Chat session slash commands share the chat service; exercise the
// handful with observable state.
func TestRunChatCommand_ModelAndReset(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := chatService.(*mockChatService)
	ctx := context.Background()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	done, err := runChatCommand(ctx, rootCmd, "/model gpt-4o")
	assert.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, "gpt-4o", mock.model)

	mock.sent = []string{"hello"}
	done, err = runChatCommand(ctx, rootCmd, "/reset")
	assert.NoError(t, err)
	assert.False(t, done)
	assert.Empty(t, mock.sent)

	done, err = runChatCommand(ctx, rootCmd, "/quit")
	assert.NoError(t, err)
	assert.True(t, done)

	_, err = runChatCommand(ctx, rootCmd, "/bogus")
	assert.Error(t, err)
}

func TestRunChatCommand_SaveSnapshot(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := chatService.(*mockChatService)
	mock.sent = []string{"hello"}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	done, err := runChatCommand(context.Background(), rootCmd, "/save my-session")
	assert.NoError(t, err)
	assert.False(t, done)

	conv, err := conversationService.Get(context.Background(), "my-session")
	require.NoError(t, err)
	assert.Len(t, conv.Messages, 2)
}
