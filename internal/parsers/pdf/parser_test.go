package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return m.output, m.err
}

func TestExtensions(t *testing.T) {
	p := New()
	assert.Equal(t, []string{".pdf"}, p.Extensions())
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Error(t, ErrPDFToolNotFound)
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}

// TestParse_WithMockRunner tests extraction with a mocked pdftotext.
func TestParse_WithMockRunner(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping mock runner test")
	}

	p := NewWithRunner(&mockRunner{output: []byte("PDF Title\n\nBody text.\n")})

	text, err := p.Parse(context.Background(), []byte("%PDF-1.4 fake pdf content"))

	require.NoError(t, err)
	assert.Equal(t, "PDF Title\n\nBody text.", text)
}

// TestParse_RunnerError tests error handling when pdftotext fails.
func TestParse_RunnerError(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping runner error test")
	}

	p := NewWithRunner(&mockRunner{err: errors.New("pdftotext crashed")})

	_, err := p.Parse(context.Background(), []byte("%PDF-1.4 fake pdf content"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext failed")
}
