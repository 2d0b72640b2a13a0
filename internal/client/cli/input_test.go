package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	out := &bytes.Buffer{}
	reader := bufio.NewReader(strings.NewReader("  hello world  \n"))

	got, err := GetSimpleText(reader, "Say something", out)
	require.NoError(t, err)
	require.Equal(t, "hello world", got)
	require.Contains(t, out.String(), "Say something")
}

func TestGetSimpleText_EOFAfterPartialLine(t *testing.T) {
	out := &bytes.Buffer{}
	reader := bufio.NewReader(strings.NewReader("no newline"))

	got, err := GetSimpleText(reader, "Prompt", out)
	require.NoError(t, err)
	require.Equal(t, "no newline", got)
}

func TestGetSimpleText_EOFEmpty(t *testing.T) {
	out := &bytes.Buffer{}
	reader := bufio.NewReader(strings.NewReader(""))

	_, err := GetSimpleText(reader, "Prompt", out)
	require.Error(t, err)
}

func TestGetMultiline(t *testing.T) {
	out := &bytes.Buffer{}
	reader := bufio.NewReader(strings.NewReader("line one\nline two\n\nignored\n"))

	got, err := GetMultiline(reader, "Notes", out)
	require.NoError(t, err)
	require.Equal(t, "line one\nline two", got)
}

func TestGetPassword_UsesSeam(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(fd int) ([]byte, error) { return []byte("s3cret"), nil }

	out := &bytes.Buffer{}
	got, err := GetPassword(out, "Password")
	require.NoError(t, err)
	require.Equal(t, "s3cret", got)
	require.Contains(t, out.String(), "Password")
}
