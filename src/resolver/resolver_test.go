package resolver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConsoleResolve(t *testing.T) {
	var out bytes.Buffer
	console := NewConsoleWith(strings.NewReader("  US0378331005  \n"), &out)

	value, err := console.Resolve("isin:AAPL", "Enter the ISIN for Apple Inc.")
	require.NoError(t, err)
	require.Equal(t, "US0378331005", value)
	require.Contains(t, out.String(), "Enter the ISIN for Apple Inc.")
}

func TestConsoleResolveLastLineWithoutNewline(t *testing.T) {
	console := NewConsoleWith(strings.NewReader("answer"), &bytes.Buffer{})
	value, err := console.Resolve("field", "prompt")
	require.NoError(t, err)
	require.Equal(t, "answer", value)
}

func TestConsoleResolveEmptyInput(t *testing.T) {
	console := NewConsoleWith(strings.NewReader(""), &bytes.Buffer{})
	_, err := console.Resolve("field", "prompt")
	require.Error(t, err)
}

func TestStatic(t *testing.T) {
	res := Static{"a": "1"}
	value, err := res.Resolve("a", "")
	require.NoError(t, err)
	require.Equal(t, "1", value)

	_, err = res.Resolve("b", "")
	require.Error(t, err)
}

func TestFailFast(t *testing.T) {
	_, err := FailFast{}.Resolve("anything", "prompt")
	require.Error(t, err)
	require.Contains(t, err.Error(), "anything")
}
