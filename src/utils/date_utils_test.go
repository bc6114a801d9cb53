package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDateDefaultFormats(t *testing.T) {
	want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, value := range []string{
		"2024-03-10",
		"10-Mar-2024",
		"20240310",
		"10.03.2024",
		"2024/03/10",
	} {
		got, err := ParseDate(value, nil)
		require.NoError(t, err, value)
		require.True(t, got.Equal(want), value)
	}
}

func TestParseDatePinnedFormat(t *testing.T) {
	got, err := ParseDate("20240310", []string{"20060102"})
	require.NoError(t, err)
	require.Equal(t, 2024, got.Year())

	_, err = ParseDate("10-Mar-2024", []string{"20060102"})
	require.Error(t, err)
}

func TestParseDateRejectsImplausible(t *testing.T) {
	_, err := ParseDate("1979-05-01", nil)
	require.Error(t, err)

	future := time.Now().AddDate(1, 0, 0).Format("2006-01-02")
	_, err = ParseDate(future, nil)
	require.Error(t, err)
}

func TestOutputFilename(t *testing.T) {
	require.Equal(t, "explicit.xml", OutputFilename("explicit.xml", "output", "gains_furs", true))

	plain := OutputFilename("", "output", "gains_furs", false)
	require.Equal(t, "output/gains_furs.xml", plain)

	stamped := OutputFilename("", "output", "gains_furs", true)
	require.Contains(t, stamped, "gains_furs_")
	require.Contains(t, stamped, ".xml")
}
