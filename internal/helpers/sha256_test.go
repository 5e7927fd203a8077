package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSHA256(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "known vector",
			input: "hello",
			want:  "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		},
		{
			name:  "empty string",
			input: "",
			want:  "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, SHA256(tc.input))
		})
	}
}

func TestSHA256Reader(t *testing.T) {
	t.Parallel()

	got, err := SHA256Reader(strings.NewReader("hello"))
	require.NoError(t, err)
	require.Equal(t, SHA256("hello"), got)
}
