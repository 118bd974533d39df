package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestCRLFWriter(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a\nb\n", "a\r\nb\r\n"},
		{"already\r\n", "already\r\n"},
		{"\n", "\r\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		n, err := crlfWriter{w: &buf}.Write([]byte(tt.in))
		require.NoError(t, err)
		assert.Equal(t, len(tt.in), n)
		assert.Equal(t, tt.want, buf.String())
	}
}

func TestReadKeys(t *testing.T) {
	keys := make(chan []byte, 4)
	readKeys(bytes.NewBufferString("ls\r"), keys)
	var got []byte
	for chunk := range keys {
		got = append(got, chunk...)
	}
	assert.Equal(t, "ls\r", string(got))
}

func TestExportSize(t *testing.T) {
	h := &host{}
	env := map[string]string{}
	h.exportSize(env)
	assert.Empty(t, env)

	h.size.Store(&unix.Winsize{Col: 120, Row: 40})
	h.exportSize(env)
	assert.Equal(t, map[string]string{"COLUMNS": "120", "LINES": "40"}, env)
}
