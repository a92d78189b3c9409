package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadKeepsNewestLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	var b strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "line-%d\n", i)
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	tests := []struct {
		name string
		max  int
		want []string
	}{
		{"zero", 0, nil},
		{"three", 3, []string{"line-7", "line-8", "line-9"}},
		{"exact", 10, nil},
		{"more than file", 20, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(path, tt.max)
			require.NoError(t, err)
			switch {
			case tt.want != nil:
				assert.Equal(t, tt.want, got)
			case tt.max == 0:
				assert.Empty(t, got)
			default:
				require.Len(t, got, 10)
				assert.Equal(t, "line-0", got[0])
				assert.Equal(t, "line-9", got[9])
			}
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "nope.log"), 5)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "record with fields",
			raw:  `{"name":"app","level":"info","msg":"hi","time":"2024-03-01T12:30:00.000Z","v":1,"fields":{"k":"v"}}`,
			want: `2024-03-01T12:30:00.000Z INFO  hi {"k":"v"}`,
		},
		{
			name: "record without fields",
			raw:  `{"name":"app","level":"error","msg":"bad","time":"2024-03-01T12:30:00.000Z","v":1,"fields":{}}`,
			want: `2024-03-01T12:30:00.000Z ERROR bad`,
		},
		{
			name: "truncated record",
			raw:  `{"level":"warn","msg":"","time":"2024-03-01T12:30:00.000Z","v":1,"fields":{"isTruncated":true},"truncated":"{\"na..."}`,
			want: `2024-03-01T12:30:00.000Z WARN   [truncated 7 bytes]`,
		},
		{name: "plain text", raw: "not json", want: "not json"},
		{name: "foreign json", raw: `{"x":1}`, want: `{"x":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.raw))
		})
	}
}
