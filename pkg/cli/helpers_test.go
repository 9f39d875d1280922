package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/gridmet/ncqc/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		want    serializer.Format
		wantErr bool
	}{
		{"yaml", serializer.FormatYAML, false},
		{"json", serializer.FormatJSON, false},
		{"table", serializer.FormatTable, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var got serializer.Format
			var gotErr error
			cmd := &cli.Command{
				Name:  "test",
				Flags: []cli.Flag{&cli.StringFlag{Name: "format", Value: tt.format}},
				Action: func(ctx context.Context, c *cli.Command) error {
					got, gotErr = parseOutputFormat(c)
					return nil
				},
			}
			require.NoError(t, cmd.Run(context.Background(), []string{"test"}))

			if tt.wantErr {
				assert.Error(t, gotErr)
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_Commands(t *testing.T) {
	root := New()
	assert.Equal(t, "ncqc", root.Name)

	names := make([]string, 0, len(root.Commands))
	for _, c := range root.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"check", "serve"}, names)
}

func TestCheckCommand_Flags(t *testing.T) {
	check := newCheckCommand()

	var schema *cli.StringFlag
	for _, f := range check.Flags {
		if sf, ok := f.(*cli.StringFlag); ok && sf.Name == "schema" {
			schema = sf
		}
	}
	require.NotNil(t, schema)
	assert.True(t, schema.Required)
	assert.Contains(t, schema.Aliases, "s")
}
