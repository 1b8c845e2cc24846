package main

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptPassword(t *testing.T) {
	defer func(f func(int) ([]byte, error)) { readPasswordFunc = f }(readPasswordFunc)

	tests := []struct {
		name    string
		read    func(int) ([]byte, error)
		want    string
		wantErr error
	}{
		{
			name: "ok",
			read: func(int) ([]byte, error) { return []byte("secret-password"), nil },
			want: "secret-password",
		},
		{
			name:    "too short",
			read:    func(int) ([]byte, error) { return []byte("short"), nil },
			wantErr: errPasswordLength,
		},
		{
			name:    "read error",
			read:    func(int) ([]byte, error) { return nil, errors.New("not a terminal") },
			wantErr: errors.New("not a terminal"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			readPasswordFunc = tt.read
			got, err := promptPassword()
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndexMappings(t *testing.T) {
	for _, index := range []string{models.COURSES_INDEX, models.EXAMS_INDEX} {
		mapping, ok := indexMappings[index]
		require.True(t, ok, index)
		data, err := json.Marshal(mapping)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"id_course":{"type":"keyword"}`)
	}
}

func TestCommands(t *testing.T) {
	app := newApp()
	names := make([]string, 0, len(app.Commands))
	for _, command := range app.Commands {
		names = append(names, command.Name)
	}
	assert.ElementsMatch(t, []string{
		"init-db",
		"create-instructor",
		"reindex",
		"deactivate-user",
	}, names)
}
