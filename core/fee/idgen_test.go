package fee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAt(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 15, int(250*time.Millisecond), time.UTC)

	first, second := IDAt(at, 1, 1), IDAt(at, 1, 2)
	assert.Less(t, int64(first), int64(second))
	assert.Equal(t, int64(1), first.Node())
	assert.Equal(t, int64(2), second.Step())
	assert.True(t, Record{ID: first}.IssuedAt().Equal(at))

	later := IDAt(at.Add(time.Millisecond), 1, 0)
	assert.Less(t, int64(second), int64(later))
}

func TestNewIDGenerator(t *testing.T) {
	_, err := NewIDGenerator(-1)
	assert.Error(t, err)

	node, err := NewIDGenerator(3)
	require.NoError(t, err)
	seen := make(map[int64]struct{})
	for i := 0; i < 1000; i++ {
		seen[node.Generate().Int64()] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}

func TestParseID(t *testing.T) {
	id := IDAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1, 7)

	tests := []struct {
		name    string
		s       string
		want    int64
		wantErr error
	}{
		{name: "valid", s: id.String(), want: id.Int64()},
		{name: "empty", s: "", wantErr: ErrNotFound},
		{name: "not a number", s: "abc", wantErr: ErrNotFound},
		{name: "negative", s: "-12", wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.s)
			if err != tt.wantErr {
				t.Fatalf("ParseID() error = %v, wantErr %v", err, tt.wantErr)
			}
			assert.Equal(t, tt.want, got.Int64())
		})
	}
}
