package hint

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seednode/guesswho/games/roster"
)

type fakeGenerator struct {
	text  string
	err   error
	calls int
	prev  []string
}

func (f *fakeGenerator) Hint(ctx context.Context, target roster.Character, previous []string) (string, error) {
	f.calls++
	f.prev = previous
	return f.text, f.err
}

func TestResolve(t *testing.T) {
	target := roster.Character{ID: "7", Name: "BANDITO BOBRITTO"}

	tests := []struct {
		name    string
		gen     Generator
		want    string
		wantErr bool
	}{
		{
			name: "hint is trimmed",
			gen:  &fakeGenerator{text: "  🦫 steals logs  \n"},
			want: "🦫 steals logs",
		},
		{
			name:    "generator error",
			gen:     &fakeGenerator{err: errors.New("timeout")},
			want:    Fallback,
			wantErr: true,
		},
		{
			name:    "blank hint",
			gen:     &fakeGenerator{text: "   "},
			want:    Fallback,
			wantErr: true,
		},
		{
			name:    "no generator",
			gen:     nil,
			want:    Fallback,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(context.Background(), tt.gen, target, []string{"older"})

			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveDoesNotRetry(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}

	_, err := Resolve(context.Background(), gen, roster.Character{}, []string{"a", "b"})

	require.Error(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, []string{"a", "b"}, gen.prev)
}

func TestResolveEmptyIsErrEmpty(t *testing.T) {
	_, err := Resolve(context.Background(), &fakeGenerator{}, roster.Character{}, nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestPrompt(t *testing.T) {
	c, ok := roster.Default().ByID("12")
	require.True(t, ok)

	p := Prompt(c, []string{"first hint", "second hint"})

	assert.Contains(t, p, `Name: "LA VACCA SATURNO SATURNITA"`)
	assert.Contains(t, p, "Tags: Cow, Saturn, Space")
	assert.Contains(t, p, "Element: Cosmic")
	assert.Contains(t, p, "Weakness: Black holes")
	assert.Contains(t, p, "first hint | second hint")
	assert.Contains(t, p, "15 words max")
}

func TestOffline(t *testing.T) {
	c, ok := roster.Default().ByID("5")
	require.True(t, ok)

	var gen Offline
	seen := make(map[string]bool)
	var previous []string

	for range aspects {
		h, err := gen.Hint(context.Background(), c, previous)
		require.NoError(t, err)
		assert.NotEmpty(t, h)
		assert.NotContains(t, h, c.Name)
		assert.False(t, seen[h], "hint %q repeated", h)
		seen[h] = true
		previous = append([]string{h}, previous...)
	}

	again, err := gen.Hint(context.Background(), c, previous)
	require.NoError(t, err)
	assert.True(t, seen[again], "aspects rotate")
}

func TestOfflineSkipsRecentHints(t *testing.T) {
	c, ok := roster.Default().ByID("1")
	require.True(t, ok)

	var gen Offline
	var previous []string
	seen := make(map[string]bool)

	for range 2 * len(aspects) {
		h, err := gen.Hint(context.Background(), c, previous)
		require.NoError(t, err)
		assert.NotContains(t, previous, h)
		seen[h] = true

		previous = append([]string{h}, previous...)
		if len(previous) > 3 {
			previous = previous[:3]
		}
	}

	assert.Len(t, seen, len(aspects), "every aspect is reached with a truncated history")
}

func TestOfflineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Offline{}.Hint(ctx, roster.Character{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
