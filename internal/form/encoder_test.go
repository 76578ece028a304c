package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResource struct {
	id string
}

func (r *fakeResource) Identifier() string { return r.id }

func TestEncode(t *testing.T) {
	tests := []struct {
		name   string
		params any
		want   string
	}{
		{
			name:   "nil params",
			params: nil,
			want:   "",
		},
		{
			name:   "flat map sorted by key",
			params: map[string]any{"b": 2, "a": 1},
			want:   "a=1&b=2",
		},
		{
			name: "nested map uses brackets",
			params: map[string]any{
				"b": map[string]any{"c": 3},
				"a": []any{1, 2},
			},
			want: "a[0]=1&a[1]=2&b[c]=3",
		},
		{
			name: "slice order preserved",
			params: map[string]any{
				"tags": []string{"tech", "audio", "weekly"},
			},
			want: "tags[0]=tech&tags[1]=audio&tags[2]=weekly",
		},
		{
			name: "deep nesting",
			params: map[string]any{
				"episode": map[string]any{
					"chapters": []any{
						map[string]any{"title": "intro"},
					},
				},
			},
			want: "episode[chapters][0][title]=intro",
		},
		{
			name:   "values are escaped",
			params: map[string]any{"title": "a b&c"},
			want:   "title=a+b%26c",
		},
		{
			name:   "key segments are escaped",
			params: map[string]any{"meta data": map[string]any{"x/y": 1}},
			want:   "meta+data[x%2Fy]=1",
		},
		{
			name:   "nil value encodes empty",
			params: map[string]any{"after": nil},
			want:   "after=",
		},
		{
			name:   "booleans and numbers",
			params: map[string]any{"explicit": true, "limit": 10},
			want:   "explicit=true&limit=10",
		},
		{
			name: "identifiable resource collapses to its id",
			params: map[string]any{
				"episode": &fakeResource{id: "ep_123"},
			},
			want: "episode=ep_123",
		},
		{
			name: "identifiable inside a slice",
			params: map[string]any{
				"episodes": []any{&fakeResource{id: "ep_1"}, &fakeResource{id: "ep_2"}},
			},
			want: "episodes[0]=ep_1&episodes[1]=ep_2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeRejectsNonMapTopLevel(t *testing.T) {
	_, err := Encode([]any{1, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top-level parameters must be a map")
}

func TestEncodeRejectsStructValues(t *testing.T) {
	type opaque struct{ X int }
	_, err := Encode(map[string]any{"v": opaque{X: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot encode value")
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode("a=1")
	assert.ErrorIs(t, err, ErrDecodeUnsupported)
}

func TestCacheMemoizesPerToken(t *testing.T) {
	calls := 0
	c := NewCache()
	c.encode = func(params any) (string, error) {
		calls++
		return Encode(params)
	}

	params := map[string]any{"a": 1}

	first, err := c.Encode("tok:body", params)
	require.NoError(t, err)
	second, err := c.Encode("tok:body", params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second encode should be served from the cache")

	_, err = c.Encode("tok:query", map[string]any{"b": 2})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "a new token encodes fresh")
}

func TestCacheDoesNotStoreFailures(t *testing.T) {
	c := NewCache()

	_, err := c.Encode("tok", []any{1})
	require.Error(t, err)

	got, err := c.Encode("tok", map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, "a=1", got)
}

func TestCacheKeyedByTokenNotValue(t *testing.T) {
	c := NewCache()

	first, err := c.Encode("tok", map[string]any{"a": 1})
	require.NoError(t, err)

	// Same token replays the stored encoding even for different params; the
	// token identifies the logical parameter set for one call.
	replay, err := c.Encode("tok", map[string]any{"b": 2})
	require.NoError(t, err)
	assert.Equal(t, first, replay)
}
