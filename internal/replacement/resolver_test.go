package replacement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelector(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		subject   string
		want      bool
		isPattern bool
	}{
		{"catch-all matches path", "/.+/", "src/App.scss", true, true},
		{"catch-all rejects empty", "/.+/", "", false, true},
		{"pattern is anchored", "/legacy/", "legacy-polaris-v8", false, true},
		{"pattern whole match", "/legacy-.*/", "legacy-polaris-v8", true, true},
		{"literal exact", "legacy-polaris-v8", "legacy-polaris-v8", true, false},
		{"literal rejects prefix", "legacy-polaris-v8", "legacy-polaris-v8-extra", false, false},
		{"single slash is literal", "/", "/", true, false},
		{"alternation stays anchored", "/a|b/", "ab", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := ParseSelector(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.isPattern, sel.IsPattern())
			assert.Equal(t, tt.want, sel.Matches(tt.subject))
			assert.Equal(t, tt.raw, sel.String())
		})
	}
}

func TestParseSelector_InvalidPattern(t *testing.T) {
	_, err := ParseSelector("/([a-z]/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSelector))

	_, err = New(RawEntry{Selector: "/(/", Replacements: map[string]string{"a": "b"}})
	assert.ErrorIs(t, err, ErrInvalidSelector)
}

func TestMap_Resolve(t *testing.T) {
	rm := MustNew(
		RawEntry{Selector: "legacy-polaris-v8", Replacements: map[string]string{
			"--p-legacy": "--p-legacy-new",
		}},
		RawEntry{Selector: "/.+/", Replacements: map[string]string{
			"--p-duration-1-0-0": "--p-duration-100",
			"--p-legacy":         "--p-catch-all",
		}},
	)

	t.Run("literal selector wins over catch-all", func(t *testing.T) {
		got, ok := rm.Resolve("legacy-polaris-v8", "--p-legacy")
		require.True(t, ok)
		assert.Equal(t, "--p-legacy-new", got)
	})

	t.Run("no fallthrough after first match", func(t *testing.T) {
		_, ok := rm.Resolve("legacy-polaris-v8", "--p-duration-1-0-0")
		assert.False(t, ok)
	})

	t.Run("catch-all for paths", func(t *testing.T) {
		got, ok := Resolve(rm, "src/components/Button.scss", "--p-duration-1-0-0")
		require.True(t, ok)
		assert.Equal(t, "--p-duration-100", got)
	})

	t.Run("unknown key is a miss", func(t *testing.T) {
		_, ok := rm.Resolve("src/a.scss", "--p-unknown")
		assert.False(t, ok)
	})

	t.Run("no selector matches", func(t *testing.T) {
		_, ok := rm.Resolve("", "--p-legacy")
		assert.False(t, ok)
	})

	t.Run("nil map is a miss", func(t *testing.T) {
		var empty *Map
		_, ok := empty.Resolve("a", "b")
		assert.False(t, ok)
	})
}

func TestMap_EntriesKeepOrder(t *testing.T) {
	rm := MustNew(
		RawEntry{Selector: "b"},
		RawEntry{Selector: "a"},
		RawEntry{Selector: "/.+/"},
	)

	var got []string
	for _, e := range rm.Entries() {
		got = append(got, e.Selector.String())
	}

	assert.Equal(t, []string{"b", "a", "/.+/"}, got)
}

func TestMap_Chains(t *testing.T) {
	rm := MustNew(RawEntry{Selector: "/.+/", Replacements: map[string]string{
		"--a": "--b",
		"--b": "--c",
		"--x": "--x",
	}})

	hazards := rm.Chains()
	require.Len(t, hazards, 1)
	assert.Equal(t, "--a", hazards[0].From)
	assert.Equal(t, "--b", hazards[0].To)
	assert.Contains(t, hazards[0].String(), "itself replaced")
}

func TestMustNew_PanicsOnInvalidSelector(t *testing.T) {
	assert.Panics(t, func() {
		MustNew(RawEntry{Selector: "/[/"})
	})
}
