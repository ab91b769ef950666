package upgrade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var phpLadder = Ladder{"7.4", "8.0", "8.1", "8.2", "8.3", "8.4"}

func TestLadderPathIsGapFreeForEveryOrderedPair(t *testing.T) {
	for i := range phpLadder {
		for j := i; j < len(phpLadder); j++ {
			path, err := phpLadder.Path(phpLadder[i], phpLadder[j])
			require.NoError(t, err)
			require.Equal(t, j-i+1, len(path))
			assert.Equal(t, phpLadder[i], path[0])
			assert.Equal(t, phpLadder[j], path[len(path)-1])
			for k := range path {
				assert.Equal(t, phpLadder[i+k], path[k], "path must follow the ladder without gaps")
			}
		}
	}
}

func TestLadderPathRejectsDowngrade(t *testing.T) {
	_, err := phpLadder.Path("8.2", "8.0")
	require.ErrorIs(t, err, ErrDowngrade)
	assert.Contains(t, err.Error(), "8.2")
}

func TestLadderPathRejectsUnsupportedEndpoints(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
	}{
		{name: "unknown from", from: "5.6", to: "8.0"},
		{name: "unknown to", from: "8.0", to: "9.0"},
		{name: "both unknown", from: "1", to: "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := phpLadder.Path(tt.from, tt.to)
			require.ErrorIs(t, err, ErrInvalidRange)
		})
	}
}

func TestLadderPathSameVersionHasNoSteps(t *testing.T) {
	path, err := phpLadder.Path("8.1", "8.1")
	require.NoError(t, err)
	assert.Equal(t, []string{"8.1"}, path)
	assert.Empty(t, Steps(path))
}

func TestLadderPathReturnsCopy(t *testing.T) {
	path, err := phpLadder.Path("7.4", "8.0")
	require.NoError(t, err)
	path[0] = "mutated"
	assert.Equal(t, "7.4", phpLadder[0])
}

func TestSteps(t *testing.T) {
	assert.Equal(t, [][2]string{{"9", "10"}, {"10", "11"}}, Steps([]string{"9", "10", "11"}))
	assert.Nil(t, Steps(nil))
	assert.Equal(t, "9-10", StepKey("9", "10"))
}
