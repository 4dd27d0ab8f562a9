package testbed

import (
	"bytes"
	"testing"

	"github.com/spaghettifunk/rendercost/engine/assets/loaders"
	"github.com/spaghettifunk/rendercost/engine/cost"
	"github.com/spaghettifunk/rendercost/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsDeterministic(t *testing.T) {
	assert.Equal(t, Generate(42, 3), Generate(42, 3))
	assert.NotEqual(t, Generate(42, 3), Generate(43, 3))
}

func TestGenerateBuildsValidScenes(t *testing.T) {
	for _, tt := range []struct {
		seed    uint64
		avatars int
	}{
		{1, 0},
		{7, 1},
		{99, 5},
		{20241017, 12},
	} {
		desc := Generate(tt.seed, tt.avatars)
		s, err := scene.Build(desc)
		require.NoError(t, err, "seed %d", tt.seed)
		assert.Len(t, s.Avatars(), tt.avatars)
		assert.GreaterOrEqual(t, len(s.UnattachedRoots()), 2)
		assert.NotEmpty(t, s.Textures())

		est := cost.NewEstimator(nil, s)
		for _, root := range s.Roots() {
			assert.Positive(t, est.RenderCostLinkset(cost.VersionLegacy, root))
			assert.Positive(t, est.RenderCostLinkset(cost.VersionRevised, root))
		}
		for _, av := range s.Avatars() {
			ac := est.AvatarRenderCost(cost.VersionCurrent, av)
			assert.LessOrEqual(t, ac.AttachmentCount, 4)
		}
	}
}

func TestGenerateRoundTrips(t *testing.T) {
	desc := Generate(5, 2)
	for _, format := range []loaders.SceneFormat{loaders.SceneFormatTOML, loaders.SceneFormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, loaders.EncodeScene(&buf, desc, format))
			decoded, err := loaders.DecodeScene(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, desc, decoded)
		})
	}
}
