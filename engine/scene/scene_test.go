package scene

import (
	"testing"

	"github.com/google/uuid"
	"github.com/spaghettifunk/rendercost/engine/core"
	"github.com/spaghettifunk/rendercost/engine/cost"
	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	brickID  = "5748decc-f629-461c-9a36-a35a221fe21f"
	normalID = "8a8d3a4c-9b1e-4f4b-8f6e-0a2b8f0e6f11"
	rootID   = "2f1a7d5e-3c4b-4a6f-9e8d-7c6b5a4f3e2d"
	childID  = "9c8b7a6f-5e4d-4c3b-8a29-1f0e9d8c7b6a"
	hatID    = "0e1d2c3b-4a59-4867-9f5e-4d3c2b1a0f9e"
	avatarID = "11111111-2222-4333-8444-555555555555"
)

func sampleDescription() *Description {
	return &Description{
		Name: "plaza",
		Textures: []TextureDescription{
			{ID: brickID, Width: 512, Height: 512, Components: 3},
			{ID: normalID, Width: 256, Height: 256, Format: "rgba", Discard: 2},
		},
		Objects: []ObjectDescription{
			{
				ID:       rootID,
				Name:     "fountain",
				Scale:    []float32{2, 2, 1},
				Animated: true,
				Faces: []FaceDescription{
					{Pool: "alpha", Texture: brickID, Glow: 0.2},
					{Texture: uuid.NewString(), Normal: normalID, Bump: 1},
				},
				Children: []ObjectDescription{
					{ID: childID, LODTriangles: []uint32{2, 8, 24, 48}, Faces: []FaceDescription{{Texture: brickID}}},
				},
			},
			{
				ID:        hatID,
				Mesh:      true,
				LODBytes:  []uint32{0, 0, 1024, 4096},
				Particles: &ParticleDescription{BurstCount: 4, BurstRate: 1, MaxAge: 2, StartScale: []float32{1, 1}},
			},
		},
		Avatars: []AvatarDescription{
			{
				ID:   avatarID,
				Name: "Resident",
				Attachments: []AttachmentDescription{
					{Point: "head", Objects: []string{hatID}},
				},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	s, err := Build(sampleDescription())
	require.NoError(t, err)

	assert.Equal(t, "plaza", s.Name)
	assert.Len(t, s.Roots(), 2)
	assert.Len(t, s.Textures(), 2)

	root, err := s.Object(uuid.MustParse(rootID))
	require.NoError(t, err)
	assert.True(t, root.IsRootEdit())
	assert.True(t, root.IsAnimatedObject())
	assert.InDelta(t, 3, root.Scale().Length(), 1e-6)
	require.Len(t, root.Faces(), 2)
	assert.Equal(t, metadata.PoolAlpha, root.Faces()[0].PoolType())
	assert.Equal(t, metadata.TextureFormatRGB, root.Faces()[0].Texture().Format)
	assert.True(t, root.Faces()[1].TextureEntry().Material.HasNormalMap())
	assert.Equal(t, uint8(1), root.Faces()[1].TextureEntry().Bumpmap())

	child, err := s.Object(uuid.MustParse(childID))
	require.NoError(t, err)
	assert.False(t, child.IsRootEdit())
	assert.True(t, child.IsAnimatedObject())
	assert.Equal(t, root, child.Parent())
	assert.Equal(t, uint32(48), child.TriangleCount())
	_, ok := child.MeshCostData()
	assert.True(t, ok)
	assert.Equal(t, []cost.Volume{child}, root.Children())

	hat, err := s.Object(uuid.MustParse(hatID))
	require.NoError(t, err)
	mcd, ok := hat.MeshCostData()
	require.True(t, ok)
	assert.Equal(t, uint32(1024), mcd.SizeByLOD(metadata.LODImpostor))
	require.NotNil(t, hat.ParticleSource())
	assert.Equal(t, uint8(4), hat.ParticleSource().BurstPartCount)

	unattached := s.UnattachedRoots()
	require.Len(t, unattached, 1)
	assert.Equal(t, root, unattached[0])

	av, err := s.Avatar(uuid.MustParse(avatarID))
	require.NoError(t, err)
	assert.Equal(t, "full", av.RezStatus())
	require.Len(t, av.AttachmentPoints(), 1)
	assert.Equal(t, []cost.Volume{hat}, av.AttachmentPoints()[0].Objects)
}

func TestBuildUndeclaredTextureIsUnresolved(t *testing.T) {
	s, err := Build(sampleDescription())
	require.NoError(t, err)
	root, err := s.Object(uuid.MustParse(rootID))
	require.NoError(t, err)

	tex := root.Faces()[1].Texture()
	require.NotNil(t, tex)
	_, ok := s.Texture(tex.ID)
	assert.False(t, ok)

	est := cost.NewEstimator(nil, s)
	// the alpha face and the undeclared diffuse texture both show up
	assert.Greater(t, est.RenderCost(cost.VersionLegacy, root), float32(0))
}

func TestLookupUnknown(t *testing.T) {
	s, err := Build(&Description{})
	require.NoError(t, err)

	_, err = s.Object(uuid.New())
	assert.ErrorIs(t, err, core.ErrUnknownObject)
	_, err = s.Avatar(uuid.New())
	assert.ErrorIs(t, err, core.ErrUnknownAvatar)
}

func TestBuildRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Description)
	}{
		{name: "bad object id", mutate: func(d *Description) { d.Objects[0].ID = "nope" }},
		{name: "duplicate object", mutate: func(d *Description) { d.Objects[1].ID = rootID }},
		{name: "duplicate texture", mutate: func(d *Description) { d.Textures[1].ID = brickID }},
		{name: "bad texture format", mutate: func(d *Description) { d.Textures[0].Format = "cmyk" }},
		{name: "discard out of range", mutate: func(d *Description) { d.Textures[0].Discard = 9 }},
		{name: "bad pool", mutate: func(d *Description) { d.Objects[0].Faces[0].Pool = "swimming" }},
		{name: "negative glow", mutate: func(d *Description) { d.Objects[0].Faces[0].Glow = -1 }},
		{name: "scale", mutate: func(d *Description) { d.Objects[0].Scale = []float32{1} }},
		{name: "lod triangles", mutate: func(d *Description) { d.Objects[0].LODTriangles = []uint32{1, 2} }},
		{name: "negative burst rate", mutate: func(d *Description) { d.Objects[1].Particles.BurstRate = -1 }},
		{name: "rigged prim", mutate: func(d *Description) { d.Objects[0].Rigged = true }},
		{
			name: "grandchildren",
			mutate: func(d *Description) {
				d.Objects[0].Children[0].Children = []ObjectDescription{{}}
			},
		},
		{name: "attach child", mutate: func(d *Description) { d.Avatars[0].Attachments[0].Objects = []string{childID} }},
		{name: "attach unknown", mutate: func(d *Description) { d.Avatars[0].Attachments[0].Objects = []string{uuid.NewString()} }},
		{
			name: "attach twice",
			mutate: func(d *Description) {
				d.Avatars[0].Attachments = append(d.Avatars[0].Attachments,
					AttachmentDescription{Point: "chin", Objects: []string{hatID}})
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := sampleDescription()
			tt.mutate(desc)
			_, err := Build(desc)
			assert.ErrorIs(t, err, core.ErrInvalidScene)
		})
	}

	_, err := Build(nil)
	assert.ErrorIs(t, err, core.ErrInvalidScene)
}
