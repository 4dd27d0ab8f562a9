package cost

import (
	"testing"

	"github.com/google/uuid"
	"github.com/spaghettifunk/rendercost/engine/math"
	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectFallsBackToFourTriangles(t *testing.T) {
	cd := CollectPrimCostData(newPrim(), nil)
	assert.Equal(t, uint32(4), cd.NumTrianglesV1)
	assert.Equal(t, uint32(0), cd.NumTrianglesV2)

	// no geometry at all
	vol := newPrim()
	vol.geometry = false
	cd = CollectPrimCostData(vol, nil)
	assert.Equal(t, uint32(4), cd.NumTrianglesV1)
	assert.False(t, cd.IsRootEdit)
}

func TestCollectWithoutFaces(t *testing.T) {
	vol := newPrim()
	vol.faces = nil
	cd := CollectPrimCostData(vol, nil)
	assert.Zero(t, cd.AlphaFaces)
	assert.Zero(t, cd.MaterialsVols)
	assert.Empty(t, cd.Textures.Diffuse)
}

func TestCollectPoolClassification(t *testing.T) {
	alphaTex := newTexture(64, 64, 0)
	alphaTex.Format = metadata.TextureFormatAlpha

	tests := []struct {
		name  string
		face  *fakeFace
		check func(t *testing.T, cd *PrimCostData)
	}{
		{
			name: "alpha",
			face: &fakeFace{pool: metadata.PoolAlpha, tex: alphaTex},
			check: func(t *testing.T, cd *PrimCostData) {
				assert.Equal(t, uint32(1), cd.AlphaFaces)
				assert.Zero(t, cd.InvisiFaces)
			},
		},
		{
			name: "alpha mask",
			face: &fakeFace{pool: metadata.PoolAlphaMask},
			check: func(t *testing.T, cd *PrimCostData) {
				assert.Equal(t, uint32(1), cd.AlphaMaskFaces)
			},
		},
		{
			name: "fullbright alpha mask",
			face: &fakeFace{pool: metadata.PoolFullbrightAlphaMask},
			check: func(t *testing.T, cd *PrimCostData) {
				assert.Equal(t, uint32(1), cd.AlphaMaskFaces)
				assert.Zero(t, cd.FullbrightFaces)
			},
		},
		{
			name: "fullbright",
			face: &fakeFace{pool: metadata.PoolFullbright},
			check: func(t *testing.T, cd *PrimCostData) {
				assert.Equal(t, uint32(1), cd.FullbrightFaces)
			},
		},
		{
			name: "invisible",
			face: &fakeFace{pool: metadata.PoolSimple, tex: alphaTex},
			check: func(t *testing.T, cd *PrimCostData) {
				assert.Equal(t, uint32(1), cd.InvisiFaces)
				assert.Zero(t, cd.AlphaFaces)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, CollectPrimCostData(newPrim(tt.face), nil))
		})
	}
}

func TestCollectInvisibleIsAFlag(t *testing.T) {
	alphaTex := newTexture(64, 64, 0)
	alphaTex.Format = metadata.TextureFormatAlpha
	vol := newPrim(
		&fakeFace{pool: metadata.PoolSimple, tex: alphaTex},
		&fakeFace{pool: metadata.PoolBump, tex: alphaTex},
	)
	cd := CollectPrimCostData(vol, nil)
	assert.Equal(t, uint32(1), cd.InvisiFaces)
	assert.Len(t, cd.Textures.Diffuse, 1)
}

func TestCollectTextureEntryFlags(t *testing.T) {
	bumpy := &metadata.TextureEntry{Glow: 0.5, TexGen: 1}
	bumpy.SetBumpmap(3)
	shiny := &metadata.TextureEntry{}
	shiny.SetShiny(2)
	bright := &metadata.TextureEntry{}
	bright.SetFullbright(true)

	vol := newPrim(
		&fakeFace{te: bumpy, animated: true},
		&fakeFace{te: shiny, media: true},
		&fakeFace{te: bright, pool: metadata.PoolFullbright},
		&fakeFace{te: &metadata.TextureEntry{}},
		// texture matrices only count on faces with a texture entry
		&fakeFace{animated: true},
	)
	cd := CollectPrimCostData(vol, nil)

	assert.Equal(t, uint32(1), cd.BumpFaces)
	assert.Equal(t, uint32(1), cd.ShinyFaces)
	assert.Equal(t, uint32(3), cd.BumpAnyFaces)
	assert.Equal(t, uint32(3), cd.ShinyAnyFaces)
	// three faces through the packed byte plus one through the pool
	assert.Equal(t, uint32(4), cd.FullbrightFaces)
	assert.Equal(t, uint32(1), cd.GlowFaces)
	assert.Equal(t, uint32(1), cd.PlanarFaces)
	assert.Equal(t, uint32(1), cd.AnimatedFaces)
	assert.Equal(t, uint32(1), cd.MediaFaces)
}

func TestCollectMaterials(t *testing.T) {
	normal := uuid.New()
	specular := uuid.New()
	diffuse := newTexture(128, 128, 0)

	vol := newPrim(
		&fakeFace{te: &metadata.TextureEntry{Material: &metadata.Material{NormalID: normal}}, tex: diffuse},
		&fakeFace{te: &metadata.TextureEntry{Material: &metadata.Material{NormalID: normal, SpecularID: specular}}, tex: diffuse},
		&fakeFace{te: &metadata.TextureEntry{Material: &metadata.Material{}}},
		&fakeFace{te: &metadata.TextureEntry{}},
	)
	cd := CollectPrimCostData(vol, nil)

	assert.Equal(t, uint32(1), cd.MaterialsVols)
	assert.Equal(t, uint32(3), cd.MaterialsFaces)
	assert.Equal(t, uint32(2), cd.NormalMapFaces)
	assert.Equal(t, uint32(1), cd.SpecularMapFaces)
	assert.Equal(t, NewIDSet(normal), cd.Textures.Normal)
	assert.Equal(t, NewIDSet(specular), cd.Textures.Specular)
	assert.Equal(t, NewIDSet(diffuse.ID), cd.Textures.Diffuse)
}

func TestCollectSculpts(t *testing.T) {
	sculpt := newPrim()
	sculpt.sculpted = true
	sculpt.sculptID = uuid.New()
	cd := CollectPrimCostData(sculpt, nil)
	assert.Equal(t, uint32(1), cd.SculptVols)
	assert.True(t, cd.Textures.Sculpt.Has(sculpt.sculptID))
	assert.Zero(t, cd.MeshVols)

	mesh := newPrim()
	mesh.sculpted = true
	mesh.mesh = true
	mesh.rigged = true
	mesh.sculptID = uuid.New()
	cd = CollectPrimCostData(mesh, nil)
	assert.Zero(t, cd.SculptVols)
	assert.Empty(t, cd.Textures.Sculpt)
	assert.Equal(t, uint32(1), cd.MeshVols)
	assert.Equal(t, uint32(1), cd.WeightedMeshVols)
}

func TestCollectParticles(t *testing.T) {
	tests := []struct {
		name  string
		ps    metadata.ParticleSystem
		count uint32
		size  float32
	}{
		{
			name: "bursting",
			ps: metadata.ParticleSystem{
				BurstPartCount: 10,
				BurstRate:      2,
				PartData: metadata.ParticleData{
					MaxAge:     5,
					StartScale: math.NewVec2(1, 2),
					EndScale:   math.NewVec2(3, 1),
				},
			},
			count: 30,
			size:  2.5,
		},
		{
			name: "capped",
			ps: metadata.ParticleSystem{
				BurstPartCount: 255,
				BurstRate:      0.1,
				PartData:       metadata.ParticleData{MaxAge: 30, StartScale: math.NewVec2(1, 1)},
			},
			count: 2048,
			size:  1,
		},
		{
			name:  "continuous",
			ps:    metadata.ParticleSystem{BurstPartCount: 1},
			count: 2048,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vol := newPrim()
			ps := tt.ps
			vol.particles = &ps
			cd := CollectPrimCostData(vol, nil)
			assert.Equal(t, uint32(1), cd.ParticleSourceVols)
			assert.Equal(t, tt.count, cd.NumParticles)
			assert.InDelta(t, tt.size, cd.PartSize, 1e-6)
		})
	}
}

func TestCollectTriangleCounts(t *testing.T) {
	vol := newPrim()
	vol.lodTris = [metadata.NumLODs]uint32{10, 100, 400, 1000}
	cd := CollectPrimCostData(vol, nil)

	assert.Equal(t, uint32(1000), cd.TriangleCount)
	assert.Equal(t, uint32(10), cd.TriangleCountLowest)
	assert.Equal(t, uint32(100), cd.TriangleCountLow)
	assert.Equal(t, uint32(400), cd.TriangleCountMedium)
	assert.Equal(t, uint32(1000), cd.TriangleCountHigh)
	// medium is within half of high, low within half of medium's allowance
	assert.InDelta(t, 1000, cd.ActualTrianglesCharged, 1e-3)
	assert.Equal(t, uint32(1000), cd.NumTrianglesV2)
}

func TestCollectMeshTriangles(t *testing.T) {
	mcd, ok := metadata.NewMeshCostData([metadata.NumLODs]uint32{0, 0, 0, 16384 + 384})
	require.True(t, ok)

	vol := newPrim()
	vol.mesh = true
	vol.costData = mcd
	cd := CollectPrimCostData(vol, nil)
	// every LOD carries the same estimate so the radius weighting is moot
	assert.InDelta(t, 1024, float64(cd.NumTrianglesV1), 1)

	vol.animated = true
	vol.rigged = true
	cd = CollectPrimCostData(vol, nil)
	// 1.5 per thousand of 3200 charged triangles over 0.06
	assert.InDelta(t, 80, float64(cd.NumTrianglesV1), 1)
	assert.True(t, cd.IsAnimatedObject)
}

func TestCollectUsesFetchedTexture(t *testing.T) {
	res := fakeResolver{}
	fetched := res.add(newTexture(128, 128, 0))

	// the face still carries the declared alpha format
	declared := *fetched
	declared.Format = metadata.TextureFormatAlpha
	vol := newPrim(&fakeFace{tex: &declared})

	assert.Equal(t, uint32(1), CollectPrimCostData(vol, nil).InvisiFaces)

	cd := CollectPrimCostData(vol, res)
	assert.Zero(t, cd.InvisiFaces)
	assert.True(t, cd.Textures.Diffuse.Has(fetched.ID))

	est := NewEstimator(nil, res)
	assert.Equal(t, float32(20+288), est.RenderCost(VersionLegacy, vol))
}
