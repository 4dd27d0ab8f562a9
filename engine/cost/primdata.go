package cost

import (
	gomath "math"

	"github.com/spaghettifunk/rendercost/engine/core"
	"github.com/spaghettifunk/rendercost/engine/math"
	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
)

const (
	// Particle count charged for an emitter that bursts continuously.
	maxParticleCount uint32 = 2048
	// Triangle count assumed when an object reports none.
	minimumTriangles uint32 = 4
)

// PrimCostData holds the cost relevant attributes of a single object.
// It is produced by one collection pass and read by every formula.
type PrimCostData struct {
	// face counts
	AlphaMaskFaces   uint32 `json:"alpha_mask_faces" yaml:"alpha_mask_faces" toml:"alpha_mask_faces"`
	AlphaFaces       uint32 `json:"alpha_faces" yaml:"alpha_faces" toml:"alpha_faces"`
	AnimatedFaces    uint32 `json:"animated_faces" yaml:"animated_faces" toml:"animated_faces"`
	BumpFaces        uint32 `json:"bump_faces" yaml:"bump_faces" toml:"bump_faces"`
	BumpAnyFaces     uint32 `json:"bump_any_faces" yaml:"bump_any_faces" toml:"bump_any_faces"`
	FullbrightFaces  uint32 `json:"fullbright_faces" yaml:"fullbright_faces" toml:"fullbright_faces"`
	GlowFaces        uint32 `json:"glow_faces" yaml:"glow_faces" toml:"glow_faces"`
	InvisiFaces      uint32 `json:"invisi_faces" yaml:"invisi_faces" toml:"invisi_faces"`
	MaterialsFaces   uint32 `json:"materials_faces" yaml:"materials_faces" toml:"materials_faces"`
	MediaFaces       uint32 `json:"media_faces" yaml:"media_faces" toml:"media_faces"`
	NormalMapFaces   uint32 `json:"normalmap_faces" yaml:"normalmap_faces" toml:"normalmap_faces"`
	PlanarFaces      uint32 `json:"planar_faces" yaml:"planar_faces" toml:"planar_faces"`
	ShinyFaces       uint32 `json:"shiny_faces" yaml:"shiny_faces" toml:"shiny_faces"`
	ShinyAnyFaces    uint32 `json:"shiny_any_faces" yaml:"shiny_any_faces" toml:"shiny_any_faces"`
	SpecularMapFaces uint32 `json:"specmap_faces" yaml:"specmap_faces" toml:"specmap_faces"`

	// volume counts
	FlexiVols          uint32 `json:"flexi_vols" yaml:"flexi_vols" toml:"flexi_vols"`
	MaterialsVols      uint32 `json:"materials_vols" yaml:"materials_vols" toml:"materials_vols"`
	MeshVols           uint32 `json:"mesh_vols" yaml:"mesh_vols" toml:"mesh_vols"`
	WeightedMeshVols   uint32 `json:"weighted_mesh_vols" yaml:"weighted_mesh_vols" toml:"weighted_mesh_vols"`
	ParticleSourceVols uint32 `json:"particle_source_vols" yaml:"particle_source_vols" toml:"particle_source_vols"`
	ProducesLightVols  uint32 `json:"produces_light_vols" yaml:"produces_light_vols" toml:"produces_light_vols"`
	SculptVols         uint32 `json:"sculpt_vols" yaml:"sculpt_vols" toml:"sculpt_vols"`

	// particle info
	NumParticles uint32  `json:"num_particles" yaml:"num_particles" toml:"num_particles"`
	PartSize     float32 `json:"part_size" yaml:"part_size" toml:"part_size"`

	// triangle counts
	NumTrianglesV1         uint32  `json:"num_triangles_v1" yaml:"num_triangles_v1" toml:"num_triangles_v1"`
	NumTrianglesV2         uint32  `json:"num_triangles_v2" yaml:"num_triangles_v2" toml:"num_triangles_v2"`
	TriangleCount          uint32  `json:"triangle_count" yaml:"triangle_count" toml:"triangle_count"`
	TriangleCountLowest    uint32  `json:"triangle_count_lowest" yaml:"triangle_count_lowest" toml:"triangle_count_lowest"`
	TriangleCountLow       uint32  `json:"triangle_count_low" yaml:"triangle_count_low" toml:"triangle_count_low"`
	TriangleCountMedium    uint32  `json:"triangle_count_medium" yaml:"triangle_count_medium" toml:"triangle_count_medium"`
	TriangleCountHigh      uint32  `json:"triangle_count_high" yaml:"triangle_count_high" toml:"triangle_count_high"`
	ActualTrianglesCharged float32 `json:"actual_triangles_charged" yaml:"actual_triangles_charged" toml:"actual_triangles_charged"`

	IsAnimatedObject bool `json:"is_animated_object" yaml:"is_animated_object" toml:"is_animated_object"`
	IsRootEdit       bool `json:"is_root_edit" yaml:"is_root_edit" toml:"is_root_edit"`

	Textures TextureSets `json:"-" yaml:"-" toml:"-"`
}

func newPrimCostData() *PrimCostData {
	return &PrimCostData{Textures: NewTextureSets()}
}

/**
 * @brief Walks the object's geometry, faces and flags once and records
 * everything the formulas consume.
 * @param vol The object to inspect.
 * @param textures Resolves the fetched texture behind each face. Nil uses
 * the texture the face declares.
 * @return The collected data. Never nil.
 */
func CollectPrimCostData(vol Volume, textures TextureResolver) *PrimCostData {
	cd := newPrimCostData()
	if textures == nil {
		textures = noTextures{}
	}

	if vol.HasGeometry() {
		if mcd, ok := vol.MeshCostData(); ok {
			if vol.IsAnimatedObject() && vol.IsRiggedMesh() {
				// charged in proportion to the animated object streaming cost
				est := float64(metadata.AnimatedObjectCostPerKTri) * 0.001 * float64(mcd.EstTrisForStreamingCost())
				cd.NumTrianglesV1 = truncateTriangles(est / 0.06)
			} else {
				radius := vol.Scale().Length() * 0.5
				cd.NumTrianglesV1 = truncateTriangles(float64(mcd.RadiusWeightedTris(radius)))
			}
		}
		cd.IsAnimatedObject = vol.IsAnimatedObject()
		cd.IsRootEdit = vol.IsRootEdit()
	}
	if cd.NumTrianglesV1 == 0 {
		cd.NumTrianglesV1 = minimumTriangles
	}

	if vol.IsSculpted() {
		if vol.IsMesh() {
			cd.MeshVols++
			if vol.IsRiggedMesh() {
				cd.WeightedMeshVols++
			}
		} else {
			cd.SculptVols++
			cd.Textures.Sculpt.Add(vol.SculptTexture())
		}
	}
	if vol.IsFlexible() {
		cd.FlexiVols++
	}
	if vol.ParticleSource() != nil {
		cd.ParticleSourceVols++
	}
	if vol.IsLight() {
		cd.ProducesLightVols++
	}

	materialsFaces := uint32(0)
	for _, face := range vol.Faces() {
		if face == nil {
			continue
		}
		te := face.TextureEntry()
		img := face.Texture()
		if img != nil {
			if fetched, ok := textures.Texture(img.ID); ok {
				img = fetched
			}
		}

		var mat *metadata.Material
		if te != nil {
			mat = te.Material
		}
		if mat != nil {
			materialsFaces++
			if mat.HasNormalMap() {
				cd.NormalMapFaces++
				cd.Textures.Normal.Add(mat.NormalID)
			}
			if mat.HasSpecularMap() {
				cd.SpecularMapFaces++
				cd.Textures.Specular.Add(mat.SpecularID)
			}
		}
		if img != nil {
			cd.Textures.Diffuse.Add(img.ID)
		}

		switch pool := face.PoolType(); {
		case pool == metadata.PoolAlpha:
			cd.AlphaFaces++
		case pool == metadata.PoolAlphaMask || pool == metadata.PoolFullbrightAlphaMask:
			cd.AlphaMaskFaces++
		case pool == metadata.PoolFullbright:
			cd.FullbrightFaces++
		case img != nil && img.Format == metadata.TextureFormatAlpha:
			cd.InvisiFaces = 1
		}

		if face.HasMedia() {
			cd.MediaFaces++
		}

		if te == nil {
			continue
		}
		if te.Bumpmap() > 0 {
			cd.BumpFaces++
		}
		if te.Shiny() > 0 {
			cd.ShinyFaces++
		}
		// any bump, shiny or fullbright bit counts towards all three
		if te.BumpShinyFullbright() != 0 {
			cd.BumpAnyFaces++
			cd.ShinyAnyFaces++
			cd.FullbrightFaces++
		}
		if te.Glow > 0 {
			cd.GlowFaces++
		}
		if face.HasTextureMatrix() {
			cd.AnimatedFaces++
		}
		if te.TexGen > 0 {
			cd.PlanarFaces++
		}
	}
	if materialsFaces > 0 {
		cd.MaterialsVols++
		cd.MaterialsFaces += materialsFaces
	}

	if ps := vol.ParticleSource(); ps != nil {
		cd.NumParticles += particleCount(ps)
		cd.PartSize += particleSize(ps)
	}

	cd.TriangleCount = vol.TriangleCount()
	cd.TriangleCountLowest = vol.LODTriangleCount(metadata.LODImpostor)
	cd.TriangleCountLow = vol.LODTriangleCount(metadata.LODLow)
	cd.TriangleCountMedium = vol.LODTriangleCount(metadata.LODMedium)
	cd.TriangleCountHigh = vol.LODTriangleCount(metadata.LODHigh)

	cd.ActualTrianglesCharged = metadata.ChargedTriangleCount([metadata.NumLODs]float32{
		float32(cd.TriangleCountLowest),
		float32(cd.TriangleCountLow),
		float32(cd.TriangleCountMedium),
		float32(cd.TriangleCountHigh),
	})
	cd.NumTrianglesV2 = truncateTriangles(float64(cd.ActualTrianglesCharged))

	core.LogDebug("collected %s: v1 tris %d, v2 tris %d, %d diffuse textures",
		vol.ID(), cd.NumTrianglesV1, cd.NumTrianglesV2, len(cd.Textures.Diffuse))
	return cd
}

// particleCount is the number of live particles an emitter sustains.
func particleCount(ps *metadata.ParticleSystem) uint32 {
	if ps.BurstRate <= 0 {
		return maxParticleCount
	}
	n := float64(ps.BurstPartCount) * gomath.Ceil(float64(ps.PartData.MaxAge/ps.BurstRate))
	return uint32(math.Clamp(n, 0, float64(maxParticleCount)))
}

// particleSize averages the larger of the start and end scale per axis.
func particleSize(ps *metadata.ParticleSystem) float32 {
	pd := ps.PartData
	return (math.Max(pd.StartScale.X, pd.EndScale.X) + math.Max(pd.StartScale.Y, pd.EndScale.Y)) / 2
}

func truncateTriangles(n float64) uint32 {
	if gomath.IsNaN(n) || n <= 0 {
		return 0
	}
	if n >= gomath.MaxUint32 {
		return gomath.MaxUint32
	}
	return uint32(n)
}
