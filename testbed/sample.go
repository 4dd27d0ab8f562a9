package testbed

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
	"github.com/spaghettifunk/rendercost/engine/scene"
	"golang.org/x/exp/rand"
)

var attachmentPoints = []string{
	"chest", "skull", "left_shoulder", "right_shoulder", "left_hand", "right_hand",
	"left_foot", "right_foot", "spine", "pelvis", "mouth", "chin",
}

var hudPoints = []string{"hud_center", "hud_top_left", "hud_bottom"}

var pools = []string{"", "", "", "alpha", "alpha_mask", "fullbright", "fullbright_alpha_mask"}

var textureSizes = []uint32{64, 128, 256, 512, 1024}

// generator carries the random source and the textures declared so far.
type generator struct {
	rng      *rand.Rand
	textures []scene.TextureDescription
}

/**
 * @brief Generates a random but valid scene description. The same seed
 * always yields the same description.
 * @param seed The random seed.
 * @param avatars The number of avatars, each wearing one to four linksets.
 * @return The description.
 */
func Generate(seed uint64, avatars int) *scene.Description {
	g := &generator{rng: rand.New(rand.NewSource(seed))}
	desc := &scene.Description{
		Name: fmt.Sprintf("sample-%d", seed),
	}

	for i, n := 0, 3+g.rng.Intn(6); i < n; i++ {
		g.textures = append(g.textures, g.texture(i))
	}

	for i := 0; i < avatars; i++ {
		av := scene.AvatarDescription{
			ID:        g.id(),
			Name:      fmt.Sprintf("Resident %d", i+1),
			Self:      i == 0,
			RezStatus: "full",
		}
		for j, n := 0, 1+g.rng.Intn(4); j < n; j++ {
			point := attachmentPoints[g.rng.Intn(len(attachmentPoints))]
			hud := g.rng.Intn(8) == 0
			if hud {
				point = hudPoints[g.rng.Intn(len(hudPoints))]
			}
			root := g.linkset(fmt.Sprintf("%s attachment %d", av.Name, j+1), hud)
			desc.Objects = append(desc.Objects, root)
			av.Attachments = append(av.Attachments, scene.AttachmentDescription{
				Point:   point,
				Objects: []string{root.ID},
			})
		}
		desc.Avatars = append(desc.Avatars, av)
	}

	for i, n := 0, 2+g.rng.Intn(4); i < n; i++ {
		desc.Objects = append(desc.Objects, g.linkset(fmt.Sprintf("object %d", i+1), false))
	}

	desc.Textures = g.textures
	return desc
}

func (g *generator) id() string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// the generator never fails to read
		panic(err)
	}
	return id.String()
}

func (g *generator) texture(i int) scene.TextureDescription {
	components := uint8(3 + g.rng.Intn(2))
	if g.rng.Intn(10) == 0 {
		components = 1
	}
	return scene.TextureDescription{
		ID:         g.id(),
		Name:       fmt.Sprintf("texture %d", i+1),
		Width:      textureSizes[g.rng.Intn(len(textureSizes))],
		Height:     textureSizes[g.rng.Intn(len(textureSizes))],
		Components: components,
		Discard:    int32(g.rng.Intn(3)),
	}
}

func (g *generator) pickTexture() string {
	// one face in ten points at a texture that was never fetched
	if g.rng.Intn(10) == 0 {
		return g.id()
	}
	return g.textures[g.rng.Intn(len(g.textures))].ID
}

func (g *generator) linkset(name string, hud bool) scene.ObjectDescription {
	root := g.object(name, true)
	root.HUD = hud
	for i, n := 0, g.rng.Intn(4); i < n; i++ {
		root.Children = append(root.Children, g.object(fmt.Sprintf("%s link %d", name, i+1), false))
	}
	return root
}

func (g *generator) object(name string, root bool) scene.ObjectDescription {
	od := scene.ObjectDescription{
		ID:    g.id(),
		Name:  name,
		Scale: []float32{g.scale(), g.scale(), g.scale()},
	}

	od.LODTriangles = g.lods()
	if g.rng.Intn(2) == 0 {
		// a mesh is sculpted with its mesh asset, not a texture
		od.Mesh = true
		od.Rigged = g.rng.Intn(3) == 0
		od.Sculpt = g.id()
		od.LODBytes = make([]uint32, len(od.LODTriangles))
		for i, tris := range od.LODTriangles {
			od.LODBytes[i] = tris * uint32(metadata.MeshBytesPerTriangle)
		}
	} else {
		od.Flexible = g.rng.Intn(10) == 0
		if g.rng.Intn(6) == 0 {
			od.Sculpt = g.pickTexture()
		}
	}
	od.Animated = root && od.Rigged && g.rng.Intn(2) == 0
	od.Light = g.rng.Intn(8) == 0

	if g.rng.Intn(10) == 0 {
		od.Particles = &scene.ParticleDescription{
			BurstCount: uint8(1 + g.rng.Intn(32)),
			BurstRate:  0.1 + g.rng.Float32()*2,
			MaxAge:     1 + g.rng.Float32()*10,
			StartScale: []float32{g.rng.Float32(), g.rng.Float32()},
			EndScale:   []float32{g.rng.Float32(), g.rng.Float32()},
		}
	}

	for i, n := 0, 1+g.rng.Intn(6); i < n; i++ {
		od.Faces = append(od.Faces, g.face())
	}
	return od
}

func (g *generator) face() scene.FaceDescription {
	fd := scene.FaceDescription{
		Pool:            pools[g.rng.Intn(len(pools))],
		Texture:         g.pickTexture(),
		Planar:          g.rng.Intn(6) == 0,
		AnimatedTexture: g.rng.Intn(12) == 0,
		Media:           g.rng.Intn(20) == 0,
	}
	if g.rng.Intn(4) == 0 {
		fd.Bump = uint8(1 + g.rng.Intn(17))
	}
	if g.rng.Intn(4) == 0 {
		fd.Shiny = uint8(1 + g.rng.Intn(3))
	}
	fd.Fullbright = g.rng.Intn(8) == 0
	if g.rng.Intn(5) == 0 {
		fd.Glow = g.rng.Float32()
	}
	if g.rng.Intn(3) == 0 {
		fd.Material = true
		if g.rng.Intn(2) == 0 {
			fd.Normal = g.pickTexture()
		}
		if g.rng.Intn(2) == 0 {
			fd.Specular = g.pickTexture()
		}
	}
	return fd
}

func (g *generator) scale() float32 {
	return 0.05 + g.rng.Float32()*4
}

// lods returns increasing per-LOD triangle counts, lowest detail first.
func (g *generator) lods() []uint32 {
	high := uint32(16 + g.rng.Intn(20000))
	return []uint32{high / 16, high / 8, high / 4, high}
}
