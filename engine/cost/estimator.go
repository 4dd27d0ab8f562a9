package cost

import (
	"github.com/spaghettifunk/rendercost/engine/core"
	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
)

// strategy is the set of formulas a version scores with.
type strategy struct {
	triangles func(cd *PrimCostData) float32
	textures  func(res TextureResolver, sets *TextureSets) uint32
	streaming func(vol Volume, triangleBudget uint32) float32
}

var strategies = map[Version]strategy{
	VersionLegacy: {
		triangles: triangleCostsV1,
		textures:  textureSetCostsV1,
		streaming: streamingCostV1,
	},
	VersionRevised: {
		triangles: triangleCostsV2,
		textures:  textureSetCostsV2,
		streaming: streamingCostV2,
	},
}

// Estimator scores objects, linksets and avatars. It keeps no state
// between queries and is safe for concurrent use as long as the scene and
// the texture resolver are.
type Estimator struct {
	config   *Config
	textures TextureResolver
}

/**
 * @brief Creates a new estimator.
 * @param config The shared configuration. Nil uses DefaultConfig().
 * @param textures Resolves texture identifiers. Nil resolves nothing.
 */
func NewEstimator(config *Config, textures TextureResolver) *Estimator {
	if config == nil {
		config = DefaultConfig()
	}
	if textures == nil {
		textures = noTextures{}
	}
	return &Estimator{
		config:   config,
		textures: textures,
	}
}

// CurrentVersion is what VersionCurrent resolves to right now.
func (e *Estimator) CurrentVersion() Version {
	if e.config.DefaultVersion == VersionCurrent {
		return DefaultVersion
	}
	return e.config.DefaultVersion
}

func (e *Estimator) resolve(version Version) (Version, strategy, bool) {
	if version == VersionCurrent {
		version = e.CurrentVersion()
	}
	s, ok := strategies[version]
	if !ok {
		core.LogWarn("unrecognized cost version %d", uint32(version))
	}
	return version, s, ok
}

func (e *Estimator) triangleBudget() uint32 {
	if e.config.TriangleBudget == 0 {
		return metadata.MeshTriangleBudget
	}
	return e.config.TriangleBudget
}

// PrimCostData collects the cost relevant attributes of a single object.
func (e *Estimator) PrimCostData(vol Volume) *PrimCostData {
	return CollectPrimCostData(vol, e.textures)
}

/**
 * @brief The render cost of a single object, triangles plus the textures it
 * references.
 * @return The cost, or -1 if the version has no formula.
 */
func (e *Estimator) RenderCost(version Version, vol Volume) float32 {
	_, s, ok := e.resolve(version)
	if !ok {
		return -1
	}
	cd := CollectPrimCostData(vol, e.textures)
	cost := s.triangles(cd)
	cost += float32(s.textures(e.textures, &cd.Textures))
	return cost
}

/**
 * @brief The streaming cost of a single object.
 * @return The cost, or -1 if the version has no formula.
 */
func (e *Estimator) StreamingCost(version Version, vol Volume) float32 {
	_, s, ok := e.resolve(version)
	if !ok {
		return -1
	}
	return s.streaming(vol, e.triangleBudget())
}

/**
 * @brief The render cost of a linkset: the root object and its children.
 * Textures shared between members are charged once.
 * @param root Must be the root of its linkset.
 * @return The cost, or 0 for a non-root object or an unknown version.
 */
func (e *Estimator) RenderCostLinkset(version Version, root Volume) float32 {
	if root == nil || !root.IsRootEdit() {
		core.LogWarn("linkset cost requested for a non-root object")
		return 0
	}
	_, s, ok := e.resolve(version)
	if !ok {
		return 0
	}

	var cost float32
	sets := NewTextureSets()
	for _, vol := range linksetVolumes(root) {
		cd := CollectPrimCostData(vol, e.textures)
		cost += s.triangles(cd)
		sets.Merge(&cd.Textures)
	}
	cost += float32(s.textures(e.textures, &sets))

	if root.IsAnimatedObject() {
		cost += animatedLinksetCost
	}
	return cost
}

/**
 * @brief The streaming cost of a linkset, the sum over the root object and
 * its children.
 * @return The cost, or 0 for a non-root object or an unknown version.
 */
func (e *Estimator) StreamingCostLinkset(version Version, root Volume) float32 {
	volumes := linksetVolumes(root)
	if len(volumes) == 0 {
		core.LogWarn("linkset streaming cost requested for a non-root object")
		return 0
	}
	_, s, ok := e.resolve(version)
	if !ok {
		return 0
	}
	var cost float32
	for _, vol := range volumes {
		cost += s.streaming(vol, e.triangleBudget())
	}
	return cost
}

// AvatarCost is the result of an avatar query.
type AvatarCost struct {
	// Version is the version the query resolved to.
	Version Version
	Cost    float32
	// AttachmentCount is the number of non HUD attachments scored.
	AttachmentCount int
}

// VisualComplexity is the cost as the integer the UI reports.
func (ac AvatarCost) VisualComplexity() uint32 {
	return truncateTriangles(float64(ac.Cost))
}

/**
 * @brief Sums the linkset cost of every non HUD attachment of an avatar.
 * The configured default is read once so every attachment is scored with
 * the same version.
 */
func (e *Estimator) AvatarRenderCost(version Version, av Avatar) AvatarCost {
	v, _, ok := e.resolve(version)
	res := AvatarCost{Version: v}
	if !ok || av == nil {
		return res
	}
	for _, point := range av.AttachmentPoints() {
		for _, obj := range point.Objects {
			if obj == nil || obj.IsHUDAttachment() {
				continue
			}
			res.Cost += e.RenderCostLinkset(v, obj)
			res.AttachmentCount++
		}
	}
	return res
}

// linksetVolumes is the root followed by its children, empty when root is
// not the root of a linkset.
func linksetVolumes(root Volume) []Volume {
	if root == nil || !root.IsRootEdit() {
		return nil
	}
	children := root.Children()
	volumes := make([]Volume, 0, len(children)+1)
	volumes = append(volumes, root)
	for _, child := range children {
		if child != nil {
			volumes = append(volumes, child)
		}
	}
	return volumes
}
