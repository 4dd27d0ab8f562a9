package cost

import "github.com/spaghettifunk/rendercost/engine/renderer/metadata"

// streamingCostV1 charges the bandwidth needed to download the object's
// geometry. Rigged animated meshes are charged per triangle, everything
// else by its radius weighted triangle estimate.
func streamingCostV1(vol Volume, triangleBudget uint32) float32 {
	mcd, ok := vol.MeshCostData()
	if !ok {
		return 0
	}
	var base float32
	if vol.IsAnimatedObject() && vol.IsRootEdit() {
		base = metadata.AnimatedObjectBaseCost
	}
	if vol.IsMesh() && vol.IsAnimatedObject() && vol.IsRiggedMesh() {
		return base + mcd.TriangleBasedStreamingCost()
	}
	radius := vol.Scale().Length() * 0.5
	return base + mcd.RadiusBasedStreamingCost(radius, triangleBudget)
}

// streamingCostV2 has no formula of its own yet.
func streamingCostV2(vol Volume, triangleBudget uint32) float32 {
	return streamingCostV1(vol, triangleBudget)
}
