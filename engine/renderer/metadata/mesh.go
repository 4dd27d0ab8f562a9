package metadata

import (
	"github.com/spaghettifunk/rendercost/engine/math"
)

/** @brief Level of detail tiers, lowest first. */
type LOD int

const (
	LODImpostor LOD = iota
	LODLow
	LODMedium
	LODHigh
)

/** @brief The number of level of detail tiers a mesh carries. */
const NumLODs = 4

func (l LOD) String() string {
	switch l {
	case LODImpostor:
		return "impostor"
	case LODLow:
		return "low"
	case LODMedium:
		return "medium"
	case LODHigh:
		return "high"
	default:
		return "invalid"
	}
}

const (
	/** @brief Fixed streaming cost of an animated object's skeleton, charged once per linkset. */
	AnimatedObjectBaseCost float32 = 15.0
	/** @brief Streaming cost per thousand charged triangles of an animated object. */
	AnimatedObjectCostPerKTri float32 = 1.5

	/** @brief Bytes of each LOD block discounted as header metadata. */
	MeshMetaDataDiscount float32 = 384
	/** @brief Smallest LOD block size considered when estimating triangles. */
	MeshMinimumByteSize float32 = 16
	/** @brief Average compressed bytes per triangle. */
	MeshBytesPerTriangle float32 = 16
	/** @brief Default triangle budget the radius based streaming cost is normalised against. */
	MeshTriangleBudget uint32 = 250000

	/** @brief Bytes per triangle assumed when a primitive's LOD triangle counts stand in for a mesh header. */
	PrimBytesPerTriangle uint32 = 10

	meshMaxDistance       float32 = 512
	meshMaxArea           float32 = 102944 // circle enclosing a region
	meshMinArea           float32 = 1
	chargedTriangleFloor  float32 = 64
	streamingCostPerTotal float32 = 15000
)

/**
 * @brief Size and triangle estimates of an object's four LODs, the input
 * of every mesh based cost.
 */
type MeshCostData struct {
	sizeByLOD    [NumLODs]uint32
	estTrisByLOD [NumLODs]float32
}

/**
 * @brief Builds cost data from the byte size of each LOD block of a mesh asset.
 * Missing lower LODs take the size of the next higher one. Returns false
 * when the high LOD is missing, which means there is nothing to charge.
 */
func NewMeshCostData(sizeByLOD [NumLODs]uint32) (*MeshCostData, bool) {
	if sizeByLOD[LODHigh] == 0 {
		return nil, false
	}
	for i := int(LODHigh) - 1; i >= int(LODImpostor); i-- {
		if sizeByLOD[i] == 0 {
			sizeByLOD[i] = sizeByLOD[i+1]
		}
	}

	mcd := &MeshCostData{sizeByLOD: sizeByLOD}
	for i := 0; i < NumLODs; i++ {
		mcd.estTrisByLOD[i] = math.Max(float32(sizeByLOD[i])-MeshMetaDataDiscount, MeshMinimumByteSize) / MeshBytesPerTriangle
	}
	return mcd, true
}

/**
 * @brief Builds cost data for a primitive shape from its triangle count per LOD.
 */
func NewPrimMeshCostData(trisByLOD [NumLODs]uint32) (*MeshCostData, bool) {
	var sizes [NumLODs]uint32
	for i := 0; i < NumLODs; i++ {
		sizes[i] = trisByLOD[i] * PrimBytesPerTriangle
	}
	return NewMeshCostData(sizes)
}

func (mcd *MeshCostData) SizeByLOD(lod LOD) uint32 {
	return mcd.sizeByLOD[lod]
}

func (mcd *MeshCostData) EstTrisByLOD(lod LOD) float32 {
	return mcd.estTrisByLOD[lod]
}

/**
 * @brief Blends the estimated triangles of each LOD by the screen area over
 * which that LOD is displayed for an object of the given radius.
 */
func (mcd *MeshCostData) RadiusWeightedTris(radius float32) float32 {
	dlowest := math.Min(radius/0.03, meshMaxDistance)
	dlow := math.Min(radius/0.06, meshMaxDistance)
	dmid := math.Min(radius/0.24, meshMaxDistance)

	highArea := math.Min(math.K_PI*dmid*dmid, meshMaxArea)
	midArea := math.Min(math.K_PI*dlow*dlow, meshMaxArea)
	lowArea := math.Min(math.K_PI*dlowest*dlowest, meshMaxArea)
	lowestArea := meshMaxArea

	lowestArea -= lowArea
	lowArea -= midArea
	midArea -= highArea

	highArea = math.Clamp(highArea, meshMinArea, meshMaxArea)
	midArea = math.Clamp(midArea, meshMinArea, meshMaxArea)
	lowArea = math.Clamp(lowArea, meshMinArea, meshMaxArea)
	lowestArea = math.Clamp(lowestArea, meshMinArea, meshMaxArea)

	totalArea := highArea + midArea + lowArea + lowestArea
	highArea /= totalArea
	midArea /= totalArea
	lowArea /= totalArea
	lowestArea /= totalArea

	return mcd.estTrisByLOD[LODHigh]*highArea +
		mcd.estTrisByLOD[LODMedium]*midArea +
		mcd.estTrisByLOD[LODLow]*lowArea +
		mcd.estTrisByLOD[LODImpostor]*lowestArea
}

func (mcd *MeshCostData) EstTrisForStreamingCost() float32 {
	return ChargedTriangleCount(mcd.estTrisByLOD)
}

func (mcd *MeshCostData) RadiusBasedStreamingCost(radius float32, triangleBudget uint32) float32 {
	if triangleBudget == 0 {
		triangleBudget = MeshTriangleBudget
	}
	return mcd.RadiusWeightedTris(radius) / float32(triangleBudget) * streamingCostPerTotal
}

func (mcd *MeshCostData) TriangleBasedStreamingCost() float32 {
	return AnimatedObjectCostPerKTri * 0.001 * mcd.EstTrisForStreamingCost()
}

/**
 * @brief Charges the full high LOD plus, for every lower LOD, the triangles
 * in excess of half the previous LOD's allowance. Allowances never drop
 * below 64 triangles.
 */
func ChargedTriangleCount(trisByLOD [NumLODs]float32) float32 {
	charged := trisByLOD[LODHigh]
	allowed := trisByLOD[LODHigh]
	for i := int(LODHigh) - 1; i >= int(LODImpostor); i-- {
		// min(max()) rather than Clamp: the floor may exceed the LOD's own count.
		allowed = math.Min(math.Max(allowed/2, chargedTriangleFloor), trisByLOD[i])
		if excess := trisByLOD[i] - allowed; excess > 0 {
			charged += excess
		}
	}
	return charged
}
