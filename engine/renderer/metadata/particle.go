package metadata

import "github.com/spaghettifunk/rendercost/engine/math"

// ParticleData describes a single emitted particle.
type ParticleData struct {
	MaxAge     float32
	StartScale math.Vec2
	EndScale   math.Vec2
}

// ParticleSystem is the emitter configuration of a particle source.
type ParticleSystem struct {
	BurstPartCount uint8
	BurstRate      float32
	PartData       ParticleData
}
