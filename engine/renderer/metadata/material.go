package metadata

import "github.com/google/uuid"

/**
 * @brief Material parameters attached to a face on top of its
 * diffuse texture.
 */
type Material struct {
	/** @brief The normal map texture, uuid.Nil when absent. */
	NormalID uuid.UUID
	/** @brief The specular map texture, uuid.Nil when absent. */
	SpecularID uuid.UUID
}

func (m *Material) HasNormalMap() bool {
	return m != nil && m.NormalID != uuid.Nil
}

func (m *Material) HasSpecularMap() bool {
	return m != nil && m.SpecularID != uuid.Nil
}
