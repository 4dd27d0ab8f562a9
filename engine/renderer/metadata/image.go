package metadata

/**
 * @brief A structure to hold image resource data. Only the header is
 * decoded, pixels are never needed to cost a texture.
 */
type ImageResourceData struct {
	/** @brief The number of channels. */
	ChannelCount uint8
	/** @brief The width of the image. */
	Width uint32
	/** @brief The height of the image. */
	Height uint32
	/** @brief The primary format derived from the colour model. */
	Format TextureFormat
	/** @brief The decoder that recognised the file, e.g. "png". */
	Codec string
}
