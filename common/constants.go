package common

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// TPS is the fixed update rate of the game loop.
	TPS = 60

	// PixelsPerUnit converts world units (y up, ground at 0) to screen pixels.
	PixelsPerUnit = 72.0
)
