package frame

// LightDirection is one of the 9 compass values used by the compositor to
// place the simulated light source. "center" means straight-on lighting.
type LightDirection string

const (
	LightCenter    LightDirection = "center"
	LightNorth     LightDirection = "n"
	LightNorthEast LightDirection = "ne"
	LightEast      LightDirection = "e"
	LightSouthEast LightDirection = "se"
	LightSouth     LightDirection = "s"
	LightSouthWest LightDirection = "sw"
	LightWest      LightDirection = "w"
	LightNorthWest LightDirection = "nw"
)

// LightDirections lists the accepted values in UI order.
func LightDirections() []LightDirection {
	return []LightDirection{
		LightNorthWest, LightNorth, LightNorthEast,
		LightWest, LightCenter, LightEast,
		LightSouthWest, LightSouth, LightSouthEast,
	}
}

// Appearance is the set of compositing parameters attached to a frame. The
// values travel unchanged to the remote compositor; only DepthMultiplier is
// consumed locally (perspective plausibility correction during detection).
type Appearance struct {
	Brightness      float64        `json:"brightness"`
	Contrast        float64        `json:"contrast"`
	Saturation      float64        `json:"saturation"`
	ImageBlur       float64        `json:"image_blur"`
	EdgeBlur        float64        `json:"edge_blur"`
	OverlayOpacity  float64        `json:"overlay_opacity"`
	LightDirection  LightDirection `json:"light_direction"`
	DepthMultiplier float64        `json:"depth_multiplier"`
	ShadowIntensity float64        `json:"shadow_intensity"`
	LightingAdjust  float64        `json:"lighting_adjust"`
	ColorTemp       float64        `json:"color_temp"`
	Vignette        float64        `json:"vignette"`
	EdgeSmoothing   float64        `json:"edge_smoothing"`
	Sharpening      float64        `json:"sharpening"`
}

// DefaultAppearance returns the neutral parameter set applied to newly
// committed frames.
func DefaultAppearance() Appearance {
	return Appearance{
		Brightness:      1.0,
		Contrast:        1.0,
		Saturation:      1.0,
		OverlayOpacity:  1.0,
		LightDirection:  LightCenter,
		DepthMultiplier: 15,
	}
}
