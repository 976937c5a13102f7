// Package domain holds the shared vocabulary of the content intelligence
// engine: platform and brand-profile enumerations, risk and safety levels,
// and the audience/content aggregates consumed by the scoring and strategy
// packages.
package domain

// Platform identifies a social publishing platform.
type Platform string

const (
	PlatformGeneral   Platform = "general"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformFacebook  Platform = "facebook"
)

// AllPlatforms returns the tracked platforms in priority order.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformLinkedIn, PlatformTwitter, PlatformInstagram,
		PlatformTikTok, PlatformYouTube, PlatformFacebook, PlatformGeneral,
	}
}

// ParsePlatform normalizes a platform string. Unknown values fall back to
// PlatformGeneral rather than erroring; the engine must stay total over
// caller-supplied strings.
func ParsePlatform(s string) Platform {
	switch Platform(s) {
	case PlatformLinkedIn, PlatformTwitter, PlatformInstagram,
		PlatformTikTok, PlatformYouTube, PlatformFacebook, PlatformGeneral:
		return Platform(s)
	default:
		return PlatformGeneral
	}
}

// BrandProfile expresses an organization's risk tolerance. It is fixed at
// analyzer construction and selects the safety threshold table.
type BrandProfile string

const (
	ProfileConservative BrandProfile = "conservative"
	ProfileModerate     BrandProfile = "moderate"
	ProfileAggressive   BrandProfile = "aggressive"
)

// ParseBrandProfile falls back to ProfileModerate for unknown input.
func ParseBrandProfile(s string) BrandProfile {
	switch BrandProfile(s) {
	case ProfileConservative, ProfileModerate, ProfileAggressive:
		return BrandProfile(s)
	default:
		return ProfileModerate
	}
}
