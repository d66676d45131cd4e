package view

// PlatformOption describes a social platform the frontend has an icon for.
type PlatformOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var platformDefinitions = []PlatformOption{
	{Key: "github", Label: "GitHub"},
	{Key: "twitter", Label: "Twitter"},
	{Key: "x", Label: "X"},
	{Key: "instagram", Label: "Instagram"},
	{Key: "linkedin", Label: "LinkedIn"},
	{Key: "youtube", Label: "YouTube"},
	{Key: "tiktok", Label: "TikTok"},
	{Key: "facebook", Label: "Facebook"},
	{Key: "mastodon", Label: "Mastodon"},
	{Key: "telegram", Label: "Telegram"},
	{Key: "discord", Label: "Discord"},
	{Key: "twitch", Label: "Twitch"},
	{Key: "email", Label: "Email"},
	{Key: "website", Label: "Website"},
}

// PlatformOptions exposes the known platform keys for the admin UI.
func PlatformOptions() []PlatformOption {
	options := make([]PlatformOption, len(platformDefinitions))
	copy(options, platformDefinitions)
	return options
}
