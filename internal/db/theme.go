package db

// Button styles accepted by Theme.ButtonStyle.
const (
	ButtonStyleRounded       = "rounded"
	ButtonStylePill          = "pill"
	ButtonStyleSquare        = "square"
	ButtonStyleGlassmorphism = "glassmorphism"
)

// Background styles accepted by Theme.BackgroundStyle.
const (
	BackgroundStyleGradient = "gradient"
	BackgroundStyleSolid    = "solid"
	BackgroundStyleMesh     = "mesh"
	BackgroundStyleImage    = "image"
)

// Theme is the fixed-shape appearance configuration stored as a JSON column.
type Theme struct {
	BackgroundColor    string `json:"backgroundColor"`
	CardColor          string `json:"cardColor"`
	PrimaryColor       string `json:"primaryColor"`
	SecondaryColor     string `json:"secondaryColor"`
	TextColor          string `json:"textColor"`
	SubtextColor       string `json:"subtextColor"`
	FontFamily         string `json:"fontFamily"`
	ButtonStyle        string `json:"buttonStyle"`
	BackgroundStyle    string `json:"backgroundStyle"`
	BackgroundGradient string `json:"backgroundGradient"`
	BackgroundImage    string `json:"backgroundImage"`
	AnimationEnabled   bool   `json:"animationEnabled"`
}

// DefaultTheme returns the theme a freshly registered profile starts with.
func DefaultTheme() Theme {
	return Theme{
		BackgroundColor:    "#0f0f1a",
		CardColor:          "#1a1a2e",
		PrimaryColor:       "#6c63ff",
		SecondaryColor:     "#ff6584",
		TextColor:          "#ffffff",
		SubtextColor:       "#a0a0c0",
		FontFamily:         "Inter",
		ButtonStyle:        ButtonStyleRounded,
		BackgroundStyle:    BackgroundStyleGradient,
		BackgroundGradient: "linear-gradient(135deg, #0f0f1a 0%, #1a1a3e 50%, #0f0f2a 100%)",
		BackgroundImage:    "",
		AnimationEnabled:   true,
	}
}

// ButtonStyles lists the accepted button styles.
func ButtonStyles() []string {
	return []string{ButtonStyleRounded, ButtonStylePill, ButtonStyleSquare, ButtonStyleGlassmorphism}
}

// BackgroundStyles lists the accepted background styles.
func BackgroundStyles() []string {
	return []string{BackgroundStyleGradient, BackgroundStyleSolid, BackgroundStyleMesh, BackgroundStyleImage}
}
