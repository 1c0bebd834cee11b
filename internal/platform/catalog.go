package platform

// Config describes one deliverable social platform. The catalog is the single
// source for both upload target validation and analytics chart colors.
type Config struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var catalog = []Config{
	{ID: "facebook", Label: "Facebook", Icon: "Facebook", Color: "#1877F2"},
	{ID: "instagram", Label: "Instagram", Icon: "Instagram", Color: "#E4405F"},
	{ID: "linkedin", Label: "LinkedIn", Icon: "Linkedin", Color: "#0A66C2"},
	{ID: "twitter", Label: "Twitter (X)", Icon: "Twitter", Color: "#000000"},
	{ID: "tiktok", Label: "TikTok", Icon: "Music2", Color: "#000000"},
	{ID: "youtube", Label: "YouTube", Icon: "Youtube", Color: "#FF0000"},
	{ID: "pinterest", Label: "Pinterest", Icon: "Pin", Color: "#BD081C"},
	{ID: "google_business", Label: "Google Business", Icon: "MapPin", Color: "#4285F4"},
}

// Catalog returns the fixed platform list in display order.
// Callers must not mutate the returned slice.
func Catalog() []Config {
	return catalog
}

func ByID(id string) (Config, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Config{}, false
}

func IsValid(id string) bool {
	_, ok := ByID(id)
	return ok
}
