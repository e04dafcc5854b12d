package seal

// FontOption is one entry of the font picker offered to users.
type FontOption struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Family string `json:"family"`
}

// Catalog lists the selectable label fonts. The first entry is the default.
var Catalog = []FontOption{
	{ID: "DFKai-SB", Label: "標楷體（系統）", Family: "DFKai-SB"},
	{ID: "Microsoft JhengHei", Label: "微軟正黑體", Family: "Microsoft JhengHei"},
	{ID: "SimHei", Label: "黑體", Family: "SimHei"},
	{ID: "SimSun", Label: "宋體", Family: "SimSun"},
	{ID: "serif", Label: "襯線體（備用）", Family: "serif"},
}

// LookupFont returns the catalog entry with the given id.
func LookupFont(id string) (FontOption, bool) {
	for _, opt := range Catalog {
		if opt.ID == id {
			return opt, true
		}
	}
	return FontOption{}, false
}

// SystemFamilies lists the families worth looking up among installed fonts:
// every catalog family except the built-in fallback, plus the watermark font.
func SystemFamilies() []string {
	out := make([]string, 0, len(Catalog)+1)
	for _, opt := range Catalog {
		if normalizeFamily(opt.Family) != FallbackFamily {
			out = append(out, opt.Family)
		}
	}
	return append(out, "Times New Roman")
}
