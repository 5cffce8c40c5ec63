package sheet

// StaticFont is a font family that needs no uploaded binary.
type StaticFont struct {
	Name          string
	Family        string
	StylesheetURL string
}

// DefaultFontFamily is the KaiTi stack used whenever no other font resolves.
const DefaultFontFamily = `KaiTi, "楷体", "STKaiti", "BiauKai", "標楷體", serif`

var staticFonts = []StaticFont{
	{Name: "系统楷体", Family: DefaultFontFamily},
	{Name: "系统宋体", Family: `"SimSun", "宋体", "STSong", "Songti SC", serif`},
	{Name: "系统黑体", Family: `"SimHei", "黑体", "STHeiti", "Heiti SC", sans-serif`},
	{Name: "系统仿宋", Family: `"FangSong", "仿宋", "STFangsong", "Fangsong", serif`},
	{
		Name:          "Noto Serif SC",
		Family:        `"Noto Serif SC", "SimSun", "宋体", serif`,
		StylesheetURL: "https://fonts.googleapis.com/css2?family=Noto+Serif+SC:wght@400;700&display=swap",
	},
	{
		Name:          "Ma Shan Zheng",
		Family:        `"Ma Shan Zheng", "KaiTi", "楷体", cursive`,
		StylesheetURL: "https://fonts.googleapis.com/css2?family=Ma+Shan+Zheng&display=swap",
	},
}

// StaticFonts returns the catalog in display order.
func StaticFonts() []StaticFont {
	return append([]StaticFont(nil), staticFonts...)
}

// LookupStaticFont finds a catalog entry by its family stack.
func LookupStaticFont(family string) (StaticFont, bool) {
	for _, f := range staticFonts {
		if f.Family == family {
			return f, true
		}
	}
	return StaticFont{}, false
}

// DefaultStaticFont returns the catalog entry for DefaultFontFamily.
func DefaultStaticFont() StaticFont {
	return staticFonts[0]
}
