package targets

// folderMap maps RomM platform slugs to EmulationStation folder names,
// compatible with both RetroPie and ES-DE.
var folderMap = map[string]string{
	"3do":                  "3do",
	"amiga":                "amiga",
	"amstrad-cpc":          "amstradcpc",
	"arcade":               "arcade",
	"atari-2600":           "atari2600",
	"atari-5200":           "atari5200",
	"atari-7800":           "atari7800",
	"atari-jaguar":         "atarijaguar",
	"atari-lynx":           "atarilynx",
	"atari-st":             "atarist",
	"colecovision":         "coleco",
	"commodore-64":         "c64",
	"dreamcast":            "dreamcast",
	"famicom-disk-system":  "fds",
	"game-boy":             "gb",
	"game-boy-advance":     "gba",
	"game-boy-color":       "gbc",
	"game-gear":            "gamegear",
	"gamecube":             "gc",
	"genesis":              "megadrive",
	"intellivision":        "intellivision",
	"master-system":        "mastersystem",
	"mega-drive":           "megadrive",
	"msx":                  "msx",
	"n64":                  "n64",
	"neo-geo":              "neogeo",
	"neo-geo-cd":           "neogeocd",
	"neo-geo-pocket":       "ngp",
	"neo-geo-pocket-color": "ngpc",
	"nes":                  "nes",
	"nintendo-3ds":         "3ds",
	"nintendo-ds":          "nds",
	"nintendo-switch":      "switch",
	"pc-engine":            "pcengine",
	"pc-engine-cd":         "pcenginecd",
	"psx":                  "psx",
	"ps2":                  "ps2",
	"ps3":                  "ps3",
	"psp":                  "psp",
	"psvita":               "psvita",
	"saturn":               "saturn",
	"sega-32x":             "sega32x",
	"sega-cd":              "segacd",
	"snes":                 "snes",
	"super-famicom":        "snes",
	"turbografx-16":        "tg16",
	"turbografx-cd":        "tg-cd",
	"vectrex":              "vectrex",
	"virtual-boy":          "virtualboy",
	"wii":                  "wii",
	"wii-u":                "wiiu",
	"wonderswan":           "wonderswan",
	"wonderswan-color":     "wonderswancolor",
	"xbox":                 "xbox",
	"xbox-360":             "xbox360",
	"zx-spectrum":          "zxspectrum",
	// ES-DE specific additions
	"playstation":          "psx",
	"playstation-2":        "ps2",
	"playstation-3":        "ps3",
	"playstation-portable": "psp",
	"playstation-vita":     "psvita",
}

// FolderFor maps a RomM platform slug to its EmulationStation folder name.
// Unknown slugs map to themselves.
func FolderFor(slug string) string {
	if folder, ok := folderMap[slug]; ok {
		return folder
	}
	return slug
}
