package input

// DefaultKeyboardLayout is the DOS layout used when no more specific one can be found
const DefaultKeyboardLayout = "us"

// keyboardLayoutMap maps host input method identifiers to DOS keyboard layout codes.
// macOS input sources are keyed by their TIS identifier, Windows layouts by KLID.
var keyboardLayoutMap = map[string]string{
	// macOS
	"com.apple.keylayout.US":                 "us",
	"com.apple.keylayout.ABC":                "us",
	"com.apple.keylayout.USExtended":         "us",
	"com.apple.keylayout.US-International":   "us",
	"com.apple.keylayout.USInternational-PC": "us",
	"com.apple.keylayout.Australian":         "us",
	"com.apple.keylayout.Colemak":            "us",
	"com.apple.keylayout.Dvorak":             "dv",
	"com.apple.keylayout.DVORAK-QWERTYCMD":   "dv",
	"com.apple.keylayout.British":            "uk",
	"com.apple.keylayout.British-PC":         "uk",
	"com.apple.keylayout.Irish":              "uk",
	"com.apple.keylayout.Canadian":           "us",
	"com.apple.keylayout.Canadian-CSA":       "cf",
	"com.apple.keylayout.French":             "fr",
	"com.apple.keylayout.French-PC":          "fr",
	"com.apple.keylayout.French-numerical":   "fr",
	"com.apple.keylayout.Belgian":            "be",
	"com.apple.keylayout.SwissFrench":        "sf",
	"com.apple.keylayout.SwissGerman":        "sg",
	"com.apple.keylayout.German":             "gr",
	"com.apple.keylayout.Austrian":           "gr",
	"com.apple.keylayout.Dutch":              "nl",
	"com.apple.keylayout.Italian":            "it",
	"com.apple.keylayout.Italian-Pro":        "it",
	"com.apple.keylayout.Spanish":            "sp",
	"com.apple.keylayout.Spanish-ISO":        "sp",
	"com.apple.keylayout.LatinAmerican":      "la",
	"com.apple.keylayout.Portuguese":         "po",
	"com.apple.keylayout.Brazilian":          "br",
	"com.apple.keylayout.Brazilian-Pro":      "br",
	"com.apple.keylayout.Danish":             "dk",
	"com.apple.keylayout.Norwegian":          "no",
	"com.apple.keylayout.Swedish":            "sv",
	"com.apple.keylayout.Swedish-Pro":        "sv",
	"com.apple.keylayout.Finnish":            "su",
	"com.apple.keylayout.Icelandic":          "is",
	"com.apple.keylayout.Polish":             "pl",
	"com.apple.keylayout.PolishPro":          "pl",
	"com.apple.keylayout.Hungarian":          "hu",
	"com.apple.keylayout.Czech":              "cz",
	"com.apple.keylayout.Czech-QWERTY":       "cz",
	"com.apple.keylayout.Slovak":             "sk",
	"com.apple.keylayout.Croatian":           "hr",
	"com.apple.keylayout.Slovenian":          "yu",
	"com.apple.keylayout.Serbian-Latin":      "yu",
	"com.apple.keylayout.Turkish":            "tr",
	"com.apple.keylayout.Turkish-QWERTY-PC":  "tr",
	"com.apple.keylayout.Russian":            "ru",
	"com.apple.keylayout.RussianWin":         "ru",
	"com.apple.keylayout.Greek":              "gk",
	"com.apple.keylayout.Hebrew":             "il",
	"com.apple.keylayout.Bulgarian":          "bg",

	// Windows
	"00000409": "us",
	"00020409": "us",
	"00010409": "dv",
	"00000809": "uk",
	"00001809": "uk",
	"00001009": "cf",
	"0000040C": "fr",
	"0000080C": "be",
	"0000100C": "sf",
	"00000807": "sg",
	"00000407": "gr",
	"00000C07": "gr",
	"00000413": "nl",
	"00000410": "it",
	"0000040A": "sp",
	"0000080A": "la",
	"00000816": "po",
	"00000416": "br",
	"00000406": "dk",
	"00000414": "no",
	"0000041D": "sv",
	"0000040B": "su",
	"0000040F": "is",
	"00000415": "pl",
	"0000040E": "hu",
	"00000405": "cz",
	"0000041B": "sk",
	"0000041A": "hr",
	"00000424": "yu",
	"0000041F": "tr",
	"00000419": "ru",
	"00000408": "gk",
	"0000040D": "il",
	"00000402": "bg",
}

// KeyboardLayoutMappings returns a copy of the input method to DOS layout table
func KeyboardLayoutMappings() map[string]string {
	out := make(map[string]string, len(keyboardLayoutMap))
	for k, v := range keyboardLayoutMap {
		out[k] = v
	}
	return out
}

// LayoutFor returns the DOS layout code for an input method identifier,
// or DefaultKeyboardLayout if the identifier is unknown.
func LayoutFor(inputMethod string) string {
	if layout, ok := keyboardLayoutMap[inputMethod]; ok {
		return layout
	}
	return DefaultKeyboardLayout
}

// LayoutResolver resolves the DOS layout for the host's active input method
type LayoutResolver struct {
	source InputMethodSource
}

// NewLayoutResolver creates a resolver that queries source for the active input method.
// A nil source always resolves to DefaultKeyboardLayout.
func NewLayoutResolver(source InputMethodSource) *LayoutResolver {
	return &LayoutResolver{source: source}
}

// CurrentLayout returns the DOS layout code for the active input method
func (r *LayoutResolver) CurrentLayout() string {
	if r == nil || r.source == nil {
		return DefaultKeyboardLayout
	}
	id, err := r.source()
	if err != nil {
		return DefaultKeyboardLayout
	}
	return LayoutFor(id)
}
