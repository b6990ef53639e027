package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

// Theme holds the colors of the terminal output. Each value is either a raw ANSI
// escape sequence (e.g. "\u001b[38;2;120;140;160m") or one of the basic color
// names in namedColors. Empty means uncolored.
//
// Loaded from <clask-config-dir>/theme.json on startup. NO_COLOR disables all
// colorization.
type Theme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Breadtext string `json:"breadtext"`
	Success   string `json:"success"`
	Error     string `json:"error"`
}

var namedColors = map[string]string{
	"black":   "\u001b[30m",
	"red":     "\u001b[31m",
	"green":   "\u001b[32m",
	"yellow":  "\u001b[33m",
	"blue":    "\u001b[34m",
	"magenta": "\u001b[35m",
	"cyan":    "\u001b[36m",
	"white":   "\u001b[37m",
}

func defaultTheme() *Theme {
	return &Theme{
		Primary:   "\u001b[38;2;110;130;150m",
		Secondary: "\u001b[38;2;140;165;190m",
		Breadtext: "\u001b[38;2;200;210;220m",
		Success:   "green",
		Error:     "red",
	}
}

var globalTheme = defaultTheme().resolved()

func resolveColor(c string) (string, error) {
	if c == "" || strings.HasPrefix(c, "\u001b[") {
		return c, nil
	}
	if code, ok := namedColors[strings.ToLower(c)]; ok {
		return code, nil
	}
	return "", fmt.Errorf("unknown color: '%v'", c)
}

// resolved returns the theme with color names replaced by escape sequences.
// Unknown colors are dropped.
func (t Theme) resolved() Theme {
	for _, c := range []*string{&t.Primary, &t.Secondary, &t.Breadtext, &t.Success, &t.Error} {
		code, err := resolveColor(*c)
		if err != nil {
			code = ""
		}
		*c = code
	}
	return t
}

// Validate reports the first color in t which can't be resolved.
func (t Theme) Validate() error {
	for name, c := range map[string]string{
		"primary":   t.Primary,
		"secondary": t.Secondary,
		"breadtext": t.Breadtext,
		"success":   t.Success,
		"error":     t.Error,
	} {
		if _, err := resolveColor(c); err != nil {
			return fmt.Errorf("theme color '%v': %w", name, err)
		}
	}
	return nil
}

// LoadTheme loads (and possibly creates) the theme.json file within the config
// dir. Colors which fail validation are left uncolored.
func LoadTheme(configDirPath string) error {
	conf, err := LoadConfigFromFile(configDirPath, "theme.json", defaultTheme())
	if err != nil {
		return fmt.Errorf("load theme config: %w", err)
	}
	globalTheme = conf.resolved()
	return conf.Validate()
}

// NoColor reports whether color output should be disabled.
func NoColor() bool {
	return misc.Truthy(os.Getenv("NO_COLOR"))
}

const ansiReset = "\u001b[0m"

// Colorize wraps s with the given ANSI color code unless NO_COLOR is set or color is empty.
func Colorize(color, s string) string {
	if NoColor() || color == "" {
		return s
	}
	return color + s + ansiReset
}

func ThemePrimaryColor() string   { return globalTheme.Primary }
func ThemeSecondaryColor() string { return globalTheme.Secondary }
func ThemeBreadtextColor() string { return globalTheme.Breadtext }
func ThemeSuccessColor() string   { return globalTheme.Success }
func ThemeErrorColor() string     { return globalTheme.Error }
