package config

import (
	"fmt"
	"image/color"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/example/regionshot/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Capture bool
	Copy    bool
}

// Monitor holds per-monitor overrides keyed by output name.
type Monitor struct {
	Scale float64
}

// Config holds the application configuration.
type Config struct {
	Theme    string
	SaveDir  string
	Scale    float64
	Notify   Notify
	Monitors map[string]Monitor
	Themes   map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Notify: Notify{
			Capture: false,
			Copy:    false,
		},
		Monitors: make(map[string]Monitor),
		Themes:   make(map[string]*theme.Theme),
	}
}

// EffectiveScale resolves the logical scale factor for a monitor: a
// per-monitor override wins, then the global scale setting, then the
// REGIONSHOT_SCALE and GDK_SCALE environment variables, then 1.0.
func (c *Config) EffectiveScale(monitorName string) float64 {
	if m, ok := c.Monitors[monitorName]; ok && m.Scale > 0 {
		return m.Scale
	}
	if c.Scale > 0 {
		return c.Scale
	}
	for _, env := range []string{"REGIONSHOT_SCALE", "GDK_SCALE"} {
		if v := os.Getenv(env); v != "" {
			if s, err := strconv.ParseFloat(v, 64); err == nil && s > 0 {
				return s
			}
		}
	}
	return 1.0
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.Scale > 0 {
		fmt.Fprintf(&sb, "scale = %g\n", c.Scale)
	}
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "capture = %v\n", c.Notify.Capture)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Monitor sections, sorted for deterministic output
	var monitorNames []string
	for name := range c.Monitors {
		monitorNames = append(monitorNames, name)
	}
	sort.Strings(monitorNames)
	for _, name := range monitorNames {
		m := c.Monitors[name]
		fmt.Fprintf(&sb, "[monitor.%s]\n", name)
		fmt.Fprintf(&sb, "scale = %g\n", m.Scale)
		sb.WriteString("\n")
	}

	// Themes sections
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		fmt.Fprintf(&sb, "Mask: %s\n", toHex(t.Mask))
		fmt.Fprintf(&sb, "Outline: %s\n", toHex(t.Outline))
		fmt.Fprintf(&sb, "HandleFill: %s\n", toHex(t.HandleFill))
		fmt.Fprintf(&sb, "HandleOutline: %s\n", toHex(t.HandleOutline))
		fmt.Fprintf(&sb, "LabelText: %s\n", toHex(t.LabelText))
		fmt.Fprintf(&sb, "LabelBackground: %s\n", toHex(t.LabelBackground))
		sb.WriteString("\n")
	}

	return sb.String()
}

func toHex(c interface{ RGBA() (r, g, b, a uint32) }) string {
	if rgba, ok := c.(color.RGBA); ok {
		if rgba.A == 255 {
			return fmt.Sprintf("#%02X%02X%02X", rgba.R, rgba.G, rgba.B)
		}
		return fmt.Sprintf("#%02X%02X%02X%02X", rgba.R, rgba.G, rgba.B, rgba.A)
	}

	// Fallback for non-color.RGBA types (though unlikely in this app's context)
	r, g, b, a := c.RGBA()
	if a == 0 {
		return "#00000000"
	}
	r8 := uint8(r >> 8)
	g8 := uint8(g >> 8)
	b8 := uint8(b >> 8)
	a8 := uint8(a >> 8)

	if a8 == 255 {
		return fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", r8, g8, b8, a8)
}
