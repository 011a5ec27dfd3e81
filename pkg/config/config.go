// Package config holds compiler-wide settings: diagnostic toggles and the
// fixed layout constants the code generator's frame model depends on.
package config

// Feature is a compiler switch that changes accepted syntax.
type Feature int

const (
	FeatAllowUninitialized Feature = iota
	FeatCount
)

// Warning is a diagnostic switch that never changes accepted syntax.
type Warning int

const (
	WarnUnreachableCode Warning = iota
	WarnExtra
	WarnCount
)

type Info struct {
	Name        string
	Enabled     bool
	Description string
}

// Config carries the feature/warning toggles plus the RV32I ABI constants
// the code generator is built against. The constants are not user-tunable:
// they describe the fixed 128-byte frame and saved-register offsets the
// emitter's prologue/epilogue hardcode, gathered here so call sites name
// them instead of repeating literals.
type Config struct {
	Features   map[Feature]Info
	Warnings   map[Warning]Info
	FeatureMap map[string]Feature
	WarningMap map[string]Warning

	OutDir     string
	BuildID    bool
	DumpAST    bool
	Verbose    bool

	WordSize      int
	FrameSize     int
	SavedRAOffset int
	SavedFPOffset int
}

func NewConfig() *Config {
	cfg := &Config{
		Features:   make(map[Feature]Info),
		Warnings:   make(map[Warning]Info),
		FeatureMap: make(map[string]Feature),
		WarningMap: make(map[string]Warning),

		WordSize:      4,
		FrameSize:     128,
		SavedRAOffset: 124,
		SavedFPOffset: 120,
	}

	features := map[Feature]Info{
		FeatAllowUninitialized: {"allow-uninitialized", true, "Allow a var declaration without a constant initializer."},
	}
	warnings := map[Warning]Info{
		WarnUnreachableCode: {"unreachable-code", true, "Warn about statements following a return in the same block."},
		WarnExtra:           {"extra", false, "Enable extra miscellaneous warnings."},
	}

	cfg.Features = features
	cfg.Warnings = warnings
	for ft, info := range features {
		cfg.FeatureMap[info.Name] = ft
	}
	for wt, info := range warnings {
		cfg.WarningMap[info.Name] = wt
	}
	return cfg
}

func (c *Config) SetFeature(ft Feature, enabled bool) {
	if info, ok := c.Features[ft]; ok {
		info.Enabled = enabled
		c.Features[ft] = info
	}
}

func (c *Config) IsFeatureEnabled(ft Feature) bool { return c.Features[ft].Enabled }

func (c *Config) SetWarning(wt Warning, enabled bool) {
	if info, ok := c.Warnings[wt]; ok {
		info.Enabled = enabled
		c.Warnings[wt] = info
	}
}

func (c *Config) IsWarningEnabled(wt Warning) bool { return c.Warnings[wt].Enabled }

func (c *Config) applyFlag(flag string) {
	isNo := false
	name := flag
	if len(name) > 3 && name[:3] == "no-" {
		isNo = true
		name = name[3:]
	}
	enable := !isNo

	if w, ok := c.WarningMap[name]; ok {
		c.SetWarning(w, enable)
		return
	}
	if f, ok := c.FeatureMap[name]; ok {
		c.SetFeature(f, enable)
	}
}

// ProcessFlags applies a set of "-W<name>"/"-Wno-<name>" style flags
// collected by the CLI layer.
func (c *Config) ProcessFlags(flags []string) {
	for _, f := range flags {
		name := f
		if len(name) > 1 && name[0] == 'W' {
			name = name[1:]
		}
		c.applyFlag(name)
	}
}
