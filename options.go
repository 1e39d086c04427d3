package dxflabel

import "log/slog"

// TemplateOption configures template loading.
type TemplateOption interface{ apply(*templateOptions) }

// BuildOption configures one document build.
type BuildOption interface{ apply(*buildOptions) }

// LayerClass is one presentation layer/color pair selected by a request
// classification.
type LayerClass struct {
	Layer string
	Color int
}

type templateOptions struct {
	targetLayer string
	logger      *slog.Logger
}

type buildOptions struct {
	annotative bool
	skipClass  string
	classes    map[string]LayerClass
	floor      uint64
}

type templateOptionFunc func(*templateOptions)

func (f templateOptionFunc) apply(cfg *templateOptions) {
	if cfg == nil {
		return
	}
	f(cfg)
}

type buildOptionFunc func(*buildOptions)

func (f buildOptionFunc) apply(cfg *buildOptions) {
	if cfg == nil {
		return
	}
	f(cfg)
}

// WithTargetLayer restricts template lookup to entities on the given layer.
// A miss falls back to the first entity of the root type and is logged.
func WithTargetLayer(layer string) TemplateOption {
	return templateOptionFunc(func(cfg *templateOptions) {
		cfg.targetLayer = layer
	})
}

// WithLogger sets the logger used for load and build events.
func WithLogger(logger *slog.Logger) TemplateOption {
	return templateOptionFunc(func(cfg *templateOptions) {
		cfg.logger = logger
	})
}

// WithAnnotative toggles annotative-scale output. Disabling it removes the
// extension-dictionary reference from each clone instead of repointing it,
// and emits no chain records. It cannot enable support a template lacks.
func WithAnnotative(enabled bool) BuildOption {
	return buildOptionFunc(func(cfg *buildOptions) {
		cfg.annotative = enabled
	})
}

// WithSkipClass sets the classification value that excludes a request.
func WithSkipClass(class string) BuildOption {
	return buildOptionFunc(func(cfg *buildOptions) {
		cfg.skipClass = class
	})
}

// WithLayerClasses replaces the classification table.
func WithLayerClasses(classes map[string]LayerClass) BuildOption {
	return buildOptionFunc(func(cfg *buildOptions) {
		cfg.classes = classes
	})
}

// WithHandleFloor raises the lowest handle value minted during the build.
func WithHandleFloor(floor uint64) BuildOption {
	return buildOptionFunc(func(cfg *buildOptions) {
		cfg.floor = floor
	})
}

func applyTemplateOptions(opts []TemplateOption) templateOptions {
	cfg := templateOptions{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return cfg
}

func applyBuildOptions(opts []BuildOption) buildOptions {
	cfg := buildOptions{
		annotative: true,
		skipClass:  "skip",
		classes: map[string]LayerClass{
			"keep":   {Layer: "LABELS-KEEP", Color: 3},
			"remove": {Layer: "LABELS-REMOVE", Color: 1},
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&cfg)
		}
	}
	return cfg
}
