// Command dxflabel transplants annotation entities from a template drawing
// into a standalone document, one clone per placement request.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cartoworks/dxflabel"
	"github.com/cartoworks/dxflabel/internal/config"
)

var (
	flagTemplate   string
	flagRequests   string
	flagConfig     string
	flagOut        string
	flagLayer      string
	flagAnnotative bool
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "dxflabel",
	Short: "Place label entities from a template drawing",
	Long: `Reads a template drawing and a JSON list of placement requests, clones
the template's label entity once per request at the requested position with
the requested text, and writes a standalone drawing containing the clones.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flagTemplate, "template", "t", "", "template drawing file (required)")
	rootCmd.Flags().StringVarP(&flagRequests, "requests", "r", "", "JSON placement request file (required)")
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "YAML run configuration file")
	rootCmd.Flags().StringVarP(&flagOut, "out", "o", "", "output file (default stdout)")
	rootCmd.Flags().StringVar(&flagLayer, "layer", "", "restrict template lookup to this layer")
	rootCmd.Flags().BoolVar(&flagAnnotative, "annotative", true, "clone annotative scale data when the template carries it")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log load and build details")
	_ = rootCmd.MarkFlagRequired("template")
	_ = rootCmd.MarkFlagRequired("requests")
}

func run(cmd *cobra.Command, stdout, stderr io.Writer) error {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.LoadFile(flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if flagLayer != "" {
		cfg.TargetLayer = flagLayer
	}

	tpl, err := dxflabel.LoadTemplateFile(flagTemplate,
		dxflabel.WithTargetLayer(cfg.TargetLayer),
		dxflabel.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	reqs, parseSkips, err := dxflabel.ParseRequestsFile(flagRequests)
	if err != nil {
		return err
	}

	buildOpts := []dxflabel.BuildOption{
		dxflabel.WithSkipClass(cfg.SkipClass),
		dxflabel.WithLayerClasses(classTable(cfg)),
	}
	annotative := flagAnnotative
	if cfg.Annotative != nil && !cmd.Flags().Changed("annotative") {
		annotative = *cfg.Annotative
	}
	buildOpts = append(buildOpts, dxflabel.WithAnnotative(annotative))
	if floor, err := cfg.Floor(); err != nil {
		return err
	} else if floor > 0 {
		buildOpts = append(buildOpts, dxflabel.WithHandleFloor(floor))
	}

	res, err := tpl.Build(reqs, buildOpts...)
	if err != nil {
		return err
	}

	if err := writeDocument(stdout, res.Document); err != nil {
		return err
	}

	for _, s := range parseSkips {
		fmt.Fprintf(stderr, "request %d skipped: %s (%s)\n", s.Index, s.Reason, s.Detail)
	}
	for _, s := range res.Skips {
		if s.Detail != "" {
			fmt.Fprintf(stderr, "request %d skipped: %s (%s)\n", s.Index, s.Reason, s.Detail)
			continue
		}
		fmt.Fprintf(stderr, "request %d skipped: %s\n", s.Index, s.Reason)
	}
	fmt.Fprintf(stderr, "placed %d of %d requests\n", res.Placed, len(reqs)+len(parseSkips))
	return nil
}

func classTable(cfg *config.Config) map[string]dxflabel.LayerClass {
	out := make(map[string]dxflabel.LayerClass, len(cfg.Classes))
	for name, class := range cfg.Classes {
		out[name] = dxflabel.LayerClass{Layer: class.Layer, Color: class.Color}
	}
	return out
}

func writeDocument(stdout io.Writer, doc []byte) error {
	if flagOut == "" {
		_, err := stdout.Write(doc)
		return err
	}
	if err := os.WriteFile(flagOut, doc, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", flagOut, err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
