package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	clonegeninternal "github.com/sublee/clonegen/internal/clonegen"
)

var Version = "dev"

func init() {
	clonegeninternal.Version = Version
}

type flags struct {
	tags    string
	tests   bool
	output  string
	color   string
	verbose bool
	config  string
}

func main() {
	var f flags

	rootCmd := &cobra.Command{
		Use:   "clonegen [flags] [packages]",
		Short: "Generate Clone and CloneFrom for types marked with //clonegen:derive",
		Long: `Clonegen generates the clone capability for struct types marked with the
//clonegen:derive directive: Clone returns an independent copy, and CloneFrom
overwrites an existing value in place, reusing its allocations.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, &f)
			if err != nil {
				return err
			}

			wd, err := os.Getwd()
			if err != nil {
				return err
			}

			outs, err := clonegeninternal.Main(cmd.Context(), clonegeninternal.Options{
				Dir:      wd,
				Env:      os.Environ(),
				Patterns: args,
				Config:   cfg,
			})
			if err != nil {
				return err
			}

			outPaths := make([]string, 0, len(outs))
			for out := range outs {
				outPaths = append(outPaths, out)
			}
			slices.Sort(outPaths)

			for _, out := range outPaths {
				if err := writeOutput(wd, out, outs[out]); err != nil {
					return err
				}
			}
			return nil
		},
	}

	describeCmd := &cobra.Command{
		Use:   "describe FILE",
		Short: "Generate from a YAML shape-description file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, &f)
			if err != nil {
				return err
			}

			code, err := clonegeninternal.Describe(args[0], cfg)
			if err != nil {
				return err
			}
			if len(code) == 0 {
				return nil
			}

			out := clonegeninternal.DescribeOutput(args[0])
			if cmd.Flags().Changed("output") {
				out = filepath.Join(filepath.Dir(args[0]), cfg.Output)
			}

			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			return writeOutput(wd, out, code)
		},
	}

	rootCmd.Flags().StringVarP(&f.tags, "tags", "b", "", "comma-separated build tags")
	rootCmd.Flags().BoolVarP(&f.tests, "tests", "t", false, "include tests")
	rootCmd.PersistentFlags().StringVarP(&f.output, "output", "o", "clonegen_gen.go", "output file name")
	rootCmd.PersistentFlags().StringVarP(&f.color, "color", "c", "auto", "colorize (auto|always|never)")
	rootCmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log debug messages")
	rootCmd.PersistentFlags().StringVar(&f.config, "config", "", "config file (default "+clonegeninternal.ConfigFile+" if present)")
	rootCmd.AddCommand(describeCmd)

	colorful := isatty()
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		switch f.color {
		case "auto":
			colorful = isatty()
		case "always":
			colorful = true
		case "never":
			colorful = false
		default:
			return fmt.Errorf("invalid -c value: %s", f.color)
		}
		return nil
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		message := err.Error()
		if colorful {
			message = colorize(message)
		}
		fmt.Fprintln(os.Stderr, message)
		os.Exit(1)
	}
}

// setup installs the logger and resolves the configuration. Flags set on the
// command line override the config file.
func setup(cmd *cobra.Command, f *flags) (clonegeninternal.Config, error) {
	if f.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return clonegeninternal.Config{}, err
		}
		clonegeninternal.SetLogger(logger)
	}

	path, required := clonegeninternal.ConfigFile, false
	if f.config != "" {
		path, required = f.config, true
	}
	cfg, err := clonegeninternal.LoadConfig(path, required)
	if err != nil {
		return clonegeninternal.Config{}, err
	}

	if cmd.Flags().Changed("tags") {
		cfg.Tags = f.tags
	}
	if cmd.Flags().Changed("tests") {
		cfg.Tests = f.tests
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = f.output
	}

	clonegeninternal.Logger().Debug("config",
		zap.String("file", path),
		zap.String("output", cfg.Output),
		zap.Strings("copy_types", cfg.CopyTypes),
		zap.Bool("narrow_bounds", cfg.NarrowBounds),
	)
	return cfg, nil
}

func writeOutput(wd, out string, code []byte) error {
	if err := os.WriteFile(out, code, 0o644); err != nil {
		return err
	}

	if relOut, err := filepath.Rel(wd, out); err == nil {
		out = relOut
	}
	fmt.Println("Generated:", out)
	return nil
}

// isatty reports whether the program is running in a terminal. If it is true,
// we can use ANSI color codes.
func isatty() bool {
	_, err := unix.IoctlGetWinsize(int(os.Stderr.Fd()), unix.TIOCGWINSZ)
	return err == nil
}

var rePos = regexp.MustCompile(`^(\S+:\d+:\d+): (.*)$`)

// colorize highlights the positions and messages of diagnostics.
func colorize(message string) string {
	pos := color.New(color.Bold)
	msg := color.New(color.FgRed)
	pos.EnableColor()
	msg.EnableColor()

	lines := strings.Split(message, "\n")
	for i, line := range lines {
		m := rePos.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lines[i] = pos.Sprint(m[1]) + ": " + msg.Sprint(m[2])
	}
	return strings.Join(lines, "\n")
}
