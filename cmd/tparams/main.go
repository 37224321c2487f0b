// Command tparams validates JSON documents against schemas declared in YAML
// definition files.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xrage/tparams"
	"github.com/xrage/tparams/params"
	"github.com/xrage/tparams/schemadef"
)

var (
	schemaFile string
	schemaName string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:           "tparams",
		Short:         "Validate JSON request data against declared schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&schemaFile, "schemas", "s", "", "YAML schema definition file")
	root.PersistentFlags().StringVarP(&schemaName, "name", "n", "", "schema name within the definition file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "dump the built instance on success")

	root.AddCommand(checkCmd(), planCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file|-]",
		Short: "Validate a JSON document against a schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			defer func() { _ = logger.Sync() }()

			s, err := loadSchema()
			if err != nil {
				return err
			}
			body, err := readInput(args)
			if err != nil {
				return err
			}
			p, err := params.FromJSONBytes(body)
			if err != nil {
				return err
			}
			v, err := tparams.BuildFromParams(s, p)
			if err != nil {
				if ve, ok := tparams.AsValidationError(err); ok {
					out, merr := json.MarshalIndent(map[string]any{"error": ve.Code, "details": ve.Tree}, "", "  ")
					if merr != nil {
						return merr
					}
					fmt.Println(string(out))
					logger.Warn("validation failed",
						zap.String("schema", s.Name()),
						zap.Int("failures", len(ve.Tree.Flatten())))
					os.Exit(1)
				}
				return err
			}
			logger.Info("validation succeeded", zap.String("schema", s.Name()))
			if verbose {
				fmt.Print(spew.Sdump(v))
			}
			return nil
		},
	}
}

func planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print a schema's permitted-key filter expression",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(tparams.FilterExpr(s.Plan()), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func newLogger() *zap.Logger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func loadSchema() (*tparams.Schema, error) {
	if schemaFile == "" || schemaName == "" {
		return nil, fmt.Errorf("both --schemas and --name are required")
	}
	f, err := os.Open(schemaFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	schemas, err := schemadef.Load(f)
	if err != nil {
		return nil, err
	}
	s, ok := schemas[schemaName]
	if !ok {
		return nil, fmt.Errorf("schema %q not found in %s", schemaName, schemaFile)
	}
	return s, nil
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}
