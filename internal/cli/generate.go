package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/shapekit"
	"github.com/reoring/shapekit/scaffold"
	"github.com/reoring/shapekit/source"
)

func newGenerateCommand(a *app) *cobra.Command {
	var (
		kind   string
		stdout bool
	)
	cmd := &cobra.Command{
		Use:   "generate <schema.yaml|schema.json>",
		Short: "Generate Go types, controller and JSON Schema from an entity schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading schema: %w", err)
			}
			s, err := source.LoadEntitySchema(args[0], data)
			if err != nil {
				return err
			}
			arts, err := render(s, kind, scaffold.Options{Package: a.cfg.Package})
			if err != nil {
				return err
			}

			if stdout {
				for _, art := range arts {
					fmt.Fprint(cmd.OutOrStdout(), art.Text)
				}
				return nil
			}
			if err := os.MkdirAll(a.cfg.Output, 0o755); err != nil {
				return fmt.Errorf("creating output dir: %w", err)
			}
			for _, art := range arts {
				path := filepath.Join(a.cfg.Output, art.Filename())
				if err := os.WriteFile(path, []byte(art.Text), 0o644); err != nil {
					return fmt.Errorf("writing output: %w", err)
				}
				a.logger.Info("generated", zap.String("entity", art.Entity), zap.Stringer("kind", art.Kind), zap.String("path", path))
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "all", "Artifacts to generate (types|controller|jsonschema|all)")
	cmd.Flags().String("package", "", "Go package name of generated files (default: models)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print artifacts instead of writing files")
	return cmd
}

func render(s shapekit.EntitySchema, kind string, opts scaffold.Options) ([]scaffold.Artifact, error) {
	switch kind {
	case "types":
		art, err := scaffold.Types(s, opts)
		return []scaffold.Artifact{art}, err
	case "controller":
		art, err := scaffold.Controller(s, opts)
		return []scaffold.Artifact{art}, err
	case "jsonschema":
		art, err := scaffold.JSONSchema(s)
		return []scaffold.Artifact{art}, err
	case "all":
		arts, err := scaffold.Generate(s, opts)
		if err != nil {
			return nil, err
		}
		js, err := scaffold.JSONSchema(s)
		if err != nil {
			return nil, err
		}
		return append(arts, js), nil
	}
	return nil, fmt.Errorf("unknown --kind %q (want types|controller|jsonschema|all)", kind)
}
