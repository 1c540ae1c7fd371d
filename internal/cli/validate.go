package cli

import (
	"errors"
	"fmt"
	"os"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/shapekit"
	"github.com/reoring/shapekit/source"
)

// ErrInvalid is returned when the input does not satisfy the rule.
var ErrInvalid = errors.New("input does not match the rule")

func newValidateCommand(a *app) *cobra.Command {
	var (
		schemaFile string
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "validate <tensor|metrics|model|record> <input.json|input.yaml>",
		Short: "Check a JSON or YAML document against a shape rule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			v, err := source.Decode(args[1], data)
			if err != nil {
				if iss, ok := shapekit.AsIssues(err); ok {
					return report(cmd, a, iss, asJSON)
				}
				return err
			}
			iss, err := a.check(args[0], v, schemaFile)
			if err != nil {
				return err
			}
			return report(cmd, a, iss, asJSON)
		},
	}
	cmd.Flags().StringVar(&schemaFile, "schema", "", "Entity schema file (required for the record rule)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print issues as JSON")
	cmd.Flags().String("tensor-policy", "", "Tensor depth policy (uniform|loose)")
	cmd.Flags().Int("tensor-rank", 0, "Required tensor rank (0: any)")
	cmd.Flags().Bool("strict-optional", false, "Reject optional record fields of the wrong kind")
	return cmd
}

func (a *app) check(rule string, v any, schemaFile string) (shapekit.Issues, error) {
	switch rule {
	case "tensor":
		tr, err := a.cfg.TensorRule()
		if err != nil {
			return nil, err
		}
		return shapekit.CheckTensor(v, tr), nil
	case "metrics":
		return shapekit.CheckMetrics(v), nil
	case "model":
		return shapekit.CheckModelConfig(v), nil
	case "record":
		if schemaFile == "" {
			return nil, errors.New("the record rule needs --schema")
		}
		data, err := os.ReadFile(schemaFile)
		if err != nil {
			return nil, fmt.Errorf("reading schema: %w", err)
		}
		s, err := source.LoadEntitySchema(schemaFile, data)
		if err != nil {
			return nil, err
		}
		rr := s.Rule()
		rr.StrictOptional = a.cfg.Records.StrictOptional
		return shapekit.CheckRecord(v, rr), nil
	}
	return nil, fmt.Errorf("unknown rule %q (want tensor|metrics|model|record)", rule)
}

func report(cmd *cobra.Command, a *app, iss shapekit.Issues, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		b, err := j.MarshalIndent(map[string]any{"valid": len(iss) == 0, "issues": iss}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
	} else if len(iss) == 0 {
		fmt.Fprintln(out, "valid")
	} else {
		for _, it := range iss {
			fmt.Fprintf(out, "%s: %s [%s]\n", it.Path, it.Message, it.Code)
		}
	}
	if len(iss) > 0 {
		a.logger.Debug("validation failed", zap.Int("issues", len(iss)))
		return ErrInvalid
	}
	return nil
}
