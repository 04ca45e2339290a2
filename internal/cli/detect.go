package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mermview/mermview/pkg/diagram"
)

// newDetectCmd creates the detect command, which reports the diagram
// type of a piece of mermaid source without rendering it.
func newDetectCmd() *cobra.Command {
	var inline string

	cmd := &cobra.Command{
		Use:   "detect [file]",
		Short: "Detect the diagram type of mermaid source",
		Long: `Detect the diagram type of mermaid source.

Examples:
  mermview detect diagram.mmd
  mermview detect --code "sequenceDiagram; A->>B: hi"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readSource(args, inline)
			if err != nil {
				return err
			}
			code, err := diagram.NewCode(text)
			if err != nil {
				return err
			}

			typ := code.Type()
			if typ == diagram.TypeUnknown {
				printInfo("Diagram type: %s", StyleWarning.Render(string(typ)))
			} else {
				printSuccess("Diagram type: %s", StyleHighlight.Render(string(typ)))
			}
			printDetail("%d lines, %d bytes", len(code.Lines()), code.Len())
			if !code.IsValidSyntax() {
				fmt.Println(StyleWarning.Render("  code does not start with a recognized diagram keyword"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inline, "code", "c", "", "mermaid code to inspect (alternative to input file)")

	return cmd
}
