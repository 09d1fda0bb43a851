package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/livingtwin/cascade/pkg/script"
)

func NewScriptsCmd() *cobra.Command {
	scriptsCmd := &cobra.Command{
		Use:   "scripts",
		Short: "Inspect and validate demo script sets",
	}
	scriptsCmd.AddCommand(newScriptsListCmd())
	scriptsCmd.AddCommand(newScriptsValidateCmd())
	scriptsCmd.AddCommand(newScriptsSchemaCmd())
	return scriptsCmd
}

func newScriptsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [demo-file]",
		Short: "Print the authored persona stages and their segments",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			demo, err := loadDemoArg(args)
			if err != nil {
				return err
			}

			fmt.Printf("%s (%d stages)\n\n", color.New(color.Bold).Sprint(demo.Name), demo.NumStages())
			for i, stage := range demo.Stages {
				fmt.Printf("%s %s\n",
					color.CyanString("%d.", i+1),
					color.New(color.Bold).Sprint(stage.Label()))
				for _, seg := range stage.Script.Segments {
					marker := " "
					if seg.RequiresAdvance {
						marker = color.YellowString("◆")
					}
					fmt.Printf("   %s %-22s %5dms  %s\n",
						marker,
						color.HiBlackString(seg.ID),
						seg.EstimatedDuration().Milliseconds(),
						seg.Text)
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func newScriptsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [demo-file]",
		Short: "Validate a demo file against the authoring rules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			demo, err := loadDemoArg(args)
			if err != nil {
				fmt.Printf("%s %v\n", color.RedString("✗"), err)
				os.Exit(1)
			}

			total := 0
			for _, stage := range demo.Stages {
				total += stage.Script.Len()
			}
			fmt.Printf("%s %s: %d stages, %d segments\n",
				color.GreenString("✓"), demo.Name, demo.NumStages(), total)
			return nil
		},
	}
}

func newScriptsSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Emit the JSON Schema for demo files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &jsonschema.Reflector{
				AllowAdditionalProperties: true,
				ExpandedStruct:            true,
				FieldNameTag:              "yaml",
			}
			schema := r.Reflect(&script.Demo{})
			schema.Title = "Cascade Demo Script Set"
			schema.Description = "Schema for cascade demo YAML files: persona stages and their scripted segments."

			data, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling schema: %w", err)
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
