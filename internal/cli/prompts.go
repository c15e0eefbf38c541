package cli

import (
	"fmt"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/prompt"
	"github.com/spf13/cobra"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Manage prompt templates",
}

var promptsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the built-in prompt templates for editing",
	Long: `Write fix.md, plan.md, generate.md and modify.md into the prompts directory.
Point prompts.dir at that directory to use the edited copies. Existing files
are kept unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		force, _ := cmd.Flags().GetBool("force")

		if dir == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir = cfg.Prompts.Dir
		}
		if dir == "" {
			dir = "prompts"
		}

		written, err := prompt.Export(dir, force)
		for _, path := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		}
		if err != nil {
			return err
		}
		if skipped := len(prompt.Names()) - len(written); skipped > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%d existing template(s) kept (use --force to overwrite)\n", skipped)
		}
		return nil
	},
}

func init() {
	promptsExportCmd.Flags().String("dir", "", "target directory (default: prompts.dir, else ./prompts)")
	promptsExportCmd.Flags().Bool("force", false, "overwrite existing templates")
	promptsCmd.AddCommand(promptsExportCmd)
}
