package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/sprout/internal/config"
	"github.com/mithrel/sprout/internal/editor"
)

func newConfigEditCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open config.toml in $VISUAL/$EDITOR and validate it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path, _ = cmd.Flags().GetString("config")
			}
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if !fileExists(path) {
				if err := writeConfigFile(cmd, path, false, false); err != nil {
					return err
				}
			}
			changed, err := editor.Open(path, editor.Stdio{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()})
			if err != nil {
				return fmt.Errorf("editor: %w", err)
			}
			if !changed {
				fmt.Fprintln(cmd.OutOrStdout(), "No changes")
				return nil
			}
			v, err := loadConfigFile(cmd, path)
			if err != nil {
				return err
			}
			if err := config.CheckConfigValidity(v); err != nil {
				return fmt.Errorf("saved %s, but it is invalid:\n%w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "", "config file to edit (default --config or the standard path)")
	return cmd
}
