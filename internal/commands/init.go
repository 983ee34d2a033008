package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/crediax/crediax/internal/config"
)

func newInitCommand() *cobra.Command {
	var port string
	var sheetName string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new CrediaX project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, port, sheetName, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized CrediaX project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "HTTP port (default 10000)")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "worksheet to import (default Database)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")

	return cmd
}

func runInit(dir, port, sheetName string, force bool) error {
	cfg := config.Default()
	if port != "" {
		cfg.Server.Port = port
	}
	if sheetName != "" {
		cfg.Import.SheetName = sheetName
	}

	// Create directory structure.
	dirs := []string{
		cfg.Storage.DataDir,
		filepath.Join(cfg.Storage.DataDir, "logs"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write crediax.yaml.
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write .env template.
	env := "# PORT=10000\n# LOG_LEVEL=info\n# LOG_FORMAT=console\n"
	envPath := filepath.Join(dir, ".env.example")
	if err := os.WriteFile(envPath, []byte(env), 0o644); err != nil {
		return fmt.Errorf("writing .env.example: %w", err)
	}

	// Write .gitignore.
	gitignore := cfg.Storage.DataDir + "/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	return nil
}
