package command

import (
	"database/sql"

	"github.com/commstat/commstat/internal/core"
	"github.com/commstat/commstat/internal/db"
	"github.com/spf13/cobra"
)

// CommandContext provides shared command resources.
type CommandContext struct {
	DB     *sql.DB
	Config core.Config
	Debug  bool
}

// GetContext loads config and opens the traffic database for a command.
// The caller closes DB.
func GetContext(cmd *cobra.Command) (*CommandContext, error) {
	config, err := core.ReadConfig()
	if err != nil {
		return nil, err
	}

	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		config.DBPath = dbPath
	}
	debug, _ := cmd.Flags().GetBool("debug")

	conn, err := db.Open(config.DBPath)
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &CommandContext{DB: conn, Config: config, Debug: debug}, nil
}
