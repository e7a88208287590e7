package cli

import (
	"github.com/spf13/cobra"

	"github.com/viankakrisna/create-react-app-extra/internal/config"
)

// registerWatchFlags adds the watch session flags to a cobra command. The
// values are read back through config.Load.
func registerWatchFlags(cmd *cobra.Command) {
	d := config.Default()

	f := cmd.Flags()
	f.String("mode", d.Mode, "build mode shown in the report (default from NODE_ENV)")
	f.Duration("debounce", d.Debounce, "quiet period before a public folder change triggers a rebuild")
	f.Bool("watch-public", d.WatchPublic, "rebuild when files in the public folder change")
	f.Bool("clear-console", d.ClearConsole, "clear an interactive terminal before each report")
}
