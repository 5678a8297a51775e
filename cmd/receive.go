package cmd

import (
	"log"

	"tcpdrop/internal/app"
	"tcpdrop/internal/config"
	"tcpdrop/internal/transport"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type ReceiveFlags struct {
	Port          int
	SaveDir       string
	BufferSize    int
	MaxConcurrent int
}

var receiveFlags ReceiveFlags

// receiveCmd represents the receive command
var receiveCmd = &cobra.Command{
	Use:   "receive",
	Short: "Receive files from senders until interrupted",
	Long: `Listen for senders and store every received file. This will:

1. Create the receive directory if it does not exist
2. Accept connections on the configured port
3. Handle every connection independently: read the header, write the body
   to <dir>/<name>, reply with the acknowledgement and close

Use --max-conns to cap how many connections are handled at once; further
connections wait until a slot frees up.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReceiverApp()
	},
}

func init() {
	rootCmd.AddCommand(receiveCmd)

	defaults := config.NewDefaultConfig().Server
	receiveCmd.Flags().IntVarP(&receiveFlags.Port, "port", "p", defaults.Port, "TCP port to listen on")
	receiveCmd.Flags().StringVarP(&receiveFlags.SaveDir, "dir", "d", defaults.SaveDir, "Directory to store received files")
	receiveCmd.Flags().IntVar(&receiveFlags.BufferSize, "buffer-size", defaults.BufferSize, "Read buffer size per connection")
	receiveCmd.Flags().IntVar(&receiveFlags.MaxConcurrent, "max-conns", defaults.MaxConcurrent, "Maximum connections handled at once (0 = unlimited)")

	// Bind flags to viper so config file and TCPDROP_SERVER_* env vars apply
	viper.BindPFlag("server.port", receiveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.save_dir", receiveCmd.Flags().Lookup("dir"))
	viper.BindPFlag("server.buffer_size", receiveCmd.Flags().Lookup("buffer-size"))
	viper.BindPFlag("server.max_concurrent", receiveCmd.Flags().Lookup("max-conns"))
}

// runReceiverApp creates and runs the receiver application
func runReceiverApp() error {
	ctx := createContext()

	log.Printf("Starting receiver on port %d, saving to: %s", cfg.Server.Port, cfg.Server.SaveDir)

	listener := transport.NewListener(cfg.Server)
	return app.NewReceiverApp(listener).Run(ctx)
}
