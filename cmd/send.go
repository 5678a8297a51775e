package cmd

import (
	"os"

	"tcpdrop/internal/app"
	"tcpdrop/internal/config"
	"tcpdrop/internal/transport"
	"tcpdrop/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type SendFlags struct {
	Address   string
	Port      int
	ChunkSize int
	Progress  bool
}

var sendFlags SendFlags

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [files...]",
	Short: "Send files to a receiver, one connection per file",
	Long: `Send files to a tcpdrop receiver. For every file this will:

1. Check the file exists and is a regular file
2. Open a new TCP connection to the receiver
3. Send the header and the file content
4. Wait for the receiver's acknowledgement and close the connection

Without file arguments, paths are read interactively until 'exit'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSenderApp(args, &sendFlags)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	defaults := config.NewDefaultConfig().Client
	sendCmd.Flags().StringVarP(&sendFlags.Address, "addr", "a", defaults.Address, "Receiver host name or IP")
	sendCmd.Flags().IntVarP(&sendFlags.Port, "port", "p", defaults.Port, "Receiver TCP port")
	sendCmd.Flags().IntVar(&sendFlags.ChunkSize, "chunk-size", defaults.ChunkSize, "Bytes per write while streaming the file")
	sendCmd.Flags().BoolVar(&sendFlags.Progress, "progress", false, "Show a progress bar per file")

	// Bind flags to viper so config file and TCPDROP_CLIENT_* env vars apply
	viper.BindPFlag("client.address", sendCmd.Flags().Lookup("addr"))
	viper.BindPFlag("client.port", sendCmd.Flags().Lookup("port"))
	viper.BindPFlag("client.chunk_size", sendCmd.Flags().Lookup("chunk-size"))
}

// runSenderApp creates and runs the sender application
func runSenderApp(files []string, flags *SendFlags) error {
	ctx := createContext()

	sender := transport.NewSender(cfg.Client)
	console := ui.NewConsoleUI(os.Stdin, os.Stdout)

	opts := &app.SenderOptions{
		FilePaths:    files,
		ShowProgress: flags.Progress,
	}

	return app.NewSenderApp(sender, console).Run(ctx, opts)
}
