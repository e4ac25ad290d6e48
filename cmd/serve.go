package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Zero-Feather/Ust-Visualizer/apiserver"
	"github.com/Zero-Feather/Ust-Visualizer/ustparser"
)

var (
	servePort   string
	serveConfig string
)

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "8888", "port to listen on")
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "JSON settings file (defaults when omitted)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve <score.ust>",
	Short: "Serves frame previews and render jobs for a score over HTTP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(serveConfig)
		if err != nil {
			return err
		}
		timeline, err := ustparser.ParseFile(args[0])
		if err != nil {
			return err
		}
		return apiserver.New(timeline, settings).Run(servePort)
	},
}
