package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodMac/go-treesitter-code-tokenizer/transport"
)

var clientMaxMessages int

var clientCmd = &cobra.Command{
	Use:   "client <path>... -- [serve args]",
	Short: "Send files to a spawned serve process over the line protocol",
	Long: `Client starts "codetok serve" as a child process, sends every file as
one request and prints the decoded replies, one per file. The child is
restarted after --max-messages requests.

Example:
  codetok client a.java b.java -- true false false false`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClient,
}

func init() {
	rootCmd.AddCommand(clientCmd)
	clientCmd.Flags().IntVar(&clientMaxMessages, "max-messages", 0, "requests before restarting the server (default from config)")
}

func runClient(cmd *cobra.Command, args []string) error {
	files, serveArgs := args, []string(nil)
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		files, serveArgs = args[:dash], args[dash:]
	}

	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}
	childArgs := []string{"serve", "--lang", langFlag}
	if cfgFile != "" {
		childArgs = append(childArgs, "--config", cfgFile)
	}
	childArgs = append(childArgs, serveArgs...)

	client, err := transport.StartProcess(cmd.Context(), self, childArgs...)
	if err != nil {
		return err
	}
	client.MaxMessages = cfg.Serve.MaxMessages
	if clientMaxMessages > 0 {
		client.MaxMessages = clientMaxMessages
	}

	out := cmd.OutOrStdout()
	for _, path := range files {
		content, err := readSnippet(cmd, path)
		if err != nil {
			_ = client.Close()
			return err
		}
		reply, err := client.Send(content)
		if err != nil {
			_ = client.Close()
			return err
		}
		fmt.Fprintln(out, reply)
	}
	return client.Close()
}
