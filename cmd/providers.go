package cmd

import (
	"fmt"
	"strings"

	"socialpub/internal/publish"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var providerNameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List providers and their upload strategies",
	RunE:  runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	for _, provider := range publish.Providers() {
		strategies := publish.SupportedStrategies(provider)
		names := make([]string, 0, len(strategies))
		for _, s := range strategies {
			names = append(names, string(s))
		}
		fmt.Printf("%s  %s\n",
			providerNameStyle.Render(fmt.Sprintf("%-10s", provider)),
			strings.Join(names, ", "))
	}
	return nil
}
