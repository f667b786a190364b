package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/guidebook-kb/guidebook/cmd/guidebook/config"
	"github.com/guidebook-kb/guidebook/storage/model"
)

var rootCmd = &cobra.Command{
	Use:               "gbcli",
	Short:             "gbcli can help you manage your guidebook",
	Long:              "gbcli can help you manage the users and articles of your guidebook",
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
}

var configFile string
var backends model.Backends

func loadConfig(_ *cobra.Command, _ []string) error {
	if err := config.Load(configFile); err != nil {
		return err
	}
	c := config.Get()
	hasher, err := c.PasswordHashing.Hasher()
	if err != nil {
		return err
	}
	backends, err = config.LoadStorageBackends(c.Storage, hasher)
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "the config file to use")
	rootCmd.AddCommand(userAddCmd, usersCmd, searchCmd, addArticleCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
