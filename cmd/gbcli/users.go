package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/guidebook-kb/guidebook/storage/model"
)

var userAddCmd = &cobra.Command{
	Use:   "useradd USERNAME",
	Short: "Register a new user",
	Long: `Register a new user. If --password is not given the password is read
from the first line of stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runUserAdd,
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List all registered users",
	Args:  cobra.NoArgs,
	RunE:  runUsers,
}

var (
	userAddRole     string
	userAddPassword string
)

func init() {
	userAddCmd.Flags().StringVarP(&userAddRole, "role", "r", string(model.RoleRegular), "the role of the new user (admin or comum)")
	userAddCmd.Flags().StringVarP(&userAddPassword, "password", "p", "", "the password of the new user")
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	role, err := model.ParseRole(userAddRole)
	if err != nil {
		return err
	}
	password := userAddPassword
	if password == "" {
		password, err = readLine(cmd)
		if err != nil {
			return err
		}
	}
	if err = backends.Users.Register(args[0], password, role); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Registered user '%s' (%s)\n", args[0], role)
	return err
}

func readLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" && err != nil {
		return "", errors.Wrap(err, "could not read password")
	}
	return line, nil
}

func runUsers(cmd *cobra.Command, _ []string) error {
	accounts, err := backends.Users.List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, a := range accounts {
		if _, err = fmt.Fprintf(out, "%s\t%s\n", a.Username, a.Role); err != nil {
			return err
		}
	}
	return nil
}
