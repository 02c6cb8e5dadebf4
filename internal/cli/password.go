package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/wisdombook/internal/server/auth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// test seams for the terminal
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

var errPasswordMismatch = errors.New("passwords do not match")

func (a *App) hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for the admin password",
		Long: `Reads the admin password and prints its bcrypt hash, suitable for
BOOK_ADMIN_PASSWORD_HASH. On a terminal the password is read twice without
echo; otherwise the first line of stdin is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := a.readAdminPassword(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(pw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func (a *App) readAdminPassword(prompt io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		line, err := bufio.NewReader(a.in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return nonEmpty(strings.TrimRight(line, "\r\n"))
	}

	fmt.Fprint(prompt, "Enter password: ")
	first, err := readPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", err
	}
	defer clear(first)
	fmt.Fprint(prompt, "Repeat password: ")
	second, err := readPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", err
	}
	defer clear(second)
	if !bytes.Equal(first, second) {
		return "", errPasswordMismatch
	}
	return nonEmpty(string(first))
}

func nonEmpty(pw string) (string, error) {
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}
