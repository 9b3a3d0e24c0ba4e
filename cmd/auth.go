package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/frahmantamala/expenses-tracker/internal/auth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginEmail       string
	loginPassword    string
	registerName     string
	registerEmail    string
	registerPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and remember the token for later commands",
	RunE: func(cmd *cobra.Command, _ []string) error {
		deps, err := newCLIDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		in, out := cmd.InOrStdin(), cmd.OutOrStdout()
		reader := bufio.NewReader(in)

		email, err := promptIfEmpty(loginEmail, "Email: ", reader, out)
		if err != nil {
			return err
		}
		password := loginPassword
		if password == "" {
			if password, err = readPassword(in, reader, out); err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
		}

		if _, err := deps.Auth.Login(cmd.Context(), auth.LoginDTO{Email: email, Password: password}); err != nil {
			return err
		}

		fmt.Fprintf(out, "Logged in as %s (profile %q)\n", strings.TrimSpace(email), deps.Sessions.Profile())
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account on the remote service",
	RunE: func(cmd *cobra.Command, _ []string) error {
		deps, err := newCLIDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		in, out := cmd.InOrStdin(), cmd.OutOrStdout()
		reader := bufio.NewReader(in)

		name, err := promptIfEmpty(registerName, "Name: ", reader, out)
		if err != nil {
			return err
		}
		email, err := promptIfEmpty(registerEmail, "Email: ", reader, out)
		if err != nil {
			return err
		}
		password := registerPassword
		if password == "" {
			if password, err = readPassword(in, reader, out); err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
		}

		dto := auth.RegisterDTO{Name: name, Email: email, Password: password}
		if err := deps.Auth.Register(cmd.Context(), dto); err != nil {
			return err
		}

		fmt.Fprintln(out, "Registration successful, run login to continue")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		deps, err := newCLIDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		if err := deps.Auth.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		deps, err := newCLIDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		sess, err := deps.Auth.WhoAmI(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "profile: %s\nemail:   %s\n", sess.Profile, sess.Email)
		if sess.ExpiresAt != nil {
			fmt.Fprintf(out, "expires: %s\n", sess.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func promptIfEmpty(value, label string, reader *bufio.Reader, out io.Writer) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprint(out, label)
	line, err := reader.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo from a terminal, or a plain line otherwise.
func readPassword(in io.Reader, reader *bufio.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Password: ")
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email (prompted when empty)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted when empty)")

	registerCmd.Flags().StringVar(&registerName, "name", "", "display name (prompted when empty)")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "account email (prompted when empty)")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "account password (prompted when empty)")
}
