package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/session"
)

func newLoginCommand(rt *runtime) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Args:  cobra.NoArgs,
		Short: "Sign in and store the session",
		Long: `Sign in with email and password. Missing values are taken from
MRO_LOGIN_EMAIL / MRO_LOGIN_PASSWORD; the password is read from stdin otherwise.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				email = rt.cfg.LoginEmail
			}
			if password == "" {
				password = rt.cfg.LoginPassword
			}
			if password == "" {
				p, err := readLine(rt.in)
				if err != nil {
					return fmt.Errorf("чтение пароля: %w", err)
				}
				password = p
			}
			if email == "" || password == "" {
				return errors.New("email and password are required")
			}

			user, err := rt.app.Hooks.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return rt.render(user, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Logged in as %s (%s)\n", dash(user.FullName()), user.Email)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func newLogoutCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Args:  cobra.NoArgs,
		Short: "End the session on the backend and clear it locally",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !rt.app.Session.IsAuthenticated() {
				_, err := fmt.Fprintln(rt.out, "Not logged in")
				return err
			}
			if err := rt.app.Hooks.Logout(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(rt.out, "Logged out")
			return err
		},
	}
}

// whoami — профиль из сохранённой сессии, без запроса к бэкенду.
type whoami struct {
	Greeting string     `json:"greeting"`
	User     model.User `json:"user"`
}

func newWhoamiCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Args:  cobra.NoArgs,
		Short: "Show the signed-in user",
		RunE: func(_ *cobra.Command, _ []string) error {
			user, err := rt.app.Session.User()
			if errors.Is(err, session.ErrNoUser) {
				return errors.New("not logged in, run `mroctl login`")
			}
			if err != nil {
				return err
			}

			v := whoami{Greeting: greeting(rt.now()), User: user}
			return rt.render(v, func(w io.Writer) error {
				fmt.Fprintf(w, "%s, %s\n\n", v.Greeting, dash(user.FullName()))
				return table(w, []string{"FIELD", "VALUE"}, [][]string{
					{"Email", dash(user.Email)},
					{"Employee ID", dash(user.EmployeeID)},
					{"Role", dash(user.RoleName)},
					{"Store", dash(user.StoreName)},
					{"Phone", dash(user.PhoneNumber)},
				})
			})
		},
	}
}

// readLine читает первую строку ввода без завершающего перевода строки.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
