package cmd

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sportzone-cli/model"
	"sportzone-cli/service"
	"sportzone-cli/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		identifier, err := promptText("Email or username", false, required("login"))
		if err != nil {
			return err
		}
		password, err := promptText("Password", true, required("password"))
		if err != nil {
			return err
		}
		user, err := current.client.Login(cmd.Context(), model.Credentials{Identifier: identifier, Password: password})
		if err != nil {
			if service.IsUnauthorized(err) || service.IsNotFound(err) {
				return errors.New("invalid credentials")
			}
			return err
		}
		return remember(cmd, user)
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := promptText("Full name", false, required("name"))
		if err != nil {
			return err
		}
		username, err := promptText("Username", false, required("username"))
		if err != nil {
			return err
		}
		email, err := promptText("Email", false, validEmail)
		if err != nil {
			return err
		}
		password, err := promptText("Password", true, minLength(6))
		if err != nil {
			return err
		}
		roleSelect := promptui.Select{
			Label: "Account type",
			Items: []string{string(model.RoleUser), string(model.RoleVenueOwner)},
		}
		_, role, err := roleSelect.Run()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if _, err := current.client.Register(ctx, model.User{
			Name:     name,
			Username: username,
			Email:    email,
			Password: password,
			Role:     model.Role(role),
		}); err != nil {
			return err
		}
		user, err := current.client.Login(ctx, model.Credentials{Identifier: email, Password: password})
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Account created. Run `sportzone login` to sign in.")
			return nil
		}
		return remember(cmd, user)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := session.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := current.session
		if !s.LoggedIn() {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
			return nil
		}
		user := s.User
		if fresh, err := current.client.GetUser(cmd.Context(), s.UserID()); err == nil {
			user = fresh
		} else {
			current.logger.Debug("whoami: using saved profile", zap.Error(err))
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s <%s> #%d %s\n", user.Username, user.Email, user.Id, user.Role)
		if !user.Role.Is(s.User.Role) {
			fmt.Fprintln(out, "Your role changed since you signed in; run `sportzone login` to refresh it.")
		}
		if exp, ok := s.ExpiresAt(); ok {
			state := "valid until"
			if s.Expired(nowFunc()) {
				state = "expired at"
			}
			fmt.Fprintf(out, "Session %s %s\n", state, exp.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Change your display name or password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession(current)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		if strings.TrimSpace(name) == "" {
			name = s.User.Name
		}
		update := model.ProfileUpdate{Name: name}
		if changePassword, _ := cmd.Flags().GetBool("password"); changePassword {
			update.Password, err = promptText("New password", true, minLength(6))
			if err != nil {
				return err
			}
		}
		updated, err := current.client.UpdateUser(cmd.Context(), s.UserID(), update)
		if err != nil {
			return err
		}
		if err := session.Save(s.WithUser(updated)); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Profile updated for %s.\n", updated.Username)
		return nil
	},
}

func init() {
	profileCmd.Flags().String("name", "", "new display name")
	profileCmd.Flags().Bool("password", false, "prompt for a new password")
}

func remember(cmd *cobra.Command, user model.User) error {
	s := session.FromLogin(user)
	if err := session.Save(s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	name := user.Name
	if strings.TrimSpace(name) == "" {
		name = user.Username
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s (%s).\n", name, user.Role)
	return nil
}

func promptText(label string, secret bool, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: validate,
	}
	if secret {
		prompt.Mask = '*'
	}
	value, err := prompt.Run()
	if err != nil {
		return "", err
	}
	if secret {
		return value, nil
	}
	return strings.TrimSpace(value), nil
}

func required(what string) promptui.ValidateFunc {
	return func(input string) error {
		if strings.TrimSpace(input) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func minLength(n int) promptui.ValidateFunc {
	return func(input string) error {
		if len(input) < n {
			return fmt.Errorf("must be at least %d characters", n)
		}
		return nil
	}
}

func validEmail(input string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(input)); err != nil {
		return errors.New("invalid email")
	}
	return nil
}
