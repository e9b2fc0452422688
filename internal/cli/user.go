package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/plainpine/myquest/internal/service"
)

var errAdminPasswordRequired = errors.New("admin password is not configured (set ADMIN_PASSWORD)")

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the admin account if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Admin.Password == "" {
			return errAdminPasswordRequired
		}

		db, err := openBackend(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		users := service.NewUserService(db.users, service.NewBcryptHasher(0), cfg.Admin.Email)
		out := cmd.OutOrStdout()

		admin, created, err := users.EnsureUser(cmd.Context(), cfg.Admin.Email, cfg.Admin.Password, "admin", false)
		if err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
		report(out, admin.Email, created)

		studentEmail, _ := cmd.Flags().GetString("student-email")
		if studentEmail == "" {
			return nil
		}
		studentPassword, _ := cmd.Flags().GetString("student-password")
		studentNickname, _ := cmd.Flags().GetString("student-nickname")

		student, created, err := users.EnsureUser(cmd.Context(), studentEmail, studentPassword, studentNickname, false)
		if err != nil {
			return fmt.Errorf("ensure student: %w", err)
		}
		report(out, student.Email, created)

		return nil
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a user that must change the password on first login",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		nickname, _ := cmd.Flags().GetString("nickname")

		db, err := openBackend(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		users := service.NewUserService(db.users, service.NewBcryptHasher(0), cfg.Admin.Email)
		user, err := users.CreateUser(cmd.Context(), email, password, nickname)
		if err != nil {
			return err
		}

		log.Info("user created", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
		fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", user.Email, user.ID)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List user accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openBackend(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		users, err := service.NewUserService(db.users, service.NewBcryptHasher(0), cfg.Admin.Email).ListUsers(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, u := range users {
			fmt.Fprintf(out, "%s %s  %s\n", idStyle.Render(fmt.Sprintf("#%d", u.ID)), headerStyle.Render(u.Email), u.Nickname)
		}
		return nil
	},
}

func report(out io.Writer, email string, created bool) {
	if created {
		fmt.Fprintf(out, "Created %s\n", email)
		return
	}
	fmt.Fprintf(out, "%s already exists\n", email)
}

func init() {
	bootstrapCmd.Flags().String("student-email", "", "Also create a student account with this email")
	bootstrapCmd.Flags().String("student-password", "", "Initial password of the student account")
	bootstrapCmd.Flags().String("student-nickname", "", "Nickname of the student account")

	userAddCmd.Flags().String("email", "", "Email address")
	userAddCmd.Flags().String("password", "", "Initial password")
	userAddCmd.Flags().String("nickname", "", "Nickname")
	_ = userAddCmd.MarkFlagRequired("email")
	_ = userAddCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
}
