package main

import (
	"fmt"
	"os"

	"github.com/dangerclosesec/greenhug/internal/auth"
	"github.com/dangerclosesec/greenhug/internal/config"
	"github.com/dangerclosesec/greenhug/internal/database"
	"github.com/dangerclosesec/greenhug/internal/repository"
	"github.com/dangerclosesec/greenhug/internal/service"
	"github.com/spf13/cobra"
)

const adminPasswordEnv = "GREENHUG_ADMIN_PASSWORD"

func newSetupAdminCmd() *cobra.Command {
	var name, password string

	cmd := &cobra.Command{
		Use:   "setup-admin",
		Short: "Create the first SUPER_ADMIN user",
		Long: "Creates the first SUPER_ADMIN user. Refused once any user exists. " +
			"The password may be passed in " + adminPasswordEnv + " instead of --password.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(adminPasswordEnv)
			}
			if password == "" {
				return fmt.Errorf("a password is required (--password or %s)", adminPasswordEnv)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			db, err := database.Open(cfg)
			if err != nil {
				return err
			}

			userService := service.NewUserService(
				repository.NewUserRepository(db),
				repository.NewGormTransactor(db),
				auth.NewPasswordHasher(),
				nil,
			)

			user, err := userService.SetupAdmin(cmd.Context(), name, password)
			if err != nil {
				return fmt.Errorf("creating admin: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.Role, user.Name, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "admin", "User name of the super admin")
	cmd.Flags().StringVar(&password, "password", "", "Password of the super admin")

	return cmd
}
