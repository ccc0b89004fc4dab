package cmd

import (
	"errors"
	"fmt"

	"skillpractice/backend/services"
	"skillpractice/backend/store"
	"skillpractice/backend/utils"

	"github.com/spf13/cobra"
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account, or promote an existing one",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		input := struct {
			Username string `json:"username" validate:"required,min=3,max=32"`
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required,min=6"`
		}{username, email, password}
		if errs := utils.ValidateStruct(input); errs != nil {
			for field, msg := range errs {
				fmt.Fprintf(cmd.ErrOrStderr(), "--%s %s\n", field, msg)
			}
			return errors.New("invalid admin account")
		}

		rt, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		accounts := services.NewAccountService(store.NewUserStore(rt.db, rt.log), rt.log)
		user, created, err := accounts.EnsureAdmin(cmd.Context(), services.NewAccount{
			Username: username,
			Email:    email,
			Password: password,
		})
		if err != nil {
			return err
		}

		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "Admin %q created (id %d)\n", user.Username, user.ID)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "User %q promoted to admin (id %d)\n", user.Username, user.ID)
		}
		return nil
	},
}

func init() {
	createAdminCmd.Flags().String("username", "admin", "Admin username")
	createAdminCmd.Flags().String("email", "admin@example.com", "Admin email")
	createAdminCmd.Flags().String("password", "", "Admin password (at least 6 characters)")
}
