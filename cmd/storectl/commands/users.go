package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// User flags
	newUsername string
	newPassword string
	newRole     string
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Add a register account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, db, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		user, err := st.CreateUser(ctx, newUsername, newPassword, newRole)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) with id %d\n", user.Username, user.Role, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createUserCmd)

	createUserCmd.Flags().StringVar(&newUsername, "username", "", "Login name")
	createUserCmd.Flags().StringVar(&newPassword, "password", "", "Password")
	createUserCmd.Flags().StringVar(&newRole, "role", "staff", "admin or staff")
	createUserCmd.MarkFlagRequired("username")
	createUserCmd.MarkFlagRequired("password")
}
