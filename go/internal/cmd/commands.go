package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcdev12/soccermanager/go/internal/desk"
	"github.com/mcdev12/soccermanager/go/internal/editing"
	"github.com/mcdev12/soccermanager/go/internal/models"
)

// opener builds the desk for one command run and returns its cleanup
type opener func(ctx context.Context) (*desk.Desk, func(), error)

// runner opens the desk before a subcommand runs and closes it afterwards
type runner struct {
	open  opener
	desk  *desk.Desk
	close func()
}

func (r *runner) start(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "help" {
		return nil
	}
	d, cleanup, err := r.open(cmd.Context())
	if err != nil {
		return err
	}
	r.desk, r.close = d, cleanup
	return nil
}

func (r *runner) stop() {
	if r.close != nil {
		r.close()
		r.close = nil
	}
}

// newRootCmd builds the command tree. The returned func releases the desk
// and must run after Execute returns.
func newRootCmd(open opener) (*cobra.Command, func()) {
	r := &runner{open: open}

	root := &cobra.Command{
		Use:               "soccermanager",
		Short:             "Manage your soccer team and trade players on the transfer market",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.start,
	}
	root.AddCommand(
		loginCmd(r),
		registerCmd(r),
		logoutCmd(r),
		teamCmd(r),
		marketCmd(r),
		listCmd(r),
		repriceCmd(r),
		unlistCmd(r),
		buyCmd(r),
		editTeamCmd(r),
		editPlayerCmd(r),
		meCmd(r),
		deleteAccountCmd(r),
	)
	return root, r.stop
}

func loginCmd(r *runner) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and show your team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := r.desk.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			renderTeam(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func registerCmd(r *runner) *cobra.Command {
	var reg models.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account with a generated team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := r.desk.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			renderTeam(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().StringVar(&reg.Email, "email", "", "account email")
	cmd.Flags().StringVar(&reg.Password, "password", "", "account password")
	cmd.Flags().StringVar(&reg.FullName, "name", "", "full name")
	return cmd
}

func logoutCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.desk.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func teamCmd(r *runner) *cobra.Command {
	var (
		sortKey string
		desc    bool
	)
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Show your team and player statuses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := r.desk.Refresh(cmd.Context()); err != nil {
				return err
			}
			dir := models.SortAsc
			if desc {
				dir = models.SortDesc
			}
			view, err := r.desk.SortRoster(models.SortKey(sortKey), dir)
			if err != nil {
				return err
			}
			renderTeam(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().StringVar(&sortKey, "sort", string(models.SortKeyPosition), "column to sort players by: "+sortKeyList())
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}

func marketCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "market",
		Short: "Show the transfer market",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := r.desk.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			renderMarket(cmd.OutOrStdout(), view)
			return nil
		},
	}
}

func listCmd(r *runner) *cobra.Command {
	var (
		playerID int64
		price    string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Put one of your players on the transfer list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := r.desk.List(cmd.Context(), playerID, price)
			if err != nil {
				return err
			}
			renderMarket(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().Int64Var(&playerID, "player", 0, "player id")
	cmd.Flags().StringVar(&price, "price", "", "ask price")
	_ = cmd.MarkFlagRequired("player")
	return cmd
}

func repriceCmd(r *runner) *cobra.Command {
	var (
		listingID int64
		price     string
	)
	cmd := &cobra.Command{
		Use:   "reprice",
		Short: "Change the ask price of your listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := r.desk.Reprice(cmd.Context(), listingID, price)
			if err != nil {
				return err
			}
			renderMarket(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().Int64Var(&listingID, "listing", 0, "listing id")
	cmd.Flags().StringVar(&price, "price", "", "new ask price")
	_ = cmd.MarkFlagRequired("listing")
	return cmd
}

func unlistCmd(r *runner) *cobra.Command {
	var listingID int64
	cmd := &cobra.Command{
		Use:   "unlist",
		Short: "Remove your player from the transfer list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := r.desk.Unlist(cmd.Context(), listingID)
			if err != nil {
				return err
			}
			renderMarket(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().Int64Var(&listingID, "listing", 0, "listing id")
	_ = cmd.MarkFlagRequired("listing")
	return cmd
}

func buyCmd(r *runner) *cobra.Command {
	var listingID int64
	cmd := &cobra.Command{
		Use:   "buy",
		Short: "Buy a player from another team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := r.desk.Buy(cmd.Context(), listingID)
			if err != nil {
				return err
			}
			renderTeam(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().Int64Var(&listingID, "listing", 0, "listing id")
	_ = cmd.MarkFlagRequired("listing")
	return cmd
}

func editTeamCmd(r *runner) *cobra.Command {
	var name, country string
	cmd := &cobra.Command{
		Use:   "edit-team",
		Short: "Rename your team or change its country",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := r.desk.Refresh(ctx); err != nil {
				return err
			}
			if err := r.desk.StartTeamEdit(); err != nil {
				return err
			}
			if err := r.desk.EditTeam(func(f *editing.TeamFields) {
				if cmd.Flags().Changed("name") {
					f.Name = name
				}
				if cmd.Flags().Changed("country") {
					f.Country = country
				}
			}); err != nil {
				return err
			}

			view, err := r.desk.SaveEdit(ctx)
			if err != nil {
				return err
			}
			renderTeam(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "team name")
	cmd.Flags().StringVar(&country, "country", "", "team country")
	return cmd
}

func editPlayerCmd(r *runner) *cobra.Command {
	var (
		playerID             int64
		first, last, country string
		position             string
		age                  int
	)
	cmd := &cobra.Command{
		Use:   "edit-player",
		Short: "Edit one of your players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			changed := cmd.Flags().Changed
			if _, err := r.desk.Refresh(ctx); err != nil {
				return err
			}
			if err := r.desk.StartPlayerEdit(playerID); err != nil {
				return err
			}
			if err := r.desk.EditPlayer(func(f *editing.PlayerFields) {
				if changed("first") {
					f.FirstName = first
				}
				if changed("last") {
					f.LastName = last
				}
				if changed("country") {
					f.Country = country
				}
				if changed("age") {
					f.Age = age
				}
				if changed("position") {
					f.Position = models.Position(strings.ToUpper(position))
				}
			}); err != nil {
				return err
			}

			view, err := r.desk.SaveEdit(ctx)
			if err != nil {
				return err
			}
			renderTeam(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().Int64Var(&playerID, "player", 0, "player id")
	cmd.Flags().StringVar(&first, "first", "", "first name")
	cmd.Flags().StringVar(&last, "last", "", "last name")
	cmd.Flags().StringVar(&country, "country", "", "country")
	cmd.Flags().IntVar(&age, "age", 0, "age")
	cmd.Flags().StringVar(&position, "position", "", "GOALKEEPER, DEFENDER, MIDFIELDER or ATTACKER")
	_ = cmd.MarkFlagRequired("player")
	return cmd
}

func meCmd(r *runner) *cobra.Command {
	var email, name, password string
	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show or update your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			changed := cmd.Flags().Changed

			var update models.UserUpdate
			if changed("email") {
				update.Email = &email
			}
			if changed("name") {
				update.FullName = &name
			}
			if changed("password") {
				update.Password = &password
			}

			var (
				user *models.User
				err  error
			)
			if cmd.Flags().NFlag() == 0 {
				user, err = r.desk.Me(ctx)
			} else {
				user, err = r.desk.UpdateMe(ctx, update)
			}
			if err != nil {
				return err
			}
			renderUser(cmd.OutOrStdout(), user)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "new email")
	cmd.Flags().StringVar(&name, "name", "", "new full name")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	return cmd
}

func deleteAccountCmd(r *runner) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Delete your account and team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to delete the account without --yes")
			}
			if err := r.desk.DeleteAccount(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account deleted.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion of the account, its team and players")
	return cmd
}

func sortKeyList() string {
	keys := make([]string, len(models.SortKeys))
	for i, k := range models.SortKeys {
		keys[i] = string(k)
	}
	return strings.Join(keys, ", ")
}
